package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"go.opentelemetry.io/otel"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/tracing"
)

const (
	DeviceKeyHeader string = "x-api-key"
	RoleClaim       string = "role"
	AdminRole       string = "admin"
)

var tracer = otel.Tracer("iot-alerting/authz")

// RequireDeviceKey only lets requests through that carry apiKey in the
// x-api-key header. A server without a configured key rejects every device.
func RequireDeviceKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error

			logger := logging.GetFromContext(r.Context())

			_, span := tracer.Start(r.Context(), "check-device-key")
			defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

			if apiKey == "" {
				err = errors.New("device api key is not configured")
				logger.Error().Err(err).Msg("unable to authenticate device")
				writeDetail(w, http.StatusInternalServerError, "Device API key is not configured")
				return
			}

			key := r.Header.Get(DeviceKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				err = errors.New("invalid device api key")
				logger.Warn().Str("remote_addr", r.RemoteAddr).Msg(err.Error())
				writeDetail(w, http.StatusUnauthorized, "Invalid device API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Authenticator verifies HS256 bearer tokens signed with secret.
type Authenticator struct {
	ja *jwtauth.JWTAuth
}

func NewAuthenticator(secret string) *Authenticator {
	if secret == "" {
		return &Authenticator{}
	}

	return &Authenticator{
		ja: jwtauth.New("HS256", []byte(secret), nil),
	}
}

// RequireUser rejects requests without a valid token.
func (a *Authenticator) RequireUser(r chi.Router) {
	if a.ja == nil {
		r.Use(rejectAll)
		return
	}

	r.Use(jwtauth.Verifier(a.ja))
	r.Use(jwtauth.Authenticator)
}

// RequireAdmin must be used after RequireUser and checks the role claim.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		role, _ := claims[RoleClaim].(string)
		if role != AdminRole {
			logger := logging.GetFromContext(r.Context())
			logger.Warn().Str("role", role).Msg("admin access denied")
			writeDetail(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Token issues a signed token with the given claims. It is used by tooling
// and tests, the service itself never hands out tokens.
func (a *Authenticator) Token(claims map[string]any) (string, error) {
	if a.ja == nil {
		return "", errors.New("no jwt secret configured")
	}

	_, token, err := a.ja.Encode(claims)
	return token, err
}

func rejectAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"detail":"` + detail + `"}`))
}
