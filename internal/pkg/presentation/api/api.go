package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartdetector/iot-alerting/internal/pkg/application/alerting"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/health"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/settings"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/telemetry"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/tracing"
	"github.com/smartdetector/iot-alerting/internal/pkg/presentation/api/auth"
	"github.com/smartdetector/iot-alerting/pkg/types"
)

const maxTelemetryBodySize int64 = 64 * 1024

var tracer = otel.Tracer("iot-alerting/api")

type Config struct {
	DeviceAPIKey string
	JWTSecret    string
	Version      string
}

// Dependencies are the collaborators the handlers are wired to. All of them
// are created and owned by the composition root.
type Dependencies struct {
	Ingester    alerting.Ingester
	Subscribers SubscriberRegistry
	WebEvents   http.Handler
	Liveness    *health.Liveness
	Telemetry   telemetry.TelemetryRepository
	Alerts      alerts.AlertRepository
	Settings    settings.SettingsRepository
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, cfg Config, deps Dependencies) (*chi.Mux, error) {
	if deps.Ingester == nil || deps.Subscribers == nil || deps.Liveness == nil {
		return nil, fmt.Errorf("ingester, subscribers and liveness are required")
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log := logging.GetFromContext(ctx)

	authenticator := auth.NewAuthenticator(cfg.JWTSecret)

	router.Get("/ws/alerts", alertStreamHandler(log, deps.Subscribers))

	router.Route("/api/v1", func(r chi.Router) {
		r.With(auth.RequireDeviceKey(cfg.DeviceAPIKey)).
			Post("/telemetry", ingestTelemetryHandler(log, deps.Ingester, deps.Liveness))

		r.Get("/about", aboutHandler(cfg.Version))
		r.Get("/health/connected", connectionStatusHandler(deps.Liveness, deps.Subscribers))

		if deps.WebEvents != nil {
			r.Get("/events", deps.WebEvents.ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			authenticator.RequireUser(r)

			r.Get("/telemetry", queryTelemetryHandler(log, deps.Telemetry))
			r.Get("/alerts", queryAlertsHandler(log, deps.Alerts))
			r.Get("/device-settings/{deviceID}", getDeviceSettingsHandler(log, deps.Settings))

			r.Route("/duplicates", func(r chi.Router) {
				r.Get("/", queryDuplicatesHandler(log, deps.Telemetry))
				r.Get("/{duplicateID}", getDuplicateHandler(log, deps.Telemetry))

				r.With(authenticator.RequireAdmin).Post("/merge", mergeDuplicatesHandler(log, deps.Telemetry))
				r.With(authenticator.RequireAdmin).Post("/ignore", ignoreDuplicatesHandler(log, deps.Telemetry))
			})

			r.With(authenticator.RequireAdmin).
				Post("/device-settings/{deviceID}", updateDeviceSettingsHandler(log, deps.Settings))
		})
	})

	return router, nil
}

func ingestTelemetryHandler(log zerolog.Logger, ingester alerting.Ingester, liveness *health.Liveness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "ingest-telemetry")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTelemetryBodySize))
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to read body")
			writeDetail(w, http.StatusBadRequest, "Unable to read request body")
			return
		}

		var t types.Telemetry
		err = json.Unmarshal(body, &t)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to unmarshal body")
			writeDetail(w, http.StatusBadRequest, "Malformed telemetry document")
			return
		}

		liveness.TelemetryReceived()

		outcome, err := ingester.Ingest(ctx, t, body)
		if err != nil {
			if errors.Is(err, alerting.ErrValidation) {
				requestLogger.Info().Err(err).Str("device_id", t.DeviceID).Msg("rejected telemetry")
				writeDetail(w, http.StatusBadRequest, err.Error())
				return
			}

			requestLogger.Error().Err(err).Str("device_id", t.DeviceID).Msg("unable to ingest telemetry")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		b, err := json.Marshal(outcome)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to marshal outcome")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, b)
	}
}

func queryAlertsHandler(log zerolog.Logger, repo alerts.AlertRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-alerts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params := r.URL.Query()

		q := alerts.AlertQuery{
			DeviceID: params.Get("device_id"),
			Severity: strings.ToUpper(params.Get("severity")),
		}

		q.Offset, q.Limit, err = paging(params.Get("offset"), params.Get("limit"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		if latOnly := params.Get("lat_only"); latOnly != "" {
			q.GeoOnly, err = strconv.ParseBool(latOnly)
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "Invalid lat_only value")
				return
			}
		}

		result, err := repo.Query(ctx, q)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to fetch alerts")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		m := &meta{
			TotalRecords: result.TotalCount,
			Offset:       &result.Offset,
			Limit:        &result.Limit,
			Count:        result.Count,
		}

		if wantsGeoJSON(r) {
			fc := NewFeatureCollectionWithAlerts(result.Data)
			fc.Meta = m

			b, err := json.Marshal(fc)
			if err != nil {
				requestLogger.Error().Err(err).Msg("unable to marshal feature collection")
				writeDetail(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			w.Header().Set("Content-Type", "application/geo+json")
			w.WriteHeader(http.StatusOK)
			w.Write(b)
			return
		}

		writeJSON(w, http.StatusOK, ApiResponse{Meta: m, Data: result.Data}.Byte())
	}
}

func queryTelemetryHandler(log zerolog.Logger, repo telemetry.TelemetryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-telemetry")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		_, limit, err := paging("", r.URL.Query().Get("limit"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		readings, err := repo.Query(ctx, r.URL.Query().Get("device_id"), limit)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to fetch telemetry")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		count := uint64(len(readings))
		writeJSON(w, http.StatusOK, ApiResponse{
			Meta: &meta{TotalRecords: count, Count: count},
			Data: readings,
		}.Byte())
	}
}

func getDeviceSettingsHandler(log zerolog.Logger, repo settings.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-device-settings")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		deviceID := chi.URLParam(r, "deviceID")

		s, err := repo.GetOrCreate(ctx, deviceID)
		if err != nil {
			requestLogger.Error().Err(err).Str("device_id", deviceID).Msg("unable to fetch device settings")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		b, _ := json.Marshal(s)
		writeJSON(w, http.StatusOK, b)
	}
}

func updateDeviceSettingsHandler(log zerolog.Logger, repo settings.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "update-device-settings")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		deviceID := chi.URLParam(r, "deviceID")
		requestLogger = requestLogger.With().Str("device_id", deviceID).Logger()

		var u settings.Update
		err = json.NewDecoder(r.Body).Decode(&u)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to unmarshal body")
			writeDetail(w, http.StatusBadRequest, "Malformed settings document")
			return
		}

		s, err := repo.Update(ctx, deviceID, u)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to update device settings")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		requestLogger.Info().Msg("device settings updated")

		b, _ := json.Marshal(s)
		writeJSON(w, http.StatusOK, b)
	}
}

func queryDuplicatesHandler(log zerolog.Logger, repo telemetry.TelemetryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-duplicates")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		params := r.URL.Query()

		q := telemetry.DuplicateQuery{DeviceID: params.Get("device_id")}

		q.Offset, q.Limit, err = paging(params.Get("offset"), params.Get("limit"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		for _, bound := range []struct {
			name string
			dst  **time.Time
		}{{"from_ts", &q.From}, {"to_ts", &q.To}} {
			if v := params.Get(bound.name); v != "" {
				ts, err := alerting.ParseTimestamp(v)
				if err != nil {
					writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", bound.name))
					return
				}
				*bound.dst = &ts
			}
		}

		result, err := repo.QueryDuplicates(ctx, q)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to fetch duplicates")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		resp := duplicatesResponse{
			Total:      result.TotalCount,
			Limit:      result.Limit,
			Offset:     result.Offset,
			Duplicates: make([]duplicateGroupResponse, 0, len(result.Data)),
		}

		for _, g := range result.Data {
			resp.Duplicates = append(resp.Duplicates, newDuplicateGroupResponse(g))
		}

		b, _ := json.Marshal(resp)
		writeJSON(w, http.StatusOK, b)
	}
}

func getDuplicateHandler(log zerolog.Logger, repo telemetry.TelemetryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-duplicate")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		id, err := strconv.ParseUint(chi.URLParam(r, "duplicateID"), 10, 64)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid duplicate id")
			return
		}

		d, err := repo.GetDuplicate(ctx, uint(id))
		if errors.Is(err, database.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Duplicate not found")
			return
		}
		if err != nil {
			requestLogger.Error().Err(err).Uint64("duplicate_id", id).Msg("unable to fetch duplicate")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		var original *telemetry.Reading

		reading, err := repo.GetByID(ctx, d.OriginalID)
		if err == nil {
			original = &reading
		} else if !errors.Is(err, database.ErrNotFound) {
			requestLogger.Error().Err(err).Msg("unable to fetch original telemetry")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		err = nil

		b, _ := json.Marshal(newDuplicateDetailResponse(d, original))
		writeJSON(w, http.StatusOK, b)
	}
}

func mergeDuplicatesHandler(log zerolog.Logger, repo telemetry.TelemetryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "merge-duplicates")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		var req mergeRequest
		err = json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.OriginalID == 0 || len(req.DuplicateIDs) == 0 {
			writeDetail(w, http.StatusBadRequest, "original_id and duplicate_ids required")
			return
		}

		merged, err := repo.MergeDuplicates(ctx, req.OriginalID, req.DuplicateIDs)
		if errors.Is(err, database.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Original telemetry not found")
			return
		}
		if errors.Is(err, telemetry.ErrDuplicateMismatch) {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to merge duplicates")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		requestLogger.Info().Uint("original_id", req.OriginalID).Int("merged", merged).Msg("duplicates merged")

		b, _ := json.Marshal(mergeResponse{
			Message:     fmt.Sprintf("Successfully merged %d duplicate(s)", merged),
			OriginalID:  req.OriginalID,
			MergedCount: merged,
		})
		writeJSON(w, http.StatusOK, b)
	}
}

func ignoreDuplicatesHandler(log zerolog.Logger, repo telemetry.TelemetryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "ignore-duplicates")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := logging.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		var req ignoreRequest
		err = json.NewDecoder(r.Body).Decode(&req)
		if err != nil || len(req.IDs) == 0 {
			writeDetail(w, http.StatusBadRequest, "ids array required")
			return
		}

		ignored, err := repo.IgnoreDuplicates(ctx, req.IDs)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to ignore duplicates")
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		b, _ := json.Marshal(ignoreResponse{
			Message:      fmt.Sprintf("Successfully ignored %d duplicate(s)", ignored),
			IgnoredCount: ignored,
		})
		writeJSON(w, http.StatusOK, b)
	}
}

func aboutHandler(version string) http.HandlerFunc {
	if version == "" {
		version = "1.0.0"
	}

	about := types.About{
		SystemName:  "Smart Drug Detector",
		Version:     version,
		Description: "A real-time drug vapor detection system using MQ3 and MQ135 sensors with AI-powered analysis.",
	}

	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := json.Marshal(about)
		writeJSON(w, http.StatusOK, b)
	}
}

func connectionStatusHandler(liveness *health.Liveness, subscribers SubscriberRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := json.Marshal(liveness.Status(subscribers.Count()))
		writeJSON(w, http.StatusOK, b)
	}
}

const (
	defaultPageSize int = 50
	maxPageSize     int = 1000
)

func paging(offsetParam, limitParam string) (offset, limit int, err error) {
	limit = defaultPageSize

	if offsetParam != "" {
		offset, err = strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non negative integer")
		}
	}

	if limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, fmt.Errorf("limit must be an integer between 1 and %d", maxPageSize)
		}
	}

	return offset, limit, nil
}

func wantsGeoJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/geo+json") || r.URL.Query().Get("format") == "geojson"
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	b, _ := json.Marshal(detailResponse{Detail: detail})
	writeJSON(w, status, b)
}
