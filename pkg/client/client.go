package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/tracing"
	"github.com/smartdetector/iot-alerting/pkg/types"
)

// TelemetryClient is used by devices, or gateways acting on their behalf, to
// push readings to the alerting service.
type TelemetryClient interface {
	Send(ctx context.Context, t types.Telemetry) (*types.IngestResponse, error)
}

var ErrUnauthorized = errors.New("device api key was rejected")
var ErrRejected = errors.New("telemetry was rejected")

type telemetryClient struct {
	url        string
	apiKey     string
	httpClient http.Client
}

var tracer = otel.Tracer("iot-alerting-client")

func NewTelemetryClient(serviceURL, apiKey string) TelemetryClient {
	return &telemetryClient{
		url:    strings.TrimSuffix(serviceURL, "/"),
		apiKey: apiKey,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

func (c *telemetryClient) Send(ctx context.Context, t types.Telemetry) (*types.IngestResponse, error) {
	var err error
	ctx, span := tracer.Start(ctx, "send-telemetry")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	body, err := json.Marshal(t)
	if err != nil {
		err = fmt.Errorf("failed to marshal telemetry: %w", err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/v1/telemetry", bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("failed to create http request: %w", err)
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to post telemetry: %w", err)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response body: %w", err)
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		err = ErrUnauthorized
		return nil, err
	case resp.StatusCode == http.StatusBadRequest:
		err = fmt.Errorf("%w: %s", ErrRejected, detail(respBody))
		return nil, err
	case resp.StatusCode != http.StatusOK:
		err = fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, detail(respBody))
		return nil, err
	}

	result := &types.IngestResponse{}

	err = json.Unmarshal(respBody, result)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
		return nil, err
	}

	log.Debug().Str("device_id", t.DeviceID).Str("status", result.Status).Msg("telemetry delivered")

	return result, nil
}

func detail(body []byte) string {
	d := struct {
		Detail string `json:"detail"`
	}{}

	if err := json.Unmarshal(body, &d); err != nil || d.Detail == "" {
		return string(body)
	}

	return d.Detail
}
