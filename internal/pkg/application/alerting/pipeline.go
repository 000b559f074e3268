package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"

	"github.com/smartdetector/iot-alerting/internal/pkg/application/broadcast"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/enrichment"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/telemetry"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/tracing"
	"github.com/smartdetector/iot-alerting/pkg/types"
)

//go:generate moq -rm -out ingester_mock.go . Ingester

type Ingester interface {
	Ingest(ctx context.Context, t types.Telemetry, raw []byte) (Outcome, error)
}

//go:generate moq -rm -out notifier_mock.go . Notifier

// Notifier forwards alerts that survived the debounce gate to external systems.
type Notifier interface {
	Notify(ctx context.Context, msg *types.AlertCreated) error
}

const historySize int = 10

var tracer = otel.Tracer("iot-alerting/alerting")

type Pipeline struct {
	telemetry   telemetry.TelemetryRepository
	alerts      alerts.AlertRepository
	duplicates  *DuplicateDetector
	debounce    *DebounceGate
	enricher    enrichment.Enricher
	broadcaster broadcast.Broadcaster
	notifier    Notifier
	window      time.Duration
	now         func() time.Time
}

type Option func(*Pipeline)

func WithEnricher(e enrichment.Enricher) Option {
	return func(p *Pipeline) {
		p.enricher = e
	}
}

func WithBroadcaster(b broadcast.Broadcaster) Option {
	return func(p *Pipeline) {
		p.broadcaster = b
	}
}

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) {
		p.notifier = n
	}
}

func WithDebounceWindow(window time.Duration) Option {
	return func(p *Pipeline) {
		p.window = window
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func NewPipeline(t telemetry.TelemetryRepository, a alerts.AlertRepository, opts ...Option) *Pipeline {
	p := &Pipeline{
		telemetry:   t,
		alerts:      a,
		enricher:    enrichment.New(enrichment.Config{}),
		broadcaster: nopBroadcaster{},
		notifier:    nopNotifier{},
		window:      DefaultDebounceWindow,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.duplicates = NewDuplicateDetector(t)
	p.debounce = NewDebounceGate(a, p.window, p.now)

	return p
}

// Ingest runs one reading through the pipeline and returns its terminal
// outcome. The steps run strictly in order and each request ends in exactly
// one outcome or one error wrapping ErrValidation or ErrPersistence.
func (p *Pipeline) Ingest(ctx context.Context, t types.Telemetry, raw []byte) (outcome Outcome, err error) {
	ctx, span := tracer.Start(ctx, "ingest")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := logging.GetFromContext(ctx).With().Str("device_id", t.DeviceID).Logger()
	ctx = logging.NewContextWithLogger(ctx, logger)

	reading, err := newReading(t)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		raw, _ = json.Marshal(t)
	}

	isDuplicate, err := p.duplicates.IsDuplicate(ctx, reading.DeviceID, reading.Timestamp)
	if err != nil {
		return nil, persistenceError("duplicate check", err)
	}

	if isDuplicate {
		return p.recordDuplicate(ctx, reading, raw)
	}

	err = p.telemetry.Add(ctx, &reading)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			logger.Debug().Msg("lost insert race, recording reading as duplicate")
			return p.recordDuplicate(ctx, reading, raw)
		}
		return nil, persistenceError("store reading", err)
	}

	severity := Classify(reading.MQ3)
	if severity == SeveritySafe {
		return Safe{MQ3: reading.MQ3}, nil
	}

	existing, err := p.alerts.Get(ctx, reading.DeviceID, reading.Timestamp)
	if err == nil {
		return AlertExists{Alert: existing}, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, persistenceError("alert lookup", err)
	}

	explanation := p.explain(ctx, reading, t.Timestamp, severity)
	explanation.Severity = string(severity)

	notified := true
	if severity == SeverityHigh {
		suppress, err := p.debounce.ShouldSuppress(ctx, reading.DeviceID, severity)
		if err != nil {
			return nil, persistenceError("debounce check", err)
		}
		notified = !suppress
	}

	alert := alerts.Alert{
		DeviceID:          reading.DeviceID,
		Timestamp:         reading.Timestamp,
		Severity:          explanation.Severity,
		ShortMessage:      explanation.ShortMessage,
		Explanation:       explanation.Explanation,
		RecommendedAction: explanation.RecommendedAction,
		Confidence:        explanation.Confidence,
		MQ3:               reading.MQ3,
		MQ135:             reading.MQ135,
		Lat:               reading.Lat,
		Lon:               reading.Lon,
		Alt:               reading.Alt,
		Notified:          notified,
		CreatedAt:         p.now().UTC(),
	}

	err = p.alerts.Add(ctx, &alert)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			existing, getErr := p.alerts.Get(ctx, reading.DeviceID, reading.Timestamp)
			if getErr == nil {
				return AlertExists{Alert: existing}, nil
			}
		}
		return nil, persistenceError("store alert", err)
	}

	logger.Info().Str("severity", alert.Severity).Bool("notified", alert.Notified).Msgf("alert %d created", alert.ID)

	p.publish(ctx, alert)

	return AlertCreated{Alert: alert}, nil
}

func (p *Pipeline) recordDuplicate(ctx context.Context, reading telemetry.Reading, raw []byte) (Outcome, error) {
	d, err := p.duplicates.Record(ctx, reading.DeviceID, reading.Timestamp, raw)
	if err != nil {
		return nil, persistenceError("record duplicate", err)
	}
	return d, nil
}

// explain asks the enrichment service for prose and falls back to the local
// templates on any failure.
func (p *Pipeline) explain(ctx context.Context, reading telemetry.Reading, timestamp string, severity Severity) enrichment.Explanation {
	logger := logging.GetFromContext(ctx)

	recent, err := p.telemetry.Recent(ctx, reading.DeviceID, reading.ID, historySize)
	if err != nil {
		logger.Warn().Err(err).Msg("could not load recent history")
		recent = []telemetry.Reading{}
	}

	req := enrichment.Request{
		DeviceID:    reading.DeviceID,
		Timestamp:   timestamp,
		MQ3:         reading.MQ3,
		MQ135:       reading.MQ135,
		TempC:       reading.TempC,
		HumidityPct: reading.HumidityPct,
		Lat:         reading.Lat,
		Lon:         reading.Lon,
		History: lo.Map(recent, func(r telemetry.Reading, _ int) enrichment.HistoryItem {
			return enrichment.HistoryItem{
				DeviceID:    r.DeviceID,
				Timestamp:   broadcast.FormatTime(r.Timestamp),
				MQ3:         r.MQ3,
				MQ135:       r.MQ135,
				TempC:       r.TempC,
				HumidityPct: r.HumidityPct,
				Lat:         r.Lat,
				Lon:         r.Lon,
			}
		}),
	}

	explanation, err := p.enricher.Enrich(ctx, req)
	if err != nil {
		if errors.Is(err, enrichment.ErrNotConfigured) {
			logger.Debug().Msg("enrichment disabled, using fallback")
		} else {
			logger.Warn().Err(err).Msg("enrichment failed, using fallback")
		}
		return Fallback(severity, reading.MQ3, reading.MQ135)
	}

	return explanation
}

func (p *Pipeline) publish(ctx context.Context, alert alerts.Alert) {
	logger := logging.GetFromContext(ctx)

	p.broadcaster.Broadcast(ctx, broadcast.NewAlertEvent(alert))

	if !alert.Notified {
		return
	}

	err := p.notifier.Notify(ctx, &types.AlertCreated{
		AlertID:      alert.ID,
		DeviceID:     alert.DeviceID,
		Severity:     alert.Severity,
		ShortMessage: alert.ShortMessage,
		MQ3:          alert.MQ3,
		MQ135:        alert.MQ135,
		Lat:          alert.Lat,
		Lon:          alert.Lon,
		Timestamp:    alert.Timestamp,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to notify subscribers about new alert")
	}
}

func newReading(t types.Telemetry) (telemetry.Reading, error) {
	if t.DeviceID == "" {
		return telemetry.Reading{}, fmt.Errorf("%w: device_id is required", ErrValidation)
	}

	if t.Sensors.MQ3 == nil || t.Sensors.MQ135 == nil {
		return telemetry.Reading{}, fmt.Errorf("%w: sensors.mq3 and sensors.mq135 are required", ErrValidation)
	}

	ts, err := ParseTimestamp(t.Timestamp)
	if err != nil {
		return telemetry.Reading{}, err
	}

	r := telemetry.Reading{
		DeviceID:    t.DeviceID,
		Timestamp:   ts,
		MQ3:         *t.Sensors.MQ3,
		MQ135:       *t.Sensors.MQ135,
		TempC:       t.Sensors.TempC,
		HumidityPct: t.Sensors.HumidityPct,
	}

	if t.GPS != nil {
		lat, lon := t.GPS.Lat, t.GPS.Lon
		r.Lat = &lat
		r.Lon = &lon
		r.Alt = t.GPS.Alt
	}

	return r, nil
}

func persistenceError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, step, err)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(context.Context, broadcast.Event) {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, *types.AlertCreated) error { return nil }
