package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/smartdetector/iot-alerting/internal/pkg/application/broadcast"
	"github.com/smartdetector/iot-alerting/internal/pkg/application/enrichment"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/settings"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/telemetry"
	"github.com/smartdetector/iot-alerting/pkg/types"
)

func TestClassify(t *testing.T) {
	is := is.New(t)

	cases := map[int]Severity{
		math.MinInt: SeveritySafe,
		-1:          SeveritySafe,
		0:           SeveritySafe,
		349:         SeveritySafe,
		350:         SeverityWarning,
		499:         SeverityWarning,
		500:         SeverityHigh,
		600:         SeverityHigh,
		math.MaxInt: SeverityHigh,
	}

	for v, expected := range cases {
		is.Equal(Classify(v), expected)
	}
}

func TestThatDefaultDeviceSettingsUseTheClassificationThresholds(t *testing.T) {
	is := is.New(t)

	is.Equal(settings.DefaultMQ3Safe, LowThreshold)
	is.Equal(settings.DefaultMQ3Warning, HighThreshold)
	is.Equal(settings.DefaultMQ3Danger, HighThreshold)
}

func TestParseTimestamp(t *testing.T) {
	is := is.New(t)
	expected := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, v := range []string{
		"2024-05-01T12:00:00Z",
		"2024-05-01T14:00:00+02:00",
		"2024-05-01T12:00:00",
		"2024-05-01 12:00:00",
		"2024-05-01T12:00:00.000Z",
	} {
		ts, err := ParseTimestamp(v)
		is.NoErr(err)
		is.True(ts.Equal(expected))
		is.Equal(ts.Location(), time.UTC)
	}

	ts, err := ParseTimestamp("2024-05-01T12:00:00.123456Z")
	is.NoErr(err)
	is.Equal(ts.Nanosecond(), 123456000)

	for _, v := range []string{"", "yesterday", "2024-13-01T00:00:00Z", "01/05/2024 12:00"} {
		_, err := ParseTimestamp(v)
		is.True(errors.Is(err, ErrValidation))
	}
}

func TestFallback(t *testing.T) {
	is := is.New(t)

	high := Fallback(SeverityHigh, 600, 210)
	is.Equal(high.ShortMessage, "High drug vapor levels detected (MQ3: 600, MQ135: 210)")
	is.Equal(high.RecommendedAction, "Evacuate area and contact authorities immediately")
	is.Equal(high.Confidence, "medium")

	warning := Fallback(SeverityWarning, 400, 210)
	is.Equal(warning.ShortMessage, "Possible drug vapor detected (MQ3: 400, MQ135: 210)")
	is.Equal(warning.Confidence, "medium")

	safe := Fallback(SeveritySafe, 100, 210)
	is.Equal(safe.ShortMessage, "Air quality within normal limits")
	is.Equal(safe.RecommendedAction, "Continue monitoring")
}

func TestThatInvalidTelemetryIsRejected(t *testing.T) {
	is, ctx, p, _, _ := testSetup(t)

	noTimestamp := newTelemetry("device-01", "not a timestamp", 600)
	_, err := p.Ingest(ctx, noTimestamp, nil)
	is.True(errors.Is(err, ErrValidation))

	noSensors := types.Telemetry{DeviceID: "device-01", Timestamp: "2024-05-01T12:00:00Z"}
	_, err = p.Ingest(ctx, noSensors, nil)
	is.True(errors.Is(err, ErrValidation))

	noDevice := newTelemetry("", "2024-05-01T12:00:00Z", 600)
	_, err = p.Ingest(ctx, noDevice, nil)
	is.True(errors.Is(err, ErrValidation))
}

func TestThatSafeReadingsNeverCreateAlerts(t *testing.T) {
	b := &recordingBroadcaster{}
	is, ctx, p, _, ar := testSetup(t, WithBroadcaster(b))

	for i := 0; i < 3; i++ {
		ts := fmt.Sprintf("2024-05-01T12:00:0%dZ", i)
		outcome, err := p.Ingest(ctx, newTelemetry("device-01", ts, 349), nil)
		is.NoErr(err)
		is.Equal(outcome, Safe{MQ3: 349})
	}

	c, err := ar.Query(ctx, alerts.AlertQuery{})
	is.NoErr(err)
	is.Equal(c.TotalCount, uint64(0))
	is.Equal(len(b.get()), 0)
}

func TestThatRepeatedSubmissionIsRecordedAsDuplicate(t *testing.T) {
	is, ctx, p, tr, _ := testSetup(t)

	tm := newTelemetry("device-01", "2024-05-01T12:00:00Z", 100)
	raw := []byte(`{"device_id": "device-01", "timestamp": "2024-05-01T12:00:00Z", "sensors": {"mq3": 100, "mq135": 210}}`)

	_, err := p.Ingest(ctx, tm, raw)
	is.NoErr(err)

	outcome, err := p.Ingest(ctx, tm, raw)
	is.NoErr(err)

	d, ok := outcome.(Duplicate)
	is.True(ok)

	original, err := tr.Get(ctx, "device-01", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	is.NoErr(err)
	is.Equal(d.OriginalID, original.ID)

	stored, err := tr.GetDuplicate(ctx, d.DuplicateID)
	is.NoErr(err)
	is.Equal(stored.Payload, string(raw))
	is.True(!stored.Merged)
	is.True(!stored.Ignored)
}

func TestConcurrentIngestionOfTheSameReading(t *testing.T) {
	is, ctx, p, tr, ar := testSetup(t)

	const n = 10
	tm := newTelemetry("device-01", "2024-05-01T12:00:00Z", 600)

	var wg sync.WaitGroup
	outcomes := make([]Outcome, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = p.Ingest(ctx, tm, nil)
		}(i)
	}
	wg.Wait()

	created, duplicates := 0, 0
	for i := 0; i < n; i++ {
		is.NoErr(errs[i])
		switch outcomes[i].(type) {
		case AlertCreated:
			created++
		case Duplicate:
			duplicates++
		}
	}

	is.Equal(created, 1)
	is.Equal(duplicates, n-1)

	readings, err := tr.Query(ctx, "device-01", 100)
	is.NoErr(err)
	is.Equal(len(readings), 1)

	groups, err := tr.QueryDuplicates(ctx, telemetry.DuplicateQuery{DeviceID: "device-01"})
	is.NoErr(err)
	is.Equal(groups.Data[0].DuplicateCount, int64(n-1))

	c, err := ar.Query(ctx, alerts.AlertQuery{DeviceID: "device-01"})
	is.NoErr(err)
	is.Equal(c.TotalCount, uint64(1))
}

func TestThatLosingTheInsertRaceRecordsADuplicate(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	connect := database.NewSQLiteConnector(ctx)

	tr, err := telemetry.NewTelemetryRepository(connect)
	is.NoErr(err)
	ar, err := alerts.NewAlertRepository(connect)
	is.NoErr(err)

	var mu sync.Mutex
	lostRaces := 0

	// every submission passes the existence check and has to be settled by
	// the unique index on insert
	unchecked := &telemetry.TelemetryRepositoryMock{
		ExistsFunc: func(ctx context.Context, deviceID string, ts time.Time) (bool, error) {
			return false, nil
		},
		AddFunc: func(ctx context.Context, reading *telemetry.Reading) error {
			err := tr.Add(ctx, reading)
			if errors.Is(err, database.ErrAlreadyExists) {
				mu.Lock()
				lostRaces++
				mu.Unlock()
			}
			return err
		},
		GetFunc:          tr.Get,
		AddDuplicateFunc: tr.AddDuplicate,
		RecentFunc:       tr.Recent,
	}

	p := NewPipeline(unchecked, ar)

	const n = 10
	tm := newTelemetry("device-01", "2024-05-01T12:00:00Z", 600)

	var wg sync.WaitGroup
	outcomes := make([]Outcome, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = p.Ingest(ctx, tm, nil)
		}(i)
	}
	wg.Wait()

	created, duplicates := 0, 0
	for i := 0; i < n; i++ {
		is.NoErr(errs[i])
		switch outcomes[i].(type) {
		case AlertCreated:
			created++
		case Duplicate:
			duplicates++
		}
	}

	is.Equal(created, 1)
	is.Equal(duplicates, n-1)
	is.Equal(lostRaces, n-1)
	is.Equal(len(unchecked.AddCalls()), n)
	is.Equal(len(unchecked.AddDuplicateCalls()), n-1)

	readings, err := tr.Query(ctx, "device-01", 100)
	is.NoErr(err)
	is.Equal(len(readings), 1)

	groups, err := tr.QueryDuplicates(ctx, telemetry.DuplicateQuery{DeviceID: "device-01"})
	is.NoErr(err)
	is.Equal(groups.Data[0].DuplicateCount, int64(n-1))

	c, err := ar.Query(ctx, alerts.AlertQuery{DeviceID: "device-01"})
	is.NoErr(err)
	is.Equal(c.TotalCount, uint64(1))
}

func TestThatEnrichmentFailureFallsBack(t *testing.T) {
	e := &enrichment.EnricherMock{
		EnrichFunc: func(ctx context.Context, req enrichment.Request) (enrichment.Explanation, error) {
			return enrichment.Explanation{}, errors.New("timeout")
		},
	}
	is, ctx, p, _, _ := testSetup(t, WithEnricher(e))

	outcome, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:00:00Z", 400), nil)
	is.NoErr(err)

	created := outcome.(AlertCreated)
	is.Equal(created.Alert.Severity, "WARNING")
	is.Equal(created.Alert.ShortMessage, "Possible drug vapor detected (MQ3: 400, MQ135: 210)")
	is.Equal(created.Alert.Confidence, "medium")
	is.True(created.Alert.Notified)
	is.Equal(len(e.EnrichCalls()), 1)
}

func TestThatSeverityIsNeverTakenFromEnrichment(t *testing.T) {
	e := &enrichment.EnricherMock{
		EnrichFunc: func(ctx context.Context, req enrichment.Request) (enrichment.Explanation, error) {
			return enrichment.Explanation{
				Severity:          "SAFE",
				ShortMessage:      "Nothing to see here",
				Explanation:       "All good.",
				RecommendedAction: "None",
				Confidence:        "high",
			}, nil
		},
	}
	is, ctx, p, _, _ := testSetup(t, WithEnricher(e))

	outcome, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:00:00Z", 600), nil)
	is.NoErr(err)

	created := outcome.(AlertCreated)
	is.Equal(created.Alert.Severity, "HIGH")
	is.Equal(created.Alert.ShortMessage, "Nothing to see here")
	is.Equal(created.Alert.Confidence, "high")
}

func TestThatEnrichmentGetsPriorReadingsOldestFirst(t *testing.T) {
	e := &enrichment.EnricherMock{
		EnrichFunc: func(ctx context.Context, req enrichment.Request) (enrichment.Explanation, error) {
			return enrichment.Explanation{ShortMessage: "ok"}, nil
		},
	}
	is, ctx, p, _, _ := testSetup(t, WithEnricher(e))

	for i := 0; i < 12; i++ {
		ts := time.Date(2024, 5, 1, 12, i, 0, 0, time.UTC).Format(time.RFC3339)
		_, err := p.Ingest(ctx, newTelemetry("device-01", ts, 100+i), nil)
		is.NoErr(err)
	}

	_, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:30:00Z", 450), nil)
	is.NoErr(err)

	is.Equal(len(e.EnrichCalls()), 1)
	req := e.EnrichCalls()[0].Req
	is.Equal(req.MQ3, 450)
	is.Equal(req.Timestamp, "2024-05-01T12:30:00Z")
	is.Equal(len(req.History), 10)
	is.Equal(req.History[0].MQ3, 102)
	is.Equal(req.History[9].MQ3, 111)
	is.Equal(req.History[9].Timestamp, "2024-05-01T12:11:00Z")
}

func TestDebounceWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	n := &NotifierMock{
		NotifyFunc: func(ctx context.Context, msg *types.AlertCreated) error {
			return nil
		},
	}
	is, ctx, p, _, _ := testSetup(t, WithClock(clock), WithDebounceWindow(5*time.Minute), WithNotifier(n))

	first, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:00:00Z", 600), nil)
	is.NoErr(err)
	is.True(first.(AlertCreated).Alert.Notified)

	now = now.Add(5*time.Minute - time.Second)
	second, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:04:59Z", 600), nil)
	is.NoErr(err)
	is.True(!second.(AlertCreated).Alert.Notified)

	warning, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:04:59.5Z", 400), nil)
	is.NoErr(err)
	is.True(warning.(AlertCreated).Alert.Notified)

	now = time.Date(2024, 5, 1, 12, 5, 1, 0, time.UTC)
	third, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:05:01Z", 600), nil)
	is.NoErr(err)
	is.True(third.(AlertCreated).Alert.Notified)

	other, err := p.Ingest(ctx, newTelemetry("device-02", "2024-05-01T12:05:01Z", 600), nil)
	is.NoErr(err)
	is.True(other.(AlertCreated).Alert.Notified)

	is.Equal(len(n.NotifyCalls()), 4)
}

func TestThatNewAlertsAreBroadcast(t *testing.T) {
	b := &recordingBroadcaster{}
	is, ctx, p, _, _ := testSetup(t, WithBroadcaster(b))

	tm := newTelemetry("device-01", "2024-05-01T14:00:00+02:00", 600)
	tm.GPS = &types.GPS{Lat: 59.33, Lon: 18.06}

	_, err := p.Ingest(ctx, tm, nil)
	is.NoErr(err)

	events := b.get()
	is.Equal(len(events), 1)

	e := events[0].(types.AlertEvent)
	is.Equal(e.Type, "new_alert")
	is.Equal(e.Data.Timestamp, "2024-05-01T12:00:00Z")
	is.Equal(*e.Data.Lat, 59.33)
	is.True(e.Data.Notified)
}

func TestThatAnExistingAlertIsReturned(t *testing.T) {
	existing := alerts.Alert{ID: 1, DeviceID: "device-01", Severity: "HIGH", Notified: false}
	ar := &alerts.AlertRepositoryMock{
		GetFunc: func(ctx context.Context, deviceID string, ts time.Time) (alerts.Alert, error) {
			return existing, nil
		},
	}
	is, ctx, p, _ := testSetupWithAlertRepository(t, ar)

	outcome, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:00:00Z", 600), nil)
	is.NoErr(err)
	is.Equal(outcome, AlertExists{Alert: existing})
	is.Equal(len(ar.AddCalls()), 0)
}

func TestThatALostAlertInsertRaceReturnsTheExistingAlert(t *testing.T) {
	winner := alerts.Alert{ID: 1, DeviceID: "device-01", Severity: "HIGH", Notified: true}
	ar := &alerts.AlertRepositoryMock{
		GetFunc: func(ctx context.Context, deviceID string, ts time.Time) (alerts.Alert, error) {
			return alerts.Alert{}, database.ErrNotFound
		},
		NotifiedSinceFunc: func(ctx context.Context, deviceID, severity string, since time.Time) (bool, error) {
			return false, nil
		},
	}
	ar.AddFunc = func(ctx context.Context, alert *alerts.Alert) error {
		ar.GetFunc = func(ctx context.Context, deviceID string, ts time.Time) (alerts.Alert, error) {
			return winner, nil
		}
		return fmt.Errorf("alert for device-01: %w", database.ErrAlreadyExists)
	}

	b := &recordingBroadcaster{}
	is, ctx, p, _ := testSetupWithAlertRepository(t, ar, WithBroadcaster(b))

	outcome, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:00:00Z", 600), nil)
	is.NoErr(err)
	is.Equal(outcome, AlertExists{Alert: winner})
	is.Equal(len(b.get()), 0)
}

func TestThatPersistenceFailuresAreReported(t *testing.T) {
	diskErr := errors.New("disk I/O error")
	ar := &alerts.AlertRepositoryMock{
		GetFunc: func(ctx context.Context, deviceID string, ts time.Time) (alerts.Alert, error) {
			return alerts.Alert{}, diskErr
		},
	}
	is, ctx, p, tr := testSetupWithAlertRepository(t, ar)

	_, err := p.Ingest(ctx, newTelemetry("device-01", "2024-05-01T12:00:00Z", 600), nil)
	is.True(errors.Is(err, ErrPersistence))
	is.True(errors.Is(err, diskErr))

	exists, err := tr.Exists(ctx, "device-01", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	is.NoErr(err)
	is.True(exists)
}

func TestOutcomeJSON(t *testing.T) {
	is := is.New(t)

	cases := []struct {
		outcome  Outcome
		expected string
	}{
		{
			outcome:  Duplicate{OriginalID: 1, DuplicateID: 2},
			expected: `{"status":"duplicate","message":"Telemetry with same device_id and timestamp already exists.","original_id":1,"duplicate_id":2}`,
		},
		{
			outcome:  Safe{MQ3: 120},
			expected: `{"status":"SAFE","mq3":120}`,
		},
		{
			outcome:  AlertExists{Alert: alerts.Alert{Severity: "HIGH", Notified: true}},
			expected: `{"status":"alert_exists","severity":"HIGH","notified":true,"message":"Alert already exists for this telemetry"}`,
		},
		{
			outcome:  AlertCreated{Alert: alerts.Alert{Severity: "WARNING", Notified: true}},
			expected: `{"status":"alert_created","severity":"WARNING","notified":true}`,
		},
	}

	for _, c := range cases {
		b, err := json.Marshal(c.outcome)
		is.NoErr(err)
		is.Equal(string(b), c.expected)
	}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcast.Event
}

func (r *recordingBroadcaster) Broadcast(ctx context.Context, e broadcast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingBroadcaster) get() []broadcast.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]broadcast.Event{}, r.events...)
}

func newTelemetry(deviceID, ts string, mq3 int) types.Telemetry {
	mq135 := 210
	return types.Telemetry{
		DeviceID:  deviceID,
		Timestamp: ts,
		Sensors: types.Sensors{
			MQ3:   &mq3,
			MQ135: &mq135,
		},
	}
}

func testSetup(t *testing.T, opts ...Option) (*is.I, context.Context, *Pipeline, telemetry.TelemetryRepository, alerts.AlertRepository) {
	is := is.New(t)
	ctx := context.Background()
	connect := database.NewSQLiteConnector(ctx)

	tr, err := telemetry.NewTelemetryRepository(connect)
	is.NoErr(err)
	ar, err := alerts.NewAlertRepository(connect)
	is.NoErr(err)

	return is, ctx, NewPipeline(tr, ar, opts...), tr, ar
}

func testSetupWithAlertRepository(t *testing.T, ar alerts.AlertRepository, opts ...Option) (*is.I, context.Context, *Pipeline, telemetry.TelemetryRepository) {
	is := is.New(t)
	ctx := context.Background()

	tr, err := telemetry.NewTelemetryRepository(database.NewSQLiteConnector(ctx))
	is.NoErr(err)

	return is, ctx, NewPipeline(tr, ar, opts...), tr
}
