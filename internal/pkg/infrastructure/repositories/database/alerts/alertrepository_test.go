package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	. "github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
)

func TestAddAlert(t *testing.T) {
	is, ctx, r := testSetupAlertRepository(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	a := newAlert("device-01", ts, SeverityHigh, true, ts)
	err := r.Add(ctx, &a)
	is.NoErr(err)
	is.True(a.ID > 0)

	fromDb, err := r.Get(ctx, "device-01", ts)
	is.NoErr(err)
	is.Equal(fromDb.ID, a.ID)
	is.Equal(fromDb.Severity, SeverityHigh)
	is.True(fromDb.Notified)
}

func TestThatOnlyOneAlertPerDeviceAndTimestampIsStored(t *testing.T) {
	is, ctx, r := testSetupAlertRepository(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := newAlert("device-01", ts, SeverityHigh, true, ts)
	is.NoErr(r.Add(ctx, &first))

	second := newAlert("device-01", ts, SeverityWarning, true, ts)
	err := r.Add(ctx, &second)
	is.True(errors.Is(err, ErrAlreadyExists))

	c, err := r.Query(ctx, AlertQuery{DeviceID: "device-01"})
	is.NoErr(err)
	is.Equal(c.TotalCount, uint64(1))
}

func TestThatGetUnknownAlertReturnsNotFound(t *testing.T) {
	is, ctx, r := testSetupAlertRepository(t)

	_, err := r.Get(ctx, "device-01", time.Now())
	is.True(errors.Is(err, ErrNotFound))
}

func TestNotifiedSince(t *testing.T) {
	is, ctx, r := testSetupAlertRepository(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	recent := newAlert("device-01", now.Add(-2*time.Minute), SeverityHigh, true, now.Add(-2*time.Minute))
	is.NoErr(r.Add(ctx, &recent))

	old := newAlert("device-01", now.Add(-10*time.Minute), SeverityHigh, true, now.Add(-10*time.Minute))
	is.NoErr(r.Add(ctx, &old))

	suppressed := newAlert("device-02", now.Add(-1*time.Minute), SeverityHigh, false, now.Add(-1*time.Minute))
	is.NoErr(r.Add(ctx, &suppressed))

	warning := newAlert("device-03", now.Add(-1*time.Minute), SeverityWarning, true, now.Add(-1*time.Minute))
	is.NoErr(r.Add(ctx, &warning))

	cutoff := now.Add(-5 * time.Minute)

	found, err := r.NotifiedSince(ctx, "device-01", SeverityHigh, cutoff)
	is.NoErr(err)
	is.True(found)

	found, err = r.NotifiedSince(ctx, "device-01", SeverityHigh, now.Add(-1*time.Minute))
	is.NoErr(err)
	is.True(!found)

	found, err = r.NotifiedSince(ctx, "device-02", SeverityHigh, cutoff)
	is.NoErr(err)
	is.True(!found)

	found, err = r.NotifiedSince(ctx, "device-03", SeverityHigh, cutoff)
	is.NoErr(err)
	is.True(!found)
}

func TestQueryAlerts(t *testing.T) {
	is, ctx, r := testSetupAlertRepository(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		severity := SeverityWarning
		if i%2 == 0 {
			severity = SeverityHigh
		}
		ts := now.Add(time.Duration(i) * time.Second)
		a := newAlert("device-01", ts, severity, true, ts)
		is.NoErr(r.Add(ctx, &a))
	}

	c, err := r.Query(ctx, AlertQuery{DeviceID: "device-01", Severity: SeverityHigh, Limit: 2})
	is.NoErr(err)
	is.Equal(c.TotalCount, uint64(3))
	is.Equal(c.Count, uint64(2))
	is.True(c.Data[0].Timestamp.After(c.Data[1].Timestamp))
}

func TestQueryAlertsWithPosition(t *testing.T) {
	is, ctx, r := testSetupAlertRepository(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	lat, lon, zero := 59.33, 18.06, 0.0

	positioned := newAlert("device-01", ts, SeverityHigh, true, ts)
	positioned.Lat, positioned.Lon = &lat, &lon
	is.NoErr(r.Add(ctx, &positioned))

	noFix := newAlert("device-01", ts.Add(time.Second), SeverityHigh, true, ts)
	noFix.Lat, noFix.Lon = &zero, &zero
	is.NoErr(r.Add(ctx, &noFix))

	unknown := newAlert("device-01", ts.Add(2*time.Second), SeverityHigh, true, ts)
	is.NoErr(r.Add(ctx, &unknown))

	c, err := r.Query(ctx, AlertQuery{GeoOnly: true})
	is.NoErr(err)
	is.Equal(c.TotalCount, uint64(1))
	is.Equal(c.Data[0].ID, positioned.ID)
}

func newAlert(deviceID string, ts time.Time, severity string, notified bool, createdAt time.Time) Alert {
	return Alert{
		DeviceID:     deviceID,
		Timestamp:    ts,
		Severity:     severity,
		ShortMessage: "msg",
		Confidence:   "medium",
		MQ3:          600,
		MQ135:        300,
		Notified:     notified,
		CreatedAt:    createdAt,
	}
}

func testSetupAlertRepository(t *testing.T) (*is.I, context.Context, AlertRepository) {
	is := is.New(t)
	ctx := context.Background()

	r, err := NewAlertRepository(NewSQLiteConnector(ctx))
	is.NoErr(err)

	return is, ctx, r
}
