package alerting

import (
	"context"
	"time"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
)

const DefaultDebounceWindow = 5 * time.Minute

// DebounceGate suppresses notification of HIGH alerts while a previously
// notified HIGH alert for the same device is younger than the window.
type DebounceGate struct {
	alerts alerts.AlertRepository
	window time.Duration
	now    func() time.Time
}

func NewDebounceGate(r alerts.AlertRepository, window time.Duration, now func() time.Time) *DebounceGate {
	if now == nil {
		now = time.Now
	}

	return &DebounceGate{
		alerts: r,
		window: window,
		now:    now,
	}
}

func (g *DebounceGate) ShouldSuppress(ctx context.Context, deviceID string, severity Severity) (bool, error) {
	if severity != SeverityHigh {
		return false, nil
	}

	cutoff := g.now().UTC().Add(-g.window)

	return g.alerts.NotifiedSince(ctx, deviceID, string(SeverityHigh), cutoff)
}
