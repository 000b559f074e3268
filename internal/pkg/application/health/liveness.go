package health

import (
	"sync/atomic"
	"time"

	"github.com/smartdetector/iot-alerting/pkg/types"
)

// Liveness tracks when telemetry was last received by this process. It is
// created by the composition root and shared by the ingestion and status
// handlers.
type Liveness struct {
	lastTelemetry atomic.Int64
	now           func() time.Time
}

func NewLiveness() *Liveness {
	return &Liveness{now: time.Now}
}

func (l *Liveness) TelemetryReceived() {
	l.lastTelemetry.Store(l.now().UTC().UnixNano())
}

// LastTelemetry returns false until the first telemetry has been received.
func (l *Liveness) LastTelemetry() (time.Time, bool) {
	ns := l.lastTelemetry.Load()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns).UTC(), true
}

func (l *Liveness) Status(subscribers int) types.ConnectionStatus {
	status := types.ConnectionStatus{
		ServerTime:       formatTime(l.now()),
		WebsocketClients: subscribers,
	}

	if last, ok := l.LastTelemetry(); ok {
		s := formatTime(last)
		status.LastTelemetryReceivedAt = &s
	}

	return status
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
