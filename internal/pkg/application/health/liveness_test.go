package health

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestStatusBeforeAnyTelemetry(t *testing.T) {
	is := is.New(t)

	l := NewLiveness()
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	b, err := json.Marshal(l.Status(0))
	is.NoErr(err)
	is.Equal(string(b), `{"server_time":"2024-05-01T12:00:00Z","ws_clients":0,"last_telemetry_received_at":null}`)
}

func TestStatusAfterTelemetry(t *testing.T) {
	is := is.New(t)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLiveness()
	l.now = func() time.Time { return now }

	l.TelemetryReceived()
	now = now.Add(time.Minute)

	last, ok := l.LastTelemetry()
	is.True(ok)
	is.Equal(last, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	status := l.Status(3)
	is.Equal(status.WebsocketClients, 3)
	is.Equal(status.ServerTime, "2024-05-01T12:01:00Z")
	is.Equal(*status.LastTelemetryReceivedAt, "2024-05-01T12:00:00Z")
}
