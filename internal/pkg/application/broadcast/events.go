package broadcast

import (
	"time"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
	"github.com/smartdetector/iot-alerting/pkg/types"
)

func NewAlertEvent(a alerts.Alert) types.AlertEvent {
	return types.AlertEvent{
		Type: types.EventTypeNewAlert,
		Data: types.AlertSnapshot{
			ID:           a.ID,
			DeviceID:     a.DeviceID,
			Timestamp:    FormatTime(a.Timestamp),
			Severity:     a.Severity,
			ShortMessage: a.ShortMessage,
			Lat:          nonZero(a.Lat),
			Lon:          nonZero(a.Lon),
			MQ3:          a.MQ3,
			MQ135:        a.MQ135,
			Notified:     a.Notified,
		},
	}
}

func NewPingEvent(now time.Time) types.PingEvent {
	return types.PingEvent{
		Type:       types.EventTypePing,
		ServerTime: FormatTime(now),
	}
}

func NewSubscribedEvent(deviceID string) types.SubscribedEvent {
	return types.SubscribedEvent{
		Type:     types.EventTypeSubscribed,
		DeviceID: deviceID,
	}
}

// FormatTime renders t as ISO8601 in UTC with a trailing Z.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// a zero coordinate means the device had no fix
func nonZero(f *float64) *float64 {
	if f == nil || *f == 0 {
		return nil
	}
	return f
}
