package types

import "time"

const (
	EventTypeNewAlert   string = "new_alert"
	EventTypePing       string = "ping"
	EventTypeSubscribed string = "subscribed"
)

// AlertEvent is pushed to every live subscriber when an alert is stored.
type AlertEvent struct {
	Type string        `json:"type"`
	Data AlertSnapshot `json:"data"`
}

type AlertSnapshot struct {
	ID           uint     `json:"id"`
	DeviceID     string   `json:"device_id"`
	Timestamp    string   `json:"ts"`
	Severity     string   `json:"severity"`
	ShortMessage string   `json:"short_message"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	MQ3          int      `json:"mq3"`
	MQ135        int      `json:"mq135"`
	Notified     bool     `json:"notified"`
}

func (e AlertEvent) EventType() string {
	return EventTypeNewAlert
}

type PingEvent struct {
	Type       string `json:"type"`
	ServerTime string `json:"server_time"`
}

func (e PingEvent) EventType() string {
	return EventTypePing
}

type SubscribedEvent struct {
	Type     string `json:"type"`
	DeviceID string `json:"device_id"`
}

func (e SubscribedEvent) EventType() string {
	return EventTypeSubscribed
}

// AlertCreated is sent to external notification subscribers for alerts that
// were not suppressed by the debounce window.
type AlertCreated struct {
	AlertID      uint      `json:"alertID"`
	DeviceID     string    `json:"deviceID"`
	Severity     string    `json:"severity"`
	ShortMessage string    `json:"shortMessage"`
	MQ3          int       `json:"mq3"`
	MQ135        int       `json:"mq135"`
	Lat          *float64  `json:"lat,omitempty"`
	Lon          *float64  `json:"lon,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func (a *AlertCreated) ContentType() string {
	return "application/json"
}
func (a *AlertCreated) TopicName() string {
	return "alerts.alertCreated"
}
