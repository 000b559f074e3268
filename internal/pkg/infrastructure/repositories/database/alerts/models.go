package alerts

import (
	"time"
)

const (
	SeverityWarning = "WARNING"
	SeverityHigh    = "HIGH"
)

// Alert is created at most once per (DeviceID, Timestamp) and never updated.
type Alert struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	DeviceID          string    `gorm:"not null;uniqueIndex:unique_alert_device_timestamp,priority:1;index:idx_alert_debounce,priority:1" json:"device_id"`
	Timestamp         time.Time `gorm:"column:ts;not null;uniqueIndex:unique_alert_device_timestamp,priority:2;index" json:"ts"`
	Severity          string    `gorm:"not null;index:idx_alert_debounce,priority:2" json:"severity"`
	ShortMessage      string    `gorm:"not null" json:"short_message"`
	Explanation       string    `json:"explanation"`
	RecommendedAction string    `json:"recommended_action"`
	Confidence        string    `json:"confidence"`
	MQ3               int       `gorm:"column:mq3;not null" json:"mq3"`
	MQ135             int       `gorm:"column:mq135;not null" json:"mq135"`
	Lat               *float64  `json:"lat"`
	Lon               *float64  `json:"lon"`
	Alt               *float64  `json:"alt"`
	Notified          bool      `gorm:"not null;index:idx_alert_debounce,priority:3" json:"notified"`
	CreatedAt         time.Time `gorm:"not null;index:idx_alert_debounce,priority:4" json:"created_at"`
}

func (Alert) TableName() string { return "alerts" }

type AlertQuery struct {
	DeviceID string
	Severity string
	// GeoOnly skips alerts without a usable position, i.e. missing or zero lat/lon
	GeoOnly bool
	Offset  int
	Limit   int
}
