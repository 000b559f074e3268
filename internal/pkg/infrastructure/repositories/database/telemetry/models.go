package telemetry

import (
	"time"
)

// Reading is one stored sensor sample. (DeviceID, Timestamp) is unique.
type Reading struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	DeviceID    string    `gorm:"not null;uniqueIndex:unique_device_timestamp,priority:1;index" json:"device_id"`
	Timestamp   time.Time `gorm:"column:ts;not null;uniqueIndex:unique_device_timestamp,priority:2;index" json:"ts"`
	MQ3         int       `gorm:"column:mq3;not null" json:"mq3"`
	MQ135       int       `gorm:"column:mq135;not null" json:"mq135"`
	TempC       *float64  `json:"temp_c"`
	HumidityPct *float64  `json:"humidity_pct"`
	Lat         *float64  `json:"lat"`
	Lon         *float64  `json:"lon"`
	Alt         *float64  `json:"alt"`
	ReceivedAt  time.Time `gorm:"not null" json:"received_at"`
}

func (Reading) TableName() string { return "telemetry" }

// Duplicate is a repeated submission of an already stored (device, timestamp)
// pair. Payload holds the request body exactly as it was received.
type Duplicate struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	OriginalID uint      `gorm:"column:original_telemetry_id;not null;index" json:"original_telemetry_id"`
	DeviceID   string    `gorm:"not null;index" json:"device_id"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
	Payload    string    `gorm:"column:payload_json;type:text;not null" json:"payload_json"`
	ReceivedAt time.Time `gorm:"not null;index" json:"received_at"`
	Merged     bool      `gorm:"column:is_merged;not null;index" json:"is_merged"`
	Ignored    bool      `gorm:"column:is_ignored;not null;index" json:"is_ignored"`
}

func (Duplicate) TableName() string { return "telemetry_duplicates" }

// DuplicateGroup collects the open duplicates of one original reading.
type DuplicateGroup struct {
	OriginalID     uint        `gorm:"column:original_telemetry_id" json:"original_telemetry_id"`
	DeviceID       string      `gorm:"column:device_id" json:"device_id"`
	Timestamp      time.Time   `gorm:"column:timestamp" json:"timestamp"`
	DuplicateCount int64       `gorm:"column:duplicate_count" json:"duplicate_count"`
	Original       *Reading    `gorm:"-" json:"original_telemetry,omitempty"`
	Samples        []Duplicate `gorm:"-" json:"sample_duplicates"`
}

type DuplicateQuery struct {
	DeviceID string
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
}
