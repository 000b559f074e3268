package settings

const (
	DefaultMQ3Safe         int  = 350
	DefaultMQ3Warning      int  = 500
	DefaultMQ3Danger       int  = 500
	DefaultDebounceMinutes int  = 5
	DefaultNotifyOnWarning bool = true
)

// DeviceSettings holds per-device thresholds. They are stored and exposed
// but classification always uses the fixed global thresholds.
type DeviceSettings struct {
	DeviceID        string `gorm:"primaryKey" json:"device_id"`
	MQ3Safe         int    `gorm:"column:mq3_safe;not null" json:"mq3_safe"`
	MQ3Warning      int    `gorm:"column:mq3_warning;not null" json:"mq3_warning"`
	MQ3Danger       int    `gorm:"column:mq3_danger;not null" json:"mq3_danger"`
	DebounceMinutes int    `gorm:"not null" json:"debounce_minutes"`
	NotifyOnWarning bool   `gorm:"not null" json:"notify_on_warning"`
}

func (DeviceSettings) TableName() string { return "device_settings" }

func NewDefaultSettings(deviceID string) DeviceSettings {
	return DeviceSettings{
		DeviceID:        deviceID,
		MQ3Safe:         DefaultMQ3Safe,
		MQ3Warning:      DefaultMQ3Warning,
		MQ3Danger:       DefaultMQ3Danger,
		DebounceMinutes: DefaultDebounceMinutes,
		NotifyOnWarning: DefaultNotifyOnWarning,
	}
}

// Update carries a partial change. Nil fields are left untouched.
type Update struct {
	MQ3Safe         *int  `json:"mq3_safe,omitempty"`
	MQ3Warning      *int  `json:"mq3_warning,omitempty"`
	MQ3Danger       *int  `json:"mq3_danger,omitempty"`
	DebounceMinutes *int  `json:"debounce_minutes,omitempty"`
	NotifyOnWarning *bool `json:"notify_on_warning,omitempty"`
}

func (u Update) apply(s *DeviceSettings) {
	if u.MQ3Safe != nil {
		s.MQ3Safe = *u.MQ3Safe
	}
	if u.MQ3Warning != nil {
		s.MQ3Warning = *u.MQ3Warning
	}
	if u.MQ3Danger != nil {
		s.MQ3Danger = *u.MQ3Danger
	}
	if u.DebounceMinutes != nil {
		s.DebounceMinutes = *u.DebounceMinutes
	}
	if u.NotifyOnWarning != nil {
		s.NotifyOnWarning = *u.NotifyOnWarning
	}
}
