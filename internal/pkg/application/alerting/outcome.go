package alerting

import (
	"encoding/json"
	"errors"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
	"github.com/smartdetector/iot-alerting/pkg/types"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
)

// Outcome is the terminal state of one ingestion. The failing terminal states
// are reported as errors wrapping ErrValidation or ErrPersistence instead.
type Outcome interface {
	Status() string
}

const (
	duplicateMessage   string = "Telemetry with same device_id and timestamp already exists."
	alertExistsMessage string = "Alert already exists for this telemetry"
)

type Duplicate struct {
	OriginalID  uint
	DuplicateID uint
}

func (Duplicate) Status() string { return types.StatusDuplicate }

func (d Duplicate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status      string `json:"status"`
		Message     string `json:"message"`
		OriginalID  uint   `json:"original_id"`
		DuplicateID uint   `json:"duplicate_id"`
	}{d.Status(), duplicateMessage, d.OriginalID, d.DuplicateID})
}

type Safe struct {
	MQ3 int
}

func (Safe) Status() string { return types.StatusSafe }

func (s Safe) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status string `json:"status"`
		MQ3    int    `json:"mq3"`
	}{s.Status(), s.MQ3})
}

// AlertExists is returned when an alert was already stored for the same
// device and timestamp.
type AlertExists struct {
	Alert alerts.Alert
}

func (AlertExists) Status() string { return types.StatusAlertExists }

func (a AlertExists) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status   string `json:"status"`
		Severity string `json:"severity"`
		Notified bool   `json:"notified"`
		Message  string `json:"message"`
	}{a.Status(), a.Alert.Severity, a.Alert.Notified, alertExistsMessage})
}

type AlertCreated struct {
	Alert alerts.Alert
}

func (AlertCreated) Status() string { return types.StatusAlertCreated }

func (a AlertCreated) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status   string `json:"status"`
		Severity string `json:"severity"`
		Notified bool   `json:"notified"`
	}{a.Status(), a.Alert.Severity, a.Alert.Notified})
}
