package alerting

type Severity string

const (
	SeveritySafe    Severity = "SAFE"
	SeverityWarning Severity = "WARNING"
	SeverityHigh    Severity = "HIGH"
)

// Classification thresholds for the primary (MQ3) sensor. These are the only
// thresholds used to classify a reading, per device settings are not consulted.
const (
	LowThreshold  int = 350
	HighThreshold int = 500
)

// Classify maps a primary sensor value to a severity tier. It is defined for
// every integer, values below LowThreshold (negative ones included) are SAFE.
func Classify(primary int) Severity {
	switch {
	case primary >= HighThreshold:
		return SeverityHigh
	case primary >= LowThreshold:
		return SeverityWarning
	default:
		return SeveritySafe
	}
}
