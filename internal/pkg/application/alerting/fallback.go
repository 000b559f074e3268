package alerting

import (
	"fmt"

	"github.com/smartdetector/iot-alerting/internal/pkg/application/enrichment"
)

const fallbackConfidence string = "medium"

// Fallback returns the locally generated explanation used whenever the
// enrichment service can not provide one.
func Fallback(severity Severity, mq3, mq135 int) enrichment.Explanation {
	e := enrichment.Explanation{
		Severity:   string(severity),
		Confidence: fallbackConfidence,
	}

	switch severity {
	case SeverityHigh:
		e.ShortMessage = fmt.Sprintf("High drug vapor levels detected (MQ3: %d, MQ135: %d)", mq3, mq135)
		e.Explanation = fmt.Sprintf("Sensor readings indicate elevated drug vapor concentrations. MQ3 reading: %d, MQ135 reading: %d. Immediate attention required.", mq3, mq135)
		e.RecommendedAction = "Evacuate area and contact authorities immediately"
	case SeverityWarning:
		e.ShortMessage = fmt.Sprintf("Possible drug vapor detected (MQ3: %d, MQ135: %d)", mq3, mq135)
		e.Explanation = fmt.Sprintf("Sensor readings suggest possible drug vapor presence. MQ3 reading: %d, MQ135 reading: %d. Manual verification recommended.", mq3, mq135)
		e.RecommendedAction = "Investigate area and verify sensor readings"
	default:
		e.ShortMessage = "Air quality within normal limits"
		e.Explanation = "Sensor readings are within safe parameters."
		e.RecommendedAction = "Continue monitoring"
	}

	return e
}
