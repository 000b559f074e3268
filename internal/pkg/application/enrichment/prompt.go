package enrichment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const systemPrompt string = "You are a safety assistant focused only on detecting **drug-related vapors** (alcohol / narcotic solvents) using MQ3 sensor. Output JSON only."

const rules string = `Rules:
1. Decide severity: "SAFE", "WARNING", or "HIGH" following the thresholds above.
2. If SAFE return {"severity":"SAFE","short_message":"Air is within safe limits.","explanation":"","recommended_action":"","confidence":"high"}.
3. If WARNING or HIGH produce JSON with keys:
   - severity
   - short_message (max 40 words)
   - explanation (1-2 sentences)
   - recommended_action (short)
   - confidence (high|medium|low)
4. If single abrupt spike with no supporting trend, set confidence "low" and recommend "re-check sensor".
5. Consider MQ135: if MQ135 is high but MQ3 low, mention "other pollutants" in explanation but keep severity following MQ3 rules.
6. Return JSON ONLY, no extra text.`

// BuildPrompt renders the system and user prompts for a request. The output
// depends only on the request.
func BuildPrompt(req Request) (string, string, error) {
	history := req.History
	if history == nil {
		history = []HistoryItem{}
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal history: %w", err)
	}

	b := strings.Builder{}
	b.WriteString("Telemetry:\n")
	fmt.Fprintf(&b, "- device_id: %s\n", req.DeviceID)
	fmt.Fprintf(&b, "- timestamp: %s\n", req.Timestamp)
	fmt.Fprintf(&b, "- mq3: %d\n", req.MQ3)
	fmt.Fprintf(&b, "- mq135: %d\n", req.MQ135)
	fmt.Fprintf(&b, "- temp_c: %s\n", optional(req.TempC))
	fmt.Fprintf(&b, "- humidity_pct: %s\n", optional(req.HumidityPct))
	fmt.Fprintf(&b, "- lat: %s\n", optional(req.Lat))
	fmt.Fprintf(&b, "- lon: %s\n", optional(req.Lon))
	fmt.Fprintf(&b, "- recent_history: %s\n\n", historyJSON)
	b.WriteString(rules)

	return systemPrompt, b.String(), nil
}

func optional(f *float64) string {
	if f == nil {
		return "null"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
