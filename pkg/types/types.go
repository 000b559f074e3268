package types

// Telemetry is the document a device posts to the ingestion endpoint.
type Telemetry struct {
	DeviceID  string  `json:"device_id"`
	Timestamp string  `json:"timestamp"`
	Sensors   Sensors `json:"sensors"`
	GPS       *GPS    `json:"gps,omitempty"`
}

// Sensors carries the gas sensor readings. MQ3 is the primary sensor and the
// only one used for classification, MQ135 is informational.
type Sensors struct {
	MQ3         *int     `json:"mq3"`
	MQ135       *int     `json:"mq135"`
	TempC       *float64 `json:"temp_c,omitempty"`
	HumidityPct *float64 `json:"humidity_pct,omitempty"`
}

type GPS struct {
	Lat float64  `json:"lat"`
	Lon float64  `json:"lon"`
	Alt *float64 `json:"alt,omitempty"`
}

const (
	StatusDuplicate    string = "duplicate"
	StatusSafe         string = "SAFE"
	StatusAlertExists  string = "alert_exists"
	StatusAlertCreated string = "alert_created"
)

// IngestResponse is the union of every terminal response the ingestion
// endpoint can return. Which fields are set depends on Status.
type IngestResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	OriginalID  uint   `json:"original_id,omitempty"`
	DuplicateID uint   `json:"duplicate_id,omitempty"`
	MQ3         int    `json:"mq3,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Notified    bool   `json:"notified,omitempty"`
}

type About struct {
	SystemName  string `json:"system_name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

type ConnectionStatus struct {
	ServerTime              string  `json:"server_time"`
	WebsocketClients        int     `json:"ws_clients"`
	LastTelemetryReceivedAt *string `json:"last_telemetry_received_at"`
}
