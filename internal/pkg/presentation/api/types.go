package api

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/smartdetector/iot-alerting/internal/pkg/application/broadcast"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/alerts"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/telemetry"
)

type meta struct {
	TotalRecords uint64  `json:"totalRecords"`
	Offset       *uint64 `json:"offset,omitempty"`
	Limit        *uint64 `json:"limit,omitempty"`
	Count        uint64  `json:"count"`
}

type ApiResponse struct {
	Meta *meta `json:"meta,omitempty"`
	Data any   `json:"data"`
}

func (r ApiResponse) Byte() []byte {
	b, _ := json.Marshal(r)
	return b
}

type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
	Meta     *meta            `json:"meta,omitempty"`
}

func NewFeatureCollection() *GeoJSONFeatureCollection {
	fc := &GeoJSONFeatureCollection{Type: "FeatureCollection", Features: []GeoJSONFeature{}}
	return fc
}

type GeoJSONFeature struct {
	ID         uint           `json:"id"`
	Type       string         `json:"type"`
	Geometry   any            `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// NewFeatureCollectionWithAlerts maps alerts to point features. Alerts
// without a position get a null geometry.
func NewFeatureCollectionWithAlerts(items []alerts.Alert) *GeoJSONFeatureCollection {
	fc := NewFeatureCollection()

	for _, a := range items {
		fc.Features = append(fc.Features, ConvertAlert(a))
	}

	return fc
}

func ConvertAlert(a alerts.Alert) GeoJSONFeature {
	feature := GeoJSONFeature{
		ID:         a.ID,
		Type:       "Feature",
		Properties: map[string]any{},
	}

	if a.Lat != nil && a.Lon != nil {
		feature.Geometry = NewPoint(*a.Lon, *a.Lat)
	}

	b, err := json.Marshal(a)
	if err != nil {
		return feature
	}

	m := make(map[string]any)
	err = json.Unmarshal(b, &m)
	if err != nil {
		return feature
	}

	delete(m, "lat")
	delete(m, "lon")
	feature.Properties = m

	return feature
}

// GeoJSONPoint is a WGS84 position, longitude first
type GeoJSONPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewPoint(longitude, latitude float64) *GeoJSONPoint {
	return &GeoJSONPoint{
		Type:        "Point",
		Coordinates: [2]float64{longitude, latitude},
	}
}

func (p GeoJSONPoint) Latitude() float64 {
	return p.Coordinates[1]
}

func (p GeoJSONPoint) Longitude() float64 {
	return p.Coordinates[0]
}

type readingResponse struct {
	ID          uint     `json:"id"`
	DeviceID    string   `json:"device_id"`
	Timestamp   string   `json:"ts"`
	MQ3         int      `json:"mq3"`
	MQ135       int      `json:"mq135"`
	TempC       *float64 `json:"temp_c"`
	HumidityPct *float64 `json:"humidity_pct"`
	ReceivedAt  string   `json:"received_at"`
}

func newReadingResponse(r telemetry.Reading) *readingResponse {
	return &readingResponse{
		ID:          r.ID,
		DeviceID:    r.DeviceID,
		Timestamp:   broadcast.FormatTime(r.Timestamp),
		MQ3:         r.MQ3,
		MQ135:       r.MQ135,
		TempC:       r.TempC,
		HumidityPct: r.HumidityPct,
		ReceivedAt:  broadcast.FormatTime(r.ReceivedAt),
	}
}

type duplicateSample struct {
	ID         uint            `json:"id"`
	Payload    json.RawMessage `json:"payload_json"`
	ReceivedAt string          `json:"received_at"`
}

type duplicateGroupResponse struct {
	Original       *readingResponse  `json:"original_telemetry"`
	DeviceID       string            `json:"device_id"`
	Timestamp      string            `json:"timestamp"`
	DuplicateCount int64             `json:"duplicate_count"`
	Samples        []duplicateSample `json:"sample_duplicates"`
}

type duplicatesResponse struct {
	Total      uint64                   `json:"total"`
	Limit      uint64                   `json:"limit"`
	Offset     uint64                   `json:"offset"`
	Duplicates []duplicateGroupResponse `json:"duplicates"`
}

type duplicateDetailResponse struct {
	ID         uint             `json:"id"`
	OriginalID uint             `json:"original_telemetry_id"`
	DeviceID   string           `json:"device_id"`
	Timestamp  string           `json:"timestamp"`
	Payload    json.RawMessage  `json:"payload_json"`
	ReceivedAt string           `json:"received_at"`
	Merged     bool             `json:"is_merged"`
	Ignored    bool             `json:"is_ignored"`
	Original   *readingResponse `json:"original_telemetry"`
}

func newDuplicateGroupResponse(g telemetry.DuplicateGroup) duplicateGroupResponse {
	samples := lo.Map(g.Samples, func(d telemetry.Duplicate, _ int) duplicateSample {
		return duplicateSample{
			ID:         d.ID,
			Payload:    payloadJSON(d.Payload),
			ReceivedAt: broadcast.FormatTime(d.ReceivedAt),
		}
	})

	resp := duplicateGroupResponse{
		DeviceID:       g.DeviceID,
		Timestamp:      broadcast.FormatTime(g.Timestamp),
		DuplicateCount: g.DuplicateCount,
		Samples:        samples,
	}

	if g.Original != nil {
		resp.Original = newReadingResponse(*g.Original)
	}

	return resp
}

func newDuplicateDetailResponse(d telemetry.Duplicate, original *telemetry.Reading) duplicateDetailResponse {
	resp := duplicateDetailResponse{
		ID:         d.ID,
		OriginalID: d.OriginalID,
		DeviceID:   d.DeviceID,
		Timestamp:  broadcast.FormatTime(d.Timestamp),
		Payload:    payloadJSON(d.Payload),
		ReceivedAt: broadcast.FormatTime(d.ReceivedAt),
		Merged:     d.Merged,
		Ignored:    d.Ignored,
	}

	if original != nil {
		resp.Original = newReadingResponse(*original)
	}

	return resp
}

// payloadJSON embeds a stored request body as is. Bodies that are not valid
// json are rendered as an empty object.
func payloadJSON(payload string) json.RawMessage {
	if payload == "" || !json.Valid([]byte(payload)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(payload)
}

type mergeRequest struct {
	OriginalID   uint   `json:"original_id"`
	DuplicateIDs []uint `json:"duplicate_ids"`
}

type mergeResponse struct {
	Message     string `json:"message"`
	OriginalID  uint   `json:"original_id"`
	MergedCount int    `json:"merged_count"`
}

type ignoreRequest struct {
	IDs []uint `json:"ids"`
}

type ignoreResponse struct {
	Message      string `json:"message"`
	IgnoredCount int    `json:"ignored_count"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}
