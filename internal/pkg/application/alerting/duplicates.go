package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database/telemetry"
)

// DuplicateDetector finds repeated (device, timestamp) submissions and stores
// them aside, next to the reading they repeat.
type DuplicateDetector struct {
	telemetry telemetry.TelemetryRepository
}

func NewDuplicateDetector(r telemetry.TelemetryRepository) *DuplicateDetector {
	return &DuplicateDetector{telemetry: r}
}

// IsDuplicate is a fast path only. The unique index on the readings table
// decides races between concurrent submissions.
func (d *DuplicateDetector) IsDuplicate(ctx context.Context, deviceID string, ts time.Time) (bool, error) {
	return d.telemetry.Exists(ctx, deviceID, ts)
}

// Record stores raw, exactly as received, as a duplicate of the reading
// already stored for deviceID and ts.
func (d *DuplicateDetector) Record(ctx context.Context, deviceID string, ts time.Time, raw []byte) (Duplicate, error) {
	logger := logging.GetFromContext(ctx)

	original, err := d.telemetry.Get(ctx, deviceID, ts)
	if err != nil {
		return Duplicate{}, fmt.Errorf("could not find original reading: %w", err)
	}

	duplicate := telemetry.Duplicate{
		OriginalID: original.ID,
		DeviceID:   deviceID,
		Timestamp:  ts,
		Payload:    string(raw),
	}

	err = d.telemetry.AddDuplicate(ctx, &duplicate)
	if err != nil {
		return Duplicate{}, fmt.Errorf("could not store duplicate: %w", err)
	}

	logger.Info().Uint("original_id", original.ID).Uint("duplicate_id", duplicate.ID).Msg("duplicate telemetry recorded")

	return Duplicate{
		OriginalID:  original.ID,
		DuplicateID: duplicate.ID,
	}, nil
}
