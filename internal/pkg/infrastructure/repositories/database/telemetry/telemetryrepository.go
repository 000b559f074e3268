package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories"
	. "github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
)

//go:generate moq -rm -out telemetryrepository_mock.go . TelemetryRepository

type TelemetryRepository interface {
	Exists(ctx context.Context, deviceID string, ts time.Time) (bool, error)
	Get(ctx context.Context, deviceID string, ts time.Time) (Reading, error)
	GetByID(ctx context.Context, id uint) (Reading, error)
	Add(ctx context.Context, reading *Reading) error
	Recent(ctx context.Context, deviceID string, excludeID uint, limit int) ([]Reading, error)
	Query(ctx context.Context, deviceID string, limit int) ([]Reading, error)

	AddDuplicate(ctx context.Context, duplicate *Duplicate) error
	GetDuplicate(ctx context.Context, id uint) (Duplicate, error)
	QueryDuplicates(ctx context.Context, q DuplicateQuery) (repositories.Collection[DuplicateGroup], error)
	MergeDuplicates(ctx context.Context, originalID uint, duplicateIDs []uint) (int, error)
	IgnoreDuplicates(ctx context.Context, duplicateIDs []uint) (int, error)
}

var ErrDuplicateMismatch = fmt.Errorf("duplicate does not belong to original")

const (
	maxSampleDuplicates int = 5
	defaultLimit        int = 50
)

type telemetryRepository struct {
	db *gorm.DB
}

func NewTelemetryRepository(connect ConnectorFunc) (TelemetryRepository, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Reading{}, &Duplicate{})
	if err != nil {
		return nil, err
	}

	return &telemetryRepository{
		db: impl,
	}, nil
}

func (r *telemetryRepository) Exists(ctx context.Context, deviceID string, ts time.Time) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&Reading{}).
		Where("device_id = ? AND ts = ?", deviceID, ts.UTC()).
		Count(&count).Error

	return count > 0, err
}

func (r *telemetryRepository) Get(ctx context.Context, deviceID string, ts time.Time) (Reading, error) {
	readings := []Reading{}

	err := r.db.WithContext(ctx).
		Where("device_id = ? AND ts = ?", deviceID, ts.UTC()).
		Limit(1).
		Find(&readings).Error
	if err != nil {
		return Reading{}, err
	}

	if len(readings) == 0 {
		return Reading{}, ErrNotFound
	}

	return readings[0], nil
}

func (r *telemetryRepository) GetByID(ctx context.Context, id uint) (Reading, error) {
	reading := Reading{}

	err := r.db.WithContext(ctx).First(&reading, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Reading{}, ErrNotFound
		}
		return Reading{}, err
	}

	return reading, nil
}

func (r *telemetryRepository) Add(ctx context.Context, reading *Reading) error {
	logger := logging.GetFromContext(ctx)

	reading.Timestamp = reading.Timestamp.UTC()
	if reading.ReceivedAt.IsZero() {
		reading.ReceivedAt = time.Now().UTC()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(reading).Error
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("telemetry for %s at %s: %w", reading.DeviceID, reading.Timestamp.Format(time.RFC3339Nano), ErrAlreadyExists)
		}
		return err
	}

	logger.Debug().Msgf("added telemetry %d for device %s", reading.ID, reading.DeviceID)

	return nil
}

func (r *telemetryRepository) Recent(ctx context.Context, deviceID string, excludeID uint, limit int) ([]Reading, error) {
	readings := []Reading{}

	query := r.db.WithContext(ctx).Where("device_id = ?", deviceID)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	err := query.Order("ts DESC").Limit(limit).Find(&readings).Error
	if err != nil {
		return []Reading{}, err
	}

	return lo.Reverse(readings), nil
}

func (r *telemetryRepository) Query(ctx context.Context, deviceID string, limit int) ([]Reading, error) {
	readings := []Reading{}

	if limit <= 0 {
		limit = defaultLimit
	}

	query := r.db.WithContext(ctx)
	if deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}

	err := query.Order("received_at DESC").Limit(limit).Find(&readings).Error
	if err != nil {
		return []Reading{}, err
	}

	return readings, nil
}

func (r *telemetryRepository) AddDuplicate(ctx context.Context, duplicate *Duplicate) error {
	duplicate.Timestamp = duplicate.Timestamp.UTC()
	if duplicate.ReceivedAt.IsZero() {
		duplicate.ReceivedAt = time.Now().UTC()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(duplicate).Error
	})
}

func (r *telemetryRepository) GetDuplicate(ctx context.Context, id uint) (Duplicate, error) {
	duplicate := Duplicate{}

	err := r.db.WithContext(ctx).First(&duplicate, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Duplicate{}, ErrNotFound
		}
		return Duplicate{}, err
	}

	return duplicate, nil
}

func (r *telemetryRepository) openDuplicates(ctx context.Context, q DuplicateQuery) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&Duplicate{}).
		Where("is_merged = ? AND is_ignored = ?", false, false)

	if q.DeviceID != "" {
		query = query.Where("device_id = ?", q.DeviceID)
	}
	if q.From != nil {
		query = query.Where("timestamp >= ?", q.From.UTC())
	}
	if q.To != nil {
		query = query.Where("timestamp <= ?", q.To.UTC())
	}

	return query
}

func (r *telemetryRepository) QueryDuplicates(ctx context.Context, q DuplicateQuery) (repositories.Collection[DuplicateGroup], error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}

	grouped := func() *gorm.DB {
		return r.openDuplicates(ctx, q).
			Select("original_telemetry_id, device_id, timestamp, count(*) AS duplicate_count").
			Group("original_telemetry_id, device_id, timestamp")
	}

	var total int64
	err := r.db.WithContext(ctx).Table("(?) AS grouped", grouped()).Count(&total).Error
	if err != nil {
		return repositories.Collection[DuplicateGroup]{}, err
	}

	groups := []DuplicateGroup{}

	err = grouped().Order("timestamp DESC").Offset(q.Offset).Limit(q.Limit).Scan(&groups).Error
	if err != nil {
		return repositories.Collection[DuplicateGroup]{}, err
	}

	result := make([]DuplicateGroup, 0, len(groups))

	for _, g := range groups {
		original, err := r.GetByID(ctx, g.OriginalID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return repositories.Collection[DuplicateGroup]{}, err
		}
		g.Original = &original

		samples := []Duplicate{}
		err = r.openDuplicates(ctx, DuplicateQuery{}).
			Where("original_telemetry_id = ?", g.OriginalID).
			Order("received_at ASC").
			Limit(maxSampleDuplicates).
			Find(&samples).Error
		if err != nil {
			return repositories.Collection[DuplicateGroup]{}, err
		}
		g.Samples = samples

		result = append(result, g)
	}

	return repositories.Collection[DuplicateGroup]{
		Data:       result,
		Count:      uint64(len(result)),
		Offset:     uint64(q.Offset),
		Limit:      uint64(q.Limit),
		TotalCount: uint64(total),
	}, nil
}

func (r *telemetryRepository) MergeDuplicates(ctx context.Context, originalID uint, duplicateIDs []uint) (int, error) {
	if _, err := r.GetByID(ctx, originalID); err != nil {
		return 0, err
	}

	merged := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range lo.Uniq(duplicateIDs) {
			d := []Duplicate{}

			err := tx.Where("id = ?", id).Limit(1).Find(&d).Error
			if err != nil {
				return err
			}

			if len(d) == 0 || d[0].Merged {
				continue
			}

			if d[0].OriginalID != originalID {
				return fmt.Errorf("duplicate %d, original %d: %w", id, originalID, ErrDuplicateMismatch)
			}

			err = tx.Model(&d[0]).Update("is_merged", true).Error
			if err != nil {
				return err
			}

			merged++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return merged, nil
}

func (r *telemetryRepository) IgnoreDuplicates(ctx context.Context, duplicateIDs []uint) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&Duplicate{}).
		Where("id IN ? AND is_ignored = ?", lo.Uniq(duplicateIDs), false).
		Update("is_ignored", true)

	return int(result.RowsAffected), result.Error
}
