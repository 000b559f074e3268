package alerts

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories"
	. "github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
)

//go:generate moq -rm -out alertrepository_mock.go . AlertRepository

type AlertRepository interface {
	Get(ctx context.Context, deviceID string, ts time.Time) (Alert, error)
	Add(ctx context.Context, alert *Alert) error
	NotifiedSince(ctx context.Context, deviceID, severity string, since time.Time) (bool, error)
	Query(ctx context.Context, q AlertQuery) (repositories.Collection[Alert], error)
}

const defaultLimit int = 100

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(connect ConnectorFunc) (AlertRepository, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Alert{})
	if err != nil {
		return nil, err
	}

	return &alertRepository{
		db: impl,
	}, nil
}

func (d *alertRepository) Get(ctx context.Context, deviceID string, ts time.Time) (Alert, error) {
	alerts := []Alert{}

	err := d.db.WithContext(ctx).
		Where("device_id = ? AND ts = ?", deviceID, ts.UTC()).
		Limit(1).
		Find(&alerts).Error
	if err != nil {
		return Alert{}, err
	}

	if len(alerts) == 0 {
		return Alert{}, ErrNotFound
	}

	return alerts[0], nil
}

func (d *alertRepository) Add(ctx context.Context, alert *Alert) error {
	logger := logging.GetFromContext(ctx)

	alert.Timestamp = alert.Timestamp.UTC()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(alert).Error
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("alert for %s at %s: %w", alert.DeviceID, alert.Timestamp.Format(time.RFC3339Nano), ErrAlreadyExists)
		}
		return err
	}

	logger.Debug().Msgf("add new alert, deviceID: %s, severity: %s, notified: %t", alert.DeviceID, alert.Severity, alert.Notified)

	return nil
}

// NotifiedSince reports whether the device has a notified alert of the given
// severity created at or after since.
func (d *alertRepository) NotifiedSince(ctx context.Context, deviceID, severity string, since time.Time) (bool, error) {
	var count int64

	err := d.db.WithContext(ctx).
		Model(&Alert{}).
		Where("device_id = ? AND severity = ? AND notified = ? AND created_at >= ?", deviceID, severity, true, since.UTC()).
		Count(&count).Error

	return count > 0, err
}

func (d *alertRepository) Query(ctx context.Context, q AlertQuery) (repositories.Collection[Alert], error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}

	filtered := func() *gorm.DB {
		query := d.db.WithContext(ctx).Model(&Alert{})

		if q.DeviceID != "" {
			query = query.Where("device_id = ?", q.DeviceID)
		}
		if q.Severity != "" {
			query = query.Where("severity = ?", q.Severity)
		}
		if q.GeoOnly {
			query = query.Where("lat IS NOT NULL AND lon IS NOT NULL AND lat <> 0 AND lon <> 0")
		}

		return query
	}

	var total int64
	err := filtered().Count(&total).Error
	if err != nil {
		return repositories.Collection[Alert]{}, err
	}

	alerts := []Alert{}

	err = filtered().Order("ts DESC").Offset(q.Offset).Limit(q.Limit).Find(&alerts).Error
	if err != nil {
		return repositories.Collection[Alert]{}, err
	}

	return repositories.Collection[Alert]{
		Data:       alerts,
		Count:      uint64(len(alerts)),
		Offset:     uint64(q.Offset),
		Limit:      uint64(q.Limit),
		TotalCount: uint64(total),
	}, nil
}
