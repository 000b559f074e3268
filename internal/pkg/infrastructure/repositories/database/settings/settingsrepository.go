package settings

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	. "github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/repositories/database"
)

//go:generate moq -rm -out settingsrepository_mock.go . SettingsRepository

type SettingsRepository interface {
	GetOrCreate(ctx context.Context, deviceID string) (DeviceSettings, error)
	Update(ctx context.Context, deviceID string, u Update) (DeviceSettings, error)
}

var ErrInvalidDeviceID = fmt.Errorf("device id must not be empty")

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(connect ConnectorFunc) (SettingsRepository, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&DeviceSettings{})
	if err != nil {
		return nil, err
	}

	return &settingsRepository{
		db: impl,
	}, nil
}

// GetOrCreate returns the settings for a device, storing the defaults the
// first time a device is seen.
func (r *settingsRepository) GetOrCreate(ctx context.Context, deviceID string) (DeviceSettings, error) {
	var s DeviceSettings

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		s, err = getOrCreate(tx, deviceID)
		return err
	})

	return s, err
}

func (r *settingsRepository) Update(ctx context.Context, deviceID string, u Update) (DeviceSettings, error) {
	logger := logging.GetFromContext(ctx)

	var s DeviceSettings

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		s, err = getOrCreate(tx, deviceID)
		if err != nil {
			return err
		}

		u.apply(&s)

		return tx.Save(&s).Error
	})
	if err != nil {
		return DeviceSettings{}, err
	}

	logger.Info().Str("device_id", deviceID).Msg("device settings updated")

	return s, nil
}

func getOrCreate(tx *gorm.DB, deviceID string) (DeviceSettings, error) {
	if deviceID == "" {
		return DeviceSettings{}, ErrInvalidDeviceID
	}

	defaults := NewDefaultSettings(deviceID)

	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
	if err != nil {
		return DeviceSettings{}, err
	}

	s := DeviceSettings{}
	err = tx.First(&s, "device_id = ?", deviceID).Error
	if err != nil {
		return DeviceSettings{}, err
	}

	return s, nil
}
