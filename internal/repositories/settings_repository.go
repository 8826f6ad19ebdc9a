package repositories

import (
	"context"
	"errors"

	"mutralo/internal/models"

	"gorm.io/gorm"
)

// SettingsRepository reads and writes the single settings row.
type SettingsRepository interface {
	// Get returns the stored settings, or the defaults when none were saved.
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := conn(ctx, r.db).First(&settings, models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, translate(err)
	}
	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings models.Settings) error {
	settings.ID = models.SettingsID
	return translate(conn(ctx, r.db).Save(&settings).Error)
}
