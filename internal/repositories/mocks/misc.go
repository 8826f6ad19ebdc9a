package mocks

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories"

	"github.com/stretchr/testify/mock"
)

type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *SettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *AuditRepository) List(ctx context.Context, filter repositories.AuditFilter) ([]models.AuditEntry, int64, error) {
	args := m.Called(ctx, filter)
	return sliceOrNil[models.AuditEntry](args, 0), args.Get(1).(int64), args.Error(2)
}

type ConsumptionLogRepository struct {
	mock.Mock
}

func (m *ConsumptionLogRepository) Create(ctx context.Context, entry *models.ConsumptionLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *ConsumptionLogRepository) ListForRestaurant(ctx context.Context, restaurantID uint, day time.Time) ([]models.ConsumptionLog, error) {
	args := m.Called(ctx, restaurantID, day)
	return sliceOrNil[models.ConsumptionLog](args, 0), args.Error(1)
}

func (m *ConsumptionLogRepository) CountForRestaurant(ctx context.Context, restaurantID uint, day time.Time) (int64, error) {
	args := m.Called(ctx, restaurantID, day)
	return args.Get(0).(int64), args.Error(1)
}
