package mocks

import (
	"context"
	"time"

	"mutralo/internal/models"

	"github.com/stretchr/testify/mock"
)

type PurchaseRepository struct {
	mock.Mock
}

func (m *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *PurchaseRepository) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.Purchase](args, 0), args.Error(1)
}

func (m *PurchaseRepository) LockByID(ctx context.Context, id uint) (*models.Purchase, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.Purchase](args, 0), args.Error(1)
}

func (m *PurchaseRepository) CountCompleted(ctx context.Context, clientID uint, from, to time.Time, excludeID uint) (int64, error) {
	args := m.Called(ctx, clientID, from, to, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PurchaseRepository) SetTicketRange(ctx context.Context, id uint, first, last string) error {
	return m.Called(ctx, id, first, last).Error(0)
}

func (m *PurchaseRepository) MarkRefunded(ctx context.Context, id uint, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *PurchaseRepository) ListForClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Purchase, int64, error) {
	args := m.Called(ctx, clientID, offset, limit)
	return sliceOrNil[models.Purchase](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *PurchaseRepository) ListForCashier(ctx context.Context, cashierID uint, offset, limit int) ([]models.Purchase, int64, error) {
	args := m.Called(ctx, cashierID, offset, limit)
	return sliceOrNil[models.Purchase](args, 0), args.Get(1).(int64), args.Error(2)
}
