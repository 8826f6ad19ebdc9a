package mocks

import (
	"context"
	"time"

	"mutralo/internal/models"

	"github.com/stretchr/testify/mock"
)

type QRCodeRepository struct {
	mock.Mock
}

func (m *QRCodeRepository) Create(ctx context.Context, qr *models.QRCode) error {
	return m.Called(ctx, qr).Error(0)
}

func (m *QRCodeRepository) GetByID(ctx context.Context, id uint) (*models.QRCode, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.QRCode](args, 0), args.Error(1)
}

func (m *QRCodeRepository) GetByCode(ctx context.Context, code string) (*models.QRCode, error) {
	args := m.Called(ctx, code)
	return ptrOrNil[models.QRCode](args, 0), args.Error(1)
}

func (m *QRCodeRepository) Current(ctx context.Context, userID uint) (*models.QRCode, error) {
	args := m.Called(ctx, userID)
	return ptrOrNil[models.QRCode](args, 0), args.Error(1)
}

func (m *QRCodeRepository) InvalidateActive(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *QRCodeRepository) Invalidate(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *QRCodeRepository) MarkUsed(ctx context.Context, id, restaurantID uint, at time.Time) (bool, error) {
	args := m.Called(ctx, id, restaurantID, at)
	return args.Bool(0), args.Error(1)
}
