package mocks

import (
	"context"
	"time"

	"mutralo/internal/models"

	"github.com/stretchr/testify/mock"
)

type ReservationRepository struct {
	mock.Mock
}

func (m *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return m.Called(ctx, reservation).Error(0)
}

func (m *ReservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.Reservation](args, 0), args.Error(1)
}

func (m *ReservationRepository) FindActive(ctx context.Context, clientID, restaurantID uint, day time.Time) (*models.Reservation, error) {
	args := m.Called(ctx, clientID, restaurantID, day)
	return ptrOrNil[models.Reservation](args, 0), args.Error(1)
}

func (m *ReservationRepository) Transition(ctx context.Context, id uint, from []models.ReservationStatus, to models.ReservationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *ReservationRepository) Rebind(ctx context.Context, id, menuID uint) (bool, error) {
	args := m.Called(ctx, id, menuID)
	return args.Bool(0), args.Error(1)
}

func (m *ReservationRepository) CancelActiveForMenu(ctx context.Context, menuID uint) (int64, error) {
	args := m.Called(ctx, menuID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReservationRepository) ListByClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Reservation, int64, error) {
	args := m.Called(ctx, clientID, offset, limit)
	return sliceOrNil[models.Reservation](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *ReservationRepository) ListByRestaurant(ctx context.Context, restaurantID uint, day time.Time, status models.ReservationStatus) ([]models.Reservation, error) {
	args := m.Called(ctx, restaurantID, day, status)
	return sliceOrNil[models.Reservation](args, 0), args.Error(1)
}
