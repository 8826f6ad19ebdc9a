package mocks

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories"

	"github.com/stretchr/testify/mock"
)

type MenuRepository struct {
	mock.Mock
}

func (m *MenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return m.Called(ctx, menu).Error(0)
}

func (m *MenuRepository) GetByID(ctx context.Context, id uint) (*models.Menu, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.Menu](args, 0), args.Error(1)
}

func (m *MenuRepository) UpdateDetails(ctx context.Context, id uint, changes repositories.MenuChanges) (*models.Menu, error) {
	args := m.Called(ctx, id, changes)
	return ptrOrNil[models.Menu](args, 0), args.Error(1)
}

func (m *MenuRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MenuRepository) ListForDay(ctx context.Context, restaurantID uint, day time.Time, onlyAvailable bool) ([]models.Menu, error) {
	args := m.Called(ctx, restaurantID, day, onlyAvailable)
	return sliceOrNil[models.Menu](args, 0), args.Error(1)
}

func (m *MenuRepository) ListByRestaurant(ctx context.Context, restaurantID uint, offset, limit int) ([]models.Menu, int64, error) {
	args := m.Called(ctx, restaurantID, offset, limit)
	return sliceOrNil[models.Menu](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *MenuRepository) CountServable(ctx context.Context, restaurantID uint, day time.Time) (int64, error) {
	args := m.Called(ctx, restaurantID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuRepository) Decrement(ctx context.Context, id uint, quantity int) (*models.Menu, error) {
	args := m.Called(ctx, id, quantity)
	return ptrOrNil[models.Menu](args, 0), args.Error(1)
}

func (m *MenuRepository) DeleteForDate(ctx context.Context, restaurantID uint, day time.Time) (int64, error) {
	args := m.Called(ctx, restaurantID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuRepository) AvailableDates(ctx context.Context, restaurantID uint, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, restaurantID, from, to)
	return sliceOrNil[time.Time](args, 0), args.Error(1)
}
