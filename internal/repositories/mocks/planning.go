package mocks

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories"

	"github.com/stretchr/testify/mock"
)

type PlanningRepository struct {
	mock.Mock
}

func (m *PlanningRepository) Create(ctx context.Context, planning *models.Planning) error {
	return m.Called(ctx, planning).Error(0)
}

func (m *PlanningRepository) Update(ctx context.Context, planning *models.Planning) error {
	return m.Called(ctx, planning).Error(0)
}

func (m *PlanningRepository) GetByID(ctx context.Context, id uint) (*models.Planning, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.Planning](args, 0), args.Error(1)
}

func (m *PlanningRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PlanningRepository) LockAgency(ctx context.Context, agencyID uint) error {
	return m.Called(ctx, agencyID).Error(0)
}

func (m *PlanningRepository) FindOverlapping(ctx context.Context, agencyID, restaurantID uint, start, end time.Time, excludeID uint) ([]models.Planning, error) {
	args := m.Called(ctx, agencyID, restaurantID, start, end, excludeID)
	return sliceOrNil[models.Planning](args, 0), args.Error(1)
}

func (m *PlanningRepository) ExistsActiveForRestaurant(ctx context.Context, restaurantID uint, day time.Time) (bool, error) {
	args := m.Called(ctx, restaurantID, day)
	return args.Bool(0), args.Error(1)
}

func (m *PlanningRepository) CurrentForAgency(ctx context.Context, agencyID uint, day time.Time) (*models.Planning, error) {
	args := m.Called(ctx, agencyID, day)
	return ptrOrNil[models.Planning](args, 0), args.Error(1)
}

func (m *PlanningRepository) List(ctx context.Context, filter repositories.PlanningFilter) ([]models.Planning, int64, error) {
	args := m.Called(ctx, filter)
	return sliceOrNil[models.Planning](args, 0), args.Get(1).(int64), args.Error(2)
}
