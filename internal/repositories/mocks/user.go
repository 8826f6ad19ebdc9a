package mocks

import (
	"context"

	"mutralo/internal/models"

	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.User](args, 0), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return ptrOrNil[models.User](args, 0), args.Error(1)
}

func (m *UserRepository) GetWithAgency(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.User](args, 0), args.Error(1)
}

func (m *UserRepository) LockByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.User](args, 0), args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *UserRepository) TouchLastLogin(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *UserRepository) ListByRole(ctx context.Context, role string, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, role, offset, limit)
	return sliceOrNil[models.User](args, 0), args.Get(1).(int64), args.Error(2)
}
