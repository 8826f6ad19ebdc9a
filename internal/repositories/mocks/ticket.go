package mocks

import (
	"context"
	"time"

	"mutralo/internal/models"

	"github.com/stretchr/testify/mock"
)

type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) CreateBatch(ctx context.Context, tickets []*models.Ticket) error {
	return m.Called(ctx, tickets).Error(0)
}

func (m *TicketRepository) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.Ticket](args, 0), args.Error(1)
}

func (m *TicketRepository) LockNumbering(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func (m *TicketRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *TicketRepository) FirstRedeemable(ctx context.Context, ownerID uint, day time.Time) (*models.Ticket, error) {
	args := m.Called(ctx, ownerID, day)
	return ptrOrNil[models.Ticket](args, 0), args.Error(1)
}

func (m *TicketRepository) CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TicketRepository) MarkConsumed(ctx context.Context, id uint, day, at time.Time, restaurantID, validatorID uint) (bool, error) {
	args := m.Called(ctx, id, day, at, restaurantID, validatorID)
	return args.Bool(0), args.Error(1)
}

func (m *TicketRepository) MarkCancelled(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *TicketRepository) CancelForPurchase(ctx context.Context, purchaseID uint) (int64, error) {
	args := m.Called(ctx, purchaseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TicketRepository) CountConsumedForPurchase(ctx context.Context, purchaseID uint) (int64, error) {
	args := m.Called(ctx, purchaseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TicketRepository) ExpireBefore(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TicketRepository) ListByOwner(ctx context.Context, ownerID uint, status models.TicketStatus, offset, limit int) ([]models.Ticket, int64, error) {
	args := m.Called(ctx, ownerID, status, offset, limit)
	return sliceOrNil[models.Ticket](args, 0), args.Get(1).(int64), args.Error(2)
}
