package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"
)

// TicketRepository defines the ticket ledger storage. State changes are
// conditional updates: the boolean result reports whether the row matched.
type TicketRepository interface {
	CreateBatch(ctx context.Context, tickets []*models.Ticket) error
	GetByID(ctx context.Context, id uint) (*models.Ticket, error)

	// LockNumbering serialises number allocation for prefix until the
	// surrounding transaction ends.
	LockNumbering(ctx context.Context, prefix string) error
	// LastNumber returns the highest number starting with prefix, or "".
	LastNumber(ctx context.Context, prefix string) (string, error)

	FirstRedeemable(ctx context.Context, ownerID uint, day time.Time) (*models.Ticket, error)
	CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error)

	MarkConsumed(ctx context.Context, id uint, day, at time.Time, restaurantID, validatorID uint) (bool, error)
	MarkCancelled(ctx context.Context, id uint) (bool, error)
	CancelForPurchase(ctx context.Context, purchaseID uint) (int64, error)
	CountConsumedForPurchase(ctx context.Context, purchaseID uint) (int64, error)
	ExpireBefore(ctx context.Context, day time.Time) (int64, error)

	ListByOwner(ctx context.Context, ownerID uint, status models.TicketStatus, offset, limit int) ([]models.Ticket, int64, error)
}
