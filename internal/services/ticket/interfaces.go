package ticket

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

// Service defines the ticket ledger
type Service interface {
	Issue(ctx context.Context, req IssueRequest, settings models.Settings) ([]*models.Ticket, error)
	Consume(ctx context.Context, ticketID, restaurantID, validatorID uint) (*models.Ticket, error)
	Cancel(ctx context.Context, ticketID uint) (*models.Ticket, error)

	// Lookups used by the redemption flow
	FirstRedeemable(ctx context.Context, ownerID uint, day time.Time) (*models.Ticket, error)
	CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error)

	ListByOwner(ctx context.Context, ownerID uint, status models.TicketStatus, offset, limit int) ([]models.Ticket, int64, error)

	// ExpireOverdue flips available tickets whose window ended before day.
	ExpireOverdue(ctx context.Context, day time.Time) (int64, error)

	// Purchase support
	CancelForPurchase(ctx context.Context, purchaseID uint) (int64, error)
	CountConsumedForPurchase(ctx context.Context, purchaseID uint) (int64, error)
}

// QuotaCounter counts the completed sales of a client in a date range.
type QuotaCounter interface {
	CountCompleted(ctx context.Context, clientID uint, from, to time.Time, excludeID uint) (int64, error)
}

// UserLocker locks the owner row for the duration of the issuing transaction.
type UserLocker interface {
	LockByID(ctx context.Context, id uint) (*models.User, error)
}

var (
	_ QuotaCounter = (repositories.PurchaseRepository)(nil)
	_ UserLocker   = (repositories.UserRepository)(nil)
)
