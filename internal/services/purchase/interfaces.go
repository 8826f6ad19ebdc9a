package purchase

import (
	"context"

	"mutralo/internal/models"
	"mutralo/internal/services/ticket"
)

// Service handles cashier sales and refunds.
type Service interface {
	Sell(ctx context.Context, req SaleRequest, settings models.Settings) (*models.Purchase, error)
	Refund(ctx context.Context, purchaseID, actorID uint) (*models.Purchase, error)

	QuotaStatus(ctx context.Context, clientID uint, settings models.Settings) (*Quota, error)
	Get(ctx context.Context, id uint) (*models.Purchase, error)
	ListForClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Purchase, int64, error)
	ListForCashier(ctx context.Context, cashierID uint, offset, limit int) ([]models.Purchase, int64, error)
}

// Ledger is the part of the ticket ledger sales depend on.
type Ledger interface {
	Issue(ctx context.Context, req ticket.IssueRequest, settings models.Settings) ([]*models.Ticket, error)
	CancelForPurchase(ctx context.Context, purchaseID uint) (int64, error)
	CountConsumedForPurchase(ctx context.Context, purchaseID uint) (int64, error)
}

type UserLocker interface {
	LockByID(ctx context.Context, id uint) (*models.User, error)
}
