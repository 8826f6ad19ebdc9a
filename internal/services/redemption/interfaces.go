package redemption

import (
	"context"
	"time"

	"mutralo/internal/models"
)

type Service interface {
	Verify(ctx context.Context, code string, restaurantID uint) (*Verification, error)
	// Commit consumes the ticket and the code. The redemption event is only
	// published when settings.NotifyOnConsumption is set.
	Commit(ctx context.Context, req CommitRequest, settings models.Settings) (*Receipt, error)
}

type TicketLedger interface {
	FirstRedeemable(ctx context.Context, ownerID uint, day time.Time) (*models.Ticket, error)
	CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error)
	Consume(ctx context.Context, ticketID, restaurantID, validatorID uint) (*models.Ticket, error)
}

type TokenService interface {
	Verify(ctx context.Context, code string) (*models.QRCode, error)
	Consume(ctx context.Context, tokenID, restaurantID uint) (*models.QRCode, error)
}

type MenuCatalog interface {
	GetForRestaurant(ctx context.Context, restaurantID, menuID uint) (*models.Menu, error)
	ListAvailable(ctx context.Context, restaurantID uint, day time.Time) ([]models.Menu, error)
	Decrement(ctx context.Context, menuID uint, quantity int) (*models.Menu, error)
}

type ReservationBook interface {
	FindActive(ctx context.Context, clientID, restaurantID uint, day time.Time) (*models.Reservation, error)
	CompleteWithDish(ctx context.Context, id, menuID uint) (*models.Reservation, error)
	Cancel(ctx context.Context, id uint) (*models.Reservation, error)
	RecordWalkIn(ctx context.Context, clientID, restaurantID, menuID uint, day time.Time) (*models.Reservation, error)
}

type UserDirectory interface {
	GetWithAgency(ctx context.Context, id uint) (*models.User, error)
}

type ConsumptionRecorder interface {
	Create(ctx context.Context, entry *models.ConsumptionLog) error
}
