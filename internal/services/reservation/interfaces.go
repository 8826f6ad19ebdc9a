package reservation

import (
	"context"
	"time"

	"mutralo/internal/models"
)

// Service manages dish reservations.
type Service interface {
	Create(ctx context.Context, req CreateRequest, settings models.Settings) (*models.Reservation, error)
	Get(ctx context.Context, id uint) (*models.Reservation, error)

	Confirm(ctx context.Context, id uint) (*models.Reservation, error)
	Cancel(ctx context.Context, id uint) (*models.Reservation, error)
	// Complete marks the reservation DONE and decrements its dish by the
	// reserved quantity in the same transaction.
	Complete(ctx context.Context, id uint) (*models.Reservation, error)
	// CompleteWithDish completes the reservation on menuID instead of the
	// booked dish: the reservation is rebound first so that the decrement
	// lands on the dish actually served. menuID 0 keeps the booked dish.
	CompleteWithDish(ctx context.Context, id, menuID uint) (*models.Reservation, error)

	// FindActive returns ErrReservationNotFound when the client has no
	// PENDING or CONFIRMED reservation at the restaurant on day.
	FindActive(ctx context.Context, clientID, restaurantID uint, day time.Time) (*models.Reservation, error)
	// RecordWalkIn stores a DONE reservation as the trace of a meal served
	// without booking. It does not touch inventory.
	RecordWalkIn(ctx context.Context, clientID, restaurantID, menuID uint, day time.Time) (*models.Reservation, error)

	ListForClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Reservation, int64, error)
	ListForRestaurant(ctx context.Context, restaurantID uint, day time.Time, status models.ReservationStatus) ([]models.Reservation, error)
}

// MenuCatalog is the part of the menu service reservations depend on.
type MenuCatalog interface {
	Get(ctx context.Context, menuID uint) (*models.Menu, error)
	Decrement(ctx context.Context, menuID uint, quantity int) (*models.Menu, error)
}

// TicketCounter counts the tickets a client can still redeem on a day.
type TicketCounter interface {
	CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error)
}
