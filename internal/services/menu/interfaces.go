package menu

import (
	"context"
	"time"

	"mutralo/internal/models"
)

// Service manages the dishes a restaurant serves.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Menu, error)
	Update(ctx context.Context, restaurantID, menuID uint, req UpdateRequest) (*models.Menu, error)
	// Delete removes the dish and cancels its active reservations.
	Delete(ctx context.Context, restaurantID, menuID uint) error

	// Decrement consumes quantity units of stock in one atomic update.
	Decrement(ctx context.Context, menuID uint, quantity int) (*models.Menu, error)

	Get(ctx context.Context, menuID uint) (*models.Menu, error)
	// GetForRestaurant returns the dish only if it belongs to restaurantID.
	GetForRestaurant(ctx context.Context, restaurantID, menuID uint) (*models.Menu, error)
	ListAvailable(ctx context.Context, restaurantID uint, day time.Time) ([]models.Menu, error)
	ListForDay(ctx context.Context, restaurantID uint, day time.Time) ([]models.Menu, error)
	ListForRestaurant(ctx context.Context, restaurantID uint, offset, limit int) ([]models.Menu, int64, error)
	HasAvailable(ctx context.Context, restaurantID uint, day time.Time) (bool, error)

	// Duplicate copies the dishes of source onto target and returns how many were created.
	Duplicate(ctx context.Context, restaurantID uint, source, target time.Time, replace bool) (int, error)
	AvailableDates(ctx context.Context, restaurantID uint, from, to time.Time) ([]time.Time, error)
}

// ReservationCanceller cancels the open bookings of a dish.
type ReservationCanceller interface {
	CancelActiveForMenu(ctx context.Context, menuID uint) (int64, error)
}
