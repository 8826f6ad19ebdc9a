package planning

import (
	"context"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

// Service schedules which restaurant serves each agency.
type Service interface {
	Assign(ctx context.Context, req AssignRequest) (*models.Planning, error)
	Update(ctx context.Context, id uint, req UpdateRequest) (*models.Planning, error)
	Deactivate(ctx context.Context, id uint) (*models.Planning, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*models.Planning, error)
	List(ctx context.Context, filter repositories.PlanningFilter) ([]models.Planning, int64, error)

	IsRestaurantScheduledToday(ctx context.Context, restaurantID uint) (bool, error)
	// CurrentForAgency returns the planning serving the agency on day.
	CurrentForAgency(ctx context.Context, agencyID uint, day time.Time) (*models.Planning, error)
}
