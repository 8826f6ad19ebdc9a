package planning

import (
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
)

type AssignRequest struct {
	RestaurantID uint
	AgencyID     uint
	Type         models.PlanningType
	StartDate    time.Time
	EndDate      time.Time
	CreatedBy    uint
}

// UpdateRequest changes the non-nil fields of a planning.
type UpdateRequest struct {
	RestaurantID *uint
	Type         *models.PlanningType
	StartDate    *time.Time
	EndDate      *time.Time
	Active       *bool
}

func validateRange(t models.PlanningType, start, end time.Time) error {
	if !t.Valid() {
		return apperrors.ErrInvalidPlanningType
	}
	if models.DateOf(start).After(models.DateOf(end)) {
		return apperrors.ErrInvalidRange
	}
	return nil
}
