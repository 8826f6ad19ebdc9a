package menu

import (
	"strings"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
)

// CreateRequest describes a new dish. Either Date or Weekday must be set;
// a dated dish takes its weekday from the date.
type CreateRequest struct {
	RestaurantID uint
	Name         string
	Description  string
	Courses      []string
	Date         *time.Time
	Weekday      models.Weekday
	Price        int64
	Stock        *int
}

func (r CreateRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" || r.Price < 0 {
		return apperrors.ErrInvalidMenu
	}
	if r.Stock != nil && *r.Stock < 0 {
		return apperrors.ErrInvalidMenu
	}
	if r.Date == nil && !r.Weekday.Valid() {
		return apperrors.ErrInvalidMenu
	}
	return nil
}

// UpdateRequest changes the non-nil fields of a dish. A dish whose stock
// is used up stays unavailable.
type UpdateRequest struct {
	Name        *string
	Description *string
	Courses     []string
	Price       *int64
	Stock       *int
	ClearStock  bool
	Available   *bool
}

func (r UpdateRequest) apply(m *models.Menu) error {
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return apperrors.ErrInvalidMenu
		}
		m.Name = *r.Name
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.Courses != nil {
		m.Courses = r.Courses
	}
	if r.Price != nil {
		if *r.Price < 0 {
			return apperrors.ErrInvalidMenu
		}
		m.Price = *r.Price
	}
	switch {
	case r.ClearStock:
		m.Stock = nil
	case r.Stock != nil:
		if *r.Stock < 0 {
			return apperrors.ErrInvalidMenu
		}
		stock := *r.Stock
		m.Stock = &stock
	}
	if r.Available != nil {
		m.Available = *r.Available
	}
	if left := m.Remaining(); left != nil && *left == 0 {
		if r.Available != nil && *r.Available {
			return apperrors.ErrMenuSoldOut
		}
		m.Available = false
	}
	return nil
}
