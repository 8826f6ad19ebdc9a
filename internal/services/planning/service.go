package planning

import (
	"context"
	"fmt"
	"log"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

type service struct {
	repo repositories.PlanningRepository
	tx   repositories.Transactor
	now  func() time.Time
}

// NewService creates a new planning service
func NewService(repo repositories.PlanningRepository, tx repositories.Transactor) Service {
	if repo == nil {
		panic("planning repository is required")
	}
	if tx == nil {
		panic("transactor is required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}
}

func (s *service) Assign(ctx context.Context, req AssignRequest) (*models.Planning, error) {
	if req.Type == "" {
		req.Type = models.PlanningMonthly
	}
	if err := validateRange(req.Type, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	p := &models.Planning{
		RestaurantID: req.RestaurantID,
		AgencyID:     req.AgencyID,
		Type:         req.Type,
		StartDate:    models.DateOf(req.StartDate),
		EndDate:      models.DateOf(req.EndDate),
		Active:       true,
		CreatedBy:    req.CreatedBy,
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, p); err != nil {
			return err
		}
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Restaurant %d scheduled for agency %d from %s to %s",
		p.RestaurantID, p.AgencyID, p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
	return p, nil
}

// checkOverlap locks the agency and refuses p when another restaurant is
// scheduled for it on any day of p's range.
func (s *service) checkOverlap(ctx context.Context, p *models.Planning) error {
	if err := s.repo.LockAgency(ctx, p.AgencyID); err != nil {
		return fmt.Errorf("lock agency %d: %w", p.AgencyID, err)
	}
	conflicts, err := s.repo.FindOverlapping(ctx, p.AgencyID, p.RestaurantID, p.StartDate, p.EndDate, p.ID)
	if err != nil {
		return fmt.Errorf("find overlapping plannings: %w", err)
	}
	if len(conflicts) > 0 {
		return apperrors.ErrOverlapConflict
	}
	return nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateRequest) (*models.Planning, error) {
	var updated *models.Planning
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if req.RestaurantID != nil {
			p.RestaurantID = *req.RestaurantID
		}
		if req.Type != nil {
			p.Type = *req.Type
		}
		if req.StartDate != nil {
			p.StartDate = models.DateOf(*req.StartDate)
		}
		if req.EndDate != nil {
			p.EndDate = models.DateOf(*req.EndDate)
		}
		if req.Active != nil {
			p.Active = *req.Active
		}
		if err := validateRange(p.Type, p.StartDate, p.EndDate); err != nil {
			return err
		}
		if p.Active {
			if err := s.checkOverlap(ctx, p); err != nil {
				return err
			}
		}
		p.Restaurant, p.Agency = nil, nil
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update planning: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Deactivate(ctx context.Context, id uint) (*models.Planning, error) {
	inactive := false
	return s.Update(ctx, id, UpdateRequest{Active: &inactive})
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.ErrPlanningNotFound
		}
		return err
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Planning, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrPlanningNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, filter repositories.PlanningFilter) ([]models.Planning, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) IsRestaurantScheduledToday(ctx context.Context, restaurantID uint) (bool, error) {
	return s.repo.ExistsActiveForRestaurant(ctx, restaurantID, models.DateOf(s.now()))
}

func (s *service) CurrentForAgency(ctx context.Context, agencyID uint, day time.Time) (*models.Planning, error) {
	p, err := s.repo.CurrentForAgency(ctx, agencyID, models.DateOf(day))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrPlanningNotFound
		}
		return nil, err
	}
	return p, nil
}
