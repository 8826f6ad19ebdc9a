package reservation

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

type service struct {
	repo    repositories.ReservationRepository
	menus   MenuCatalog
	tickets TicketCounter
	tx      repositories.Transactor
	now     func() time.Time
}

// NewService creates a new reservation service
func NewService(repo repositories.ReservationRepository, menus MenuCatalog, tickets TicketCounter, tx repositories.Transactor) Service {
	if repo == nil {
		panic("reservation repository is required")
	}
	if menus == nil {
		panic("menu catalog is required")
	}
	if tickets == nil {
		panic("ticket counter is required")
	}
	if tx == nil {
		panic("transactor is required")
	}
	return &service{repo: repo, menus: menus, tickets: tickets, tx: tx, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateRequest, settings models.Settings) (*models.Reservation, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}

	day := models.DateOf(req.Date)
	earliest := models.DateOf(s.now()).AddDate(0, 0, settings.ReservationLeadDays)
	if day.Before(earliest) {
		return nil, apperrors.ErrInvalidDate
	}

	menu, err := s.menus.Get(ctx, req.MenuID)
	if err != nil {
		return nil, err
	}
	if !menu.CanServe() || !servedOn(menu, day) {
		return nil, apperrors.ErrMenuUnavailable
	}

	// A booking is only worth keeping if a ticket can pay for it that day.
	redeemable, err := s.tickets.CountRedeemable(ctx, req.ClientID, day)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	if redeemable == 0 {
		return nil, apperrors.ErrNoValidTickets
	}

	r := &models.Reservation{
		ClientID:        req.ClientID,
		RestaurantID:    menu.RestaurantID,
		MenuID:          menu.ID,
		ReservationDate: day,
		Status:          models.ReservationPending,
		Quantity:        req.Quantity,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		if stderrors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateReservation
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	r.Menu = menu
	return r, nil
}

// servedOn reports whether a dated dish matches day, or an undated one its weekday.
func servedOn(m *models.Menu, day time.Time) bool {
	if m.Date != nil {
		return models.DateOf(*m.Date).Equal(day)
	}
	return m.Weekday == models.WeekdayOf(day)
}

func (s *service) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *service) Confirm(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.apply(ctx, id, actionConfirm)
}

func (s *service) Cancel(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.apply(ctx, id, actionCancel)
}

func (s *service) Complete(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.CompleteWithDish(ctx, id, 0)
}

func (s *service) CompleteWithDish(ctx context.Context, id, menuID uint) (*models.Reservation, error) {
	var done *models.Reservation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if menuID != 0 && menuID != r.MenuID {
			if !ValidTransition(actionComplete, r.Status) {
				return apperrors.ErrInvalidTransition
			}
			ok, err := s.repo.Rebind(ctx, id, menuID)
			if err != nil {
				if repositories.IsDuplicate(err) {
					return apperrors.ErrDuplicateReservation
				}
				return fmt.Errorf("rebind reservation: %w", err)
			}
			if !ok {
				return apperrors.ErrInvalidTransition
			}
			r.MenuID, r.Menu = menuID, nil
		}
		if err := s.move(ctx, r, actionComplete); err != nil {
			return err
		}
		if _, err := s.menus.Decrement(ctx, r.MenuID, r.Quantity); err != nil {
			return fmt.Errorf("decrement served dish: %w", err)
		}
		done = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

func (s *service) apply(ctx context.Context, id uint, act action) (*models.Reservation, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.move(ctx, r, act); err != nil {
		return nil, err
	}
	return r, nil
}

// move applies act to r with a conditional update on its current status.
func (s *service) move(ctx context.Context, r *models.Reservation, act action) error {
	if !ValidTransition(act, r.Status) {
		return apperrors.ErrInvalidTransition
	}

	t := transitionMap[act]
	ok, err := s.repo.Transition(ctx, r.ID, t.from, t.to)
	if err != nil {
		return fmt.Errorf("%s reservation: %w", act, err)
	}
	if !ok {
		return apperrors.ErrInvalidTransition
	}
	r.Status = t.to
	return nil
}

func (s *service) FindActive(ctx context.Context, clientID, restaurantID uint, day time.Time) (*models.Reservation, error) {
	r, err := s.repo.FindActive(ctx, clientID, restaurantID, models.DateOf(day))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *service) RecordWalkIn(ctx context.Context, clientID, restaurantID, menuID uint, day time.Time) (*models.Reservation, error) {
	r := &models.Reservation{
		ClientID:        clientID,
		RestaurantID:    restaurantID,
		MenuID:          menuID,
		ReservationDate: models.DateOf(day),
		Status:          models.ReservationDone,
		Quantity:        1,
		Notes:           "walk-in",
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("record walk-in: %w", err)
	}
	return r, nil
}

func (s *service) ListForClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Reservation, int64, error) {
	return s.repo.ListByClient(ctx, clientID, offset, limit)
}

func (s *service) ListForRestaurant(ctx context.Context, restaurantID uint, day time.Time, status models.ReservationStatus) ([]models.Reservation, error) {
	return s.repo.ListByRestaurant(ctx, restaurantID, models.DateOf(day), status)
}
