package menu

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

type service struct {
	repo         repositories.MenuRepository
	reservations ReservationCanceller
	tx           repositories.Transactor
}

// NewService creates a new menu service
func NewService(repo repositories.MenuRepository, reservations ReservationCanceller, tx repositories.Transactor) Service {
	if repo == nil {
		panic("menu repository is required")
	}
	if reservations == nil {
		panic("reservation canceller is required")
	}
	if tx == nil {
		panic("transactor is required")
	}
	return &service{repo: repo, reservations: reservations, tx: tx}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Menu, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	m := &models.Menu{
		RestaurantID: req.RestaurantID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Courses:      req.Courses,
		Weekday:      req.Weekday,
		Price:        req.Price,
		Available:    true,
		Stock:        req.Stock,
	}
	if req.Date != nil {
		d := models.DateOf(*req.Date)
		m.Date = &d
		m.Weekday = models.WeekdayOf(d)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create menu: %w", err)
	}
	return m, nil
}

func (s *service) Update(ctx context.Context, restaurantID, menuID uint, req UpdateRequest) (*models.Menu, error) {
	m, err := s.GetForRestaurant(ctx, restaurantID, menuID)
	if err != nil {
		return nil, err
	}
	if err := req.apply(m); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateDetails(ctx, menuID, repositories.MenuChanges{
		Name:        m.Name,
		Description: m.Description,
		Courses:     m.Courses,
		Price:       m.Price,
		Stock:       m.Stock,
		Available:   m.Available,
	})
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrMenuNotFound
		}
		return nil, fmt.Errorf("update menu: %w", err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, restaurantID, menuID uint) error {
	if _, err := s.GetForRestaurant(ctx, restaurantID, menuID); err != nil {
		return err
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.cancelReservations(ctx, menuID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, menuID); err != nil {
			if repositories.IsNotFound(err) {
				return apperrors.ErrMenuNotFound
			}
			return fmt.Errorf("delete menu: %w", err)
		}
		return nil
	})
}

// cancelReservations releases the bookings of a dish that is going away.
func (s *service) cancelReservations(ctx context.Context, menuID uint) error {
	n, err := s.reservations.CancelActiveForMenu(ctx, menuID)
	if err != nil {
		return fmt.Errorf("cancel reservations of dish %d: %w", menuID, err)
	}
	if n > 0 {
		log.Printf("Dish %d removed: %d reservation(s) cancelled", menuID, n)
	}
	return nil
}

func (s *service) Decrement(ctx context.Context, menuID uint, quantity int) (*models.Menu, error) {
	if quantity < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}
	m, err := s.repo.Decrement(ctx, menuID, quantity)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrMenuNotFound
		}
		return nil, fmt.Errorf("decrement menu: %w", err)
	}
	return m, nil
}

func (s *service) Get(ctx context.Context, menuID uint) (*models.Menu, error) {
	m, err := s.repo.GetByID(ctx, menuID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrMenuNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *service) GetForRestaurant(ctx context.Context, restaurantID, menuID uint) (*models.Menu, error) {
	m, err := s.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if m.RestaurantID != restaurantID {
		return nil, apperrors.ErrMenuNotFound
	}
	return m, nil
}

func (s *service) ListAvailable(ctx context.Context, restaurantID uint, day time.Time) ([]models.Menu, error) {
	return s.repo.ListForDay(ctx, restaurantID, models.DateOf(day), true)
}

func (s *service) ListForDay(ctx context.Context, restaurantID uint, day time.Time) ([]models.Menu, error) {
	return s.repo.ListForDay(ctx, restaurantID, models.DateOf(day), false)
}

func (s *service) ListForRestaurant(ctx context.Context, restaurantID uint, offset, limit int) ([]models.Menu, int64, error) {
	return s.repo.ListByRestaurant(ctx, restaurantID, offset, limit)
}

func (s *service) HasAvailable(ctx context.Context, restaurantID uint, day time.Time) (bool, error) {
	n, err := s.repo.CountServable(ctx, restaurantID, models.DateOf(day))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *service) Duplicate(ctx context.Context, restaurantID uint, source, target time.Time, replace bool) (int, error) {
	source, target = models.DateOf(source), models.DateOf(target)
	if source.Equal(target) {
		return 0, apperrors.ErrInvalidDate
	}

	created := 0
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		dishes, err := s.repo.ListForDay(ctx, restaurantID, source, false)
		if err != nil {
			return err
		}
		if replace {
			existing, err := s.repo.ListForDay(ctx, restaurantID, target, false)
			if err != nil {
				return err
			}
			for _, m := range existing {
				if m.Date == nil {
					continue
				}
				if err := s.cancelReservations(ctx, m.ID); err != nil {
					return err
				}
			}
			if _, err := s.repo.DeleteForDate(ctx, restaurantID, target); err != nil {
				return fmt.Errorf("clear target day: %w", err)
			}
		}
		for _, src := range dishes {
			d := target
			copied := &models.Menu{
				RestaurantID: restaurantID,
				Name:         src.Name,
				Description:  src.Description,
				Courses:      src.Courses,
				Date:         &d,
				Weekday:      models.WeekdayOf(target),
				Price:        src.Price,
				Available:    true,
				Stock:        src.Stock,
			}
			if err := s.repo.Create(ctx, copied); err != nil {
				return fmt.Errorf("copy %q: %w", src.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *service) AvailableDates(ctx context.Context, restaurantID uint, from, to time.Time) ([]time.Time, error) {
	if from.After(to) {
		return nil, apperrors.ErrInvalidRange
	}
	return s.repo.AvailableDates(ctx, restaurantID, models.DateOf(from), models.DateOf(to))
}
