package redemption

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/events"
	"mutralo/internal/metrics"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

type service struct {
	tickets      TicketLedger
	tokens       TokenService
	menus        MenuCatalog
	reservations ReservationBook
	users        UserDirectory
	consumption  ConsumptionRecorder
	tx           repositories.Transactor
	publisher    events.Publisher
	metrics      metrics.Recorder
	now          func() time.Time
}

// Deps lists the collaborators of the redemption service. Publisher and
// Metrics are optional.
type Deps struct {
	Tickets      TicketLedger
	Tokens       TokenService
	Menus        MenuCatalog
	Reservations ReservationBook
	Users        UserDirectory
	Consumption  ConsumptionRecorder
	Tx           repositories.Transactor
	Publisher    events.Publisher
	Metrics      metrics.Recorder
}

// NewService creates a new redemption service
func NewService(d Deps) Service {
	switch {
	case d.Tickets == nil:
		panic("ticket ledger is required")
	case d.Tokens == nil:
		panic("token service is required")
	case d.Menus == nil:
		panic("menu catalog is required")
	case d.Reservations == nil:
		panic("reservation book is required")
	case d.Users == nil:
		panic("user directory is required")
	case d.Consumption == nil:
		panic("consumption recorder is required")
	case d.Tx == nil:
		panic("transactor is required")
	}
	if d.Publisher == nil {
		d.Publisher = events.NoopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Noop{}
	}
	return &service{
		tickets:      d.Tickets,
		tokens:       d.Tokens,
		menus:        d.Menus,
		reservations: d.Reservations,
		users:        d.Users,
		consumption:  d.Consumption,
		tx:           d.Tx,
		publisher:    d.Publisher,
		metrics:      d.Metrics,
		now:          time.Now,
	}
}

// checked is the state both phases start from. stale holds an active
// reservation whose dish has been removed; it is treated as a walk-in.
type checked struct {
	token       *models.QRCode
	ticket      *models.Ticket
	reservation *models.Reservation
	stale       *models.Reservation
	day         time.Time
}

// check validates the token, finds the ticket to consume and the holder's
// reservation at restaurantID for today, if any.
func (s *service) check(ctx context.Context, code string, restaurantID uint) (*checked, error) {
	token, err := s.tokens.Verify(ctx, code)
	if err != nil {
		return nil, err
	}

	day := models.DateOf(s.now())
	ticket, err := s.tickets.FirstRedeemable(ctx, token.UserID, day)
	if err != nil {
		if stderrors.Is(err, apperrors.ErrNoTicketAvailable) || repositories.IsNotFound(err) {
			return nil, apperrors.ErrNoTicketAvailable
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}

	reservation, err := s.reservations.FindActive(ctx, token.UserID, restaurantID, day)
	if err != nil {
		if !stderrors.Is(err, apperrors.ErrReservationNotFound) {
			return nil, fmt.Errorf("find reservation: %w", err)
		}
		reservation = nil
	}

	c := &checked{token: token, ticket: ticket, reservation: reservation, day: day}
	if reservation != nil && reservation.Menu == nil {
		c.stale, c.reservation = reservation, nil
	}
	return c, nil
}

func (s *service) Verify(ctx context.Context, code string, restaurantID uint) (_ *Verification, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRedemption("verify", err, time.Since(start)) }()

	c, err := s.check(ctx, code, restaurantID)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetWithAgency(ctx, c.token.UserID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	remaining, err := s.tickets.CountRedeemable(ctx, c.token.UserID, c.day)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	v := &Verification{
		Token:            c.token,
		Owner:            ownerOf(owner),
		TicketNumber:     c.ticket.Number,
		TicketsRemaining: remaining,
		Reservation:      c.reservation,
	}
	if c.reservation == nil {
		dishes, err := s.menus.ListAvailable(ctx, restaurantID, c.day)
		if err != nil {
			return nil, fmt.Errorf("list dishes: %w", err)
		}
		v.Dishes = dishes
		v.DishRequired = len(dishes) > 0
	}
	return v, nil
}

func (s *service) Commit(ctx context.Context, req CommitRequest, settings models.Settings) (_ *Receipt, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRedemption("commit", err, time.Since(start)) }()

	c, err := s.check(ctx, req.Code, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	dish, err := s.resolveDish(ctx, req, c)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetWithAgency(ctx, c.token.UserID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}

	receipt := &Receipt{
		TicketID:     c.ticket.ID,
		TicketNumber: c.ticket.Number,
		OwnerID:      owner.ID,
		OwnerName:    owner.FullName(),
		RestaurantID: req.RestaurantID,
		ValidatorID:  req.ValidatorID,
	}
	if dish != nil {
		receipt.MenuID = &dish.ID
		receipt.DishName = dish.Name
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if c.stale != nil {
			if _, err := s.reservations.Cancel(ctx, c.stale.ID); err != nil {
				return fmt.Errorf("cancel stale reservation: %w", err)
			}
		}

		switch {
		case c.reservation != nil:
			// The reservation follows the dish actually served.
			if _, err := s.reservations.CompleteWithDish(ctx, c.reservation.ID, dish.ID); err != nil {
				return fmt.Errorf("complete reservation: %w", err)
			}
			receipt.ReservationID = &c.reservation.ID
		case dish != nil:
			trace, err := s.reservations.RecordWalkIn(ctx, c.token.UserID, req.RestaurantID, dish.ID, c.day)
			if err != nil {
				return err
			}
			if _, err := s.menus.Decrement(ctx, dish.ID, 1); err != nil {
				return fmt.Errorf("decrement dish: %w", err)
			}
			receipt.ReservationID = &trace.ID
		}

		ticket, err := s.tickets.Consume(ctx, c.ticket.ID, req.RestaurantID, req.ValidatorID)
		if err != nil {
			return err
		}
		if _, err := s.tokens.Consume(ctx, c.token.ID, req.RestaurantID); err != nil {
			return err
		}

		consumedAt := s.now()
		if ticket.ConsumedAt != nil {
			consumedAt = *ticket.ConsumedAt
		}
		receipt.ConsumedAt = consumedAt

		return s.consumption.Create(ctx, &models.ConsumptionLog{
			TicketID:     ticket.ID,
			RestaurantID: req.RestaurantID,
			ClientID:     c.token.UserID,
			ValidatorID:  req.ValidatorID,
			QRCodeID:     c.token.ID,
			MenuID:       receipt.MenuID,
			AgencyID:     owner.AgencyID,
			ConsumedAt:   consumedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RedemptionCommitted(dish != nil)
	if settings.NotifyOnConsumption {
		events.Emit(ctx, s.publisher, events.SubjectRedemptionCommitted, req.ValidatorID, receipt)
	}
	return receipt, nil
}

// resolveDish picks the dish to credit: the manager's choice when it belongs
// to the restaurant, else the reserved dish, else none. Without a reservation
// a choice is mandatory whenever the restaurant has dishes left today.
func (s *service) resolveDish(ctx context.Context, req CommitRequest, c *checked) (*models.Menu, error) {
	if req.MenuID != nil {
		dish, err := s.menus.GetForRestaurant(ctx, req.RestaurantID, *req.MenuID)
		switch {
		case err == nil:
			return dish, nil
		case !stderrors.Is(err, apperrors.ErrMenuNotFound):
			return nil, fmt.Errorf("load chosen dish: %w", err)
		}
	}

	if c.reservation != nil {
		return c.reservation.Menu, nil
	}

	dishes, err := s.menus.ListAvailable(ctx, req.RestaurantID, c.day)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	if len(dishes) > 0 {
		return nil, apperrors.ErrDishSelectionRequired
	}
	return nil, nil
}
