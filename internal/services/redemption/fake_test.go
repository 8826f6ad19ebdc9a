package redemption

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
)

// world is an in-memory backing store with the same conditional-update
// semantics as the database. Transactions are serialised and roll back by
// restoring a snapshot.
type world struct {
	mu   sync.Mutex
	txMu sync.Mutex
	now  time.Time

	users        map[uint]models.User
	tickets      []models.Ticket
	tokens       []models.QRCode
	menus        []models.Menu
	reservations []models.Reservation
	logs         []models.ConsumptionLog

	// barrier, when set, holds every FirstRedeemable caller until all have arrived.
	barrier          *sync.WaitGroup
	failTokenConsume bool
}

type snapshot struct {
	tickets      []models.Ticket
	tokens       []models.QRCode
	menus        []models.Menu
	reservations []models.Reservation
	logs         []models.ConsumptionLog
}

func newWorld(now time.Time) *world {
	return &world{now: now, users: map[uint]models.User{}}
}

func (w *world) today() time.Time { return models.DateOf(w.now) }

func (w *world) snapshot() snapshot {
	return snapshot{
		tickets:      append([]models.Ticket(nil), w.tickets...),
		tokens:       append([]models.QRCode(nil), w.tokens...),
		menus:        append([]models.Menu(nil), w.menus...),
		reservations: append([]models.Reservation(nil), w.reservations...),
		logs:         append([]models.ConsumptionLog(nil), w.logs...),
	}
}

func (w *world) restore(s snapshot) {
	w.tickets, w.tokens, w.menus, w.reservations, w.logs = s.tickets, s.tokens, s.menus, s.reservations, s.logs
}

func (w *world) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	w.txMu.Lock()
	defer w.txMu.Unlock()

	w.mu.Lock()
	snap := w.snapshot()
	w.mu.Unlock()

	if err := fn(ctx); err != nil {
		w.mu.Lock()
		w.restore(snap)
		w.mu.Unlock()
		return err
	}
	return nil
}

// TicketLedger

func (w *world) redeemable(ownerID uint, day time.Time) []models.Ticket {
	var out []models.Ticket
	for _, t := range w.tickets {
		if t.OwnerID == ownerID && t.RedeemableOn(day) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ValidUntil.Equal(out[j].ValidUntil) {
			return out[i].ValidUntil.Before(out[j].ValidUntil)
		}
		return out[i].Number < out[j].Number
	})
	return out
}

func (w *world) FirstRedeemable(_ context.Context, ownerID uint, day time.Time) (*models.Ticket, error) {
	w.mu.Lock()
	candidates := w.redeemable(ownerID, day)
	w.mu.Unlock()

	if w.barrier != nil {
		w.barrier.Done()
		w.barrier.Wait()
	}
	if len(candidates) == 0 {
		return nil, apperrors.ErrNoTicketAvailable
	}
	t := candidates[0]
	return &t, nil
}

func (w *world) CountRedeemable(_ context.Context, ownerID uint, day time.Time) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int64(len(w.redeemable(ownerID, day))), nil
}

func (w *world) Consume(_ context.Context, ticketID, restaurantID, validatorID uint) (*models.Ticket, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.tickets {
		t := &w.tickets[i]
		if t.ID != ticketID {
			continue
		}
		if !t.RedeemableOn(w.today()) {
			return nil, apperrors.ErrNotRedeemable
		}
		at := w.now
		t.Status = models.TicketConsumed
		t.ConsumedAt = &at
		t.RestaurantID = &restaurantID
		t.ValidatedBy = &validatorID
		out := *t
		return &out, nil
	}
	return nil, apperrors.ErrNotRedeemable
}

// TokenService

type tokens struct{ w *world }

func (s tokens) Verify(ctx context.Context, code string) (*models.QRCode, error) {
	w := s.w
	w.mu.Lock()
	var found *models.QRCode
	for i := range w.tokens {
		if w.tokens[i].Code == code {
			found = &w.tokens[i]
		}
	}
	switch {
	case found == nil:
		w.mu.Unlock()
		return nil, apperrors.ErrTokenNotFound
	case !found.Valid:
		w.mu.Unlock()
		return nil, apperrors.ErrTokenInvalidated
	case found.Used:
		w.mu.Unlock()
		return nil, apperrors.ErrTokenAlreadyUsed
	case found.ExpiredAt(w.now):
		found.Valid = false
		w.mu.Unlock()
		return nil, apperrors.ErrTokenExpired
	}
	out := *found
	w.mu.Unlock()

	n, _ := w.CountRedeemable(ctx, out.UserID, w.today())
	if n == 0 {
		return nil, apperrors.ErrNoValidTickets
	}
	return &out, nil
}

func (s tokens) Consume(_ context.Context, tokenID, restaurantID uint) (*models.QRCode, error) {
	w := s.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failTokenConsume {
		return nil, errors.New("connection reset")
	}
	for i := range w.tokens {
		q := &w.tokens[i]
		if q.ID != tokenID {
			continue
		}
		if q.Used {
			return nil, apperrors.ErrTokenAlreadyUsed
		}
		if !q.Valid {
			return nil, apperrors.ErrTokenInvalidated
		}
		at := w.now
		q.Used, q.Valid, q.UsedAt, q.RestaurantID = true, false, &at, &restaurantID
		out := *q
		return &out, nil
	}
	return nil, apperrors.ErrTokenNotFound
}

// MenuCatalog

func (w *world) GetForRestaurant(_ context.Context, restaurantID, menuID uint) (*models.Menu, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range w.menus {
		if m.ID == menuID && m.RestaurantID == restaurantID {
			return &m, nil
		}
	}
	return nil, apperrors.ErrMenuNotFound
}

func (w *world) ListAvailable(_ context.Context, restaurantID uint, _ time.Time) ([]models.Menu, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []models.Menu
	for _, m := range w.menus {
		if m.RestaurantID == restaurantID && m.CanServe() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (w *world) Decrement(_ context.Context, menuID uint, quantity int) (*models.Menu, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.decrement(menuID, quantity)
}

func (w *world) decrement(menuID uint, quantity int) (*models.Menu, error) {
	for i := range w.menus {
		m := &w.menus[i]
		if m.ID != menuID {
			continue
		}
		m.ConsumedCount += quantity
		if m.Stock != nil && m.ConsumedCount >= *m.Stock {
			m.ConsumedCount = *m.Stock
			m.Available = false
		}
		out := *m
		return &out, nil
	}
	return nil, apperrors.ErrMenuNotFound
}

// ReservationBook

func (w *world) FindActive(_ context.Context, clientID, restaurantID uint, day time.Time) (*models.Reservation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.reservations {
		if r.ClientID == clientID && r.RestaurantID == restaurantID &&
			r.ReservationDate.Equal(day) && !r.Status.Terminal() {
			for _, m := range w.menus {
				if m.ID == r.MenuID {
					menu := m
					r.Menu = &menu
				}
			}
			return &r, nil
		}
	}
	return nil, apperrors.ErrReservationNotFound
}

func (w *world) CompleteWithDish(_ context.Context, id, menuID uint) (*models.Reservation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, err := w.active(id)
	if err != nil {
		return nil, err
	}
	if menuID != 0 {
		r.MenuID = menuID
	}
	r.Status = models.ReservationDone
	if _, err := w.decrement(r.MenuID, r.Quantity); err != nil {
		return nil, err
	}
	out := *r
	return &out, nil
}

func (w *world) Cancel(_ context.Context, id uint) (*models.Reservation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, err := w.active(id)
	if err != nil {
		return nil, err
	}
	r.Status = models.ReservationCancelled
	out := *r
	return &out, nil
}

func (w *world) active(id uint) (*models.Reservation, error) {
	for i := range w.reservations {
		r := &w.reservations[i]
		if r.ID != id {
			continue
		}
		if r.Status.Terminal() {
			return nil, apperrors.ErrInvalidTransition
		}
		return r, nil
	}
	return nil, apperrors.ErrReservationNotFound
}

func (w *world) RecordWalkIn(_ context.Context, clientID, restaurantID, menuID uint, day time.Time) (*models.Reservation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := models.Reservation{
		ClientID:        clientID,
		RestaurantID:    restaurantID,
		MenuID:          menuID,
		ReservationDate: day,
		Status:          models.ReservationDone,
		Quantity:        1,
	}
	r.ID = uint(len(w.reservations) + 100)
	w.reservations = append(w.reservations, r)
	return &r, nil
}

// UserDirectory

func (w *world) GetWithAgency(_ context.Context, id uint) (*models.User, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	u, ok := w.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &u, nil
}

// ConsumptionRecorder

type consumption struct{ w *world }

func (c consumption) Create(_ context.Context, entry *models.ConsumptionLog) error {
	w := c.w
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, l := range w.logs {
		if l.TicketID == entry.TicketID {
			return errors.New("duplicate consumption log")
		}
	}
	w.logs = append(w.logs, *entry)
	return nil
}

// publisher records published subjects.
type publisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (p *publisher) Publish(_ context.Context, subject string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return p.err
}

func (p *publisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subjects)
}
