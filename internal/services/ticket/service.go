package ticket

import (
	"context"
	"fmt"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

type service struct {
	tickets repositories.TicketRepository
	quota   QuotaCounter
	users   UserLocker
	tx      repositories.Transactor
	now     func() time.Time
}

// NewService creates a new ticket ledger
func NewService(
	tickets repositories.TicketRepository,
	quota QuotaCounter,
	users UserLocker,
	tx repositories.Transactor,
) Service {
	if tickets == nil {
		panic("ticket repository is required")
	}
	if quota == nil {
		panic("quota counter is required")
	}
	if users == nil {
		panic("user locker is required")
	}
	if tx == nil {
		panic("transactor is required")
	}
	return &service{
		tickets: tickets,
		quota:   quota,
		users:   users,
		tx:      tx,
		now:     time.Now,
	}
}

func (s *service) Issue(ctx context.Context, req IssueRequest, settings models.Settings) ([]*models.Ticket, error) {
	if !settings.CountAllowed(req.Count) {
		return nil, apperrors.ErrInvalidCount
	}
	from, until := models.DateOf(req.ValidFrom), models.DateOf(req.ValidUntil)
	if from.After(until) {
		return nil, apperrors.ErrInvalidWindow
	}

	var issued []*models.Ticket
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.LockByID(ctx, req.OwnerID); err != nil {
			if repositories.IsNotFound(err) {
				return apperrors.ErrClientNotFound
			}
			return fmt.Errorf("lock owner: %w", err)
		}

		now := s.now()
		monthStart, monthEnd := models.MonthBounds(now)
		used, err := s.quota.CountCompleted(ctx, req.OwnerID, monthStart, monthEnd, req.PurchaseID)
		if err != nil {
			return fmt.Errorf("count purchases: %w", err)
		}
		if used >= int64(settings.MaxPurchasesPerMonth) {
			return apperrors.ErrQuotaExceeded
		}

		prefix := NumberPrefix(now)
		if err := s.tickets.LockNumbering(ctx, prefix); err != nil {
			return fmt.Errorf("lock numbering: %w", err)
		}
		last, err := s.tickets.LastNumber(ctx, prefix)
		if err != nil {
			return fmt.Errorf("last ticket number: %w", err)
		}
		seq, err := NextSequence(prefix, last)
		if err != nil {
			return err
		}

		issued = make([]*models.Ticket, 0, req.Count)
		for i := 0; i < req.Count; i++ {
			issued = append(issued, &models.Ticket{
				Number:     FormatNumber(prefix, seq+i),
				OwnerID:    req.OwnerID,
				PurchaseID: req.PurchaseID,
				Status:     models.TicketAvailable,
				ValidFrom:  from,
				ValidUntil: until,
				Price:      req.UnitPrice,
				Subsidy:    req.UnitSubsidy,
			})
		}
		return s.tickets.CreateBatch(ctx, issued)
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

func (s *service) Consume(ctx context.Context, ticketID, restaurantID, validatorID uint) (*models.Ticket, error) {
	now := s.now()
	ok, err := s.tickets.MarkConsumed(ctx, ticketID, models.DateOf(now), now, restaurantID, validatorID)
	if err != nil {
		return nil, fmt.Errorf("consume ticket: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrNotRedeemable
	}
	return s.tickets.GetByID(ctx, ticketID)
}

func (s *service) Cancel(ctx context.Context, ticketID uint) (*models.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	if t.Status == models.TicketConsumed {
		return nil, apperrors.ErrAlreadyConsumed
	}

	ok, err := s.tickets.MarkCancelled(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("cancel ticket: %w", err)
	}
	if !ok {
		// consumed between the read and the update
		return nil, apperrors.ErrAlreadyConsumed
	}
	t.Status = models.TicketCancelled
	return t, nil
}

func (s *service) FirstRedeemable(ctx context.Context, ownerID uint, day time.Time) (*models.Ticket, error) {
	t, err := s.tickets.FirstRedeemable(ctx, ownerID, models.DateOf(day))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrNoTicketAvailable
		}
		return nil, err
	}
	return t, nil
}

func (s *service) CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error) {
	return s.tickets.CountRedeemable(ctx, ownerID, models.DateOf(day))
}

func (s *service) ListByOwner(ctx context.Context, ownerID uint, status models.TicketStatus, offset, limit int) ([]models.Ticket, int64, error) {
	return s.tickets.ListByOwner(ctx, ownerID, status, offset, limit)
}

func (s *service) ExpireOverdue(ctx context.Context, day time.Time) (int64, error) {
	return s.tickets.ExpireBefore(ctx, models.DateOf(day))
}

func (s *service) CancelForPurchase(ctx context.Context, purchaseID uint) (int64, error) {
	return s.tickets.CancelForPurchase(ctx, purchaseID)
}

func (s *service) CountConsumedForPurchase(ctx context.Context, purchaseID uint) (int64, error) {
	return s.tickets.CountConsumedForPurchase(ctx, purchaseID)
}
