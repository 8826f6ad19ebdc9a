package purchase

import (
	"context"
	"fmt"
	"log"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/events"
	"mutralo/internal/metrics"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
	"mutralo/internal/services/ticket"
)

type service struct {
	repo      repositories.PurchaseRepository
	ledger    Ledger
	users     UserLocker
	tx        repositories.Transactor
	publisher events.Publisher
	metrics   metrics.Recorder
	now       func() time.Time
}

// NewService creates a new purchase service. publisher and recorder may be nil.
func NewService(
	repo repositories.PurchaseRepository,
	ledger Ledger,
	users UserLocker,
	tx repositories.Transactor,
	publisher events.Publisher,
	recorder metrics.Recorder,
) Service {
	if repo == nil {
		panic("purchase repository is required")
	}
	if ledger == nil {
		panic("ticket ledger is required")
	}
	if users == nil {
		panic("user locker is required")
	}
	if tx == nil {
		panic("transactor is required")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &service{
		repo:      repo,
		ledger:    ledger,
		users:     users,
		tx:        tx,
		publisher: publisher,
		metrics:   recorder,
		now:       time.Now,
	}
}

func (s *service) Sell(ctx context.Context, req SaleRequest, settings models.Settings) (*models.Purchase, error) {
	if !settings.CountAllowed(req.Count) {
		return nil, apperrors.ErrInvalidCount
	}

	now := s.now()
	validFrom, validUntil := models.MonthBounds(now)
	p := &models.Purchase{
		Number:       PurchaseNumber(now, req.ClientID),
		ClientID:     req.ClientID,
		CashierID:    req.CashierID,
		AgencyID:     req.AgencyID,
		Kind:         models.PurchaseKindSale,
		TicketCount:  req.Count,
		ValidFrom:    validFrom,
		ValidUntil:   validUntil,
		UnitPrice:    settings.TicketPrice,
		UnitSubsidy:  settings.TicketSubsidy,
		TotalAmount:  settings.TicketPrice * int64(req.Count),
		TotalSubsidy: settings.TicketSubsidy * int64(req.Count),
		PaymentMode:  models.PaymentModeCash,
		Notes:        req.Notes,
		Status:       models.PurchaseCompleted,
		CompletedAt:  &now,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.LockByID(ctx, req.ClientID); err != nil {
			if repositories.IsNotFound(err) {
				return apperrors.ErrClientNotFound
			}
			return fmt.Errorf("lock client: %w", err)
		}
		used, err := s.repo.CountCompleted(ctx, req.ClientID, validFrom, validUntil, 0)
		if err != nil {
			return fmt.Errorf("count purchases: %w", err)
		}
		if used >= int64(settings.MaxPurchasesPerMonth) {
			return apperrors.ErrQuotaExceeded
		}

		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		tickets, err := s.ledger.Issue(ctx, ticket.IssueRequest{
			OwnerID:     req.ClientID,
			PurchaseID:  p.ID,
			Count:       req.Count,
			ValidFrom:   validFrom,
			ValidUntil:  validUntil,
			UnitPrice:   settings.TicketPrice,
			UnitSubsidy: settings.TicketSubsidy,
		}, settings)
		if err != nil {
			return err
		}

		p.FirstTicket = tickets[0].Number
		p.LastTicket = tickets[len(tickets)-1].Number
		return s.repo.SetTicketRange(ctx, p.ID, p.FirstTicket, p.LastTicket)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Sale %s: %d ticket(s) %s..%s for client %d", p.Number, p.TicketCount, p.FirstTicket, p.LastTicket, p.ClientID)
	s.metrics.TicketsSold(p.TicketCount)
	if !settings.NotifyOnPurchase {
		return p, nil
	}
	events.Emit(ctx, s.publisher, events.SubjectTicketSold, req.CashierID, SoldEvent{
		PurchaseID:  p.ID,
		Number:      p.Number,
		ClientID:    p.ClientID,
		CashierID:   p.CashierID,
		TicketCount: p.TicketCount,
		FirstTicket: p.FirstTicket,
		LastTicket:  p.LastTicket,
		TotalAmount: p.TotalAmount,
	})
	return p, nil
}

func (s *service) Refund(ctx context.Context, purchaseID, actorID uint) (*models.Purchase, error) {
	var (
		p         *models.Purchase
		cancelled int64
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.LockByID(ctx, purchaseID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperrors.ErrPurchaseNotFound
			}
			return err
		}
		if p.Status != models.PurchaseCompleted {
			return apperrors.ErrRefundNotAllowed
		}

		consumed, err := s.ledger.CountConsumedForPurchase(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("count consumed tickets: %w", err)
		}
		if consumed > 0 {
			return apperrors.ErrTicketsAlreadyUsed
		}

		if cancelled, err = s.ledger.CancelForPurchase(ctx, p.ID); err != nil {
			return fmt.Errorf("cancel tickets: %w", err)
		}
		now := s.now()
		ok, err := s.repo.MarkRefunded(ctx, p.ID, now)
		if err != nil {
			return fmt.Errorf("mark refunded: %w", err)
		}
		if !ok {
			return apperrors.ErrRefundNotAllowed
		}
		p.Status = models.PurchaseRefunded
		p.RefundedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Purchase %s refunded by %d: %d ticket(s) cancelled", p.Number, actorID, cancelled)
	events.Emit(ctx, s.publisher, events.SubjectTicketRefunded, actorID, RefundedEvent{
		PurchaseID: p.ID,
		ClientID:   p.ClientID,
		Cancelled:  cancelled,
	})
	return p, nil
}

func (s *service) QuotaStatus(ctx context.Context, clientID uint, settings models.Settings) (*Quota, error) {
	from, to := models.MonthBounds(s.now())
	used, err := s.repo.CountCompleted(ctx, clientID, from, to, 0)
	if err != nil {
		return nil, err
	}
	remaining := int64(settings.MaxPurchasesPerMonth) - used
	if remaining < 0 {
		remaining = 0
	}
	return &Quota{Used: used, Max: settings.MaxPurchasesPerMonth, Remaining: remaining}, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Purchase, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrPurchaseNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListForClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Purchase, int64, error) {
	return s.repo.ListForClient(ctx, clientID, offset, limit)
}

func (s *service) ListForCashier(ctx context.Context, cashierID uint, offset, limit int) ([]models.Purchase, int64, error) {
	return s.repo.ListForCashier(ctx, cashierID, offset, limit)
}
