package qrcode

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
)

type service struct {
	repo    repositories.QRCodeRepository
	tickets TicketCounter
	users   UserLocker
	tx      repositories.Transactor
	now     func() time.Time
}

// NewService creates a new QR code service
func NewService(
	repo repositories.QRCodeRepository,
	tickets TicketCounter,
	users UserLocker,
	tx repositories.Transactor,
) Service {
	if repo == nil {
		panic("qr code repository is required")
	}
	if tickets == nil {
		panic("ticket counter is required")
	}
	if users == nil {
		panic("user locker is required")
	}
	if tx == nil {
		panic("transactor is required")
	}
	return &service{repo: repo, tickets: tickets, users: users, tx: tx, now: time.Now}
}

func (s *service) Issue(ctx context.Context, user *models.User, settings models.Settings) (*models.QRCode, error) {
	now := s.now()
	remaining, err := s.tickets.CountRedeemable(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	if remaining == 0 {
		return nil, apperrors.ErrNoValidTickets
	}

	code := GenerateCode(user.ID, user.Email, now)
	expiresAt := now.Add(settings.QRCodeTTL())
	qr := &models.QRCode{
		Code:      code,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		Valid:     true,
		Payload:   payload(user, code, remaining, expiresAt),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.LockByID(ctx, user.ID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		superseded, err := s.repo.InvalidateActive(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("invalidate previous codes: %w", err)
		}
		if superseded > 0 {
			log.Printf("Superseded %d QR code(s) for user %d", superseded, user.ID)
		}
		return s.repo.Create(ctx, qr)
	})
	if err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *service) Verify(ctx context.Context, code string) (*models.QRCode, error) {
	qr, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, err
	}

	switch {
	case !qr.Valid:
		return nil, apperrors.ErrTokenInvalidated
	case qr.Used:
		return nil, apperrors.ErrTokenAlreadyUsed
	}

	now := s.now()
	if qr.ExpiredAt(now) {
		if err := s.repo.Invalidate(ctx, qr.ID); err != nil {
			return nil, stderrors.Join(apperrors.ErrTokenExpired, fmt.Errorf("persist expiry of QR code %d: %w", qr.ID, err))
		}
		return nil, apperrors.ErrTokenExpired
	}

	remaining, err := s.tickets.CountRedeemable(ctx, qr.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	if remaining == 0 {
		return nil, apperrors.ErrNoValidTickets
	}
	return qr, nil
}

func (s *service) Consume(ctx context.Context, tokenID, restaurantID uint) (*models.QRCode, error) {
	ok, err := s.repo.MarkUsed(ctx, tokenID, restaurantID, s.now())
	if err != nil {
		return nil, fmt.Errorf("consume qr code: %w", err)
	}
	if !ok {
		qr, err := s.repo.GetByID(ctx, tokenID)
		if err == nil && !qr.Used {
			return nil, apperrors.ErrTokenInvalidated
		}
		return nil, apperrors.ErrTokenAlreadyUsed
	}
	return s.repo.GetByID(ctx, tokenID)
}

func (s *service) Current(ctx context.Context, userID uint) (*models.QRCode, error) {
	qr, err := s.repo.Current(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, err
	}
	if qr.ExpiredAt(s.now()) {
		return nil, apperrors.ErrTokenExpired
	}
	return qr, nil
}
