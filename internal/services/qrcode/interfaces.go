package qrcode

import (
	"context"
	"time"

	"mutralo/internal/models"
)

// Service manages short-lived, single-use redemption QR codes.
type Service interface {
	// Issue supersedes the user's live codes and creates a new one.
	Issue(ctx context.Context, user *models.User, settings models.Settings) (*models.QRCode, error)
	// Verify checks a scanned code without consuming it. An expired code is
	// marked invalid as a side effect.
	Verify(ctx context.Context, code string) (*models.QRCode, error)
	Consume(ctx context.Context, tokenID, restaurantID uint) (*models.QRCode, error)
	Current(ctx context.Context, userID uint) (*models.QRCode, error)
}

// TicketCounter reports how many tickets an owner can redeem on a day.
type TicketCounter interface {
	CountRedeemable(ctx context.Context, ownerID uint, day time.Time) (int64, error)
}

type UserLocker interface {
	LockByID(ctx context.Context, id uint) (*models.User, error)
}
