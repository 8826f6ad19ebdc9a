package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"

	"gorm.io/gorm"
)

// QRCodeRepository stores redemption QR codes.
type QRCodeRepository interface {
	Create(ctx context.Context, qr *models.QRCode) error
	GetByID(ctx context.Context, id uint) (*models.QRCode, error)
	GetByCode(ctx context.Context, code string) (*models.QRCode, error)
	// Current returns the newest valid, unused code of the user.
	Current(ctx context.Context, userID uint) (*models.QRCode, error)
	// InvalidateActive supersedes every valid, unused code of the user.
	InvalidateActive(ctx context.Context, userID uint) (int64, error)
	Invalidate(ctx context.Context, id uint) error
	// MarkUsed flips a valid, unused code to used. It reports false when the
	// code was already used or has been invalidated.
	MarkUsed(ctx context.Context, id, restaurantID uint, at time.Time) (bool, error)
}

type qrCodeRepository struct {
	db *gorm.DB
}

func NewQRCodeRepository(db *gorm.DB) QRCodeRepository {
	return &qrCodeRepository{db: db}
}

func (r *qrCodeRepository) Create(ctx context.Context, qr *models.QRCode) error {
	return translate(conn(ctx, r.db).Create(qr).Error)
}

func (r *qrCodeRepository) GetByID(ctx context.Context, id uint) (*models.QRCode, error) {
	var qr models.QRCode
	if err := conn(ctx, r.db).First(&qr, id).Error; err != nil {
		return nil, translate(err)
	}
	return &qr, nil
}

func (r *qrCodeRepository) GetByCode(ctx context.Context, code string) (*models.QRCode, error) {
	var qr models.QRCode
	if err := conn(ctx, r.db).Where("code = ?", code).First(&qr).Error; err != nil {
		return nil, translate(err)
	}
	return &qr, nil
}

func (r *qrCodeRepository) Current(ctx context.Context, userID uint) (*models.QRCode, error) {
	var qr models.QRCode
	err := conn(ctx, r.db).
		Where("user_id = ? AND valid = ? AND used = ?", userID, true, false).
		Order("created_at DESC").
		First(&qr).Error
	if err != nil {
		return nil, translate(err)
	}
	return &qr, nil
}

func (r *qrCodeRepository) InvalidateActive(ctx context.Context, userID uint) (int64, error) {
	result := conn(ctx, r.db).Model(&models.QRCode{}).
		Where("user_id = ? AND valid = ? AND used = ?", userID, true, false).
		Update("valid", false)
	return result.RowsAffected, translate(result.Error)
}

func (r *qrCodeRepository) Invalidate(ctx context.Context, id uint) error {
	return translate(conn(ctx, r.db).Model(&models.QRCode{}).Where("id = ?", id).Update("valid", false).Error)
}

func (r *qrCodeRepository) MarkUsed(ctx context.Context, id, restaurantID uint, at time.Time) (bool, error) {
	result := conn(ctx, r.db).Model(&models.QRCode{}).
		Where("id = ? AND used = ? AND valid = ?", id, false, true).
		Updates(map[string]interface{}{
			"used":          true,
			"used_at":       at,
			"valid":         false,
			"restaurant_id": restaurantID,
		})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}
