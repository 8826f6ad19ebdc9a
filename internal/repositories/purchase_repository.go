package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepository stores cashier sales.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id uint) (*models.Purchase, error)
	LockByID(ctx context.Context, id uint) (*models.Purchase, error)

	// CountCompleted counts completed sales of clientID created in [from, to],
	// ignoring excludeID.
	CountCompleted(ctx context.Context, clientID uint, from, to time.Time, excludeID uint) (int64, error)

	SetTicketRange(ctx context.Context, id uint, first, last string) error
	MarkRefunded(ctx context.Context, id uint, at time.Time) (bool, error)

	ListForClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Purchase, int64, error)
	ListForCashier(ctx context.Context, cashierID uint, offset, limit int) ([]models.Purchase, int64, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return translate(conn(ctx, r.db).Create(purchase).Error)
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := conn(ctx, r.db).Preload("Client").First(&purchase, id).Error; err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) LockByID(ctx context.Context, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&purchase, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) CountCompleted(ctx context.Context, clientID uint, from, to time.Time, excludeID uint) (int64, error) {
	var count int64
	q := conn(ctx, r.db).Model(&models.Purchase{}).
		Where("client_id = ? AND kind = ? AND status = ?", clientID, models.PurchaseKindSale, models.PurchaseCompleted).
		Where("created_at >= ? AND created_at < ?", models.DateOf(from), models.DateOf(to).AddDate(0, 0, 1))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *purchaseRepository) SetTicketRange(ctx context.Context, id uint, first, last string) error {
	return translate(conn(ctx, r.db).Model(&models.Purchase{}).Where("id = ?", id).
		Updates(map[string]interface{}{"first_ticket": first, "last_ticket": last}).Error)
}

func (r *purchaseRepository) MarkRefunded(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, models.PurchaseCompleted).
		Updates(map[string]interface{}{"status": models.PurchaseRefunded, "refunded_at": at})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *purchaseRepository) ListForClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Purchase, int64, error) {
	return r.list(ctx, "client_id = ?", clientID, offset, limit)
}

func (r *purchaseRepository) ListForCashier(ctx context.Context, cashierID uint, offset, limit int) ([]models.Purchase, int64, error) {
	return r.list(ctx, "cashier_id = ?", cashierID, offset, limit)
}

func (r *purchaseRepository) list(ctx context.Context, where string, id uint, offset, limit int) ([]models.Purchase, int64, error) {
	var purchases []models.Purchase
	var total int64

	q := conn(ctx, r.db).Model(&models.Purchase{}).Where(where, id).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	if err := q.Preload("Client").Order("created_at DESC").Offset(offset).Limit(limit).Find(&purchases).Error; err != nil {
		return nil, 0, translate(err)
	}
	return purchases, total, nil
}
