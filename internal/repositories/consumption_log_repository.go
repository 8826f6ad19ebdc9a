package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"

	"gorm.io/gorm"
)

// ConsumptionLogRepository stores one row per redeemed ticket.
type ConsumptionLogRepository interface {
	Create(ctx context.Context, entry *models.ConsumptionLog) error
	ListForRestaurant(ctx context.Context, restaurantID uint, day time.Time) ([]models.ConsumptionLog, error)
	CountForRestaurant(ctx context.Context, restaurantID uint, day time.Time) (int64, error)
}

type consumptionLogRepository struct {
	db *gorm.DB
}

func NewConsumptionLogRepository(db *gorm.DB) ConsumptionLogRepository {
	return &consumptionLogRepository{db: db}
}

func (r *consumptionLogRepository) Create(ctx context.Context, entry *models.ConsumptionLog) error {
	return translate(conn(ctx, r.db).Create(entry).Error)
}

func (r *consumptionLogRepository) onDay(ctx context.Context, restaurantID uint, day time.Time) *gorm.DB {
	start := models.DateOf(day)
	return conn(ctx, r.db).Model(&models.ConsumptionLog{}).
		Where("restaurant_id = ? AND consumed_at >= ? AND consumed_at < ?", restaurantID, start, start.AddDate(0, 0, 1))
}

func (r *consumptionLogRepository) ListForRestaurant(ctx context.Context, restaurantID uint, day time.Time) ([]models.ConsumptionLog, error) {
	var entries []models.ConsumptionLog
	if err := r.onDay(ctx, restaurantID, day).Order("consumed_at DESC").Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (r *consumptionLogRepository) CountForRestaurant(ctx context.Context, restaurantID uint, day time.Time) (int64, error) {
	var count int64
	err := r.onDay(ctx, restaurantID, day).Count(&count).Error
	return count, translate(err)
}
