package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MenuRepository stores restaurant dishes.
type MenuRepository interface {
	Create(ctx context.Context, menu *models.Menu) error
	GetByID(ctx context.Context, id uint) (*models.Menu, error)
	// UpdateDetails writes the editable columns of a dish and returns the
	// stored row. consumed_count is left to Decrement, and available can
	// only be true while the stored consumed_count is below the new stock.
	UpdateDetails(ctx context.Context, id uint, changes MenuChanges) (*models.Menu, error)
	Delete(ctx context.Context, id uint) error

	// ListForDay returns the dishes of a restaurant dated on day. When none
	// are dated, it falls back to undated dishes for the weekday of day.
	ListForDay(ctx context.Context, restaurantID uint, day time.Time, onlyAvailable bool) ([]models.Menu, error)
	ListByRestaurant(ctx context.Context, restaurantID uint, offset, limit int) ([]models.Menu, int64, error)
	// CountServable counts the dishes for day that are available and not sold out.
	CountServable(ctx context.Context, restaurantID uint, day time.Time) (int64, error)
	// Decrement adds quantity to consumed_count, capped at stock, and marks the
	// dish unavailable when stock is reached. It returns the updated dish.
	Decrement(ctx context.Context, id uint, quantity int) (*models.Menu, error)

	DeleteForDate(ctx context.Context, restaurantID uint, day time.Time) (int64, error)
	AvailableDates(ctx context.Context, restaurantID uint, from, to time.Time) ([]time.Time, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return translate(conn(ctx, r.db).Create(menu).Error)
}

func (r *menuRepository) GetByID(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := conn(ctx, r.db).First(&menu, id).Error; err != nil {
		return nil, translate(err)
	}
	return &menu, nil
}

// MenuChanges holds the columns a dish edit may write.
type MenuChanges struct {
	Name        string
	Description string
	Courses     []string
	Price       int64
	Stock       *int
	Available   bool
}

func (r *menuRepository) UpdateDetails(ctx context.Context, id uint, changes MenuChanges) (*models.Menu, error) {
	// stock in the SET expressions is the old value, so the new one is bound.
	var menu models.Menu
	result := conn(ctx, r.db).Model(&menu).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        changes.Name,
			"description": changes.Description,
			"courses":     pq.StringArray(changes.Courses),
			"price":       changes.Price,
			"stock":       changes.Stock,
			"available":   gorm.Expr("? AND (?::int IS NULL OR consumed_count < ?::int)", changes.Available, changes.Stock, changes.Stock),
		})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &menu, nil
}

func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.Menu{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) forDay(ctx context.Context, restaurantID uint, day time.Time) (*gorm.DB, error) {
	var dated int64
	err := conn(ctx, r.db).Model(&models.Menu{}).
		Where("restaurant_id = ? AND date = ?", restaurantID, day.Format(dateLayout)).
		Count(&dated).Error
	if err != nil {
		return nil, translate(err)
	}

	q := conn(ctx, r.db).Model(&models.Menu{}).Where("restaurant_id = ?", restaurantID)
	if dated > 0 {
		return q.Where("date = ?", day.Format(dateLayout)), nil
	}
	return q.Where("date IS NULL AND weekday = ?", models.WeekdayOf(day)), nil
}

func (r *menuRepository) ListForDay(ctx context.Context, restaurantID uint, day time.Time, onlyAvailable bool) ([]models.Menu, error) {
	q, err := r.forDay(ctx, restaurantID, day)
	if err != nil {
		return nil, err
	}
	if onlyAvailable {
		q = servable(q)
	}
	var menus []models.Menu
	if err := q.Order("name").Find(&menus).Error; err != nil {
		return nil, translate(err)
	}
	return menus, nil
}

func (r *menuRepository) CountServable(ctx context.Context, restaurantID uint, day time.Time) (int64, error) {
	q, err := r.forDay(ctx, restaurantID, day)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := servable(q).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *menuRepository) ListByRestaurant(ctx context.Context, restaurantID uint, offset, limit int) ([]models.Menu, int64, error) {
	var menus []models.Menu
	var total int64

	q := conn(ctx, r.db).Model(&models.Menu{}).Where("restaurant_id = ?", restaurantID).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	if err := q.Order("date DESC NULLS LAST, weekday, name").Offset(offset).Limit(limit).Find(&menus).Error; err != nil {
		return nil, 0, translate(err)
	}
	return menus, total, nil
}

func servable(q *gorm.DB) *gorm.DB {
	return q.Where("available = ? AND (stock IS NULL OR consumed_count < stock)", true)
}

func (r *menuRepository) Decrement(ctx context.Context, id uint, quantity int) (*models.Menu, error) {
	var menu models.Menu
	result := conn(ctx, r.db).Model(&menu).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"consumed_count": gorm.Expr("CASE WHEN stock IS NULL THEN consumed_count + ? ELSE LEAST(stock, consumed_count + ?) END", quantity, quantity),
			"available":      gorm.Expr("CASE WHEN stock IS NOT NULL AND consumed_count + ? >= stock THEN FALSE ELSE available END", quantity),
		})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &menu, nil
}

func (r *menuRepository) DeleteForDate(ctx context.Context, restaurantID uint, day time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("restaurant_id = ? AND date = ?", restaurantID, day.Format(dateLayout)).
		Delete(&models.Menu{})
	return result.RowsAffected, translate(result.Error)
}

func (r *menuRepository) AvailableDates(ctx context.Context, restaurantID uint, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := conn(ctx, r.db).Model(&models.Menu{}).
		Distinct("date").
		Where("restaurant_id = ? AND available = ? AND date BETWEEN ? AND ?",
			restaurantID, true, from.Format(dateLayout), to.Format(dateLayout)).
		Order("date").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, translate(err)
	}
	return dates, nil
}
