package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanningFilter narrows Planning listings. Zero fields are ignored.
type PlanningFilter struct {
	AgencyID     uint
	RestaurantID uint
	ActiveOnly   bool
	Offset       int
	Limit        int
}

// PlanningRepository stores restaurant-to-agency schedules.
type PlanningRepository interface {
	Create(ctx context.Context, planning *models.Planning) error
	Update(ctx context.Context, planning *models.Planning) error
	GetByID(ctx context.Context, id uint) (*models.Planning, error)
	Delete(ctx context.Context, id uint) error

	// LockAgency serialises planning writes for one agency.
	LockAgency(ctx context.Context, agencyID uint) error
	// FindOverlapping returns active plannings of the agency for another
	// restaurant whose range intersects [start, end], ignoring excludeID.
	FindOverlapping(ctx context.Context, agencyID, restaurantID uint, start, end time.Time, excludeID uint) ([]models.Planning, error)
	ExistsActiveForRestaurant(ctx context.Context, restaurantID uint, day time.Time) (bool, error)
	// CurrentForAgency returns the active planning covering day, if any.
	CurrentForAgency(ctx context.Context, agencyID uint, day time.Time) (*models.Planning, error)
	List(ctx context.Context, filter PlanningFilter) ([]models.Planning, int64, error)
}

type planningRepository struct {
	db *gorm.DB
}

func NewPlanningRepository(db *gorm.DB) PlanningRepository {
	return &planningRepository{db: db}
}

func (r *planningRepository) Create(ctx context.Context, planning *models.Planning) error {
	return translate(conn(ctx, r.db).Create(planning).Error)
}

func (r *planningRepository) Update(ctx context.Context, planning *models.Planning) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Save(planning).Error)
}

func (r *planningRepository) GetByID(ctx context.Context, id uint) (*models.Planning, error) {
	var planning models.Planning
	if err := conn(ctx, r.db).Preload("Restaurant").Preload("Agency").First(&planning, id).Error; err != nil {
		return nil, translate(err)
	}
	return &planning, nil
}

func (r *planningRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.Planning{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *planningRepository) LockAgency(ctx context.Context, agencyID uint) error {
	var agency models.Agency
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&agency, agencyID).Error
	return translate(err)
}

func (r *planningRepository) FindOverlapping(ctx context.Context, agencyID, restaurantID uint, start, end time.Time, excludeID uint) ([]models.Planning, error) {
	var plannings []models.Planning
	q := conn(ctx, r.db).
		Where("agency_id = ? AND restaurant_id <> ? AND active = ?", agencyID, restaurantID, true).
		Where("start_date <= ? AND end_date >= ?", end.Format(dateLayout), start.Format(dateLayout))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&plannings).Error; err != nil {
		return nil, translate(err)
	}
	return plannings, nil
}

func (r *planningRepository) ExistsActiveForRestaurant(ctx context.Context, restaurantID uint, day time.Time) (bool, error) {
	var count int64
	d := day.Format(dateLayout)
	err := conn(ctx, r.db).Model(&models.Planning{}).
		Where("restaurant_id = ? AND active = ? AND start_date <= ? AND end_date >= ?", restaurantID, true, d, d).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *planningRepository) CurrentForAgency(ctx context.Context, agencyID uint, day time.Time) (*models.Planning, error) {
	var planning models.Planning
	d := day.Format(dateLayout)
	err := conn(ctx, r.db).Preload("Restaurant").
		Where("agency_id = ? AND active = ? AND start_date <= ? AND end_date >= ?", agencyID, true, d, d).
		Order("start_date DESC").
		First(&planning).Error
	if err != nil {
		return nil, translate(err)
	}
	return &planning, nil
}

func (r *planningRepository) List(ctx context.Context, filter PlanningFilter) ([]models.Planning, int64, error) {
	var plannings []models.Planning
	var total int64

	q := conn(ctx, r.db).Model(&models.Planning{})
	if filter.AgencyID != 0 {
		q = q.Where("agency_id = ?", filter.AgencyID)
	}
	if filter.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Preload("Restaurant").Preload("Agency").Order("start_date DESC").Find(&plannings).Error; err != nil {
		return nil, 0, translate(err)
	}
	return plannings, total, nil
}
