package repositories

import (
	"context"
	"time"

	"mutralo/internal/models"

	"gorm.io/gorm"
)

// ReservationRepository stores dish reservations.
type ReservationRepository interface {
	// Create returns ErrDuplicate when an active reservation already exists
	// for the same client, dish and day.
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	// FindActive returns the oldest PENDING or CONFIRMED reservation of the
	// client at the restaurant for day.
	FindActive(ctx context.Context, clientID, restaurantID uint, day time.Time) (*models.Reservation, error)
	// Transition moves the reservation to status `to` when its current
	// status is one of from. It reports false when no row matched.
	Transition(ctx context.Context, id uint, from []models.ReservationStatus, to models.ReservationStatus) (bool, error)
	// Rebind points an active reservation at another dish. It reports false
	// when the reservation is no longer active.
	Rebind(ctx context.Context, id, menuID uint) (bool, error)
	// CancelActiveForMenu cancels every PENDING or CONFIRMED reservation of
	// the dish and returns how many were cancelled.
	CancelActiveForMenu(ctx context.Context, menuID uint) (int64, error)

	ListByClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Reservation, int64, error)
	ListByRestaurant(ctx context.Context, restaurantID uint, day time.Time, status models.ReservationStatus) ([]models.Reservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return translate(conn(ctx, r.db).Create(reservation).Error)
}

func (r *reservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := conn(ctx, r.db).Preload("Menu").First(&reservation, id).Error; err != nil {
		return nil, translate(err)
	}
	return &reservation, nil
}

func (r *reservationRepository) FindActive(ctx context.Context, clientID, restaurantID uint, day time.Time) (*models.Reservation, error) {
	var reservation models.Reservation
	err := conn(ctx, r.db).Preload("Menu").
		Where("client_id = ? AND restaurant_id = ? AND reservation_date = ? AND status IN ?",
			clientID, restaurantID, day.Format(dateLayout), models.ActiveReservationStatuses).
		Order("created_at").
		First(&reservation).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reservation, nil
}

func (r *reservationRepository) Transition(ctx context.Context, id uint, from []models.ReservationStatus, to models.ReservationStatus) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Reservation{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *reservationRepository) Rebind(ctx context.Context, id, menuID uint) (bool, error) {
	result := conn(ctx, r.db).Model(&models.Reservation{}).
		Where("id = ? AND status IN ?", id, models.ActiveReservationStatuses).
		Update("menu_id", menuID)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *reservationRepository) CancelActiveForMenu(ctx context.Context, menuID uint) (int64, error) {
	result := conn(ctx, r.db).Model(&models.Reservation{}).
		Where("menu_id = ? AND status IN ?", menuID, models.ActiveReservationStatuses).
		Update("status", models.ReservationCancelled)
	return result.RowsAffected, translate(result.Error)
}

func (r *reservationRepository) ListByClient(ctx context.Context, clientID uint, offset, limit int) ([]models.Reservation, int64, error) {
	var reservations []models.Reservation
	var total int64

	q := conn(ctx, r.db).Model(&models.Reservation{}).Where("client_id = ?", clientID).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	err := q.Preload("Menu").Order("reservation_date DESC, id DESC").Offset(offset).Limit(limit).Find(&reservations).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return reservations, total, nil
}

func (r *reservationRepository) ListByRestaurant(ctx context.Context, restaurantID uint, day time.Time, status models.ReservationStatus) ([]models.Reservation, error) {
	var reservations []models.Reservation
	q := conn(ctx, r.db).Preload("Menu").
		Where("restaurant_id = ? AND reservation_date = ?", restaurantID, day.Format(dateLayout))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("created_at").Find(&reservations).Error; err != nil {
		return nil, translate(err)
	}
	return reservations, nil
}
