package repositories

import (
	"context"
	"errors"
	"log"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/repositories/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository. cache may be nil.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(conn(ctx, r.db).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil && !InTransaction(ctx) {
		if user, err := r.cache.GetUser(ctx, id); err == nil {
			return user, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Printf("User cache read failed for %d: %v", id, err)
		}
	}

	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, r.notFound(err)
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(ctx, &user); err != nil {
			log.Printf("Failed to cache user: %v", err)
		}
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, r.notFound(err)
	}
	return &user, nil
}

func (r *userRepository) GetWithAgency(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Preload("Agency").First(&user, id).Error; err != nil {
		return nil, r.notFound(err)
	}
	return &user, nil
}

func (r *userRepository) LockByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		return nil, r.notFound(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Save(user).Error; err != nil {
		return translate(err)
	}
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	result := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, userID uint) error {
	return translate(conn(ctx, r.db).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("last_login_at", time.Now()).Error)
}

func (r *userRepository) ListByRole(ctx context.Context, role string, offset, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	q := conn(ctx, r.db).Model(&models.User{}).Where("role = ?", role).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	if err := q.Preload("Agency").Order("last_name, first_name").
		Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}

func (r *userRepository) invalidate(ctx context.Context, userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("Warning: Failed to invalidate user cache: %v", err)
	}
}

func (r *userRepository) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return translate(err)
}
