package repositories

import (
	"context"
	"errors"

	"mutralo/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID, from the cache when possible. The
	// password hash is not cached.
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by email address, always from the database
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetWithAgency loads the user and its agency
	GetWithAgency(ctx context.Context, id uint) (*models.User, error)

	// LockByID reads the user row with FOR UPDATE. Must be called inside a transaction.
	LockByID(ctx context.Context, id uint) (*models.User, error)

	Update(ctx context.Context, user *models.User) error

	// IncrementTokenVersion invalidates every token issued so far
	IncrementTokenVersion(ctx context.Context, userID uint) error

	TouchLastLogin(ctx context.Context, userID uint) error

	// ListByRole retrieves users with pagination
	ListByRole(ctx context.Context, role string, offset, limit int) ([]models.User, int64, error)
}
