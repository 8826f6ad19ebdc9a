package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound)), ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_reservation_active"}
	err := translate(dup)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "idx_reservation_active")

	other := translate(&pgconn.PgError{Code: "40001"})
	assert.ErrorIs(t, other, ErrDatabaseOperation)
	assert.False(t, errors.Is(other, ErrDuplicate))
}

func TestInTransaction(t *testing.T) {
	assert.False(t, InTransaction(context.Background()))
	ctx := context.WithValue(context.Background(), txKey{}, &gorm.DB{})
	assert.True(t, InTransaction(ctx))
}

func TestLikePrefix(t *testing.T) {
	assert.Equal(t, "202403-%", likePrefix("202403-"))
	assert.Equal(t, `2024\_03-%`, likePrefix("2024_03-"))
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", ErrUserNotFound)))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(ErrDuplicate))

	assert.True(t, IsDuplicate(translate(&pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicate(ErrDatabaseOperation))
}
