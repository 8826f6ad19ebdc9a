package menu

import (
	"context"
	"testing"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
	"mutralo/internal/repositories"
	"mutralo/internal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func newTestService() (Service, *mocks.MenuRepository, *mocks.Transactor) {
	s, repo, _, tx := newTestServiceWithReservations()
	return s, repo, tx
}

func newTestServiceWithReservations() (Service, *mocks.MenuRepository, *mocks.ReservationRepository, *mocks.Transactor) {
	repo := new(mocks.MenuRepository)
	reservations := new(mocks.ReservationRepository)
	tx := &mocks.Transactor{}
	return NewService(repo, reservations, tx), repo, reservations, tx
}

func TestService_Create(t *testing.T) {
	friday := date(2024, 3, 15)

	tests := []struct {
		name      string
		req       CreateRequest
		setupMock func(*mocks.MenuRepository)
		wantErr   error
		check     func(*testing.T, *models.Menu)
	}{
		{
			name: "dated dish takes the weekday of its date",
			req:  CreateRequest{RestaurantID: 2, Name: " Riz gras ", Date: &friday, Price: 0, Stock: intPtr(30)},
			setupMock: func(r *mocks.MenuRepository) {
				r.On("Create", mock.Anything, mock.AnythingOfType("*models.Menu")).Return(nil)
			},
			check: func(t *testing.T, m *models.Menu) {
				assert.Equal(t, "Riz gras", m.Name)
				assert.Equal(t, models.Friday, m.Weekday)
				assert.True(t, m.Available)
				assert.Equal(t, 30, *m.Stock)
			},
		},
		{
			name: "weekday dish with unlimited stock",
			req:  CreateRequest{RestaurantID: 2, Name: "Tô", Weekday: models.Monday, Price: 250},
			setupMock: func(r *mocks.MenuRepository) {
				r.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, m *models.Menu) {
				assert.Nil(t, m.Date)
				assert.Nil(t, m.Stock)
			},
		},
		{name: "missing name", req: CreateRequest{Weekday: models.Monday}, wantErr: apperrors.ErrInvalidMenu},
		{name: "negative price", req: CreateRequest{Name: "x", Weekday: models.Monday, Price: -1}, wantErr: apperrors.ErrInvalidMenu},
		{name: "negative stock", req: CreateRequest{Name: "x", Weekday: models.Monday, Stock: intPtr(-1)}, wantErr: apperrors.ErrInvalidMenu},
		{name: "no date or weekday", req: CreateRequest{Name: "x"}, wantErr: apperrors.ErrInvalidMenu},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, _ := newTestService()
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			m, err := s.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Decrement(t *testing.T) {
	t.Run("returns the updated dish", func(t *testing.T) {
		s, repo, _ := newTestService()
		repo.On("Decrement", mock.Anything, uint(5), 1).
			Return(&models.Menu{Stock: intPtr(3), ConsumedCount: 3, Available: false}, nil)

		m, err := s.Decrement(context.Background(), 5, 1)
		require.NoError(t, err)
		assert.False(t, m.Available)
		assert.Equal(t, 0, *m.Remaining())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		s, repo, _ := newTestService()
		_, err := s.Decrement(context.Background(), 5, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
		repo.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown dish", func(t *testing.T) {
		s, repo, _ := newTestService()
		repo.On("Decrement", mock.Anything, uint(5), 2).Return(nil, repositories.ErrNotFound)
		_, err := s.Decrement(context.Background(), 5, 2)
		assert.ErrorIs(t, err, apperrors.ErrMenuNotFound)
	})
}

func TestService_GetForRestaurant(t *testing.T) {
	s, repo, _ := newTestService()
	repo.On("GetByID", mock.Anything, uint(5)).Return(&models.Menu{RestaurantID: 3}, nil)

	_, err := s.GetForRestaurant(context.Background(), 2, 5)
	assert.ErrorIs(t, err, apperrors.ErrMenuNotFound)

	m, err := s.GetForRestaurant(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(3), m.RestaurantID)
}

func TestService_Update(t *testing.T) {
	s, repo, _ := newTestService()
	repo.On("GetByID", mock.Anything, uint(5)).Return(&models.Menu{RestaurantID: 2, Name: "Tô", Stock: intPtr(10)}, nil)
	repo.On("UpdateDetails", mock.Anything, uint(5), mock.MatchedBy(func(c repositories.MenuChanges) bool {
		return c.Price == 300 && c.Stock == nil && c.Name == "Tô"
	})).Return(&models.Menu{RestaurantID: 2, Name: "Tô", Price: 300}, nil)

	price := int64(300)
	m, err := s.Update(context.Background(), 2, 5, UpdateRequest{Price: &price, ClearStock: true})
	require.NoError(t, err)
	assert.Equal(t, int64(300), m.Price)
	assert.Nil(t, m.Stock)
	assert.Equal(t, "Tô", m.Name)
}

func TestService_UpdateKeepsStoredConsumption(t *testing.T) {
	s, repo, _ := newTestService()
	// Read at 3 served; a redemption lands before the edit is written.
	repo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Menu{RestaurantID: 2, Name: "Tô", Stock: intPtr(10), ConsumedCount: 3, Available: true}, nil)
	repo.On("UpdateDetails", mock.Anything, uint(5), mock.Anything).
		Return(&models.Menu{RestaurantID: 2, Name: "Phở", Stock: intPtr(10), ConsumedCount: 4, Available: true}, nil)

	name := "Phở"
	m, err := s.Update(context.Background(), 2, 5, UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 4, m.ConsumedCount)
	assert.Equal(t, 6, *m.Remaining())
	repo.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateSoldOut(t *testing.T) {
	yes := true
	tests := []struct {
		name          string
		req           UpdateRequest
		wantErr       error
		wantAvailable bool
	}{
		{name: "lowering stock to consumption marks dish unavailable", req: UpdateRequest{Stock: intPtr(4)}},
		{name: "re-enabling a sold out dish is refused", req: UpdateRequest{Available: &yes}, wantErr: apperrors.ErrMenuSoldOut},
		{name: "raising stock allows re-enabling", req: UpdateRequest{Stock: intPtr(6), Available: &yes}, wantAvailable: true},
		{name: "clearing stock allows re-enabling", req: UpdateRequest{ClearStock: true, Available: &yes}, wantAvailable: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, _ := newTestService()
			repo.On("GetByID", mock.Anything, uint(5)).
				Return(&models.Menu{RestaurantID: 2, Name: "Tô", Stock: intPtr(4), ConsumedCount: 4, Available: tt.req.Stock != nil}, nil)
			repo.On("UpdateDetails", mock.Anything, uint(5), mock.MatchedBy(func(c repositories.MenuChanges) bool {
				return c.Available == tt.wantAvailable
			})).Return(&models.Menu{RestaurantID: 2, Available: tt.wantAvailable}, nil)

			m, err := s.Update(context.Background(), 2, 5, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateDetails", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, m.Available)
		})
	}
}

func TestService_Delete(t *testing.T) {
	dish := &models.Menu{RestaurantID: 2, Name: "Tô"}

	t.Run("cancels active reservations with the dish", func(t *testing.T) {
		s, repo, reservations, tx := newTestServiceWithReservations()
		repo.On("GetByID", mock.Anything, uint(5)).Return(dish, nil)
		reservations.On("CancelActiveForMenu", mock.Anything, uint(5)).Return(int64(3), nil)
		repo.On("Delete", mock.Anything, uint(5)).Return(nil)

		require.NoError(t, s.Delete(context.Background(), 2, 5))
		assert.Equal(t, 1, tx.Calls)
		repo.AssertExpectations(t)
		reservations.AssertExpectations(t)
	})

	t.Run("cancel failure keeps the dish", func(t *testing.T) {
		s, repo, reservations, _ := newTestServiceWithReservations()
		repo.On("GetByID", mock.Anything, uint(5)).Return(dish, nil)
		reservations.On("CancelActiveForMenu", mock.Anything, uint(5)).Return(int64(0), repositories.ErrDatabaseOperation)

		assert.ErrorIs(t, s.Delete(context.Background(), 2, 5), repositories.ErrDatabaseOperation)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("another restaurant's dish", func(t *testing.T) {
		s, repo, reservations, _ := newTestServiceWithReservations()
		repo.On("GetByID", mock.Anything, uint(5)).Return(dish, nil)

		assert.ErrorIs(t, s.Delete(context.Background(), 3, 5), apperrors.ErrMenuNotFound)
		reservations.AssertNotCalled(t, "CancelActiveForMenu", mock.Anything, mock.Anything)
	})
}

func TestService_Duplicate(t *testing.T) {
	source, target := date(2024, 3, 15), date(2024, 3, 18)

	s, repo, reservations, tx := newTestServiceWithReservations()
	repo.On("ListForDay", mock.Anything, uint(2), source, false).Return([]models.Menu{
		{Name: "Riz gras", Price: 0, Stock: intPtr(20), ConsumedCount: 12},
		{Name: "Tô", Price: 0},
	}, nil)
	replaced := models.Menu{Name: "Attiéké", Date: &target}
	replaced.ID = 8
	repo.On("ListForDay", mock.Anything, uint(2), target, false).Return([]models.Menu{replaced}, nil)
	reservations.On("CancelActiveForMenu", mock.Anything, uint(8)).Return(int64(2), nil)
	repo.On("DeleteForDate", mock.Anything, uint(2), target).Return(int64(1), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Menu) bool {
		return m.Date != nil && m.Date.Equal(target) && m.ConsumedCount == 0 && m.Weekday == models.Monday
	})).Return(nil).Twice()

	n, err := s.Duplicate(context.Background(), 2, source, target, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, tx.Calls)
	repo.AssertExpectations(t)
	reservations.AssertExpectations(t)

	_, err = s.Duplicate(context.Background(), 2, source, source, false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}

func TestService_HasAvailable(t *testing.T) {
	s, repo, _ := newTestService()
	repo.On("CountServable", mock.Anything, uint(2), date(2024, 3, 15)).Return(int64(0), nil)

	ok, err := s.HasAvailable(context.Background(), 2, time.Date(2024, 3, 15, 11, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, ok)
}
