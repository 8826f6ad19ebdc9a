package qrcode

import (
	"context"
	"errors"
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

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type deps struct {
	repo    *mocks.QRCodeRepository
	tickets *mocks.TicketRepository
	users   *mocks.UserRepository
	tx      *mocks.Transactor
}

func newTestService() (*service, deps) {
	d := deps{
		repo:    new(mocks.QRCodeRepository),
		tickets: new(mocks.TicketRepository),
		users:   new(mocks.UserRepository),
		tx:      &mocks.Transactor{},
	}
	s := NewService(d.repo, d.tickets, d.users, d.tx).(*service)
	s.now = func() time.Time { return fixedNow }
	return s, d
}

func TestGenerateCode(t *testing.T) {
	a := GenerateCode(1, "a@corp.bf", fixedNow)
	b := GenerateCode(1, "a@corp.bf", fixedNow.Add(time.Nanosecond))

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, GenerateCode(1, "a@corp.bf", fixedNow))
}

func TestService_Issue(t *testing.T) {
	user := &models.User{Email: "awa@corp.bf", FirstName: "Awa"}
	user.ID = 7

	t.Run("supersedes live codes", func(t *testing.T) {
		s, d := newTestService()
		d.tickets.On("CountRedeemable", mock.Anything, uint(7), fixedNow).Return(int64(4), nil)
		d.users.On("LockByID", mock.Anything, uint(7)).Return(user, nil)
		d.repo.On("InvalidateActive", mock.Anything, uint(7)).Return(int64(1), nil)
		d.repo.On("Create", mock.Anything, mock.AnythingOfType("*models.QRCode")).Return(nil)

		settings := models.DefaultSettings()
		settings.QRCodeTTLMinutes = 5
		qr, err := s.Issue(context.Background(), user, settings)

		require.NoError(t, err)
		assert.True(t, qr.Valid)
		assert.False(t, qr.Used)
		assert.Equal(t, fixedNow.Add(5*time.Minute), qr.ExpiresAt)
		assert.Equal(t, GenerateCode(7, "awa@corp.bf", fixedNow), qr.Code)
		assert.Equal(t, "Awa", qr.Payload.String("name"))
		assert.Equal(t, 1, d.tx.Calls)
		d.repo.AssertExpectations(t)
		d.users.AssertExpectations(t)
	})

	t.Run("no valid tickets", func(t *testing.T) {
		s, d := newTestService()
		d.tickets.On("CountRedeemable", mock.Anything, uint(7), fixedNow).Return(int64(0), nil)

		_, err := s.Issue(context.Background(), user, models.DefaultSettings())
		assert.ErrorIs(t, err, apperrors.ErrNoValidTickets)
		assert.Equal(t, 0, d.tx.Calls)
		d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("create fails", func(t *testing.T) {
		s, d := newTestService()
		d.tickets.On("CountRedeemable", mock.Anything, uint(7), fixedNow).Return(int64(1), nil)
		d.users.On("LockByID", mock.Anything, uint(7)).Return(user, nil)
		d.repo.On("InvalidateActive", mock.Anything, uint(7)).Return(int64(0), nil)
		d.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		_, err := s.Issue(context.Background(), user, models.DefaultSettings())
		assert.Error(t, err)
	})
}

func TestService_Verify(t *testing.T) {
	live := func() *models.QRCode {
		qr := &models.QRCode{Code: "abc", UserID: 7, Valid: true, ExpiresAt: fixedNow.Add(time.Minute)}
		qr.ID = 11
		return qr
	}

	tests := []struct {
		name      string
		setupMock func(d deps)
		wantErr   error
	}{
		{
			name: "valid",
			setupMock: func(d deps) {
				d.repo.On("GetByCode", mock.Anything, "abc").Return(live(), nil)
				d.tickets.On("CountRedeemable", mock.Anything, uint(7), fixedNow).Return(int64(2), nil)
			},
		},
		{
			name: "not found",
			setupMock: func(d deps) {
				d.repo.On("GetByCode", mock.Anything, "abc").Return(nil, repositories.ErrNotFound)
			},
			wantErr: apperrors.ErrTokenNotFound,
		},
		{
			name: "invalidated is reported before used",
			setupMock: func(d deps) {
				qr := live()
				qr.Valid = false
				qr.Used = true
				d.repo.On("GetByCode", mock.Anything, "abc").Return(qr, nil)
			},
			wantErr: apperrors.ErrTokenInvalidated,
		},
		{
			name: "already used",
			setupMock: func(d deps) {
				qr := live()
				qr.Used = true
				d.repo.On("GetByCode", mock.Anything, "abc").Return(qr, nil)
			},
			wantErr: apperrors.ErrTokenAlreadyUsed,
		},
		{
			name: "expired is persisted",
			setupMock: func(d deps) {
				qr := live()
				qr.ExpiresAt = fixedNow.Add(-time.Second)
				d.repo.On("GetByCode", mock.Anything, "abc").Return(qr, nil)
				d.repo.On("Invalidate", mock.Anything, uint(11)).Return(nil)
			},
			wantErr: apperrors.ErrTokenExpired,
		},
		{
			name: "tickets ran out after issue",
			setupMock: func(d deps) {
				d.repo.On("GetByCode", mock.Anything, "abc").Return(live(), nil)
				d.tickets.On("CountRedeemable", mock.Anything, uint(7), fixedNow).Return(int64(0), nil)
			},
			wantErr: apperrors.ErrNoValidTickets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d := newTestService()
			tt.setupMock(d)

			qr, err := s.Verify(context.Background(), "abc")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, qr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "abc", qr.Code)
			}
			d.repo.AssertExpectations(t)
			d.tickets.AssertExpectations(t)
		})
	}
}

func TestService_VerifyExpiryPersistFailure(t *testing.T) {
	s, d := newTestService()
	qr := &models.QRCode{Code: "abc", UserID: 7, Valid: true, ExpiresAt: fixedNow.Add(-time.Second)}
	qr.ID = 11
	d.repo.On("GetByCode", mock.Anything, "abc").Return(qr, nil)
	d.repo.On("Invalidate", mock.Anything, uint(11)).Return(repositories.ErrDatabaseOperation)

	_, err := s.Verify(context.Background(), "abc")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	assert.ErrorIs(t, err, repositories.ErrDatabaseOperation)
}

func TestService_Consume(t *testing.T) {
	t.Run("first consume wins", func(t *testing.T) {
		s, d := newTestService()
		d.repo.On("MarkUsed", mock.Anything, uint(11), uint(2), fixedNow).Return(true, nil)
		d.repo.On("GetByID", mock.Anything, uint(11)).Return(&models.QRCode{Used: true}, nil)

		qr, err := s.Consume(context.Background(), 11, 2)
		require.NoError(t, err)
		assert.True(t, qr.Used)
	})

	t.Run("second consume fails", func(t *testing.T) {
		s, d := newTestService()
		d.repo.On("MarkUsed", mock.Anything, uint(11), uint(2), fixedNow).Return(false, nil)
		d.repo.On("GetByID", mock.Anything, uint(11)).Return(&models.QRCode{Used: true}, nil)

		_, err := s.Consume(context.Background(), 11, 2)
		assert.ErrorIs(t, err, apperrors.ErrTokenAlreadyUsed)
	})

	t.Run("invalidated code is not consumed", func(t *testing.T) {
		s, d := newTestService()
		d.repo.On("MarkUsed", mock.Anything, uint(11), uint(2), fixedNow).Return(false, nil)
		d.repo.On("GetByID", mock.Anything, uint(11)).Return(&models.QRCode{Valid: false, Used: false}, nil)

		_, err := s.Consume(context.Background(), 11, 2)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalidated)
	})
}

func TestService_Current(t *testing.T) {
	s, d := newTestService()
	d.repo.On("Current", mock.Anything, uint(7)).Return(&models.QRCode{ExpiresAt: fixedNow.Add(-time.Minute)}, nil).Once()
	_, err := s.Current(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	d.repo.On("Current", mock.Anything, uint(7)).Return(nil, repositories.ErrNotFound).Once()
	_, err = s.Current(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
