package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/events"
	"mutralo/internal/models"
	"mutralo/internal/repositories/cache"
	"mutralo/internal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) CacheSettings(ctx context.Context, settings models.Settings, ttl time.Duration) error {
	return m.Called(ctx, settings, ttl).Error(0)
}

func (m *mockCache) GetSettings(ctx context.Context) (models.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *mockCache) InvalidateSettings(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Record(ctx context.Context, entry *models.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return m.Called(ctx, subject, data).Error(0)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Settings)
		wantErr bool
	}{
		{"defaults", func(*models.Settings) {}, false},
		{"min zero", func(s *models.Settings) { s.MinTicketsPerPurchase = 0 }, true},
		{"max below min", func(s *models.Settings) { s.MinTicketsPerPurchase = 5; s.MaxTicketsPerPurchase = 4 }, true},
		{"max equals min", func(s *models.Settings) { s.MinTicketsPerPurchase = 4; s.MaxTicketsPerPurchase = 4 }, false},
		{"no monthly purchase", func(s *models.Settings) { s.MaxPurchasesPerMonth = 0 }, true},
		{"qr ttl zero", func(s *models.Settings) { s.QRCodeTTLMinutes = 0 }, true},
		{"negative lead time", func(s *models.Settings) { s.ReservationLeadDays = -1 }, true},
		{"price and subsidy do not add up", func(s *models.Settings) { s.TicketPrice = 600 }, true},
		{"repriced consistently", func(s *models.Settings) { s.TicketPrice = 600; s.TicketSubsidy = 1400 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.DefaultSettings()
			tt.mutate(&s)

			err := Validate(s)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Current(t *testing.T) {
	cached := models.DefaultSettings()
	cached.MaxPurchasesPerMonth = 2
	stored := models.DefaultSettings()

	tests := []struct {
		name      string
		setupMock func(c *mockCache, r *mocks.SettingsRepository)
		want      models.Settings
	}{
		{
			name: "cache hit",
			setupMock: func(c *mockCache, r *mocks.SettingsRepository) {
				c.On("GetSettings", mock.Anything).Return(cached, nil)
			},
			want: cached,
		},
		{
			name: "cache miss reads and fills",
			setupMock: func(c *mockCache, r *mocks.SettingsRepository) {
				c.On("GetSettings", mock.Anything).Return(models.Settings{}, cache.ErrMiss)
				r.On("Get", mock.Anything).Return(stored, nil)
				c.On("CacheSettings", mock.Anything, stored, 30*time.Second).Return(nil)
			},
			want: stored,
		},
		{
			name: "cache down falls back to database",
			setupMock: func(c *mockCache, r *mocks.SettingsRepository) {
				c.On("GetSettings", mock.Anything).Return(models.Settings{}, errors.New("connection refused"))
				r.On("Get", mock.Anything).Return(stored, nil)
				c.On("CacheSettings", mock.Anything, stored, 30*time.Second).Return(errors.New("connection refused"))
			},
			want: stored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(mockCache)
			r := new(mocks.SettingsRepository)
			tt.setupMock(c, r)

			got, err := NewService(r, c, 30*time.Second, nil, nil).Current(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			c.AssertExpectations(t)
			r.AssertExpectations(t)
		})
	}
}

func TestService_CurrentWithoutCache(t *testing.T) {
	r := new(mocks.SettingsRepository)
	r.On("Get", mock.Anything).Return(models.DefaultSettings(), nil)

	got, err := NewService(r, nil, time.Minute, nil, nil).Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.MaxPurchasesPerMonth)
}

func TestService_Update(t *testing.T) {
	r := new(mocks.SettingsRepository)
	c := new(mockCache)
	a := new(mockAudit)
	p := new(mockPublisher)

	s := NewService(r, c, time.Minute, a, p).(*service)
	s.now = func() time.Time { return fixedNow }

	in := models.DefaultSettings()
	in.MaxPurchasesPerMonth = 2

	r.On("Save", mock.Anything, mock.MatchedBy(func(saved models.Settings) bool {
		return saved.ID == models.SettingsID && saved.MaxPurchasesPerMonth == 2 &&
			saved.UpdatedBy != nil && *saved.UpdatedBy == 1 && saved.UpdatedAt.Equal(fixedNow)
	})).Return(nil)
	c.On("InvalidateSettings", mock.Anything).Return(nil)

	var eventID string
	a.On("Record", mock.Anything, mock.MatchedBy(func(e *models.AuditEntry) bool {
		return e.Action == models.AuditUpdate && e.Entity == "settings" && e.EventID != ""
	})).Run(func(args mock.Arguments) {
		eventID = args.Get(1).(*models.AuditEntry).EventID
	}).Return(nil)
	p.On("Publish", mock.Anything, events.SubjectSettingsUpdated, mock.MatchedBy(func(data []byte) bool {
		env, err := events.Decode(data)
		return err == nil && env.ID == eventID
	})).Return(nil)

	got, err := s.Update(context.Background(), in, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MaxPurchasesPerMonth)

	r.AssertExpectations(t)
	c.AssertExpectations(t)
	a.AssertExpectations(t)
	p.AssertExpectations(t)
}

func TestService_UpdateRejectsInvalid(t *testing.T) {
	r := new(mocks.SettingsRepository)
	in := models.DefaultSettings()
	in.MinTicketsPerPurchase = 0

	_, err := NewService(r, nil, time.Minute, nil, nil).Update(context.Background(), in, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSettings)
	r.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
