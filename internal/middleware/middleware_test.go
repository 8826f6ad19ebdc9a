package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"mutralo/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockParser struct {
	mock.Mock
}

func (m *mockParser) ParseAccessToken(token string) (*models.UserClaims, error) {
	args := m.Called(token)
	if v := args.Get(0); v != nil {
		return v.(*models.UserClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockVersions struct {
	mock.Mock
}

func (m *mockVersions) GetUserTokenVersion(ctx context.Context, userID uint) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type scheduleFunc func(ctx context.Context, restaurantID uint) (bool, error)

func (f scheduleFunc) IsRestaurantScheduledToday(ctx context.Context, restaurantID uint) (bool, error) {
	return f(ctx, restaurantID)
}

func ok(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func withClaims(claims *models.UserClaims) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals("claims", claims)
		}
		return c.Next()
	}
}

func TestAuthMiddleware_Handler(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setupMock  func(p *mockParser, v *mockVersions)
		wantStatus int
	}{
		{
			name:   "current session",
			header: "Bearer good",
			setupMock: func(p *mockParser, v *mockVersions) {
				p.On("ParseAccessToken", "good").Return(&models.UserClaims{UserID: 7, TokenVersion: 2}, nil)
				v.On("GetUserTokenVersion", mock.Anything, uint(7)).Return(2, nil)
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header",
			setupMock:  func(p *mockParser, v *mockVersions) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic abc",
			setupMock:  func(p *mockParser, v *mockVersions) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "bad signature",
			header: "Bearer forged",
			setupMock: func(p *mockParser, v *mockVersions) {
				p.On("ParseAccessToken", "forged").Return(nil, errors.New("signature is invalid"))
			},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "logged out since",
			header: "Bearer stale",
			setupMock: func(p *mockParser, v *mockVersions) {
				p.On("ParseAccessToken", "stale").Return(&models.UserClaims{UserID: 7, TokenVersion: 1}, nil)
				v.On("GetUserTokenVersion", mock.Anything, uint(7)).Return(2, nil)
			},
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, v := new(mockParser), new(mockVersions)
			tt.setupMock(p, v)

			app := fiber.New()
			app.Get("/", NewAuthMiddleware(p, v).Handler, ok)

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			p.AssertExpectations(t)
			v.AssertExpectations(t)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *models.UserClaims
		wantStatus int
	}{
		{"allowed role", &models.UserClaims{Role: models.RoleCashier}, fiber.StatusOK},
		{"other role", &models.UserClaims{Role: models.RoleClient}, fiber.StatusForbidden},
		{"no claims", nil, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", withClaims(tt.claims), RequireRole(models.RoleCashier, models.RoleAdmin), ok)

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHasPermission(t *testing.T) {
	app := fiber.New()
	app.Get("/client", withClaims(&models.UserClaims{
		Role:        models.RoleClient,
		Permissions: models.GetDefaultPermissions(models.RoleClient),
	}), HasPermission(models.PermissionScan), ok)
	app.Get("/admin", withClaims(&models.UserClaims{Role: models.RoleAdmin}), HasPermission(models.PermissionScan), ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/client", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireScheduledRestaurant(t *testing.T) {
	restaurant := uint(4)
	manager := &models.UserClaims{Role: models.RoleManager, ManagedRestaurantID: &restaurant}

	tests := []struct {
		name       string
		claims     *models.UserClaims
		schedule   scheduleFunc
		wantStatus int
	}{
		{
			name:   "scheduled today",
			claims: manager,
			schedule: func(_ context.Context, id uint) (bool, error) {
				return id == 4, nil
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "not scheduled",
			claims:     manager,
			schedule:   func(context.Context, uint) (bool, error) { return false, nil },
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "no restaurant assigned",
			claims:     &models.UserClaims{Role: models.RoleManager},
			schedule:   func(context.Context, uint) (bool, error) { return true, nil },
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "lookup failure",
			claims:     manager,
			schedule:   func(context.Context, uint) (bool, error) { return false, errors.New("db down") },
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen interface{}
			app := fiber.New()
			app.Get("/", withClaims(tt.claims), RequireScheduledRestaurant(tt.schedule), func(c *fiber.Ctx) error {
				seen = c.Locals("restaurantID")
				return ok(c)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == fiber.StatusOK {
				assert.Equal(t, restaurant, seen)
			}
		})
	}
}
