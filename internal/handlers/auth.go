package handlers

import (
	"errors"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/services/auth"
	"mutralo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	secure      bool
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// NewAuthHandler creates the auth handler. secure marks cookies Secure and
// should be set in production.
func NewAuthHandler(authService auth.Service, secure bool, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		secure:      secure,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// LoginUser handles user authentication and returns JWT tokens
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return response.ServerError(c, "Authentication failed")
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":            user.ID,
			"email":         user.Email,
			"name":          user.FullName(),
			"role":          user.Role,
			"agency_id":     user.AgencyID,
			"restaurant_id": user.ManagedRestaurantID,
			"permissions":   models.GetDefaultPermissions(user.Role),
		},
	})
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	// First try to get token from cookies
	refreshToken := c.Cookies("refresh_token")

	// If not in cookies, try request body
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "Refresh token not provided")
		}
		refreshToken = input.RefreshToken
	}
	if refreshToken == "" {
		return response.Error(c, fiber.StatusUnauthorized, "Refresh token not provided")
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshTokens(c.UserContext(), refreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	h.setAuthCookies(c, newAccessToken, newRefreshToken)

	return response.Success(c, "Token refreshed", fiber.Map{
		"token":         newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutUser handles user logout
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	// Increment token version to invalidate all existing tokens
	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		return response.ServerError(c, "Failed to logout")
	}

	h.clearAuthCookies(c)
	return response.Success(c, "Successfully logged out", nil)
}

// ChangePassword handles password change requests
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required"`
	}
	if err := bind(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	err = h.authService.ChangePassword(c.UserContext(), claims.UserID, input.OldPassword, input.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidOldPassword), errors.Is(err, auth.ErrWeakPassword):
		return response.BadRequest(c, err.Error())
	default:
		return response.Fail(c, err)
	}

	h.clearAuthCookies(c)
	return response.Success(c, "Password changed successfully", nil)
}

// Me returns the claims of the current session.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	return response.Success(c, "Current session", claims)
}

// Helper methods

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   h.secure,
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   int(h.accessTTL.Seconds()),
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   h.secure,
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   h.secure,
			Path:     "/",
		})
	}
}
