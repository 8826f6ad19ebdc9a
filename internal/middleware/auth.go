// Package middleware holds the fiber middleware shared by the route groups:
// JWT authentication, role and permission checks and the scheduling gate.
package middleware

import (
	"context"
	"log"
	"strings"

	"mutralo/internal/models"
	"mutralo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// TokenParser validates an access token and returns its claims.
type TokenParser interface {
	ParseAccessToken(token string) (*models.UserClaims, error)
}

// TokenVersionSource reports the current session version of a user.
type TokenVersionSource interface {
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header or the
// access_token cookie, validates it, and adds the user claims to the request
// context.
type AuthMiddleware struct {
	tokens   TokenParser
	versions TokenVersionSource
}

func NewAuthMiddleware(tokens TokenParser, versions TokenVersionSource) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		versions: versions,
	}
}

// Handler rejects requests whose token is missing, invalid, expired or
// issued before the user's last logout.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString, ok := bearer(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	claims, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.versions.GetUserTokenVersion(c.UserContext(), claims.UserID)
	if err != nil {
		log.Printf("Error getting token version for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if claims.TokenVersion != currentVersion {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

func bearer(c *fiber.Ctx) (string, bool) {
	if header := c.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		return strings.TrimPrefix(header, "Bearer "), true
	}
	if cookie := c.Cookies("access_token"); cookie != "" {
		return cookie, true
	}
	return "", false
}

// RequireRole admits only the listed roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return response.Unauthorized(c)
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		log.Printf("Access denied: user %d has role %s", claims.UserID, claims.Role)
		return response.Forbidden(c, "Insufficient permissions")
	}
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return response.Unauthorized(c)
		}
		// If user is admin, allow all permissions
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return response.Forbidden(c, "Insufficient permissions")
	}
}
