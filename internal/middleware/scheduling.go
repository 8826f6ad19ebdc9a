package middleware

import (
	"context"
	"log"

	apperrors "mutralo/internal/errors"
	"mutralo/internal/models"
	"mutralo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ScheduleChecker answers whether a restaurant is planned to serve today.
type ScheduleChecker interface {
	IsRestaurantScheduledToday(ctx context.Context, restaurantID uint) (bool, error)
}

// RequireScheduledRestaurant lets a manager through only on days the
// restaurant they manage is scheduled. The restaurant id is stored in
// Locals("restaurantID").
func RequireScheduledRestaurant(schedule ScheduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return response.Unauthorized(c)
		}
		if claims.ManagedRestaurantID == nil {
			return forbidden(c, apperrors.ErrNoManagedRestaurant)
		}

		restaurantID := *claims.ManagedRestaurantID
		scheduled, err := schedule.IsRestaurantScheduledToday(c.UserContext(), restaurantID)
		if err != nil {
			log.Printf("scheduling check failed for restaurant %d: %v", restaurantID, err)
			return response.ServerError(c, "Failed to check restaurant schedule")
		}
		if !scheduled {
			return forbidden(c, apperrors.ErrRestaurantNotScheduled)
		}

		c.Locals("restaurantID", restaurantID)
		return c.Next()
	}
}

func forbidden(c *fiber.Ctx, de *apperrors.DomainError) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": de.Message,
		"code":  de.Code,
	})
}
