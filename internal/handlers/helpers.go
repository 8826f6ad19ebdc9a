// Package handlers exposes the services over HTTP, one handler type per role.
package handlers

import (
	"errors"
	"strconv"
	"time"

	"mutralo/internal/models"
	"mutralo/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

var errBadDate = errors.New("dates must be formatted YYYY-MM-DD")

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func queryID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseDay reads a YYYY-MM-DD value. An empty value returns fallback.
func parseDay(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return models.DateOf(fallback), nil
	}
	day, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return day, nil
}

var errBadBody = errors.New("invalid request body")

// bind parses the request body into dst and validates its tags.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errBadBody
	}
	return validation.Struct(dst)
}

// restaurantOf returns the restaurant set by the scheduling gate.
func restaurantOf(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("restaurantID").(uint)
	return id, ok
}
