package response

import (
	"log"

	apperrors "mutralo/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// Fail renders err with the status of its kind. Business errors carry their
// code; anything else is logged and answered with a generic 500.
func Fail(c *fiber.Ctx, err error) error {
	if de, ok := apperrors.AsDomain(err); ok {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{
			"error": de.Message,
			"code":  de.Code,
		})
	}
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return ServerError(c, "Internal server error")
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

func ValidationError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}
