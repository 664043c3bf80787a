package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
)

func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// fail renders any error in the response envelope. Unknown errors are logged
// and hidden behind a generic 500.
func fail(c *fiber.Ctx, err error) error {
	var (
		verr *apperr.ValidationError
		ferr *fiber.Error
	)
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation error",
			"errors":  verr.Fields,
		})
	case errors.Is(err, apperr.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, apperr.ErrUnverified), errors.Is(err, apperr.ErrForbidden):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrInvalidState):
		status, message = fiber.StatusConflict, err.Error()
	case errors.As(err, &ferr):
		status, message = ferr.Code, ferr.Message
	default:
		log.Printf("[http] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ErrorHandler catches errors returned by middleware and recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return fail(c, err)
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Field(name, "Invalid id")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	return nil
}
