package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	applog "shopfront/internal/log"
	"shopfront/internal/services"
)

const genericError = "Something went wrong. Please try again."

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// fail logs err and writes {"error": msg}. Internal details never reach the
// client on a 5xx.
func fail(c *fiber.Ctx, action string, err error) error {
	status := StatusFor(err)
	msg := genericError
	if status < fiber.StatusInternalServerError {
		var se *services.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &se):
			msg = se.Msg
		case errors.As(err, &fe):
			msg = fe.Message
		default:
			msg = utils.StatusMessage(status)
		}
	}
	c.Status(status)
	switch {
	case status >= fiber.StatusInternalServerError:
		applog.Error(c, action+".fail", err, nil)
	case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
		applog.Security(c, action+".denied", map[string]any{"reason": msg})
	}
	return c.JSON(fiber.Map{"error": msg})
}

// ErrorHandler is the app-level fallback for errors no handler caught.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return fail(c, "server", err)
}

func badBody(c *fiber.Ctx, action string) error {
	applog.Security(c, "validation.fail", map[string]any{"action": action, "field": "body"})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(applog.LocalUserID).(string)
	return id
}
