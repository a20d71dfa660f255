package handlers

import (
	"errors"

	applog "merchline/internal/log"
	"merchline/internal/services"

	"github.com/gofiber/fiber/v2"
)

// fail maps the service error taxonomy onto HTTP status codes and a uniform
// JSON error body. Unrecognized errors bubble to the app error handler.
func fail(c *fiber.Ctx, err error) error {
	status := 0
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrInvalidSelection),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrCouponInvalid),
		errors.Is(err, services.ErrCouponNotApplicable),
		errors.Is(err, services.ErrPaymentNotCompleted),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrEmailTaken):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrBadCreds):
		status = fiber.StatusUnauthorized
	}
	if status == 0 {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"reason": msg})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
