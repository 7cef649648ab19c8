package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: msg})
}

// respondError maps a service error to a status code and body. Classified
// errors carry their own message; anything else is a 500 with fallback.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindUnexpected {
		return c.Status(apperr.Status(err)).JSON(dto.ErrorResponse{
			Message: ae.Message,
			Error:   ae.Cause(),
		})
	}

	slog.Error(fallback,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err.Error(),
	)

	msg, detail := fallback, err.Error()
	if ae != nil {
		msg, detail = ae.Message, ae.Cause()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Message: msg,
		Error:   detail,
	})
}

// adminEmail reads the optional adminEmail field of a DELETE body. The
// field only attributes the audit entry, so an unreadable body falls back
// to the token or sentinel instead of failing the delete.
func adminEmail(c *fiber.Ctx) string {
	if len(c.Body()) == 0 {
		return ""
	}
	var req dto.DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("ignoring unreadable delete body",
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err.Error(),
		)
		return ""
	}
	return req.AdminEmail
}
