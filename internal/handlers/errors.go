package handlers

import (
	"errors"

	"tenancy-service/internal/serviceerrors"

	"github.com/gofiber/fiber/v3"
)

// errorResponse maps service error codes to stable HTTP statuses. Anything
// untyped is an internal failure and its details stay out of the response.
func errorResponse(c fiber.Ctx, err error) error {
	var se *serviceerrors.Error
	if !errors.As(err, &se) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "INTERNAL",
		})
	}

	status := fiber.StatusInternalServerError
	switch se.Code {
	case serviceerrors.CodeAuthorization, serviceerrors.CodeEscalation:
		status = fiber.StatusForbidden
	case serviceerrors.CodeRateLimited:
		status = fiber.StatusTooManyRequests
	case serviceerrors.CodeNotFound:
		status = fiber.StatusNotFound
	case serviceerrors.CodeValidation:
		status = fiber.StatusBadRequest
	case serviceerrors.CodeConflict, serviceerrors.CodeAlreadyConsumed:
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   se.Code,
		"message": se.Message,
	})
}
