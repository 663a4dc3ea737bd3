package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

// fail maps service errors onto HTTP statuses. Unknown errors surface as a
// validation failure; the global error handler covers anything thrown.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrIndicatorNotFound),
		errors.Is(err, services.ErrRecordNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrUserIndicatorNotFound),
		errors.Is(err, services.ErrAdmissionNotFound),
		errors.Is(err, services.ErrAdmissionFileNotFound),
		errors.Is(err, services.ErrMedicationRecordNotFound),
		errors.Is(err, services.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateIndicator),
		errors.Is(err, services.ErrLoincTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		status = fiber.StatusUnauthorized
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}
