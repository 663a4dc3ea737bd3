package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

type AccountHandler struct {
	authService *services.AuthService
}

func NewAccountHandler(authService *services.AuthService) *AccountHandler {
	return &AccountHandler{authService: authService}
}

func (h *AccountHandler) Me(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.authService.Profile(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

func (h *AccountHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.ChangePassword(userID, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed"})
}
