package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

type UserIndicatorHandler struct {
	userIndicators *services.UserIndicatorService
}

func NewUserIndicatorHandler(userIndicators *services.UserIndicatorService) *UserIndicatorHandler {
	return &UserIndicatorHandler{userIndicators: userIndicators}
}

func (h *UserIndicatorHandler) List(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.userIndicators.List(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *UserIndicatorHandler) Upsert(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.UpsertUserIndicatorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.IndicatorID == 0 {
		return badRequest(c, "indicatorId is required")
	}

	resp, err := h.userIndicators.Upsert(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *UserIndicatorHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	indicatorID, err := paramID(c, "indicatorId")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}

	if err := h.userIndicators.Delete(userID, indicatorID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Indicator unfollowed"})
}
