package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

type IndicatorHandler struct {
	indicators *services.IndicatorService
	details    *services.DetailService
}

func NewIndicatorHandler(indicators *services.IndicatorService, details *services.DetailService) *IndicatorHandler {
	return &IndicatorHandler{indicators: indicators, details: details}
}

func (h *IndicatorHandler) List(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	q := dto.ListIndicatorsQuery{
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("pageSize", 20),
		Keyword:   c.Query("keyword"),
		Category:  c.Query("category"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Order:     c.Query("order", "desc"),
		Owner:     c.Query("owner", "all"),
	}
	if v := c.Query("favorites"); v != "" {
		b := v == "true" || v == "1"
		q.Favorites = &b
	}
	if v := c.Query("builtin"); v != "" {
		b := v == "true" || v == "1"
		q.Builtin = &b
	}

	resp, err := h.indicators.List(userID, &q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *IndicatorHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}

	resp, err := h.indicators.Get(userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *IndicatorHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateIndicatorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.indicators.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *IndicatorHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}
	var req dto.UpdateIndicatorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.indicators.Update(userID, isStaff(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *IndicatorHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}

	if err := h.indicators.Delete(userID, isStaff(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Indicator deleted"})
}

func (h *IndicatorHandler) GetDetail(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}

	resp, err := h.details.Get(userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// PutDetail is registered behind the staff middleware.
func (h *IndicatorHandler) PutDetail(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}
	var req dto.UpdateDetailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.details.Upsert(userID, id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func isStaff(c *fiber.Ctx) bool {
	role := auth.CurrentRole(c)
	return role == models.RoleAdmin || role == models.RoleDeveloper
}
