package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	resp, err := h.categories.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	resp, err := h.categories.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *CategoryHandler) Indicators(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category id")
	}

	resp, err := h.categories.Indicators(userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
