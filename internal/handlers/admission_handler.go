package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

type AdmissionHandler struct {
	admissions *services.AdmissionService
}

func NewAdmissionHandler(admissions *services.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions}
}

func (h *AdmissionHandler) List(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.admissions.List(userID, c.QueryInt("page", 1), c.QueryInt("pageSize", 20))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AdmissionHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid admission id")
	}

	resp, err := h.admissions.Get(userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AdmissionHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateAdmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.admissions.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AdmissionHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid admission id")
	}

	if err := h.admissions.Delete(userID, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Admission deleted"})
}

func (h *AdmissionHandler) Files(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid admission id")
	}

	files, err := h.admissions.Files(userID, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": files, "total": len(files)})
}

func (h *AdmissionHandler) AddFile(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid admission id")
	}
	var req dto.AddAdmissionFileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.admissions.AddFile(userID, id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
