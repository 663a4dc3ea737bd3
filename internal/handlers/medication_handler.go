package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

type MedicationHandler struct {
	medications *services.MedicationService
}

func NewMedicationHandler(medications *services.MedicationService) *MedicationHandler {
	return &MedicationHandler{medications: medications}
}

func (h *MedicationHandler) List(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	currentOnly := c.Query("current") == "true"
	resp, err := h.medications.List(userID, currentOnly)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *MedicationHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateMedicationRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.medications.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *MedicationHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid record id")
	}
	var req dto.UpdateMedicationRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.medications.Update(userID, id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *MedicationHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid record id")
	}

	if err := h.medications.Delete(userID, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Medication record deleted"})
}
