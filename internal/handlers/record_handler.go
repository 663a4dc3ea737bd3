package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medtrackhq/medtrack-backend/internal/auth"
	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/services"
)

type RecordHandler struct {
	records *services.RecordService
}

func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

func (h *RecordHandler) List(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	indicatorID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}

	var fileID *uint
	if v := c.QueryInt("admissionFileId", 0); v > 0 {
		id := uint(v)
		fileID = &id
	}

	resp, err := h.records.List(userID, indicatorID,
		c.Query("startDate"), c.Query("endDate"), fileID,
		c.QueryInt("page", 1), c.QueryInt("pageSize", 50))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *RecordHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	indicatorID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid indicator id")
	}
	var req dto.CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.records.Create(userID, indicatorID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *RecordHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	recordID, err := paramID(c, "recordId")
	if err != nil {
		return badRequest(c, "Invalid record id")
	}
	var req dto.UpdateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.records.Update(userID, recordID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	recordID, err := paramID(c, "recordId")
	if err != nil {
		return badRequest(c, "Invalid record id")
	}

	if err := h.records.Delete(userID, recordID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Record deleted"})
}
