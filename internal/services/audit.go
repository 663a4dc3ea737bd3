package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/models"
)

// audit writes one AuditLog row. A failed audit write is logged and swallowed
// so it never rolls back the mutation it describes.
func audit(db *gorm.DB, userID uint, action, entity string, entityID uint, payload interface{}) {
	var raw datatypes.JSON
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			slog.Warn("audit payload not serializable", "action", action, "entity", entity, "error", err)
		} else {
			raw = datatypes.JSON(b)
		}
	}

	entry := models.AuditLog{
		UserID:   &userID,
		Action:   action,
		Entity:   entity,
		EntityID: fmt.Sprintf("%d", entityID),
		Payload:  raw,
	}
	if err := db.Create(&entry).Error; err != nil {
		slog.Error("audit write failed", "action", action, "entity", entity, "error", err)
	}
}
