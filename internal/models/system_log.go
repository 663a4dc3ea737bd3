package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog stores structured server-side events (seed runs, ERROR+ logs).
type SystemLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	TraceID   string         `gorm:"size:36;index" json:"trace_id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Error     string         `gorm:"type:text" json:"error"`
	Context   datatypes.JSON `json:"context"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// AuditLog records who changed which entity. Payload carries the mutated
// fields as JSON.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *uint          `gorm:"index:idx_audit_user_created" json:"user_id"`
	Action    string         `gorm:"size:50;not null;index" json:"action"`
	Entity    string         `gorm:"size:50;not null;index:idx_audit_entity" json:"entity"`
	EntityID  string         `gorm:"size:36;index:idx_audit_entity" json:"entity_id"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"index:idx_audit_user_created" json:"created_at"`
}
