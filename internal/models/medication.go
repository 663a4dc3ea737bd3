package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Medication is a drug catalog entry.
type Medication struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null;index" json:"name"`
	GenericName *string        `gorm:"size:200" json:"generic_name"`
	Spec        *string        `gorm:"size:100" json:"spec"`
	Unit        *string        `gorm:"size:50" json:"unit"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MedicationRecord is one course of a medication for a user.
type MedicationRecord struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	MedicationID uint            `gorm:"not null;index" json:"medication_id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	StartDate    *datatypes.Date `json:"start_date"`
	EndDate      *datatypes.Date `json:"end_date"`
	Dose         *string         `gorm:"size:100" json:"dose"`
	Frequency    *string         `gorm:"size:100" json:"frequency"`
	Route        *string         `gorm:"size:100" json:"route"`
	Purpose      *string         `gorm:"size:200" json:"purpose"`
	Notes        *string         `gorm:"size:500" json:"notes"`
	IsCurrent    bool            `gorm:"not null;default:true;index" json:"is_current"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}
