package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Indicator value kinds.
const (
	IndicatorTypeNumeric = "numeric"
	IndicatorTypeText    = "text"
)

// Indicator is a catalog entry for a measurable medical value. Builtin rows
// have a nil OwnerUserID and are shared by every account; custom rows belong
// to exactly one user. The (owner_user_id, name_cn) pair is unique, so one
// user cannot create two indicators with the same Chinese name while distinct
// users may each own one.
type Indicator struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OwnerUserID  *uint          `gorm:"index;uniqueIndex:idx_indicators_owner_name" json:"owner_user_id"`
	NameCN       string         `gorm:"size:100;not null;uniqueIndex:idx_indicators_owner_name" json:"name_cn"`
	NameEN       *string        `gorm:"size:200" json:"name_en"`
	Unit         string         `gorm:"size:50;not null" json:"unit"`
	Type         string         `gorm:"size:10;not null;default:'numeric'" json:"type"`
	ReferenceMin *float64       `json:"reference_min"`
	ReferenceMax *float64       `json:"reference_max"`
	IsBuiltin    bool           `gorm:"not null;default:false;index" json:"is_builtin"`
	Loinc        *string        `gorm:"size:20;uniqueIndex" json:"loinc"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IndicatorRecord is one measurement event. Value is a string so qualitative
// results share the column with numeric readings; RefLow/RefHigh override the
// indicator's baseline reference range for this record only.
type IndicatorRecord struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	IndicatorID     uint           `gorm:"not null;index" json:"indicator_id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	MeasuredAt      datatypes.Date `gorm:"not null;index" json:"measured_at"`
	Value           string         `gorm:"size:100;not null" json:"value"`
	Unit            string         `gorm:"size:50" json:"unit"`
	RefLow          *float64       `json:"ref_low"`
	RefHigh         *float64       `json:"ref_high"`
	RefText         *string        `gorm:"size:100" json:"ref_text"`
	Source          string         `gorm:"size:50;not null;default:'manual'" json:"source"`
	Note            *string        `gorm:"size:500" json:"note"`
	AdmissionFileID *uint          `gorm:"index" json:"admission_file_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
