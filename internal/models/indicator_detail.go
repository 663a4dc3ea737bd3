package models

import (
	"time"

	"gorm.io/gorm"
)

// IndicatorDetail holds the long-form clinical text for one indicator (1:1).
// Rows are created lazily on the first detail edit or by the seed importer.
type IndicatorDetail struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	IndicatorID          uint           `gorm:"not null;uniqueIndex" json:"indicator_id"`
	IntroductionText     *string        `gorm:"type:text" json:"introduction_text"`
	MeasurementMethod    *string        `gorm:"type:text" json:"measurement_method"`
	ClinicalSignificance *string        `gorm:"type:text" json:"clinical_significance"`
	HighMeaning          *string        `gorm:"type:text" json:"high_meaning"`
	LowMeaning           *string        `gorm:"type:text" json:"low_meaning"`
	HighAdvice           *string        `gorm:"type:text" json:"high_advice"`
	LowAdvice            *string        `gorm:"type:text" json:"low_advice"`
	NormalAdvice         *string        `gorm:"type:text" json:"normal_advice"`
	GeneralAdvice        *string        `gorm:"type:text" json:"general_advice"`
	Unit                 *string        `gorm:"size:50" json:"unit"`
	ReferenceRange       *string        `gorm:"size:100" json:"reference_range"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}
