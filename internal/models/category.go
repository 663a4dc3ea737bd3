package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups indicators (vitals, blood panel, ...). Membership is
// many-to-many through IndicatorCategoryLink.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string        `gorm:"size:500" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IndicatorCategoryLink joins indicators to categories. The pair is unique so
// repeated seed runs cannot duplicate a membership.
type IndicatorCategoryLink struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IndicatorID uint      `gorm:"not null;uniqueIndex:idx_indicator_category" json:"indicator_id"`
	CategoryID  uint      `gorm:"not null;uniqueIndex:idx_indicator_category;index" json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}
