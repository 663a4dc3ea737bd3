package models

import "time"

// UserIndicator is the per-(user, indicator) row holding the alias, custom
// thresholds and the favorite flag. It is a join entity: unfollowing hard
// deletes the row, so there is no DeletedAt column.
type UserIndicator struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_indicator" json:"user_id"`
	IndicatorID  uint      `gorm:"not null;uniqueIndex:idx_user_indicator;index" json:"indicator_id"`
	Alias        *string   `gorm:"size:100" json:"alias"`
	ThresholdMin *float64  `json:"threshold_min"`
	ThresholdMax *float64  `json:"threshold_max"`
	Favorite     bool      `gorm:"not null;default:false;index" json:"favorite"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
