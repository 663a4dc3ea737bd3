package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdmissionFolder buckets a user's hospital stays by year/month.
type AdmissionFolder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_admission_folder" json:"user_id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_admission_folder" json:"year"`
	Month     int       `gorm:"not null;uniqueIndex:idx_admission_folder" json:"month"`
	CreatedAt time.Time `json:"created_at"`
}

// Admission is one hospital stay.
type Admission struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	FolderID      uint            `gorm:"not null;index" json:"folder_id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Hospital      string          `gorm:"size:200;not null" json:"hospital"`
	Department    *string         `gorm:"size:100" json:"department"`
	Diagnosis     *string         `gorm:"size:500" json:"diagnosis"`
	AdmissionDate datatypes.Date  `gorm:"not null;index" json:"admission_date"`
	DischargeDate *datatypes.Date `json:"discharge_date"`
	Tags          datatypes.JSON  `json:"tags"`
	Notes         *string         `gorm:"size:1000" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// AdmissionFile is an uploaded report attached to a stay. Indicator records
// extracted from a report carry its id in admission_file_id.
type AdmissionFile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AdmissionID uint           `gorm:"not null;index" json:"admission_id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Filename    string         `gorm:"size:255;not null" json:"filename"`
	StorageKey  string         `gorm:"size:255" json:"storage_key"`
	URL         *string        `gorm:"size:500" json:"url"`
	Pages       *int           `json:"pages"`
	Meta        datatypes.JSON `json:"meta"`
	UploadedAt  *time.Time     `gorm:"index" json:"uploaded_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
