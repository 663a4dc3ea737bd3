package services

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

var ErrMedicationRecordNotFound = errors.New("medication record not found")

type MedicationService struct {
	db *gorm.DB
}

func NewMedicationService(db *gorm.DB) *MedicationService {
	return &MedicationService{db: db}
}

func (s *MedicationService) List(userID uint, currentOnly bool) (*dto.MedicationRecordListResponse, error) {
	tx := s.db.Where("user_id = ?", userID)
	if currentOnly {
		tx = tx.Where("is_current = ?", true)
	}

	var rows []models.MedicationRecord
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list medication records: %w", err)
	}

	items := make([]dto.MedicationRecordItem, 0, len(rows))
	for i := range rows {
		item, err := s.toItem(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &dto.MedicationRecordListResponse{Items: items, Total: int64(len(items))}, nil
}

// Create get-or-creates the drug catalog entry by name and opens a course of
// it for the user.
func (s *MedicationService) Create(userID uint, req *dto.CreateMedicationRecordRequest) (*dto.MedicationRecordItem, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	var start *datatypes.Date
	if req.StartDate != nil && *req.StartDate != "" {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		start = &d
	}

	var rec models.MedicationRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var med models.Medication
		err := tx.Where("name = ?", req.Name).First(&med).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			med = models.Medication{
				Name:        req.Name,
				GenericName: req.GenericName,
				Spec:        req.Spec,
				Unit:        req.Unit,
			}
			if err := tx.Create(&med).Error; err != nil {
				return fmt.Errorf("failed to create medication: %w", err)
			}
		} else if err != nil {
			return err
		}

		rec = models.MedicationRecord{
			MedicationID: med.ID,
			UserID:       userID,
			StartDate:    start,
			Dose:         req.Dose,
			Frequency:    req.Frequency,
			Route:        req.Route,
			Purpose:      req.Purpose,
			Notes:        req.Notes,
			IsCurrent:    true,
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}

	audit(s.db, userID, "create", "medication_record", rec.ID, req)
	item, err := s.toItem(&rec)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MedicationService) Update(userID, recordID uint, req *dto.UpdateMedicationRecordRequest) (*dto.MedicationRecordItem, error) {
	var rec models.MedicationRecord
	if err := s.db.Where("id = ? AND user_id = ?", recordID, userID).First(&rec).Error; err != nil {
		return nil, ErrMedicationRecordNotFound
	}

	updates := map[string]interface{}{}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		updates["end_date"] = d
	}
	if req.Dose != nil {
		updates["dose"] = *req.Dose
	}
	if req.Frequency != nil {
		updates["frequency"] = *req.Frequency
	}
	if req.Route != nil {
		updates["route"] = *req.Route
	}
	if req.Purpose != nil {
		updates["purpose"] = *req.Purpose
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.IsCurrent != nil {
		updates["is_current"] = *req.IsCurrent
	}

	if len(updates) > 0 {
		if err := s.db.Model(&rec).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update medication record: %w", err)
		}
		if err := s.db.First(&rec, "id = ?", recordID).Error; err != nil {
			return nil, err
		}
	}

	audit(s.db, userID, "update", "medication_record", recordID, req)
	item, err := s.toItem(&rec)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MedicationService) Delete(userID, recordID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", recordID, userID).Delete(&models.MedicationRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete medication record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMedicationRecordNotFound
	}
	audit(s.db, userID, "delete", "medication_record", recordID, nil)
	return nil
}

func (s *MedicationService) toItem(rec *models.MedicationRecord) (dto.MedicationRecordItem, error) {
	var med models.Medication
	if err := s.db.First(&med, "id = ?", rec.MedicationID).Error; err != nil {
		return dto.MedicationRecordItem{}, fmt.Errorf("medication %d missing: %w", rec.MedicationID, err)
	}
	return dto.MedicationRecordItem{
		ID:           rec.ID,
		MedicationID: med.ID,
		Name:         med.Name,
		GenericName:  med.GenericName,
		Spec:         med.Spec,
		Unit:         med.Unit,
		StartDate:    formatDatePtr(rec.StartDate),
		EndDate:      formatDatePtr(rec.EndDate),
		Dose:         rec.Dose,
		Frequency:    rec.Frequency,
		Route:        rec.Route,
		Purpose:      rec.Purpose,
		Notes:        rec.Notes,
		IsCurrent:    rec.IsCurrent,
	}, nil
}
