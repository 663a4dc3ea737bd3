package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

var ErrRecordNotFound = errors.New("record not found")

type RecordService struct {
	db *gorm.DB
}

func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{db: db}
}

func (s *RecordService) List(userID, indicatorID uint, startDate, endDate string, admissionFileID *uint, page, size int) (*dto.RecordListResponse, error) {
	ind, err := s.visibleIndicator(userID, indicatorID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}
	if size > 200 {
		size = 200
	}

	query := func() (*gorm.DB, error) {
		tx := s.db.Model(&models.IndicatorRecord{}).
			Where("indicator_id = ? AND user_id = ?", indicatorID, userID)
		if startDate != "" {
			d, err := parseDate(startDate)
			if err != nil {
				return nil, err
			}
			tx = tx.Where("measured_at >= ?", d)
		}
		if endDate != "" {
			d, err := parseDate(endDate)
			if err != nil {
				return nil, err
			}
			tx = tx.Where("measured_at <= ?", d)
		}
		if admissionFileID != nil {
			tx = tx.Where("admission_file_id = ?", *admissionFileID)
		}
		return tx, nil
	}

	tx, err := query()
	if err != nil {
		return nil, err
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	tx, err = query()
	if err != nil {
		return nil, err
	}
	var recs []models.IndicatorRecord
	if err := tx.
		Order("measured_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	items := make([]dto.RecordItem, 0, len(recs))
	for i := range recs {
		items = append(items, toRecordItem(&recs[i], ind))
	}
	return &dto.RecordListResponse{Items: items, Total: total}, nil
}

func (s *RecordService) Create(userID, indicatorID uint, req *dto.CreateRecordRequest) (*dto.RecordItem, error) {
	ind, err := s.visibleIndicator(userID, indicatorID)
	if err != nil {
		return nil, err
	}
	if req.Value == "" {
		return nil, errors.New("value is required")
	}
	measured, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	rec := models.IndicatorRecord{
		IndicatorID:     indicatorID,
		UserID:          userID,
		MeasuredAt:      measured,
		Value:           req.Value,
		Unit:            req.Unit,
		RefLow:          req.ReferenceMin,
		RefHigh:         req.ReferenceMax,
		Source:          "manual",
		Note:            req.Note,
		AdmissionFileID: req.AdmissionFileID,
	}
	if req.Source != nil && *req.Source != "" {
		rec.Source = *req.Source
	}

	if err := s.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	audit(s.db, userID, "create", "indicator_record", rec.ID, req)
	item := toRecordItem(&rec, ind)
	return &item, nil
}

func (s *RecordService) Update(userID, recordID uint, req *dto.UpdateRecordRequest) (*dto.RecordItem, error) {
	var rec models.IndicatorRecord
	if err := s.db.Where("id = ? AND user_id = ?", recordID, userID).First(&rec).Error; err != nil {
		return nil, ErrRecordNotFound
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		updates["measured_at"] = d
	}
	if req.Value != nil && *req.Value != "" {
		updates["value"] = *req.Value
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.ReferenceMin != nil {
		updates["ref_low"] = *req.ReferenceMin
	}
	if req.ReferenceMax != nil {
		updates["ref_high"] = *req.ReferenceMax
	}
	if req.Source != nil && *req.Source != "" {
		updates["source"] = *req.Source
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.AdmissionFileID != nil {
		updates["admission_file_id"] = *req.AdmissionFileID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&rec).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update record: %w", err)
		}
		if err := s.db.First(&rec, "id = ?", recordID).Error; err != nil {
			return nil, err
		}
	}

	ind, err := s.visibleIndicator(userID, rec.IndicatorID)
	if err != nil {
		return nil, err
	}

	audit(s.db, userID, "update", "indicator_record", recordID, req)
	item := toRecordItem(&rec, ind)
	return &item, nil
}

func (s *RecordService) Delete(userID, recordID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", recordID, userID).Delete(&models.IndicatorRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	audit(s.db, userID, "delete", "indicator_record", recordID, nil)
	return nil
}

// visibleIndicator resolves a live indicator the user can read: builtin or
// their own. Records always hang off a visible indicator.
func (s *RecordService) visibleIndicator(userID, indicatorID uint) (*models.Indicator, error) {
	var ind models.Indicator
	if err := s.db.
		Where("id = ? AND (is_builtin = ? OR owner_user_id = ?)", indicatorID, true, userID).
		First(&ind).Error; err != nil {
		return nil, ErrIndicatorNotFound
	}
	return &ind, nil
}

func toRecordItem(rec *models.IndicatorRecord, ind *models.Indicator) dto.RecordItem {
	low, high := EffectiveRange(rec.RefLow, rec.RefHigh, ind.ReferenceMin, ind.ReferenceMax)
	unit := rec.Unit
	if unit == "" {
		unit = ind.Unit
	}
	return dto.RecordItem{
		RecordID:        rec.ID,
		Date:            formatDate(rec.MeasuredAt),
		Value:           rec.Value,
		Unit:            unit,
		Status:          DeriveStatus(rec.Value, low, high),
		Source:          rec.Source,
		Note:            rec.Note,
		AdmissionFileID: rec.AdmissionFileID,
	}
}
