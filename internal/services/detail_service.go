package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

type DetailService struct {
	db *gorm.DB
}

func NewDetailService(db *gorm.DB) *DetailService {
	return &DetailService{db: db}
}

func (s *DetailService) Get(userID, indicatorID uint) (*dto.IndicatorDetailResponse, error) {
	var ind models.Indicator
	if err := s.db.
		Where("id = ? AND (is_builtin = ? OR owner_user_id = ?)", indicatorID, true, userID).
		First(&ind).Error; err != nil {
		return nil, ErrIndicatorNotFound
	}

	resp := &dto.IndicatorDetailResponse{IndicatorName: ind.NameCN}

	var detail models.IndicatorDetail
	err := s.db.Where("indicator_id = ?", indicatorID).First(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No detail written yet: fall back to the catalog unit and range.
		resp.Unit = &ind.Unit
		resp.ReferenceRange = rangeString(nil, ind.ReferenceMin, ind.ReferenceMax)
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load detail: %w", err)
	}

	resp.IntroductionText = detail.IntroductionText
	resp.MeasurementMethod = detail.MeasurementMethod
	resp.ClinicalSignificance = detail.ClinicalSignificance
	resp.HighMeaning = detail.HighMeaning
	resp.LowMeaning = detail.LowMeaning
	resp.HighAdvice = detail.HighAdvice
	resp.LowAdvice = detail.LowAdvice
	resp.NormalAdvice = detail.NormalAdvice
	resp.GeneralAdvice = detail.GeneralAdvice
	resp.Unit = detail.Unit
	if resp.Unit == nil {
		resp.Unit = &ind.Unit
	}
	resp.ReferenceRange = detail.ReferenceRange
	if resp.ReferenceRange == nil {
		resp.ReferenceRange = rangeString(nil, ind.ReferenceMin, ind.ReferenceMax)
	}
	return resp, nil
}

// Upsert creates the detail row on first edit and overwrites only the fields
// present in the request afterwards. Callers gate this behind the staff check.
func (s *DetailService) Upsert(userID, indicatorID uint, req *dto.UpdateDetailRequest) (*dto.IndicatorDetailResponse, error) {
	var ind models.Indicator
	if err := s.db.First(&ind, "id = ?", indicatorID).Error; err != nil {
		return nil, ErrIndicatorNotFound
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var detail models.IndicatorDetail
		err := tx.Where("indicator_id = ?", indicatorID).First(&detail).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			detail = models.IndicatorDetail{IndicatorID: indicatorID}
			applyDetail(&detail, req)
			return tx.Create(&detail).Error
		}
		if err != nil {
			return err
		}
		applyDetail(&detail, req)
		return tx.Save(&detail).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert detail: %w", err)
	}

	audit(s.db, userID, "update", "indicator_detail", indicatorID, req)
	return s.Get(userID, indicatorID)
}

func applyDetail(detail *models.IndicatorDetail, req *dto.UpdateDetailRequest) {
	if req.IntroductionText != nil {
		detail.IntroductionText = req.IntroductionText
	}
	if req.MeasurementMethod != nil {
		detail.MeasurementMethod = req.MeasurementMethod
	}
	if req.ClinicalSignificance != nil {
		detail.ClinicalSignificance = req.ClinicalSignificance
	}
	if req.ReferenceRange != nil {
		detail.ReferenceRange = req.ReferenceRange
	}
	if req.Unit != nil {
		detail.Unit = req.Unit
	}
	if req.HighMeaning != nil {
		detail.HighMeaning = req.HighMeaning
	}
	if req.LowMeaning != nil {
		detail.LowMeaning = req.LowMeaning
	}
	if req.HighAdvice != nil {
		detail.HighAdvice = req.HighAdvice
	}
	if req.LowAdvice != nil {
		detail.LowAdvice = req.LowAdvice
	}
	if req.NormalAdvice != nil {
		detail.NormalAdvice = req.NormalAdvice
	}
	if req.GeneralAdvice != nil {
		detail.GeneralAdvice = req.GeneralAdvice
	}
}
