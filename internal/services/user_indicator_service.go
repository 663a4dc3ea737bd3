package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

var ErrUserIndicatorNotFound = errors.New("indicator is not followed")

type UserIndicatorService struct {
	db *gorm.DB
}

func NewUserIndicatorService(db *gorm.DB) *UserIndicatorService {
	return &UserIndicatorService{db: db}
}

func (s *UserIndicatorService) List(userID uint) (*dto.UserIndicatorListResponse, error) {
	var rows []models.UserIndicator
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user indicators: %w", err)
	}

	items := make([]dto.UserIndicatorItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toUserIndicatorItem(&r))
	}
	return &dto.UserIndicatorListResponse{Items: items, Total: int64(len(items))}, nil
}

// Upsert creates the per-(user, indicator) row on the first favorite, alias
// or threshold action and patches it afterwards.
func (s *UserIndicatorService) Upsert(userID uint, req *dto.UpsertUserIndicatorRequest) (*dto.UserIndicatorItem, error) {
	var ind models.Indicator
	if err := s.db.
		Where("id = ? AND (is_builtin = ? OR owner_user_id = ?)", req.IndicatorID, true, userID).
		First(&ind).Error; err != nil {
		return nil, ErrIndicatorNotFound
	}

	var row models.UserIndicator
	err := s.db.Where("user_id = ? AND indicator_id = ?", userID, req.IndicatorID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.UserIndicator{UserID: userID, IndicatorID: req.IndicatorID}
		applyUserIndicator(&row, req)
		if err := s.db.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to create user indicator: %w", err)
		}
	} else if err != nil {
		return nil, err
	} else {
		applyUserIndicator(&row, req)
		if err := s.db.Save(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to update user indicator: %w", err)
		}
	}

	audit(s.db, userID, "upsert", "user_indicator", row.ID, req)
	item := toUserIndicatorItem(&row)
	return &item, nil
}

// Delete unfollows: the row is removed outright, aliases and thresholds with
// it.
func (s *UserIndicatorService) Delete(userID, indicatorID uint) error {
	res := s.db.Where("user_id = ? AND indicator_id = ?", userID, indicatorID).Delete(&models.UserIndicator{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete user indicator: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserIndicatorNotFound
	}
	audit(s.db, userID, "delete", "user_indicator", indicatorID, nil)
	return nil
}

func applyUserIndicator(row *models.UserIndicator, req *dto.UpsertUserIndicatorRequest) {
	if req.Alias != nil {
		row.Alias = normalizeOptional(req.Alias)
	}
	if req.ThresholdMin != nil {
		row.ThresholdMin = req.ThresholdMin
	}
	if req.ThresholdMax != nil {
		row.ThresholdMax = req.ThresholdMax
	}
	if req.Favorite != nil {
		row.Favorite = *req.Favorite
	}
}

func toUserIndicatorItem(row *models.UserIndicator) dto.UserIndicatorItem {
	return dto.UserIndicatorItem{
		ID:           row.ID,
		IndicatorID:  row.IndicatorID,
		Alias:        row.Alias,
		ThresholdMin: row.ThresholdMin,
		ThresholdMax: row.ThresholdMax,
		Favorite:     row.Favorite,
		CreatedAt:    row.CreatedAt.Format(time.RFC3339),
	}
}
