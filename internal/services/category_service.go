package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List() (*dto.CategoryListResponse, error) {
	var cats []models.Category
	if err := s.db.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	items := make([]dto.CategoryItem, 0, len(cats))
	for _, c := range cats {
		items = append(items, dto.CategoryItem{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return &dto.CategoryListResponse{Items: items, Total: int64(len(items))}, nil
}

func (s *CategoryService) Get(id uint) (*dto.CategoryResponse, error) {
	var cat models.Category
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		return nil, ErrCategoryNotFound
	}

	var count int64
	err := s.db.Model(&models.IndicatorCategoryLink{}).
		Joins("JOIN indicators ON indicators.id = indicator_category_links.indicator_id AND indicators.deleted_at IS NULL").
		Where("indicator_category_links.category_id = ?", id).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	return &dto.CategoryResponse{
		ID:             cat.ID,
		Name:           cat.Name,
		Description:    cat.Description,
		IndicatorCount: count,
	}, nil
}

// Indicators lists a category's member indicators visible to the user.
func (s *CategoryService) Indicators(userID, categoryID uint) (*dto.IndicatorListResponse, error) {
	var cat models.Category
	if err := s.db.First(&cat, "id = ?", categoryID).Error; err != nil {
		return nil, ErrCategoryNotFound
	}

	var inds []models.Indicator
	err := s.db.
		Joins("JOIN indicator_category_links ON indicator_category_links.indicator_id = indicators.id").
		Where("indicator_category_links.category_id = ?", categoryID).
		Where("indicators.is_builtin = ? OR indicators.owner_user_id = ?", true, userID).
		Order("indicators.id ASC").
		Find(&inds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list category members: %w", err)
	}

	items := make([]dto.IndicatorListItem, 0, len(inds))
	for _, ind := range inds {
		items = append(items, dto.IndicatorListItem{
			ID:             ind.ID,
			NameCN:         ind.NameCN,
			NameEN:         ind.NameEN,
			Type:           ind.Type,
			Unit:           ind.Unit,
			ReferenceRange: rangeString(nil, ind.ReferenceMin, ind.ReferenceMax),
			Categories:     []string{cat.Name},
			IsBuiltin:      ind.IsBuiltin,
			Loinc:          ind.Loinc,
		})
	}
	return &dto.IndicatorListResponse{Items: items, Total: int64(len(items))}, nil
}
