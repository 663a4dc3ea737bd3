package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

var (
	ErrIndicatorNotFound  = errors.New("indicator not found")
	ErrDuplicateIndicator = errors.New("indicator with this name already exists")
	ErrLoincTaken         = errors.New("loinc code already in use")
	ErrForbidden          = errors.New("not allowed to modify this indicator")
)

type IndicatorService struct {
	db *gorm.DB
}

func NewIndicatorService(db *gorm.DB) *IndicatorService {
	return &IndicatorService{db: db}
}

func (s *IndicatorService) Create(userID uint, req *dto.CreateIndicatorRequest) (*dto.IndicatorResponse, error) {
	if strings.TrimSpace(req.NameCN) == "" || strings.TrimSpace(req.Unit) == "" {
		return nil, errors.New("nameCn and unit are required")
	}

	indType := models.IndicatorTypeNumeric
	if req.Type != nil && *req.Type == models.IndicatorTypeText {
		indType = models.IndicatorTypeText
	}

	var existing models.Indicator
	if err := s.db.Where("owner_user_id = ? AND name_cn = ?", userID, req.NameCN).First(&existing).Error; err == nil {
		return nil, ErrDuplicateIndicator
	}
	if req.Loinc != nil && *req.Loinc != "" {
		if err := s.db.Where("loinc = ?", *req.Loinc).First(&existing).Error; err == nil {
			return nil, ErrLoincTaken
		}
	}

	ind := models.Indicator{
		OwnerUserID:  &userID,
		NameCN:       req.NameCN,
		NameEN:       req.NameEN,
		Unit:         req.Unit,
		Type:         indType,
		ReferenceMin: req.ReferenceMin,
		ReferenceMax: req.ReferenceMax,
		IsBuiltin:    false,
		Loinc:        normalizeOptional(req.Loinc),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ind).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateIndicator
			}
			return fmt.Errorf("failed to create indicator: %w", err)
		}
		return s.replaceLinks(tx, ind.ID, req.Categories)
	})
	if err != nil {
		return nil, err
	}

	audit(s.db, userID, "create", "indicator", ind.ID, req)
	return s.Get(userID, ind.ID)
}

func (s *IndicatorService) Get(userID uint, id uint) (*dto.IndicatorResponse, error) {
	var ind models.Indicator
	if err := s.db.
		Where("id = ? AND (is_builtin = ? OR owner_user_id = ?)", id, true, userID).
		First(&ind).Error; err != nil {
		return nil, ErrIndicatorNotFound
	}

	names, err := s.categoryNames(ind.ID)
	if err != nil {
		return nil, err
	}

	return &dto.IndicatorResponse{
		ID:           ind.ID,
		NameCN:       ind.NameCN,
		NameEN:       ind.NameEN,
		Type:         ind.Type,
		Unit:         ind.Unit,
		ReferenceMin: ind.ReferenceMin,
		ReferenceMax: ind.ReferenceMax,
		IsBuiltin:    ind.IsBuiltin,
		Loinc:        ind.Loinc,
		Categories:   names,
	}, nil
}

func (s *IndicatorService) Update(userID uint, staff bool, id uint, req *dto.UpdateIndicatorRequest) (*dto.IndicatorResponse, error) {
	ind, err := s.editable(userID, staff, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.NameCN != nil && *req.NameCN != "" && *req.NameCN != ind.NameCN {
		var other models.Indicator
		ownerCond := s.db.Where("owner_user_id = ?", userID)
		if ind.IsBuiltin {
			ownerCond = s.db.Where("owner_user_id IS NULL")
		}
		if err := s.db.Where("name_cn = ? AND id <> ?", *req.NameCN, id).Where(ownerCond).First(&other).Error; err == nil {
			return nil, ErrDuplicateIndicator
		}
		updates["name_cn"] = *req.NameCN
	}
	if req.NameEN != nil {
		updates["name_en"] = *req.NameEN
	}
	if req.Type != nil && (*req.Type == models.IndicatorTypeNumeric || *req.Type == models.IndicatorTypeText) {
		updates["type"] = *req.Type
	}
	if req.Unit != nil && *req.Unit != "" {
		updates["unit"] = *req.Unit
	}
	if req.ReferenceMin != nil {
		updates["reference_min"] = *req.ReferenceMin
	}
	if req.ReferenceMax != nil {
		updates["reference_max"] = *req.ReferenceMax
	}
	if req.Loinc != nil && *req.Loinc != "" && (ind.Loinc == nil || *ind.Loinc != *req.Loinc) {
		var other models.Indicator
		if err := s.db.Where("loinc = ? AND id <> ?", *req.Loinc, id).First(&other).Error; err == nil {
			return nil, ErrLoincTaken
		}
		updates["loinc"] = *req.Loinc
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(ind).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update indicator: %w", err)
			}
		}
		if req.Categories != nil {
			if err := tx.Where("indicator_id = ?", id).Delete(&models.IndicatorCategoryLink{}).Error; err != nil {
				return err
			}
			return s.replaceLinks(tx, id, *req.Categories)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit(s.db, userID, "update", "indicator", id, req)
	return s.Get(userID, id)
}

func (s *IndicatorService) Delete(userID uint, staff bool, id uint) error {
	ind, err := s.editable(userID, staff, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("indicator_id = ?", id).Delete(&models.IndicatorRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("indicator_id = ?", id).Delete(&models.UserIndicator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("indicator_id = ?", id).Delete(&models.IndicatorCategoryLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(ind).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete indicator: %w", err)
	}

	audit(s.db, userID, "delete", "indicator", id, nil)
	return nil
}

// List composes the indicator page: catalog rows matching the filters, each
// joined with its latest qualifying record, derived status, favorite flag and
// category names. Total is counted over the same predicate before paging.
func (s *IndicatorService) List(userID uint, q *dto.ListIndicatorsQuery) (*dto.IndicatorListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	var total int64
	if err := s.listQuery(userID, q).Distinct("indicators.id").Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count indicators: %w", err)
	}

	var ids []uint
	if err := s.listQuery(userID, q).
		Distinct().
		Order("indicators.id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Pluck("indicators.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to page indicators: %w", err)
	}

	items := make([]dto.IndicatorListItem, 0, len(ids))
	if len(ids) == 0 {
		return &dto.IndicatorListResponse{Items: items, Total: total}, nil
	}

	var inds []models.Indicator
	if err := s.db.Where("id IN ?", ids).Order("id ASC").Find(&inds).Error; err != nil {
		return nil, err
	}

	favorites, err := s.favoriteMap(userID, ids)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryNameMap(ids)
	if err != nil {
		return nil, err
	}

	for i := range inds {
		ind := &inds[i]
		item := dto.IndicatorListItem{
			ID:         ind.ID,
			NameCN:     ind.NameCN,
			NameEN:     ind.NameEN,
			Type:       ind.Type,
			Unit:       ind.Unit,
			Categories: categories[ind.ID],
			IsBuiltin:  ind.IsBuiltin,
			Loinc:      ind.Loinc,
			Favorite:   favorites[ind.ID],
		}
		if item.Categories == nil {
			item.Categories = []string{}
		}

		rec, err := s.latestRecord(userID, ind.ID, q.StartDate, q.EndDate, q.Order)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			low, high := EffectiveRange(rec.RefLow, rec.RefHigh, ind.ReferenceMin, ind.ReferenceMax)
			item.Value = &rec.Value
			if rec.Unit != "" {
				item.Unit = rec.Unit
			}
			item.ReferenceRange = rangeString(rec.RefText, low, high)
			item.Status = DeriveStatus(rec.Value, low, high)
			d := formatDate(rec.MeasuredAt)
			item.MeasureDate = &d
			item.Source = &rec.Source
			item.Note = rec.Note
		} else {
			item.ReferenceRange = rangeString(nil, ind.ReferenceMin, ind.ReferenceMax)
		}

		items = append(items, item)
	}

	return &dto.IndicatorListResponse{Items: items, Total: total}, nil
}

// listQuery builds a fresh filtered query; List calls it once for the count
// and once for the page so pagination never skews the total.
func (s *IndicatorService) listQuery(userID uint, q *dto.ListIndicatorsQuery) *gorm.DB {
	tx := s.db.Model(&models.Indicator{}).
		Where("indicators.is_builtin = ? OR indicators.owner_user_id = ?", true, userID)

	// owner == "me" keeps builtin rows in scope, which the base predicate
	// already guarantees.

	if q.Keyword != "" {
		kw := "%" + strings.ToLower(q.Keyword) + "%"
		tx = tx.Where("LOWER(indicators.name_cn) LIKE ? OR LOWER(indicators.name_en) LIKE ?", kw, kw)
	}
	if q.Builtin != nil {
		if *q.Builtin {
			tx = tx.Where("indicators.is_builtin = ?", true)
		} else {
			tx = tx.Where("indicators.is_builtin = ? AND indicators.owner_user_id = ?", false, userID)
		}
	}
	if q.Category != "" {
		tx = tx.
			Joins("JOIN indicator_category_links ON indicator_category_links.indicator_id = indicators.id").
			Joins("JOIN categories ON categories.id = indicator_category_links.category_id AND categories.deleted_at IS NULL").
			Where("categories.name = ?", q.Category)
	}
	if q.Favorites != nil && *q.Favorites {
		tx = tx.
			Joins("JOIN user_indicators ON user_indicators.indicator_id = indicators.id AND user_indicators.user_id = ?", userID).
			Where("user_indicators.favorite = ?", true)
	}
	return tx
}

// latestRecord picks the record shown for an indicator. Order asc flips the
// pick to the earliest record in the window. Ties on the same date resolve to
// the higher record id; which source wins within one day is not specified.
func (s *IndicatorService) latestRecord(userID, indicatorID uint, startDate, endDate, order string) (*models.IndicatorRecord, error) {
	tx := s.db.Where("indicator_id = ? AND user_id = ?", indicatorID, userID)

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

	sort := "measured_at DESC, id DESC"
	if order == "asc" {
		sort = "measured_at ASC, id ASC"
	}

	var rec models.IndicatorRecord
	if err := tx.Order(sort).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// editable loads an indicator the caller may mutate: owners edit their own
// rows, staff additionally edit builtin rows.
func (s *IndicatorService) editable(userID uint, staff bool, id uint) (*models.Indicator, error) {
	var ind models.Indicator
	if err := s.db.First(&ind, "id = ?", id).Error; err != nil {
		return nil, ErrIndicatorNotFound
	}
	if ind.OwnerUserID != nil && *ind.OwnerUserID == userID {
		return &ind, nil
	}
	if ind.IsBuiltin && staff {
		return &ind, nil
	}
	if !ind.IsBuiltin && ind.OwnerUserID != nil {
		// Someone else's custom indicator is invisible, not merely locked.
		return nil, ErrIndicatorNotFound
	}
	return nil, ErrForbidden
}

// replaceLinks get-or-creates the named categories and links them to the
// indicator.
func (s *IndicatorService) replaceLinks(tx *gorm.DB, indicatorID uint, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var cat models.Category
		if err := tx.Where("name = ?", name).First(&cat).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cat = models.Category{Name: name}
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("failed to create category %q: %w", name, err)
			}
		}
		var link models.IndicatorCategoryLink
		err := tx.Where("indicator_id = ? AND category_id = ?", indicatorID, cat.ID).First(&link).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			link = models.IndicatorCategoryLink{IndicatorID: indicatorID, CategoryID: cat.ID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to link category %q: %w", name, err)
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (s *IndicatorService) categoryNames(indicatorID uint) ([]string, error) {
	m, err := s.categoryNameMap([]uint{indicatorID})
	if err != nil {
		return nil, err
	}
	names := m[indicatorID]
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *IndicatorService) categoryNameMap(indicatorIDs []uint) (map[uint][]string, error) {
	type row struct {
		IndicatorID uint
		Name        string
	}
	var rows []row
	err := s.db.Model(&models.IndicatorCategoryLink{}).
		Select("indicator_category_links.indicator_id, categories.name").
		Joins("JOIN categories ON categories.id = indicator_category_links.category_id AND categories.deleted_at IS NULL").
		Where("indicator_category_links.indicator_id IN ?", indicatorIDs).
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load category names: %w", err)
	}

	out := make(map[uint][]string, len(indicatorIDs))
	for _, r := range rows {
		out[r.IndicatorID] = append(out[r.IndicatorID], r.Name)
	}
	return out, nil
}

func (s *IndicatorService) favoriteMap(userID uint, indicatorIDs []uint) (map[uint]bool, error) {
	var rows []models.UserIndicator
	err := s.db.
		Where("user_id = ? AND indicator_id IN ?", userID, indicatorIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	out := make(map[uint]bool, len(rows))
	for _, r := range rows {
		out[r.IndicatorID] = r.Favorite
	}
	return out, nil
}

func rangeString(refText *string, low, high *float64) *string {
	if refText != nil && *refText != "" {
		return refText
	}
	if low == nil || high == nil {
		return nil
	}
	s := fmt.Sprintf("%g-%g", *low, *high)
	return &s
}

func normalizeOptional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
