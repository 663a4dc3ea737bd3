package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medtrackhq/medtrack-backend/internal/config"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

// Importer upserts the builtin indicator and category datasets at startup.
// Running it twice against the same datasets changes nothing.
type Importer struct {
	db             *gorm.DB
	indicatorsPath string
	categoriesPath string
}

type counters struct {
	IndicatorsCreated int `json:"indicators_created"`
	IndicatorsUpdated int `json:"indicators_updated"`
	IndicatorsSkipped int `json:"indicators_skipped"`
	CategoriesCreated int `json:"categories_created"`
	CategoriesUpdated int `json:"categories_updated"`
	LinksCreated      int `json:"links_created"`
	MembersUnresolved int `json:"members_unresolved"`
}

func NewImporter(db *gorm.DB, cfg *config.Config) *Importer {
	return &Importer{
		db:             db,
		indicatorsPath: cfg.SeedIndicatorsPath,
		categoriesPath: cfg.SeedCategoriesPath,
	}
}

// Run imports both datasets inside one transaction. A missing indicators file
// means the deployment ships no builtin catalog; that is not an error.
func (i *Importer) Run() error {
	if _, err := os.Stat(i.indicatorsPath); errors.Is(err, fs.ErrNotExist) {
		slog.Info("no indicator dataset, skipping seed", "path", i.indicatorsPath)
		return nil
	}

	indDoc, err := readIndicators(i.indicatorsPath)
	if err != nil {
		return err
	}

	catDoc := &CategoriesDocument{}
	if _, err := os.Stat(i.categoriesPath); err == nil {
		catDoc, err = readCategories(i.categoriesPath)
		if err != nil {
			return err
		}
	}

	runID := uuid.New().String()
	var c counters

	err = i.db.Transaction(func(tx *gorm.DB) error {
		catIDs, err := upsertCategories(tx, catDoc, &c)
		if err != nil {
			return err
		}

		byLoinc := map[string]uint{}
		byName := map[string]uint{}
		for idx := range indDoc.Indicators {
			entry := &indDoc.Indicators[idx]
			if strings.TrimSpace(entry.NameCN) == "" || strings.TrimSpace(entry.Unit) == "" {
				c.IndicatorsSkipped++
				continue
			}

			id, err := upsertIndicator(tx, entry, &c)
			if err != nil {
				return err
			}
			if entry.Loinc != nil && *entry.Loinc != "" {
				byLoinc[*entry.Loinc] = id
			}
			byName[entry.NameCN] = id

			if entry.Detail != nil {
				if err := upsertDetail(tx, id, entry.Unit, entry.Detail); err != nil {
					return err
				}
			}
			for _, name := range entry.Categories {
				catID, ok := catIDs[name]
				if !ok {
					var cat models.Category
					err := tx.Where("name = ?", name).First(&cat).Error
					if errors.Is(err, gorm.ErrRecordNotFound) {
						cat = models.Category{Name: name}
						if err := tx.Create(&cat).Error; err != nil {
							return err
						}
						c.CategoriesCreated++
					} else if err != nil {
						return err
					}
					catID = cat.ID
					catIDs[name] = catID
				}
				if err := ensureLink(tx, id, catID, &c); err != nil {
					return err
				}
			}
		}

		for idx := range catDoc.Categories {
			entry := &catDoc.Categories[idx]
			catID, ok := catIDs[entry.Name]
			if !ok {
				continue
			}
			for _, m := range entry.MemberList() {
				indID, ok := resolveMember(tx, m, byLoinc, byName)
				if !ok {
					c.MembersUnresolved++
					continue
				}
				if err := ensureLink(tx, indID, catID, &c); err != nil {
					return err
				}
			}
		}
		// The run summary commits together with the rows it describes.
		return writeSummary(tx, runID, indDoc.DatasetVersion, catDoc.DatasetVersion, &c)
	})
	if err != nil {
		return fmt.Errorf("seed import failed: %w", err)
	}

	slog.Info("seed import completed",
		"run_id", runID,
		"indicators_version", indDoc.DatasetVersion,
		"categories_version", catDoc.DatasetVersion,
		"created", c.IndicatorsCreated,
		"updated", c.IndicatorsUpdated,
		"skipped", c.IndicatorsSkipped,
		"links_created", c.LinksCreated,
	)
	return nil
}

func readIndicators(path string) (*IndicatorsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc IndicatorsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &doc, nil
}

func readCategories(path string) (*CategoriesDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc CategoriesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &doc, nil
}

func upsertCategories(tx *gorm.DB, doc *CategoriesDocument, c *counters) (map[string]uint, error) {
	ids := make(map[string]uint, len(doc.Categories))
	for idx := range doc.Categories {
		entry := &doc.Categories[idx]
		if strings.TrimSpace(entry.Name) == "" {
			continue
		}

		var cat models.Category
		err := tx.Where("name = ?", entry.Name).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cat = models.Category{Name: entry.Name, Description: entry.Description}
			if err := tx.Create(&cat).Error; err != nil {
				return nil, fmt.Errorf("failed to create category %q: %w", entry.Name, err)
			}
			c.CategoriesCreated++
		} else if err != nil {
			return nil, err
		} else if entry.Description != nil && (cat.Description == nil || *cat.Description != *entry.Description) {
			if err := tx.Model(&cat).Update("description", *entry.Description).Error; err != nil {
				return nil, err
			}
			c.CategoriesUpdated++
		}
		ids[entry.Name] = cat.ID
	}
	return ids, nil
}

// upsertIndicator resolves the existing row by loinc first, then by Chinese
// name among builtin rows only, so a user's custom indicator of the same name
// is never touched. Loinc is backfilled once and never overwritten.
func upsertIndicator(tx *gorm.DB, entry *IndicatorEntry, c *counters) (uint, error) {
	var ind models.Indicator
	found := false

	if entry.Loinc != nil && *entry.Loinc != "" {
		if err := tx.Where("loinc = ?", *entry.Loinc).First(&ind).Error; err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
	}
	if !found {
		if err := tx.Where("name_cn = ? AND owner_user_id IS NULL", entry.NameCN).First(&ind).Error; err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
	}

	indType := InferType(entry.Unit, entry.Type)

	if !found {
		ind = models.Indicator{
			NameCN:       entry.NameCN,
			NameEN:       entry.NameEN,
			Unit:         entry.Unit,
			Type:         indType,
			ReferenceMin: entry.ReferenceMin,
			ReferenceMax: entry.ReferenceMax,
			IsBuiltin:    true,
			Loinc:        entry.Loinc,
		}
		if err := tx.Create(&ind).Error; err != nil {
			return 0, fmt.Errorf("failed to create indicator %q: %w", entry.NameCN, err)
		}
		c.IndicatorsCreated++
		return ind.ID, nil
	}

	updates := map[string]interface{}{
		"name_en":       entry.NameEN,
		"unit":          entry.Unit,
		"type":          indType,
		"reference_min": entry.ReferenceMin,
		"reference_max": entry.ReferenceMax,
		"is_builtin":    true,
	}
	if ind.Loinc == nil && entry.Loinc != nil && *entry.Loinc != "" {
		updates["loinc"] = *entry.Loinc
	}
	if err := tx.Model(&ind).Updates(updates).Error; err != nil {
		return 0, fmt.Errorf("failed to update indicator %q: %w", entry.NameCN, err)
	}
	c.IndicatorsUpdated++
	return ind.ID, nil
}

// upsertDetail merges only the fields the dataset actually carries, so a
// re-run with a sparser payload never nulls out text written between runs.
// A detail without its own unit inherits the indicator's.
func upsertDetail(tx *gorm.DB, indicatorID uint, indicatorUnit string, entry *DetailEntry) error {
	var detail models.IndicatorDetail
	err := tx.Where("indicator_id = ?", indicatorID).First(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		detail = models.IndicatorDetail{IndicatorID: indicatorID}
	} else if err != nil {
		return err
	}

	mergeDetail(&detail, entry)
	if detail.Unit == nil {
		u := indicatorUnit
		detail.Unit = &u
	}

	if err := tx.Save(&detail).Error; err != nil {
		return fmt.Errorf("failed to upsert detail for indicator %d: %w", indicatorID, err)
	}
	return nil
}

func mergeDetail(detail *models.IndicatorDetail, entry *DetailEntry) {
	if entry.IntroductionText != nil {
		detail.IntroductionText = entry.IntroductionText
	}
	if entry.MeasurementMethod != nil {
		detail.MeasurementMethod = entry.MeasurementMethod
	}
	if entry.ClinicalSignificance != nil {
		detail.ClinicalSignificance = entry.ClinicalSignificance
	}
	if entry.HighMeaning != nil {
		detail.HighMeaning = entry.HighMeaning
	}
	if entry.LowMeaning != nil {
		detail.LowMeaning = entry.LowMeaning
	}
	if entry.HighAdvice != nil {
		detail.HighAdvice = entry.HighAdvice
	}
	if entry.LowAdvice != nil {
		detail.LowAdvice = entry.LowAdvice
	}
	if entry.NormalAdvice != nil {
		detail.NormalAdvice = entry.NormalAdvice
	}
	if entry.GeneralAdvice != nil {
		detail.GeneralAdvice = entry.GeneralAdvice
	}
	if entry.Unit != nil {
		detail.Unit = entry.Unit
	}
	if entry.ReferenceRange != nil {
		detail.ReferenceRange = entry.ReferenceRange
	}
}

// resolveMember maps a category member reference to an indicator id: the
// loinc map, then the name map, then a direct lookup among builtin rows.
func resolveMember(tx *gorm.DB, m CategoryMember, byLoinc, byName map[string]uint) (uint, bool) {
	if m.Loinc != nil {
		if id, ok := byLoinc[*m.Loinc]; ok {
			return id, true
		}
	}
	if m.NameCN != nil {
		if id, ok := byName[*m.NameCN]; ok {
			return id, true
		}
	}
	if m.Raw != "" {
		if id, ok := byLoinc[m.Raw]; ok {
			return id, true
		}
		if id, ok := byName[m.Raw]; ok {
			return id, true
		}
	}

	key := m.Raw
	if m.Loinc != nil {
		key = *m.Loinc
	} else if m.NameCN != nil {
		key = *m.NameCN
	}
	if key == "" {
		return 0, false
	}
	var ind models.Indicator
	err := tx.Where("(loinc = ? OR name_cn = ?) AND owner_user_id IS NULL", key, key).First(&ind).Error
	if err != nil {
		return 0, false
	}
	return ind.ID, true
}

func ensureLink(tx *gorm.DB, indicatorID, categoryID uint, c *counters) error {
	var link models.IndicatorCategoryLink
	err := tx.Where("indicator_id = ? AND category_id = ?", indicatorID, categoryID).First(&link).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	link = models.IndicatorCategoryLink{IndicatorID: indicatorID, CategoryID: categoryID}
	if err := tx.Create(&link).Error; err != nil {
		return fmt.Errorf("failed to link indicator %d to category %d: %w", indicatorID, categoryID, err)
	}
	c.LinksCreated++
	return nil
}

func writeSummary(tx *gorm.DB, runID, indicatorsVersion, categoriesVersion string, c *counters) error {
	ctx, _ := json.Marshal(map[string]interface{}{
		"indicators_version": indicatorsVersion,
		"categories_version": categoriesVersion,
		"counts":             c,
	})
	entry := models.SystemLog{
		Level:   "INFO",
		Message: "seed import completed",
		TraceID: runID,
		Context: datatypes.JSON(ctx),
	}
	return tx.Create(&entry).Error
}
