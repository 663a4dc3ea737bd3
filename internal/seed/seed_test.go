package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/medtrackhq/medtrack-backend/internal/config"
	"github.com/medtrackhq/medtrack-backend/internal/database"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func writeDataset(t *testing.T, indicators, categories string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SeedIndicatorsPath: filepath.Join(dir, "indicators.json"),
		SeedCategoriesPath: filepath.Join(dir, "category.json"),
	}
	require.NoError(t, os.WriteFile(cfg.SeedIndicatorsPath, []byte(indicators), 0o644))
	if categories != "" {
		require.NoError(t, os.WriteFile(cfg.SeedCategoriesPath, []byte(categories), 0o644))
	}
	return cfg
}

const baseIndicators = `{
  "dataset_version": "t1",
  "indicators": [
    {"name_cn": "葡萄糖", "name_en": "Glucose", "unit": "mmol/L", "reference_min": 3.9, "reference_max": 6.1, "loinc": "2345-7"},
    {"name_cn": "尿蛋白", "unit": "qualitative", "loinc": "2888-6"},
    {"name_cn": "无单位指标", "unit": ""}
  ]
}`

const baseCategories = `{
  "dataset_version": "t1",
  "categories": [
    {"name": "血糖", "description": "糖代谢", "members": ["2345-7"]},
    {"name": "肾功能", "members": [{"name_cn": "尿蛋白"}]}
  ]
}`

func TestSeedImportsDatasets(t *testing.T) {
	db := newTestDB(t)
	cfg := writeDataset(t, baseIndicators, baseCategories)

	require.NoError(t, NewImporter(db, cfg).Run())

	var inds []models.Indicator
	require.NoError(t, db.Order("id").Find(&inds).Error)
	require.Len(t, inds, 2) // the entry without a unit is skipped

	glucose := inds[0]
	assert.Equal(t, "葡萄糖", glucose.NameCN)
	assert.True(t, glucose.IsBuiltin)
	assert.Nil(t, glucose.OwnerUserID)
	assert.Equal(t, models.IndicatorTypeNumeric, glucose.Type)

	urine := inds[1]
	assert.Equal(t, models.IndicatorTypeText, urine.Type)

	var links int64
	require.NoError(t, db.Model(&models.IndicatorCategoryLink{}).Count(&links).Error)
	assert.Equal(t, int64(2), links)

	var cats int64
	require.NoError(t, db.Model(&models.Category{}).Count(&cats).Error)
	assert.Equal(t, int64(2), cats)

	var summary models.SystemLog
	require.NoError(t, db.Where("message = ?", "seed import completed").First(&summary).Error)
	assert.NotEmpty(t, summary.TraceID)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	cfg := writeDataset(t, baseIndicators, baseCategories)

	require.NoError(t, NewImporter(db, cfg).Run())

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	indsBefore := count(&models.Indicator{})
	linksBefore := count(&models.IndicatorCategoryLink{})
	catsBefore := count(&models.Category{})

	require.NoError(t, NewImporter(db, cfg).Run())

	assert.Equal(t, indsBefore, count(&models.Indicator{}))
	assert.Equal(t, linksBefore, count(&models.IndicatorCategoryLink{}))
	assert.Equal(t, catsBefore, count(&models.Category{}))

	var glucose models.Indicator
	require.NoError(t, db.Where("loinc = ?", "2345-7").First(&glucose).Error)
	assert.Equal(t, 3.9, *glucose.ReferenceMin)
	assert.Equal(t, 6.1, *glucose.ReferenceMax)
}

func TestSeedNeverTouchesCustomIndicators(t *testing.T) {
	db := newTestDB(t)
	cfg := writeDataset(t, baseIndicators, "")

	user := models.User{Username: "alice", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	custom := models.Indicator{
		OwnerUserID: &user.ID,
		NameCN:      "葡萄糖",
		Unit:        "mg/dL",
		Type:        models.IndicatorTypeNumeric,
	}
	require.NoError(t, db.Create(&custom).Error)

	require.NoError(t, NewImporter(db, cfg).Run())

	var reloaded models.Indicator
	require.NoError(t, db.First(&reloaded, "id = ?", custom.ID).Error)
	assert.Equal(t, "mg/dL", reloaded.Unit)
	assert.False(t, reloaded.IsBuiltin)

	// The seed created a separate builtin row with the same Chinese name.
	var builtin models.Indicator
	require.NoError(t, db.Where("name_cn = ? AND owner_user_id IS NULL", "葡萄糖").First(&builtin).Error)
	assert.NotEqual(t, custom.ID, builtin.ID)
	assert.True(t, builtin.IsBuiltin)
}

func TestSeedLoincIsStable(t *testing.T) {
	db := newTestDB(t)

	first := `{"dataset_version": "t1", "indicators": [
	  {"name_cn": "葡萄糖", "unit": "mmol/L", "loinc": "2345-7"}
	]}`
	cfg := writeDataset(t, first, "")
	require.NoError(t, NewImporter(db, cfg).Run())

	// The same name now carries a different code; the name-match path must
	// not overwrite the stored loinc.
	second := `{"dataset_version": "t2", "indicators": [
	  {"name_cn": "葡萄糖", "unit": "mmol/L", "loinc": "9999-9"}
	]}`
	cfg2 := writeDataset(t, second, "")
	require.NoError(t, NewImporter(db, cfg2).Run())

	var inds []models.Indicator
	require.NoError(t, db.Find(&inds).Error)
	require.Len(t, inds, 1)
	require.NotNil(t, inds[0].Loinc)
	assert.Equal(t, "2345-7", *inds[0].Loinc)
}

func TestSeedBackfillsMissingLoinc(t *testing.T) {
	db := newTestDB(t)

	first := `{"dataset_version": "t1", "indicators": [
	  {"name_cn": "葡萄糖", "unit": "mmol/L"}
	]}`
	require.NoError(t, NewImporter(db, writeDataset(t, first, "")).Run())

	second := `{"dataset_version": "t2", "indicators": [
	  {"name_cn": "葡萄糖", "unit": "mmol/L", "loinc": "2345-7"}
	]}`
	require.NoError(t, NewImporter(db, writeDataset(t, second, "")).Run())

	var ind models.Indicator
	require.NoError(t, db.First(&ind).Error)
	require.NotNil(t, ind.Loinc)
	assert.Equal(t, "2345-7", *ind.Loinc)
}

func TestSeedLegacyMemberKey(t *testing.T) {
	db := newTestDB(t)

	categories := `{"dataset_version": "t1", "categories": [
	  {"name": "血糖", "indicators": ["2345-7"]}
	]}`
	cfg := writeDataset(t, baseIndicators, categories)
	require.NoError(t, NewImporter(db, cfg).Run())

	var links int64
	require.NoError(t, db.Model(&models.IndicatorCategoryLink{}).Count(&links).Error)
	assert.Equal(t, int64(1), links)
}

func TestSeedMissingFileIsNoop(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{
		SeedIndicatorsPath: filepath.Join(t.TempDir(), "absent.json"),
		SeedCategoriesPath: filepath.Join(t.TempDir(), "absent2.json"),
	}

	require.NoError(t, NewImporter(db, cfg).Run())

	var n int64
	require.NoError(t, db.Model(&models.Indicator{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestInferType(t *testing.T) {
	numeric := models.IndicatorTypeNumeric
	assert.Equal(t, models.IndicatorTypeText, InferType("qualitative", nil))
	assert.Equal(t, models.IndicatorTypeText, InferType("N/A", nil))
	assert.Equal(t, models.IndicatorTypeText, InferType("none", nil))
	assert.Equal(t, models.IndicatorTypeNumeric, InferType("mmol/L", nil))
	assert.Equal(t, models.IndicatorTypeNumeric, InferType("qualitative", &numeric))
}

func TestSeedDetailMergeKeepsExistingText(t *testing.T) {
	db := newTestDB(t)

	first := `{"dataset_version": "t1", "indicators": [
	  {"name_cn": "葡萄糖", "unit": "mmol/L", "loinc": "2345-7",
	   "detail": {"introduction_text": "intro v1", "high_advice": "cut sugar"}}
	]}`
	require.NoError(t, NewImporter(db, writeDataset(t, first, "")).Run())

	var d models.IndicatorDetail
	require.NoError(t, db.First(&d).Error)
	// A detail payload without its own unit inherits the indicator's.
	require.NotNil(t, d.Unit)
	assert.Equal(t, "mmol/L", *d.Unit)
	require.NotNil(t, d.IntroductionText)
	assert.Equal(t, "intro v1", *d.IntroductionText)

	// A sparser re-run adds its field without nulling the existing text.
	second := `{"dataset_version": "t2", "indicators": [
	  {"name_cn": "葡萄糖", "unit": "mmol/L", "loinc": "2345-7",
	   "detail": {"measurement_method": "venous draw"}}
	]}`
	require.NoError(t, NewImporter(db, writeDataset(t, second, "")).Run())

	require.NoError(t, db.First(&d, "indicator_id = ?", d.IndicatorID).Error)
	require.NotNil(t, d.MeasurementMethod)
	assert.Equal(t, "venous draw", *d.MeasurementMethod)
	require.NotNil(t, d.IntroductionText)
	assert.Equal(t, "intro v1", *d.IntroductionText)
	require.NotNil(t, d.HighAdvice)
	assert.Equal(t, "cut sugar", *d.HighAdvice)
	require.NotNil(t, d.Unit)
	assert.Equal(t, "mmol/L", *d.Unit)
}

func TestSeedSummaryCounters(t *testing.T) {
	db := newTestDB(t)
	cfg := writeDataset(t, baseIndicators, baseCategories)

	require.NoError(t, NewImporter(db, cfg).Run())
	require.NoError(t, NewImporter(db, cfg).Run())

	// The second run's summary must report an unchanged catalog.
	var summary models.SystemLog
	require.NoError(t, db.Where("message = ?", "seed import completed").
		Order("id DESC").First(&summary).Error)

	var ctx struct {
		Counts struct {
			IndicatorsCreated int `json:"indicators_created"`
			CategoriesCreated int `json:"categories_created"`
			CategoriesUpdated int `json:"categories_updated"`
			LinksCreated      int `json:"links_created"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(summary.Context, &ctx))
	assert.Equal(t, 0, ctx.Counts.IndicatorsCreated)
	assert.Equal(t, 0, ctx.Counts.CategoriesCreated)
	assert.Equal(t, 0, ctx.Counts.CategoriesUpdated)
	assert.Equal(t, 0, ctx.Counts.LinksCreated)
}

func TestSeedLegacyCategoryCounted(t *testing.T) {
	db := newTestDB(t)

	indicators := `{"dataset_version": "t1", "indicators": [
	  {"name_cn": "收缩压", "unit": "mmHg", "categories": ["生命体征"]}
	]}`
	require.NoError(t, NewImporter(db, writeDataset(t, indicators, "")).Run())

	var summary models.SystemLog
	require.NoError(t, db.Where("message = ?", "seed import completed").First(&summary).Error)

	var ctx struct {
		Counts struct {
			CategoriesCreated int `json:"categories_created"`
			LinksCreated      int `json:"links_created"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(summary.Context, &ctx))
	assert.Equal(t, 1, ctx.Counts.CategoriesCreated)
	assert.Equal(t, 1, ctx.Counts.LinksCreated)
}
