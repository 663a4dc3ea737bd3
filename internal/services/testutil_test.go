package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
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

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Name:         username,
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createBuiltin(t *testing.T, db *gorm.DB, nameCN string, min, max *float64) *models.Indicator {
	t.Helper()
	ind := &models.Indicator{
		NameCN:       nameCN,
		Unit:         "mmol/L",
		Type:         models.IndicatorTypeNumeric,
		ReferenceMin: min,
		ReferenceMax: max,
		IsBuiltin:    true,
	}
	require.NoError(t, db.Create(ind).Error)
	return ind
}

func f(v float64) *float64 { return &v }
