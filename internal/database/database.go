package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/medtrackhq/medtrack-backend/internal/config"
	"github.com/medtrackhq/medtrack-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL connection. The handle is returned rather than
// stored in a package variable so callers decide its lifetime.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}

// Migrate runs AutoMigrate for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Indicator{},
		&models.IndicatorRecord{},
		&models.IndicatorDetail{},
		&models.Category{},
		&models.IndicatorCategoryLink{},
		&models.UserIndicator{},
		&models.AdmissionFolder{},
		&models.Admission{},
		&models.AdmissionFile{},
		&models.Medication{},
		&models.MedicationRecord{},
		&models.SystemLog{},
		&models.AuditLog{},
	)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
