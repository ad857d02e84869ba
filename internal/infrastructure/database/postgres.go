package database

import (
	"fmt"
	"log"

	"github.com/wicara/warungpos-api/internal/config"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Sales entities
		&entity.Transaction{},
		&entity.Shift{},
		&entity.Expense{},
		&entity.DailySummary{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// The single-active-shift invariant lives in the database so two
	// concurrent opens cannot both succeed. Partial indexes are outside
	// what GORM tags can express.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_single_active ON shifts (status) WHERE status = 0`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to create active shift index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
