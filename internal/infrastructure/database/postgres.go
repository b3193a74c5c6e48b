package database

import (
	"fmt"
	"log"

	"github.com/lucasferreira/retailpos-api/internal/config"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

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

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Product{},
		&entity.PaymentMethod{},

		// Transaction entities
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.SalePayment{},
		&entity.LedgerEntry{},
		&entity.Return{},
		&entity.ReturnItem{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Concurrent first requests for the same till must land on one draft
	// row. The partial unique index makes the second insert fail so the
	// caller re-reads the winner instead of forking the cart.
	err = db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_open_draft ON sales (user_id, session_key) WHERE status = 0",
	).Error
	if err != nil {
		return fmt.Errorf("failed to create draft uniqueness index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
