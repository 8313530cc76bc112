package infra

import (
	"fmt"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate for
// the documentos table, then applies the idempotent index patches that GORM
// cannot express (expression indexes on JSONB keys).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the documentos table and its lookup indexes.
// Safe to call on an already-migrated database; integration tests use it directly.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Documento{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL for the equality lookups the API
// performs on every request (customer_id on /alcarrito and /get-user-data).
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE INDEX IF NOT EXISTS idx_documentos_customer_id
		    ON documentos ((datos->>'customer_id'))`,
		`CREATE INDEX IF NOT EXISTS idx_documentos_datos
		    ON documentos USING GIN (datos jsonb_path_ops)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
