package database

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/logger"
	"fintrack/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// activeNameIndex backs the case-insensitive uniqueness of active category
// names at the storage layer. name_key holds the Unicode-folded name, since
// SQLite's LOWER only folds ASCII.
const activeNameIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_categories_active_name_key
	ON categories (name_key) WHERE is_active`

const dropLegacyNameIndex = `DROP INDEX IF EXISTS ux_categories_active_name`

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager opens the configured SQL driver.
func NewManager(cfg *Config) (*Manager, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		})
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, config: cfg}, nil
}

// Migrate brings the schema up to date: SQL migrations for PostgreSQL,
// AutoMigrate for SQLite.
func (m *Manager) Migrate() error {
	if m.config.Driver == config.DriverSQLite {
		logger.Get().Info("Auto-migrating SQLite schema...")
		return AutoMigrate(m.db)
	}
	return m.RunMigrations()
}

// RunMigrations applies pending SQL migrations from the migrations/ directory.
func (m *Manager) RunMigrations() error {
	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New("file://migrations", m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates the tables from the GORM models and adds the partial
// unique index on active category names.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Expense{}, &models.AuditLog{}); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	if err := db.Exec(dropLegacyNameIndex).Error; err != nil {
		return fmt.Errorf("failed to drop legacy category name index: %w", err)
	}
	if err := backfillFoldKeys(db); err != nil {
		return err
	}
	if err := db.Exec(activeNameIndex).Error; err != nil {
		return fmt.Errorf("failed to create category name index: %w", err)
	}
	return nil
}

// backfillFoldKeys fills name_key and description_key on rows written before
// those columns existed.
func backfillFoldKeys(db *gorm.DB) error {
	var stale []models.Category
	if err := db.Where("name_key = ''").Find(&stale).Error; err != nil {
		return fmt.Errorf("failed to load categories for key backfill: %w", err)
	}
	for i := range stale {
		c := &stale[i]
		c.FoldKeys()
		err := db.Model(c).UpdateColumns(map[string]interface{}{
			"name_key":        c.NameKey,
			"description_key": c.DescriptionKey,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to backfill keys for category %s: %w", c.ID, err)
		}
	}
	return nil
}
