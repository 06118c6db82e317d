package database

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/config"
	"github.com/vladimiradmaev/vitals-tracker/internal/database/migrations"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/sql/*.sql
var sqlMigrations embed.FS

// Open connects to the configured database and brings the schema up to date.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: nowUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Driver == "sqlite" {
		if err := singleConnection(db); err != nil {
			return nil, err
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed", "driver", cfg.Driver)
	return db, nil
}

// OpenSQLite opens a sqlite database at dsn, e.g. "file::memory:" in tests.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: nowUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if err := singleConnection(db); err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables and then runs the registered migrations that
// have not been recorded yet.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	registry := migrations.NewRegistry()
	if err := registry.LoadSQL(sqlMigrations, "migrations/sql"); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	registerGoMigrations(registry)

	if err := registry.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func registerGoMigrations(r *migrations.Registry) {
	// Sessions created before last_accessed existed would expire immediately.
	r.Register("0004_backfill_session_last_accessed", func(db *gorm.DB) error {
		return db.Model(&SharingSessionRecord{}).
			Where("last_accessed IS NULL OR last_accessed < created_at").
			Update("last_accessed", gorm.Expr("created_at")).Error
	}, nil)
}

// Timestamps are stored in UTC so range filters compare like with like.
func nowUTC() time.Time {
	return time.Now().UTC()
}

// SQLite allows one writer, and each ":memory:" connection is its own database.
func singleConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.PostgresDSN()), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
