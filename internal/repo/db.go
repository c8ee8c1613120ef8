// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and mood catalog seeding.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/moodrec/go-mood-backend/internal/domain"
	"github.com/moodrec/go-mood-backend/internal/mood"
)

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, and
// installs the OpenTelemetry tracing plugin.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	// Emit a span per DB call; metrics are covered at the HTTP layer.
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for all persistent models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Mood{},
		&domain.Movie{},
		&domain.Song{},
		&domain.Series{},
		&domain.ActivityLog{},
		&domain.Idempotency{},
	)
}

// SeedMoods inserts the canonical mood catalog in declaration order. Existing
// rows are left untouched, so the call is safe on every boot.
func SeedMoods(db *gorm.DB) error {
	for _, name := range mood.Canonical {
		m := domain.Mood{Name: name}
		if err := db.Where("mood_name = ?", name).FirstOrCreate(&m).Error; err != nil {
			return err
		}
	}
	return nil
}
