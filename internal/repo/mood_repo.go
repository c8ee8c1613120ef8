// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Mood
// catalog.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a mood is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (connectivity issues, malformed filters, etc.), the raw
//     gorm error is propagated. Callers must keep "no rows" and "call failed"
//     distinct; the two-tier lookup below depends on it.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/moodrec/go-mood-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// FindMoodByLabel resolves a mood label to its stored catalog row using a
// two-tier policy: (a) exact case-sensitive match on the canonical name,
// then (b) case-insensitive substring match, taking the first row in storage
// iteration order. The fallback exists because upstream resolvers may emit
// labels with different surrounding text than storage ("Happy" should reach
// "Happy / Joyful").
//
// Returns ErrNotFound only when both tiers yield zero rows. Store failures
// are propagated as-is and must not be conflated with ErrNotFound.
func FindMoodByLabel(ctx context.Context, db *gorm.DB, label string) (*domain.Mood, error) {
	var m domain.Mood

	err := db.WithContext(ctx).
		Where("mood_name = ?", label).
		First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Fuzzy tier: case-insensitive "contains", first row in storage order.
	err = db.WithContext(ctx).
		Where("LOWER(mood_name) LIKE ?", "%"+strings.ToLower(label)+"%").
		Order("mood_id").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMoods returns the full mood catalog in declaration (primary key) order.
func ListMoods(ctx context.Context, db *gorm.DB) ([]domain.Mood, error) {
	var out []domain.Mood
	err := db.WithContext(ctx).
		Order("mood_id").
		Find(&out).Error
	return out, err
}
