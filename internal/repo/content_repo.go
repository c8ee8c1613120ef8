// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the content query functions shared by
// the movies, songs, and series catalogs.
//
// The three catalogs share a filter shape (mood + optional language) and a
// pagination window, so the queries are expressed once over a type parameter
// instead of three near-identical copies.
//
// Error semantics:
//   - Zero matching rows is a normal outcome: an empty slice and nil error.
//   - On DB errors the raw gorm error is propagated; callers surface it as a
//     query failure distinct from "no rows".
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/moodrec/go-mood-backend/internal/domain"
)

// ContentItem constrains the content catalog models that share the
// mood/language/pagination query shape.
type ContentItem interface {
	domain.Movie | domain.Song | domain.Series
}

// ListContentPage returns one page of catalog rows tagged with moodID,
// optionally filtered by exact language code. No explicit ordering is applied
// beyond the store's default (primary key) order, which keeps pages stable
// across requests.
//
// The caller computes offset and limit (e.g. (page-1)*limit).
func ListContentPage[T ContentItem](ctx context.Context, db *gorm.DB, moodID uint, language string, offset, limit int) ([]T, error) {
	q := db.WithContext(ctx).
		Where("mood_id = ?", moodID)
	if language != "" {
		q = q.Where("language = ?", language)
	}

	var out []T
	err := q.Offset(offset).
		Limit(limit).
		Find(&out).Error
	if out == nil {
		out = []T{}
	}
	return out, err
}

// CountContent returns the total number of catalog rows matching moodID and
// the optional language filter. Used for pagination metadata.
func CountContent[T ContentItem](ctx context.Context, db *gorm.DB, moodID uint, language string) (int64, error) {
	var model T
	q := db.WithContext(ctx).
		Model(&model).
		Where("mood_id = ?", moodID)
	if language != "" {
		q = q.Where("language = ?", language)
	}

	var total int64
	err := q.Count(&total).Error
	return total, err
}
