// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ActivityLog
// model.
//
// Activity rows are append-only: there are no update or delete functions here
// on purpose.
//
// Functions:
//
//   - CreateActivityLog(ctx, db, userID, action, mood) -> *domain.ActivityLog, error
//     Inserts one log row with UUID primary key and UTC timestamp. When
//     userID contains "@" the value is additionally stored in the email
//     column so history lookups can match either identity form.
//
//   - ListRecentActivity(ctx, db, userID, limit) -> []domain.ActivityLog, error
//     Returns the most recent rows for userID, newest first. Tries the
//     opaque user_id column first and falls back to the email column when
//     that yields zero rows.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodrec/go-mood-backend/internal/domain"
)

// CreateActivityLog inserts one activity row for userID. The mood label may
// be empty when the action is not mood-scoped.
//
// On success, it returns the persisted row. On failure, it returns a DB error.
func CreateActivityLog(ctx context.Context, db *gorm.DB, userID, action, mood string) (*domain.ActivityLog, error) {
	entry := &domain.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Mood:      mood,
		CreatedAt: time.Now().UTC(),
	}
	if strings.Contains(userID, "@") {
		entry.Email = userID
	}
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRecentActivity returns up to limit rows for userID ordered by creation
// time descending. Lookup policy: match the user_id column first; when that
// returns zero rows, retry against the email column. Both empty yields an
// empty slice, not an error.
func ListRecentActivity(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		return out, nil
	}

	err = db.WithContext(ctx).
		Where("email = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.ActivityLog{}
	}
	return out, nil
}
