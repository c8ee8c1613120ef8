// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to implement safe-retry semantics for the activity submission
// endpoint.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodrec/go-mood-backend/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given (user_id, action, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, action, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND action = ? AND key = ? AND expires_at > ?", userID, action, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountIdempotency reports how many non-expired records exist for a
// (user_id, key) pair across all actions. The idempotency middleware uses it
// as a cheap replay pre-check; handlers still fetch the exact record.
func CountIdempotency(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (int64, error) {
	if strings.TrimSpace(key) == "" {
		return 0, nil
	}
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Idempotency{}).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		Count(&n).Error
	return n, err
}

// CreateIdempotency inserts a record binding (userID, action, key) to the
// activity row it produced. Returns ErrDuplicate on unique violation.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, action, key, activityID string, status int, ttl time.Duration) error {
	rec := &domain.Idempotency{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		Key:        key,
		ActivityID: activityID,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  time.Now().UTC().Add(ttl),
	}
	err := db.WithContext(ctx).Create(rec).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return ErrDuplicate
	}
	return err
}

// GetActivityByID fetches the activity row referenced by an idempotency
// record so a replayed request can return the original response body.
func GetActivityByID(ctx context.Context, db *gorm.DB, id string) (*domain.ActivityLog, error) {
	var entry domain.ActivityLog
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
