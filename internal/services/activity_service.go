// Package services – ActivityService
//
// This file implements ActivityService, which owns the append-only activity
// history: recording "user did X" rows and reading a user's recent entries
// back. Recording validates its inputs and returns errors normally; it is the
// orchestrator (not this service) that decides to swallow them for
// fire-and-forget writes.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/moodrec/go-mood-backend/internal/domain"
)

// ActivityRepo defines the repository contract required by ActivityService.
type ActivityRepo interface {
	// CreateActivityLog appends one activity row.
	CreateActivityLog(ctx context.Context, db *gorm.DB, userID, action, mood string) (*domain.ActivityLog, error)

	// ListRecentActivity returns up to limit rows, newest first, matching the
	// opaque user id first and the email identity as a fallback.
	ListRecentActivity(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ActivityLog, error)
}

// ActivityService provides activity history operations. Safe for concurrent
// use.
type ActivityService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the activity repository used by this service.
	Repo ActivityRepo

	// DefaultLimit is applied by Recent when the caller passes no positive
	// limit.
	DefaultLimit int
	// MaxLimit caps the history page size.
	MaxLimit int
}

// NewActivityService constructs an ActivityService with sane defaults.
func NewActivityService(db *gorm.DB, r ActivityRepo) *ActivityService {
	return &ActivityService{
		DB:           db,
		Repo:         r,
		DefaultLimit: 10,
		MaxLimit:     100,
	}
}

// Record appends one activity entry for userID. The mood label is optional;
// user id and action are not.
func (s *ActivityService) Record(ctx context.Context, userID, action, moodLabel string) (*domain.ActivityLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrMissingAction
	}
	return s.Repo.CreateActivityLog(ctx, s.DB, userID, action, strings.TrimSpace(moodLabel))
}

// Recent returns the user's newest activity entries, most recent first. A
// blank user id short-circuits to an empty slice without a store round-trip;
// zero matching rows is likewise an empty slice, not an error.
func (s *ActivityService) Recent(ctx context.Context, userID string, limit int) ([]domain.ActivityLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []domain.ActivityLog{}, nil
	}
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	return s.Repo.ListRecentActivity(ctx, s.DB, userID, limit)
}
