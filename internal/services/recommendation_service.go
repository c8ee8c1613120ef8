// Package services – RecommendationService
//
// This file implements RecommendationService, the request-level coordinator of
// the mood pipeline. One call is one pass: validate the request, resolve the
// mood (explicit label or free text through the configured resolver), look the
// label up in the mood catalog (exact then fuzzy), fetch a page of matching
// content, fire the best-effort activity log, and assemble the result.
//
// The activity write is the only step allowed to fail silently; every other
// failure maps onto exactly one sentinel from errors.go so handlers can
// translate terminal states into stable HTTP responses.
//
// Observability: Recommend is OpenTelemetry-instrumented; spans carry the
// content category, resolved mood, and pagination window.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/moodrec/go-mood-backend/internal/domain"
	"github.com/moodrec/go-mood-backend/internal/mood"
	"github.com/moodrec/go-mood-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/language"
)

// Content categories accepted by the recommendation endpoint. Anything else
// is a validation error, never a lookup miss.
const (
	ContentMovies = "movies"
	ContentSongs  = "songs"
	ContentSeries = "series"
)

// recommendations counts served recommendation requests by content category.
var recommendations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recommendations_total",
		Help: "Total recommendation requests served, by content category.",
	},
	[]string{"content_type"},
)

func init() {
	prometheus.MustRegister(recommendations)
}

// RecommendationRepo defines the repository contract required by
// RecommendationService. Implementations are responsible for mood catalog
// lookups and paginated content fetches.
type RecommendationRepo interface {
	// FindMoodByLabel resolves a label to a catalog row, exact match first
	// and case-insensitive substring second. Returns repo.ErrNotFound when
	// both tiers miss.
	FindMoodByLabel(ctx context.Context, db *gorm.DB, label string) (*domain.Mood, error)

	// ListMovies returns one page of movies for the mood/language filter.
	ListMovies(ctx context.Context, db *gorm.DB, moodID uint, language string, offset, limit int) ([]domain.Movie, error)
	// ListSongs returns one page of songs for the mood/language filter.
	ListSongs(ctx context.Context, db *gorm.DB, moodID uint, language string, offset, limit int) ([]domain.Song, error)
	// ListSeries returns one page of series for the mood/language filter.
	ListSeries(ctx context.Context, db *gorm.DB, moodID uint, language string, offset, limit int) ([]domain.Series, error)

	// CountMovies/CountSongs/CountSeries return the filter's total row count.
	CountMovies(ctx context.Context, db *gorm.DB, moodID uint, language string) (int64, error)
	CountSongs(ctx context.Context, db *gorm.DB, moodID uint, language string) (int64, error)
	CountSeries(ctx context.Context, db *gorm.DB, moodID uint, language string) (int64, error)
}

// ActivityRecorder is the narrow contract the orchestrator needs to log
// "user searched for X" side effects. ActivityService satisfies it.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, action, moodLabel string) (*domain.ActivityLog, error)
}

// RecommendationRequest is the decoded, transport-agnostic request payload.
// Exactly one of Mood/Text drives resolution; both absent makes the request
// invalid.
type RecommendationRequest struct {
	Mood        string
	Text        string
	ContentType string
	Language    string
	Page        int
	Limit       int
	UserID      string
}

// Recommendation is the assembled result of one pipeline pass. Mood is always
// the canonical stored label after fuzzy matching, so clients paginate
// against a stable key regardless of how loosely the request spelled it.
type Recommendation struct {
	Mood  string
	Items []any
	Total int64
}

// RecommendationService coordinates mood resolution, catalog lookup, content
// fetch, and best-effort activity logging. Safe for concurrent use.
type RecommendationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the content/mood repository used by this service.
	Repo RecommendationRepo
	// Resolver maps free text to a canonical mood label. Required for
	// requests that carry text instead of an explicit mood.
	Resolver mood.Resolver
	// Activity receives fire-and-forget search records; may be nil.
	Activity ActivityRecorder

	// DefaultLimit is applied when the request has no positive limit.
	DefaultLimit int
	// MaxLimit caps the page size.
	MaxLimit int
	// ActivityTimeout bounds the detached activity write.
	ActivityTimeout time.Duration
}

// NewRecommendationService constructs a RecommendationService with sane
// pagination defaults.
func NewRecommendationService(db *gorm.DB, r RecommendationRepo, resolver mood.Resolver, activity ActivityRecorder) *RecommendationService {
	return &RecommendationService{
		DB:              db,
		Repo:            r,
		Resolver:        resolver,
		Activity:        activity,
		DefaultLimit:    20,
		MaxLimit:        100,
		ActivityTimeout: 5 * time.Second,
	}
}

// Recommend runs the full pipeline for one request.
//
// Terminal failure states, in evaluation order:
//   - ErrInvalidContentType / ErrInvalidLanguage (validation, no store access)
//   - ErrMoodNotRecognized (no mood signal, or every resolver came up empty)
//   - ErrMoodNotFound (label absent from the catalog after fuzzy fallback)
//   - ErrQueryFailed (store rejected the lookup or the fetch)
//
// An empty page is a success, not an error.
func (s *RecommendationService) Recommend(ctx context.Context, req RecommendationRequest) (*Recommendation, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Recommend",
		trace.WithAttributes(
			attribute.String("content.type", req.ContentType),
		),
	)
	defer span.End()

	// 1. Validate before touching the store.
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if contentType == "" {
		contentType = ContentMovies
	}
	switch contentType {
	case ContentMovies, ContentSongs, ContentSeries:
	default:
		return nil, ErrInvalidContentType
	}

	lang := strings.TrimSpace(req.Language)
	if lang != "" {
		if _, err := language.Parse(lang); err != nil {
			return nil, ErrInvalidLanguage
		}
		lang = strings.ToLower(lang)
	}

	page, limit := s.clampWindow(req.Page, req.Limit)
	offset := (page - 1) * limit

	// 2. Resolve the mood label.
	label, err := s.resolveLabel(ctx, req.Mood, req.Text)
	if err != nil {
		return nil, err
	}

	// 3. Catalog lookup: exact then fuzzy.
	m, err := s.Repo.FindMoodByLabel(ctx, s.DB, label)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMoodNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	span.SetAttributes(attribute.String("mood.label", m.Name))

	// 4. Fetch one page of content.
	items, total, err := s.fetch(ctx, contentType, m.ID, lang, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	// 5. Best-effort activity record, detached from the response path.
	s.recordSearch(ctx, req.UserID, contentType, m.Name)

	recommendations.WithLabelValues(contentType).Inc()
	return &Recommendation{Mood: m.Name, Items: items, Total: total}, nil
}

// clampWindow normalizes page/limit to positive values within the configured
// bounds.
func (s *RecommendationService) clampWindow(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	def := s.DefaultLimit
	if def <= 0 {
		def = 20
	}
	max := s.MaxLimit
	if max <= 0 {
		max = 100
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}

// resolveLabel picks the mood label driving the request: an explicit mood is
// used verbatim, otherwise free text goes through the configured resolver.
func (s *RecommendationService) resolveLabel(ctx context.Context, moodField, text string) (string, error) {
	if label := strings.TrimSpace(moodField); label != "" {
		return label, nil
	}
	text = strings.TrimSpace(text)
	if text == "" || s.Resolver == nil {
		return "", ErrMoodNotRecognized
	}
	label, ok := s.Resolver.Resolve(ctx, text)
	if !ok {
		return "", ErrMoodNotRecognized
	}
	return label, nil
}

// fetch dispatches to the category's table and widens the typed page into the
// transport-neutral item slice.
func (s *RecommendationService) fetch(ctx context.Context, contentType string, moodID uint, lang string, offset, limit int) ([]any, int64, error) {
	switch contentType {
	case ContentSongs:
		rows, err := s.Repo.ListSongs(ctx, s.DB, moodID, lang, offset, limit)
		if err != nil {
			return nil, 0, err
		}
		total, err := s.Repo.CountSongs(ctx, s.DB, moodID, lang)
		return widen(rows), total, err
	case ContentSeries:
		rows, err := s.Repo.ListSeries(ctx, s.DB, moodID, lang, offset, limit)
		if err != nil {
			return nil, 0, err
		}
		total, err := s.Repo.CountSeries(ctx, s.DB, moodID, lang)
		return widen(rows), total, err
	default: // ContentMovies, validated upstream
		rows, err := s.Repo.ListMovies(ctx, s.DB, moodID, lang, offset, limit)
		if err != nil {
			return nil, 0, err
		}
		total, err := s.Repo.CountMovies(ctx, s.DB, moodID, lang)
		return widen(rows), total, err
	}
}

// recordSearch dispatches the activity write on a detached context so neither
// its latency nor its failure can reach the response. Errors are logged and
// swallowed.
func (s *RecommendationService) recordSearch(ctx context.Context, userID, contentType, moodLabel string) {
	if s.Activity == nil || strings.TrimSpace(userID) == "" {
		return
	}
	action := "searched for " + contentType
	timeout := s.ActivityTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	detached := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Msg("activity record panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()
		if _, err := s.Activity.Record(ctx, userID, action, moodLabel); err != nil {
			log.Warn().Err(err).
				Str("user_id", userID).
				Str("action", action).
				Msg("activity record failed")
		}
	}()
}

// widen converts a typed row slice to []any for the response envelope.
func widen[T any](rows []T) []any {
	out := make([]any, len(rows))
	for i := range rows {
		out[i] = rows[i]
	}
	return out
}
