// Recommendation HTTP handlers.
//
// This file exposes the mood pipeline over REST:
//   - POST /recommendations   (mood or free text → one page of tagged content)
//   - GET  /moods             (the canonical mood catalog)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate service sentinels into HTTP responses with stable error codes.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodrec/go-mood-backend/internal/domain"
	"github.com/moodrec/go-mood-backend/internal/services"
	"github.com/moodrec/go-mood-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecommendationService defines the mood pipeline operation consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecommendationService interface {
	// Recommend runs validate → resolve → lookup → fetch for one request.
	Recommend(ctx context.Context, req services.RecommendationRequest) (*services.Recommendation, error)
}

// ActivityService defines activity history operations consumed by HTTP
// handlers.
type ActivityService interface {
	// Record appends one activity entry.
	Record(ctx context.Context, userID, action, moodLabel string) (*domain.ActivityLog, error)
	// Recent returns a user's newest entries, most recent first.
	Recent(ctx context.Context, userID string, limit int) ([]domain.ActivityLog, error)
}

// MoodCatalog lists the stored mood reference data.
type MoodCatalog interface {
	Moods(ctx context.Context) ([]domain.Mood, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for recommendations, the mood catalog,
// and activity history. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	recSvc      RecommendationService
	activitySvc ActivityService
	catalog     MoodCatalog

	// db backs the idempotency-replay and ETag side queries on the activity
	// endpoints. Optional: when nil those paths are skipped.
	db *gorm.DB
}

// New constructs and returns a Handlers instance bound to the given services.
func New(recSvc RecommendationService, activitySvc ActivityService, catalog MoodCatalog) *Handlers {
	return &Handlers{recSvc: recSvc, activitySvc: activitySvc, catalog: catalog}
}

// WithDB attaches the store handle used by the activity endpoints' replay and
// ETag queries and returns h for chaining.
func (h *Handlers) WithDB(db *gorm.DB) *Handlers {
	h.db = db
	return h
}

// userID extracts the caller identity: an explicit field/parameter wins,
// then the "X-User-ID" header (set by upstream auth or by tests). Unlike the
// rest of the API surface there is no fallback identity; an empty result
// simply disables activity logging.
func userID(c *gin.Context, explicit string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return ""
}

//
// DTOs
//

// RecommendRequest is the JSON payload for requesting recommendations.
// Exactly one of Mood/Text should be set; ContentType defaults to "movies".
type RecommendRequest struct {
	// Mood is an explicit mood label, canonical or fuzzy.
	Mood string `json:"mood" example:"Happy"`
	// Text is a free-form mood description, resolved when Mood is absent.
	Text string `json:"text" example:"I was crying all day"`
	// ContentType selects the catalog: movies, songs, or series.
	ContentType string `json:"content_type" example:"movies"`
	// Language optionally filters by exact language code.
	Language string `json:"language" example:"en"`
	// Page is the 1-based page number.
	Page int `json:"page" example:"1"`
	// Limit is the page size (capped server-side).
	Limit int `json:"limit" example:"20"`
	// UserID enables activity logging when present.
	UserID string `json:"user_id" example:"alice@example.com"`
}

// RecommendResponse wraps one page of mood-tagged content. Mood always echoes
// the canonical stored label after fuzzy matching.
type RecommendResponse struct {
	Mood    string `json:"mood" example:"Happy / Joyful"`
	Count   int    `json:"count" example:"20"`
	Results []any  `json:"results"`
}

// MoodsResponse lists the canonical mood catalog.
type MoodsResponse struct {
	Moods []domain.Mood `json:"moods"`
}

//
// Handlers
//

// Recommend godoc
// @ID          recommendContent
// @Summary     Recommend content for a mood
// @Description Resolves the request's mood (explicit label or free text) and returns one page of matching movies, songs, or series.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID for activity logging"  example(user123)
// @Param       body       body    handlers.RecommendRequest  true  "Recommendation request"
//
// @Success     200  {object}  handlers.RecommendResponse
// @Header      200  {string}  X-Total-Count "Total rows matching the filter"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid content type, language, or missing mood"
// @Failure     404  {object}  handlers.ErrorResponse  "Mood absent from catalog"
// @Failure     500  {object}  handlers.ErrorResponse  "Store or collaborator failure"
// @Router      /recommendations [post]
func (h *Handlers) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	out, err := h.recSvc.Recommend(c.Request.Context(), services.RecommendationRequest{
		Mood:        req.Mood,
		Text:        req.Text,
		ContentType: req.ContentType,
		Language:    req.Language,
		Page:        req.Page,
		Limit:       req.Limit,
		UserID:      userID(c, req.UserID),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidContentType):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content_type must be one of movies, songs, series")
		case errors.Is(err, services.ErrInvalidLanguage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "language is not a valid language code")
		case errors.Is(err, services.ErrMoodNotRecognized):
			fail(c, http.StatusBadRequest, ErrCodeMoodNotRecognized, "mood not recognized")
		case errors.Is(err, services.ErrMoodNotFound):
			fail(c, http.StatusNotFound, ErrCodeMoodNotFound, "mood not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeQueryFailed, err.Error())
		}
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(out.Total, 10))
	ok(c, http.StatusOK, RecommendResponse{
		Mood:    out.Mood,
		Count:   len(out.Items),
		Results: out.Items,
	})
}

// ListMoods godoc
// @ID          listMoods
// @Summary     List the mood catalog
// @Description Returns the fixed set of canonical moods in declaration order.
// @Tags        Recommendations
// @Produce     json
//
// @Success     200  {object}  handlers.MoodsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /moods [get]
func (h *Handlers) ListMoods(c *gin.Context) {
	moods, err := h.catalog.Moods(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, MoodsResponse{Moods: moods})
}

// limitQuery parses the "limit" query parameter with a default.
func limitQuery(c *gin.Context, def int) int {
	return utils.AtoiDefault(c.Query("limit"), def)
}
