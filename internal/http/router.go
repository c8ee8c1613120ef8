// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/moodrec/go-mood-backend/docs" // swagger docs registration
	"github.com/moodrec/go-mood-backend/internal/config"
	"github.com/moodrec/go-mood-backend/internal/domain"
	"github.com/moodrec/go-mood-backend/internal/http/handlers"
	"github.com/moodrec/go-mood-backend/internal/http/middleware"
	"github.com/moodrec/go-mood-backend/internal/mood"
	"github.com/moodrec/go-mood-backend/internal/repo"
	"github.com/moodrec/go-mood-backend/internal/services"
)

// recRepoShim adapts the repository free functions to the
// services.RecommendationRepo interface expected by the RecommendationService.
// This keeps services decoupled from the concrete repo package while reusing
// existing functions.
type recRepoShim struct{}

// FindMoodByLabel proxies repo.FindMoodByLabel.
func (recRepoShim) FindMoodByLabel(ctx context.Context, db *gorm.DB, label string) (*domain.Mood, error) {
	return repo.FindMoodByLabel(ctx, db, label)
}

// ListMovies proxies the generic content page query for movies.
func (recRepoShim) ListMovies(ctx context.Context, db *gorm.DB, moodID uint, language string, offset, limit int) ([]domain.Movie, error) {
	return repo.ListContentPage[domain.Movie](ctx, db, moodID, language, offset, limit)
}

// ListSongs proxies the generic content page query for songs.
func (recRepoShim) ListSongs(ctx context.Context, db *gorm.DB, moodID uint, language string, offset, limit int) ([]domain.Song, error) {
	return repo.ListContentPage[domain.Song](ctx, db, moodID, language, offset, limit)
}

// ListSeries proxies the generic content page query for series.
func (recRepoShim) ListSeries(ctx context.Context, db *gorm.DB, moodID uint, language string, offset, limit int) ([]domain.Series, error) {
	return repo.ListContentPage[domain.Series](ctx, db, moodID, language, offset, limit)
}

// CountMovies proxies the generic content count for movies.
func (recRepoShim) CountMovies(ctx context.Context, db *gorm.DB, moodID uint, language string) (int64, error) {
	return repo.CountContent[domain.Movie](ctx, db, moodID, language)
}

// CountSongs proxies the generic content count for songs.
func (recRepoShim) CountSongs(ctx context.Context, db *gorm.DB, moodID uint, language string) (int64, error) {
	return repo.CountContent[domain.Song](ctx, db, moodID, language)
}

// CountSeries proxies the generic content count for series.
func (recRepoShim) CountSeries(ctx context.Context, db *gorm.DB, moodID uint, language string) (int64, error) {
	return repo.CountContent[domain.Series](ctx, db, moodID, language)
}

// activityRepoShim adapts the repository free functions to
// services.ActivityRepo.
type activityRepoShim struct{}

// CreateActivityLog proxies repo.CreateActivityLog.
func (activityRepoShim) CreateActivityLog(ctx context.Context, db *gorm.DB, userID, action, moodLabel string) (*domain.ActivityLog, error) {
	return repo.CreateActivityLog(ctx, db, userID, action, moodLabel)
}

// ListRecentActivity proxies repo.ListRecentActivity.
func (activityRepoShim) ListRecentActivity(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ActivityLog, error) {
	return repo.ListRecentActivity(ctx, db, userID, limit)
}

// moodCatalog serves the stored mood reference data to the handlers.
type moodCatalog struct {
	db *gorm.DB
}

func (m moodCatalog) Moods(ctx context.Context) ([]domain.Mood, error) {
	return repo.ListMoods(ctx, m.db)
}

// buildResolver assembles the mood resolver chain from configuration. The
// keyword classifier needs no external collaborators; the AI resolver is only
// linked in when an API key is present.
func buildResolver(cfg config.Config) mood.Resolver {
	var chain mood.Chain
	for _, name := range cfg.ResolverChain() {
		switch name {
		case "keyword":
			chain = append(chain, mood.Instrument("keyword", mood.NewKeywordClassifier()))
		case "ai":
			if cfg.OpenAI.APIKey == "" {
				continue
			}
			chain = append(chain, mood.Instrument("ai", mood.NewOpenAIResolver(mood.OpenAIConfig{
				APIKey:     cfg.OpenAI.APIKey,
				Model:      cfg.OpenAI.Model,
				BaseURL:    cfg.OpenAI.BaseURL,
				Timeout:    cfg.OpenAI.Timeout,
				MaxRetries: cfg.OpenAI.MaxRetries,
			})))
		}
	}
	return chain
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Response compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
			"X-User-ID", // caller identity, frequently an email address
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses for clients that accept it
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			n, err := repo.CountIdempotency(ctx, db, userID, key, now)
			if err != nil {
				return false, nil
			}
			return n > 0, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "X-Total-Count", "ETag", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "X-Total-Count", "ETag", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/resolver
	activitySvc := services.NewActivityService(db, activityRepoShim{})
	recSvc := services.NewRecommendationService(db, recRepoShim{}, buildResolver(cfg), activitySvc)
	if cfg.DefaultPageSize > 0 {
		recSvc.DefaultLimit = cfg.DefaultPageSize
	}
	if cfg.MaxPageSize > 0 {
		recSvc.MaxLimit = cfg.MaxPageSize
		activitySvc.MaxLimit = cfg.MaxPageSize
	}

	h := handlers.New(recSvc, activitySvc, moodCatalog{db: db}).WithDB(db)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Recommendations
		api.POST("/recommendations", h.Recommend)
		api.GET("/moods", h.ListMoods)

		// Activity
		api.POST("/activity", h.LogActivity)
		api.GET("/activity", h.RecentActivity)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
