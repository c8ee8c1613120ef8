package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodrec/go-mood-backend/internal/config"
	"github.com/moodrec/go-mood-backend/internal/domain"
	"github.com/moodrec/go-mood-backend/internal/http/middleware"
	"github.com/moodrec/go-mood-backend/internal/mood"
	"github.com/moodrec/go-mood-backend/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:routerdb_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := repo.SeedMoods(db); err != nil {
		t.Fatalf("seed moods: %v", err)
	}
	return db
}

func baseConfig() config.Config {
	return config.Config{
		APIBasePath:   "/api/v1",
		RateRPS:       100,
		RateBurst:     10,
		CORS:          config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:      config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:          config.OTELConfig{ServiceName: "test-svc"},
		MoodResolvers: "keyword",
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	db := newTestDB(t)

	RegisterRoutes(r, db, cfg)

	// /health works
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	cfg.APIBasePath = "/api/v2"
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	db := newTestDB(t)

	RegisterRoutes(r, db, cfg)

	// Any request runs through CORS middleware; header should reflect origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

// Full pass through the mounted API: seed content, resolve free text through
// the keyword classifier, and read the page back.
func TestRegisterRoutes_RecommendEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	db := newTestDB(t)
	RegisterRoutes(r, db, cfg)

	// "crying" resolves to Sad / Melancholic; find its seeded id.
	var sad domain.Mood
	if err := db.Where("mood_name = ?", "Sad / Melancholic").First(&sad).Error; err != nil {
		t.Fatalf("seeded mood missing: %v", err)
	}
	movies := []domain.Movie{
		{TMDBID: 1, Title: "Blue Valentine", Language: "en", MoodID: sad.ID},
		{TMDBID: 2, Title: "Manchester by the Sea", Language: "en", MoodID: sad.ID},
	}
	for i := range movies {
		if err := db.Create(&movies[i]).Error; err != nil {
			t.Fatalf("seed movie: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations",
		bytes.NewBufferString(`{"text":"I was crying all day","content_type":"movies","user_id":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /recommendations = %d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Mood    string `json:"mood"`
		Count   int    `json:"count"`
		Results []any  `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Mood != "Sad / Melancholic" || out.Count != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if got := w.Header().Get("X-Total-Count"); got != "2" {
		t.Fatalf("X-Total-Count = %q", got)
	}

	// The catalog endpoint serves the seeded moods in declaration order.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/moods", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /moods = %d", w.Code)
	}
	var moods struct {
		Moods []domain.Mood `json:"moods"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &moods); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(moods.Moods) != len(mood.Canonical) || moods.Moods[0].Name != mood.Canonical[0] {
		t.Fatalf("unexpected catalog: %+v", moods.Moods)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	// Hit all three
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/one", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "one" {
		t.Fatalf("GET /one got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/two", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "two" {
		t.Fatalf("GET /two got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("GET /api/ping got %d %q", rec.Code, rec.Body.String())
	}
}

// Smoke test that a request traverses idempotency + ratelimit + otel + security headers pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour} // enabled (but only set on https)
	db := newTestDB(t)
	RegisterRoutes(r, db, cfg)

	// Any request goes through the middleware stack
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	// simulate https so HSTS could be eligible if middleware checks scheme
	req.URL.Scheme = "https"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func Test_repoShims_Proxy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	ctx := context.Background()

	var happy domain.Mood
	if err := db.Where("mood_name = ?", "Happy / Joyful").First(&happy).Error; err != nil {
		t.Fatalf("seeded mood missing: %v", err)
	}

	rec := recRepoShim{}

	// --- FindMoodByLabel (fuzzy path) ---
	m, err := rec.FindMoodByLabel(ctx, db, "happy")
	if err != nil || m.ID != happy.ID {
		t.Fatalf("FindMoodByLabel = (%+v, %v)", m, err)
	}

	// --- content lists and counts per category ---
	seed := []any{
		&domain.Movie{TMDBID: 10, Title: "Up", Language: "en", MoodID: happy.ID},
		&domain.Song{SpotifyID: "s1", Title: "Happy", Artist: "P. Williams", Language: "en", MoodID: happy.ID},
		&domain.Series{TMDBID: 20, Title: "Parks and Recreation", Language: "en", MoodID: happy.ID},
	}
	for _, row := range seed {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed content: %v", err)
		}
	}

	movies, err := rec.ListMovies(ctx, db, happy.ID, "", 0, 10)
	if err != nil || len(movies) != 1 {
		t.Fatalf("ListMovies = (%d, %v)", len(movies), err)
	}
	songs, err := rec.ListSongs(ctx, db, happy.ID, "en", 0, 10)
	if err != nil || len(songs) != 1 {
		t.Fatalf("ListSongs = (%d, %v)", len(songs), err)
	}
	series, err := rec.ListSeries(ctx, db, happy.ID, "", 0, 10)
	if err != nil || len(series) != 1 {
		t.Fatalf("ListSeries = (%d, %v)", len(series), err)
	}

	for name, count := range map[string]func(context.Context, *gorm.DB, uint, string) (int64, error){
		"movies": rec.CountMovies,
		"songs":  rec.CountSongs,
		"series": rec.CountSeries,
	} {
		n, err := count(ctx, db, happy.ID, "")
		if err != nil || n != 1 {
			t.Fatalf("Count %s = (%d, %v)", name, n, err)
		}
	}

	// --- activity shim ---
	act := activityRepoShim{}
	entry, err := act.CreateActivityLog(ctx, db, "u1", "searched for movies", happy.Name)
	if err != nil || entry.ID == "" {
		t.Fatalf("CreateActivityLog = (%+v, %v)", entry, err)
	}
	recent, err := act.ListRecentActivity(ctx, db, "u1", 5)
	if err != nil || len(recent) != 1 {
		t.Fatalf("ListRecentActivity = (%d, %v)", len(recent), err)
	}

	// --- mood catalog adapter ---
	moods, err := moodCatalog{db: db}.Moods(ctx)
	if err != nil || len(moods) != len(mood.Canonical) {
		t.Fatalf("Moods = (%d, %v)", len(moods), err)
	}
}

func Test_buildResolver(t *testing.T) {
	// Keyword-only chain resolves without any network dependency.
	cfg := baseConfig()
	r := buildResolver(cfg)
	if label, ok := r.Resolve(context.Background(), "what a wonderful cheerful day"); !ok || label != "Happy / Joyful" {
		t.Fatalf("keyword chain = (%q, %v)", label, ok)
	}

	// The AI resolver is skipped without an API key.
	cfg.MoodResolvers = "ai"
	if label, ok := buildResolver(cfg).Resolve(context.Background(), "joyful"); ok || label != "" {
		t.Fatalf("keyless ai chain should resolve nothing, got (%q, %v)", label, ok)
	}

	// With a key configured the chain holds both tiers; the keyword tier
	// still wins without touching the AI endpoint.
	cfg.MoodResolvers = "keyword,ai"
	cfg.OpenAI = config.OpenAIConfig{APIKey: "sk-test", Timeout: time.Second}
	if label, ok := buildResolver(cfg).Resolve(context.Background(), "so cheerful"); !ok || label != "Happy / Joyful" {
		t.Fatalf("mixed chain = (%q, %v)", label, ok)
	}
}

func TestRegisterRoutes_IdempotencyCallback_MissAndHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	cfg.APIBasePath = "/api/vX"
	db := newTestDB(t)
	RegisterRoutes(r, db, cfg)

	const userID = "u1"
	const key = "key-hit"

	// --- MISS: record does not exist ---
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// NoMethod is expected for POST /health, but middleware ran.

	// --- seed an idempotency record so the callback returns a count > 0 ---
	seed := &domain.Idempotency{
		ID:         "idem-seed-1",
		UserID:     userID,
		Action:     "liked a song",
		Key:        key,
		ActivityID: "a-1",
		Status:     201,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed idempotency: %v", err)
	}

	// --- HIT: record exists ---
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set("X-User-ID", userID)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// again, 405 is fine; goal is to drive the middleware branch.
}

func TestRegisterRoutes_IdempotencyCallback_ErrorBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := baseConfig()
	db := newTestDB(t)

	// Wire routes first...
	RegisterRoutes(r, db, cfg)

	// ...then force queries to fail by closing the underlying connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()

	// Now any repo.CountIdempotency call should error → drives (err != nil) branch.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set(middleware.HeaderIdempotencyKey, "force-error")
	r.ServeHTTP(w, req)

	// 405 is expected for POST /health; goal is to exercise the middleware branch.
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_LogsMaskUserIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)

	db := newTestDB(t)
	RegisterRoutes(r, db, baseConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-User-ID", "person@example.com")
	req.Header.Set("X-API-Key", "shhh")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	if strings.Contains(logs, "person@example.com") {
		t.Fatalf("caller identity leaked into logs: %s", logs)
	}
	if !strings.Contains(logs, `"X-User-Id":"[REDACTED]"`) {
		t.Fatalf("X-User-ID must be fully masked: %s", logs)
	}
	if !strings.Contains(logs, `"X-Api-Key":"[REDACTED]"`) {
		t.Fatalf("X-API-Key must be fully masked: %s", logs)
	}
}
