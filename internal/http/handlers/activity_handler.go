// Activity HTTP handlers.
//
// This file exposes the activity history over REST:
//   - POST /activity   (append one entry; Idempotency-Key honored)
//   - GET  /activity   (recent entries for one user, ETag support)
//
// The submission endpoint cooperates with the idempotency middleware: a
// replayed request returns the originally inserted entry instead of writing a
// duplicate row.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodrec/go-mood-backend/internal/domain"
	"github.com/moodrec/go-mood-backend/internal/http/middleware"
	"github.com/moodrec/go-mood-backend/internal/repo"
)

//
// DTOs
//

// LogActivityRequest is the JSON payload for recording one activity entry.
type LogActivityRequest struct {
	// UserID identifies the actor; opaque id or email.
	UserID string `json:"user_id" binding:"required" example:"alice@example.com"`
	// Action describes what happened.
	Action string `json:"action" binding:"required" example:"searched for movies"`
	// Mood optionally scopes the action to a mood label.
	Mood string `json:"mood" example:"Happy / Joyful"`
}

// LogActivityResponse confirms a recorded (or replayed) entry.
type LogActivityResponse struct {
	Status   string              `json:"status" example:"success"`
	Activity *domain.ActivityLog `json:"activity"`
}

// ActivityHistoryResponse wraps a user's recent activity entries.
type ActivityHistoryResponse struct {
	Activities []domain.ActivityLog `json:"activities"`
}

//
// Handlers
//

// LogActivity godoc
// @ID          logActivity
// @Summary     Record a user activity
// @Description Appends one activity entry. Supply an Idempotency-Key header to make client retries safe; a replay returns the original entry.
// @Tags        Activity
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Client-generated retry key"
// @Param       body             body    handlers.LogActivityRequest  true  "Activity payload"
//
// @Success     201  {object}  handlers.LogActivityResponse
// @Success     200  {object}  handlers.LogActivityResponse  "Replayed entry"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing user_id or action"
// @Failure     500  {object}  handlers.ErrorResponse  "Store failure"
// @Router      /activity [post]
func (h *Handlers) LogActivity(c *gin.Context) {
	var req LogActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id and action are required")
		return
	}
	ctx := c.Request.Context()

	// Serve a replay without re-executing the insert. The lookup is keyed on
	// the full (user, action, key) triple, so it stays authoritative even when
	// the middleware could not pre-flag the replay (identity only in body).
	db := h.db
	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && db != nil {
		if rec, err := repo.GetIdempotency(ctx, db, req.UserID, req.Action, key, time.Now().UTC()); err == nil {
			if entry, err := repo.GetActivityByID(ctx, db, rec.ActivityID); err == nil {
				ok(c, rec.Status, LogActivityResponse{Status: "success", Activity: entry})
				return
			}
		}
		// Stored replay unavailable; fall through and record normally.
	}

	entry, err := h.activitySvc.Record(ctx, req.UserID, req.Action, req.Mood)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeRecordFailed, err.Error())
		return
	}

	if hasKey && db != nil {
		if err := repo.CreateIdempotency(ctx, db, req.UserID, req.Action, key, entry.ID, http.StatusCreated, 24*time.Hour); err != nil {
			lg := middleware.LoggerFrom(c)
			lg.Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, LogActivityResponse{Status: "success", Activity: entry})
}

// RecentActivity godoc
// @ID          recentActivity
// @Summary     Recent activity for a user
// @Description Returns the user's newest entries, most recent first. Supports weak ETag via If-None-Match and may return 304. A missing user_id yields an empty list.
// @Tags        Activity
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       user_id        query   string  false "User ID (opaque or email)"  example(alice@example.com)
// @Param       limit          query   int     false "Maximum entries"            minimum(1) default(10)
//
// @Success     200  {object} handlers.ActivityHistoryResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Store failure"
// @Router      /activity [get]
func (h *Handlers) RecentActivity(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c, c.Query("user_id"))
	limit := limitQuery(c, 10)

	// ETag pre-check (best effort).
	if db := h.db; db != nil && uid != "" {
		count, maxTS, err := repo.ActivityStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"activity:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	entries, err := h.activitySvc.Recent(ctx, uid, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ActivityHistoryResponse{Activities: entries})
}
