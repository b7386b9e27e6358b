package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/threadlikes/extract"
	"github.com/use-agent/threadlikes/models"
	"github.com/use-agent/threadlikes/scraper"
)

// clock is swapped in tests.
var clock = time.Now

// successCacheControl lets downstream caches reuse a like count briefly.
const successCacheControl = "public, max-age=5"

// Likes returns a handler for GET /api/likes.
//
// Orchestration flow:
//  1. Fetcher.Fetch        → upstream status + HTML   (transport failure → 500)
//  2. Non-2xx status       → 502 naming the status
//  3. extract.Extract      → like count, post text   (independent)
//  4. No like count        → 502 with the HTML length
//  5. Like count found     → 200 + Cache-Control
func Likes(f scraper.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		// ── 1. Fetch ────────────────────────────────────────────────
		page, err := f.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// Caller is gone: no envelope is written. gin still
				// flushes a bare status line on return.
				slog.Info("likes request cancelled", "error", ctx.Err())
				c.Abort()
				return
			}
			var se *models.ScrapeError
			if !errors.As(err, &se) {
				se = models.NewTransportError(err)
			}
			slog.Error("upstream fetch failed", "error", err)
			respondError(c, se, nil)
			return
		}

		// ── 2. Upstream status ──────────────────────────────────────
		if !page.OK() {
			respondError(c, models.NewUpstreamHTTPError(page.StatusCode), nil)
			return
		}

		// ── 3. Extract ──────────────────────────────────────────────
		res := extract.Extract(page.HTML)

		// ── 4. Pattern drift ────────────────────────────────────────
		if res.Likes == nil {
			n := extract.HTMLLength(page.HTML)
			respondError(c, models.NewExtractionError(), &n)
			return
		}

		// ── 5. Success ──────────────────────────────────────────────
		slog.Info("likes scraped",
			"likes", *res.Likes,
			"likesPattern", res.LikesPattern,
			"textPattern", res.TextPattern,
			"elapsed", time.Since(start),
		)
		c.Header("Cache-Control", successCacheControl)
		writeJSON(c, http.StatusOK, models.NewLikesResponse(*res.Likes, res.PostText, clock()))
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// the failure envelope.
func respondError(c *gin.Context, se *models.ScrapeError, htmlLength *int) {
	status := mapErrorToStatus(se)
	slog.Warn("likes request failed",
		"code", se.Code,
		"status", status,
		"message", se.Message,
	)
	writeJSON(c, status, models.NewErrorResponse(models.MessageOf(se), htmlLength, clock()))
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeUpstreamHTTP, models.ErrCodeExtraction:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}

// writeJSON writes v with a bare application/json content type. PureJSON
// keeps <, > and & in post text unescaped.
func writeJSON(c *gin.Context, status int, v any) {
	c.Header("Content-Type", "application/json")
	c.PureJSON(status, v)
}
