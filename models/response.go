package models

import "time"

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// LikesResponse is the envelope for GET /api/likes.
//
// Likes and PostText are always serialised, as null when unavailable, so the
// shape stays stable across success and failure. HTMLLength is only present
// on extraction failures.
type LikesResponse struct {
	// Error is set on every failure envelope.
	Error string `json:"error,omitempty"`

	Likes    *int    `json:"likes"`
	PostText *string `json:"postText"`

	// HTMLLength is the character count of the upstream body when no like
	// pattern matched. The body itself is never echoed.
	HTMLLength *int `json:"htmlLength,omitempty"`

	Timestamp string `json:"timestamp"`
}

// NewLikesResponse builds a success envelope.
func NewLikesResponse(likes int, postText *string, now time.Time) LikesResponse {
	return LikesResponse{
		Likes:     &likes,
		PostText:  postText,
		Timestamp: FormatTimestamp(now),
	}
}

// NewErrorResponse builds a failure envelope. htmlLength is nil except for
// extraction failures.
func NewErrorResponse(message string, htmlLength *int, now time.Time) LikesResponse {
	return LikesResponse{
		Error:      message,
		HTMLLength: htmlLength,
		Timestamp:  FormatTimestamp(now),
	}
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Version   string `json:"version"`
	TargetURL string `json:"target_url"`
}
