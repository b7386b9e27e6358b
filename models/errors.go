package models

import (
	"errors"
	"fmt"
)

// Error codes for the three failure kinds of a likes scrape.
const (
	// ErrCodeUpstreamHTTP: the post page answered with a non-2xx status.
	ErrCodeUpstreamHTTP = "UPSTREAM_HTTP_ERROR"
	// ErrCodeExtraction: the page was fetched but no like pattern matched.
	ErrCodeExtraction = "EXTRACTION_FAILED"
	// ErrCodeTransport: network, timeout or body read failure.
	ErrCodeTransport = "TRANSPORT_ERROR"
)

// UnknownErrorMessage is reported when a failure carries no message.
const UnknownErrorMessage = "Unknown error"

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string // caller-facing text placed in the envelope
	Status  int    // upstream status, set for ErrCodeUpstreamHTTP
	Err     error  // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewUpstreamHTTPError reports a non-success status from the post page.
func NewUpstreamHTTPError(status int) *ScrapeError {
	return &ScrapeError{
		Code:    ErrCodeUpstreamHTTP,
		Message: fmt.Sprintf("Threads returned HTTP %d", status),
		Status:  status,
	}
}

// NewExtractionError reports that no like pattern matched the page.
func NewExtractionError() *ScrapeError {
	return &ScrapeError{
		Code:    ErrCodeExtraction,
		Message: "Could not extract like count from page",
	}
}

// NewTransportError wraps a fetch or read failure. The message is the
// failure's own text, or UnknownErrorMessage when it has none.
func NewTransportError(err error) *ScrapeError {
	return &ScrapeError{
		Code:    ErrCodeTransport,
		Message: MessageOf(err),
		Err:     err,
	}
}

// MessageOf returns the caller-facing message for any error. ScrapeErrors
// yield their Message; other errors their Error() text.
func MessageOf(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}
	var se *ScrapeError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return UnknownErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
