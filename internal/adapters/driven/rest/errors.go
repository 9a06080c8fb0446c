package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 512

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	RequestID  string
}

// Error implements error.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is reports StatusError as a remote operation failure.
func (e *StatusError) Is(target error) bool {
	return target == domain.ErrRemoteOperationFailed
}

// NotFound returns true for 404 responses.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// RateLimitError is returned when the server answers 429.
type RateLimitError struct {
	RetryAt time.Time
}

// Error implements error.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by remote collection, retry after %s", e.RetryAt.Format(time.RFC3339))
}

// Is reports RateLimitError as a remote operation failure.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRemoteOperationFailed
}
