package request_queue

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrStopped is returned for requests that were queued when the service stopped
	ErrStopped = errors.New("request queue stopped")

	// ErrPanic wraps a panic recovered while executing a single request
	ErrPanic = errors.New("request panicked")

	// ErrUnexpectedType is returned by Fetch when a cached value has another type
	ErrUnexpectedType = errors.New("unexpected value type")
)

// StatusError is returned by transports when the backend answered with a non-2xx status
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s failed with status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// NetworkError is returned by transports when no response was received
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryableStatus reports whether an HTTP status is worth another attempt
func IsRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		(statusCode >= http.StatusInternalServerError && statusCode <= http.StatusGatewayTimeout)
}

// ShouldRetry classifies err as transient (true) or terminal (false).
// Transient: 429 and 500-504 responses, network failures without a response
// and attempts cut by the per-call timeout.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return IsRetryableStatus(statusErr.StatusCode)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
