// Package publisher sends finished posts to the X (Twitter) v2 API.
package publisher

import (
	"fmt"
	"time"
)

// AuthError indicates the API rejected the credentials (401/403).
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("publish auth error: %s (status: %d)", e.Message, e.StatusCode)
}

// RateLimitedError indicates the API throttled the request (429).
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("publish rate limited, retry after %v", e.RetryAfter)
}

// NetworkError wraps transport-level failures.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("publish network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
