// Package quotes provides a client for the Yahoo Finance chart API.
// This package centralizes all quote-source interactions for the agent.
package quotes

import (
	"fmt"
	"time"
)

// DataUnavailableError indicates a symbol's quotes could not be fetched.
// Callers skip the affected symbol for the current cycle; the error is never
// fatal to the cycle.
type DataUnavailableError struct {
	Symbol     string
	StatusCode int
	Message    string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("quote data unavailable for %s: %s (status: %d)", e.Symbol, e.Message, e.StatusCode)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("quote source rate limit exceeded, retry after %v", e.RetryAfter)
}
