package modeladapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// ErrTurnTimeout marks a reasoning turn that did not complete within the
// per-request timeout. It is recoverable: the orchestrator may retry the turn.
var ErrTurnTimeout = errors.New("reasoning engine timed out")

// RateLimitError is returned when the API responds with HTTP 429 (Too Many Requests).
// It carries an optional RetryAfter duration parsed from the Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("rate limited: %s", e.Body)
}

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date (RFC 7231). Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// ClassifyTimeout wraps err with ErrTurnTimeout when it was caused by a
// deadline or a network timeout. Other errors, including nil, pass through.
func ClassifyTimeout(err error) error {
	if err == nil || errors.Is(err, ErrTurnTimeout) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTurnTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTurnTimeout, err)
	}

	return err
}

// Retryable reports whether err is a recoverable turn failure and, for rate
// limits, how long the server asked to wait.
func Retryable(err error) (bool, time.Duration) {
	if errors.Is(err, ErrTurnTimeout) {
		return true, 0
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true, rl.RetryAfter
	}

	return false, 0
}
