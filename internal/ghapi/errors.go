// Package ghapi provides GitHub API client functionality.
//
// This file (errors.go) defines the error taxonomy for GitHub API calls and
// the classification rules that decide which failures are worth retrying.
package ghapi

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// HTTPError is returned when the API responds with a non-2xx status code.
type HTTPError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GitHub API request to %s failed with status %d: %s", e.Endpoint, e.StatusCode, truncateBody(e.Body))
}

// RateLimitError is returned when GitHub rejects a request because the
// primary rate limit is exhausted. Reset is the time the quota renews,
// zero when the response did not carry a usable reset header.
type RateLimitError struct {
	Endpoint string
	Reset    time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return fmt.Sprintf("GitHub API rate limit exceeded for %s", e.Endpoint)
	}
	return fmt.Sprintf("GitHub API rate limit exceeded for %s (resets at %s)", e.Endpoint, e.Reset.Format("15:04:05"))
}

// maxErrorBodyLen caps response bodies embedded in error messages
const maxErrorBodyLen = 200

func truncateBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxErrorBodyLen {
		return body[:maxErrorBodyLen] + "..."
	}
	return body
}

// isRateLimitResponse reports whether a 403 response is actually a rate limit
// rejection. GitHub signals primary rate limits with 403 plus a "rate limit"
// mention in the body, secondary limits with 429 or "abuse" wording.
func isRateLimitResponse(statusCode int, body string) bool {
	if statusCode == 429 {
		return true
	}
	if statusCode != 403 {
		return false
	}
	bodyLower := strings.ToLower(body)
	return strings.Contains(bodyLower, "rate limit") ||
		strings.Contains(bodyLower, "abuse")
}

// IsRetryable reports whether an API call that produced err should be retried.
//
// Retryable failures:
//   - network errors and timeouts (net.Error, connection reset, EOF)
//   - server errors (500, 502, 503, 504)
//   - rate limit rejections (the retry wait gives the limiter room to recover)
//
// Client errors such as 404 and 401 are permanent and returned immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case 500, 502, 503, 504:
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "TLS handshake")
}
