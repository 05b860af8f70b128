// Package ghapi provides GitHub API client functionality.
//
// This file (retry.go) implements the retry wrapper with exponential backoff
// used around every GitHub API call. The policy is an explicit value rather
// than ambient configuration so callers (and tests) control attempt counts
// and delays.
package ghapi

import (
	"context"
	"math"
	"time"

	"github.com/pterm/pterm"
)

// Retry configuration defaults
const (
	defaultMaxAttempts = 3
	defaultBackoffBase = 1 * time.Second
	defaultBackoffMin  = 2 * time.Second
	defaultBackoffMax  = 10 * time.Second
)

// BackoffPolicy computes exponential retry delays: base * 2^attempt,
// clamped to [Min, Max].
type BackoffPolicy struct {
	Base time.Duration
	Min  time.Duration
	Max  time.Duration
}

// Delay returns the wait before retry number attempt (0-based: the delay
// taken after the first failure is Delay(0)).
func (b BackoffPolicy) Delay(attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt))) * b.Base
	if d < b.Min {
		d = b.Min
	}
	if d > b.Max {
		d = b.Max
	}
	return d
}

// RetryPolicy bundles the attempt budget, the backoff schedule, and the
// predicate deciding which errors are worth another attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffPolicy
	Retryable   func(error) bool
}

// DefaultRetryPolicy returns the policy used for all collector API calls:
// 3 attempts with 2s/4s backoff capped at 10s, retrying transient network
// errors, 5xx responses, and rate limit rejections.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		Backoff: BackoffPolicy{
			Base: defaultBackoffBase,
			Min:  defaultBackoffMin,
			Max:  defaultBackoffMax,
		},
		Retryable: IsRetryable,
	}
}

// doWithRetry runs op up to policy.MaxAttempts times, sleeping between
// attempts per the backoff schedule. Permanent errors (per the Retryable
// predicate) and context cancellation end the loop immediately. The last
// error is returned once the attempt budget is spent.
func doWithRetry[T any](ctx context.Context, policy RetryPolicy, endpoint string, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	retryable := policy.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := policy.Backoff.Delay(attempt - 1)
			pterm.Warning.Printf("⚠ Retrying %s in %v (attempt %d/%d)\n",
				endpoint, backoff, attempt+1, maxAttempts)

			// Sleep with context cancellation support
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}
	}

	return zero, lastErr
}
