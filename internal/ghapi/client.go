// Package ghapi provides GitHub API client functionality.
//
// This file (client.go) implements the HTTP client for the GitHub REST API.
// Every request is bearer-authenticated, throttled against the rate limit
// snapshot, and wrapped in the retry policy. Rate limit headers from each
// response keep the snapshot current.
package ghapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/mona-actions/gh-commits/internal/state"
)

// Client configuration constants
const (
	defaultBaseURL         = "https://api.github.com"
	defaultTimeout         = 30 * time.Second
	defaultRateLimitBuffer = 10
	maxRateLimitSleep      = 2 * time.Hour
	// resetSlack is added to rate limit sleeps so the window has actually
	// rolled over when we resume.
	resetSlack = 1 * time.Second
)

// RateLimitInfo is the client's view of the REST rate limit, taken from the
// X-RateLimit-* headers of the most recent response. A zero Limit means no
// response has been observed yet.
type RateLimitInfo struct {
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// Config holds the settings for constructing a Client.
type Config struct {
	// Token is the GitHub personal access token. Required.
	Token string
	// BaseURL overrides the API endpoint, used for GitHub Enterprise and tests.
	// Defaults to https://api.github.com.
	BaseURL string
	// Timeout is the per-request HTTP timeout. Defaults to 30s.
	Timeout time.Duration
	// Retry is the retry policy applied to every API call.
	// Zero value means DefaultRetryPolicy.
	Retry RetryPolicy
	// RateLimitBuffer is the remaining-requests threshold at which the client
	// sleeps until the rate limit window resets. Defaults to 10.
	RateLimitBuffer int64
}

// Client is a GitHub REST API client. All methods are safe for concurrent use.
type Client struct {
	baseURL         string
	token           string
	httpClient      *http.Client
	retry           RetryPolicy
	rateLimitBuffer int64

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// NewClient builds a Client from cfg. The token is the only required field.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 && retry.Retryable == nil {
		retry = DefaultRetryPolicy()
	}
	buffer := cfg.RateLimitBuffer
	if buffer <= 0 {
		buffer = defaultRateLimitBuffer
	}

	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		token:           cfg.Token,
		httpClient:      &http.Client{Timeout: timeout},
		retry:           retry,
		rateLimitBuffer: buffer,
	}, nil
}

// RateLimit returns the current rate limit snapshot (thread-safe).
func (c *Client) RateLimit() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

// updateRateLimit records the X-RateLimit-* headers from a response and
// mirrors them into the global status for progress display. Missing or
// malformed headers leave the snapshot untouched.
func (c *Client) updateRateLimit(header http.Header) {
	limitStr := header.Get("X-RateLimit-Limit")
	remainingStr := header.Get("X-RateLimit-Remaining")
	if limitStr == "" || remainingStr == "" {
		return
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		return
	}
	remaining, err := strconv.ParseInt(remainingStr, 10, 64)
	if err != nil {
		return
	}

	var reset time.Time
	if resetStr := header.Get("X-RateLimit-Reset"); resetStr != "" {
		if epoch, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			reset = time.Unix(epoch, 0)
		}
	}

	c.rateLimitMu.Lock()
	c.rateLimit = RateLimitInfo{Limit: limit, Remaining: remaining, Reset: reset}
	c.rateLimitMu.Unlock()

	state.Get().UpdateRateLimit(limit, remaining, reset)
}

// waitForRateLimit blocks until the rate limit snapshot shows enough headroom
// to issue another request. When remaining is at or below the safety buffer
// it sleeps until the reset time plus a small slack, honoring context
// cancellation. An unknown snapshot (no response seen yet) passes through.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	info := c.RateLimit()
	if info.Limit == 0 || info.Remaining > c.rateLimitBuffer {
		return nil
	}

	wait := time.Until(info.Reset) + resetSlack
	if wait <= 0 {
		// Reset already passed, likely clock skew. Proceed and let the next
		// response refresh the snapshot.
		return nil
	}
	if wait > maxRateLimitSleep {
		return fmt.Errorf("rate limit exhausted (%d remaining) and reset is too far away (%v)",
			info.Remaining, wait.Round(time.Minute))
	}

	pterm.Warning.Printf("⚠ Rate limit low (%d remaining, buffer %d). Sleeping %v until reset at %s\n",
		info.Remaining, c.rateLimitBuffer, wait.Round(time.Second), info.Reset.Format("15:04:05"))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}

	// Clear the stale snapshot so the next response re-establishes it
	c.rateLimitMu.Lock()
	c.rateLimit = RateLimitInfo{}
	c.rateLimitMu.Unlock()

	return nil
}

// doRequest issues one HTTP GET and classifies the response. Success returns
// the raw body; failures return typed errors so the retry predicate can tell
// transient conditions from permanent ones.
func (c *Client) doRequest(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.updateRateLimit(resp.Header)
	state.Get().IncrementAPICalls()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	if isRateLimitResponse(resp.StatusCode, string(body)) {
		var reset time.Time
		if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
			if epoch, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
				reset = time.Unix(epoch, 0)
			}
		}
		return nil, &RateLimitError{Endpoint: endpoint, Reset: reset}
	}

	return nil, &HTTPError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: string(body)}
}

// getJSON performs a throttled, retried GET and decodes the body into out.
// This is the centralized helper ensuring ALL API calls share the same
// throttling and retry behavior.
//
// Parameters:
//   - ctx: Context for cancellation
//   - endpoint: API path (e.g., "/repos/octocat/hello-world")
//   - query: Optional query parameters, may be nil
//   - out: Destination for the decoded JSON body, may be nil to discard
//
// Returns:
//   - error: Non-nil if retries are exhausted or the failure is permanent
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	body, err := doWithRetry(ctx, c.retry, endpoint, func() ([]byte, error) {
		if err := c.waitForRateLimit(ctx); err != nil {
			return nil, err
		}
		return c.doRequest(ctx, endpoint, query)
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", endpoint, err)
	}
	return nil
}

// GetRepository fetches repository metadata, including the default branch.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var repository Repository
	endpoint := fmt.Sprintf("/repos/%s/%s", owner, repo)
	if err := c.getJSON(ctx, endpoint, nil, &repository); err != nil {
		return nil, err
	}
	return &repository, nil
}

// TestConnection verifies the token by fetching the authenticated user.
func (c *Client) TestConnection(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/user", nil, &user); err != nil {
		return nil, fmt.Errorf("connection test failed: %w", err)
	}
	return &user, nil
}

// GetRateLimit fetches the current rate limit status from /rate_limit.
// The call itself does not count against the quota.
func (c *Client) GetRateLimit(ctx context.Context) (*RateLimitResponse, error) {
	var response RateLimitResponse
	if err := c.getJSON(ctx, "/rate_limit", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch rate limit: %w", err)
	}
	return &response, nil
}
