// Package state provides global state tracking for collection progress.
//
// This package manages run-wide counters for the gh-commits tool: repository
// progress, commit counts, API call counts, and a display copy of the rate
// limit. Throttling decisions live in the API client; this package only
// reports.
//
// Key features:
//   - Thread-safe progress tracking for repositories and commits
//   - API call count tracking for usage reporting
//   - Rate limit display snapshot
package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// RateLimitInfo holds the REST API rate limit figures shown in progress output.
//
// Thread-safety: protected by Status.rateLimitMu when accessed through Status
// methods. A zero Limit indicates no rate limit data has been observed yet.
type RateLimitInfo struct {
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// Status tracks the progress and API call counts for the current run.
//
// Thread-safety: all methods are safe for concurrent use. Simple counters use
// atomic operations; the rate limit struct uses an RWMutex because it needs
// consistent multi-field reads.
type Status struct {
	repoTotal        int64
	repoDone         int64
	commitsCollected int64
	apiCalls         int64

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

var global = &Status{}

// Get returns the global Status instance for tracking progress and API calls.
func Get() *Status {
	return global
}

// Reset clears all counters. Intended for tests.
func (s *Status) Reset() {
	atomic.StoreInt64(&s.repoTotal, 0)
	atomic.StoreInt64(&s.repoDone, 0)
	atomic.StoreInt64(&s.commitsCollected, 0)
	atomic.StoreInt64(&s.apiCalls, 0)
	s.rateLimitMu.Lock()
	s.rateLimit = RateLimitInfo{}
	s.rateLimitMu.Unlock()
}

// PrintRepo prints the status of a processed repository (success or warning)
// and increments the done count.
func (s *Status) PrintRepo(repoName string, success bool, errMsg string) {
	if success {
		pterm.Success.Printf("✓ %s\n", repoName)
	} else {
		if errMsg != "" {
			pterm.Warning.Printf("⚠ %s: %s\n", repoName, errMsg)
		} else {
			pterm.Warning.Printf("⚠ %s\n", repoName)
		}
	}
	atomic.AddInt64(&s.repoDone, 1)
}

// AddRepos increments the total repository count (thread-safe).
func (s *Status) AddRepos(n int) {
	atomic.AddInt64(&s.repoTotal, int64(n))
}

// AddCommits increments the collected commit count (thread-safe).
func (s *Status) AddCommits(n int) {
	atomic.AddInt64(&s.commitsCollected, int64(n))
}

// IncrementAPICalls increments the API call count (thread-safe).
func (s *Status) IncrementAPICalls() {
	atomic.AddInt64(&s.apiCalls, 1)
}

// GetAPICalls returns the current API call count (thread-safe).
func (s *Status) GetAPICalls() int64 {
	return atomic.LoadInt64(&s.apiCalls)
}

// GetCommits returns the collected commit count (thread-safe).
func (s *Status) GetCommits() int64 {
	return atomic.LoadInt64(&s.commitsCollected)
}

// UpdateRateLimit updates the rate limit display snapshot (thread-safe).
func (s *Status) UpdateRateLimit(limit, remaining int64, reset time.Time) {
	s.rateLimitMu.Lock()
	defer s.rateLimitMu.Unlock()
	s.rateLimit = RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		Reset:     reset,
	}
}

// GetRateLimit returns the current rate limit snapshot (thread-safe).
func (s *Status) GetRateLimit() RateLimitInfo {
	s.rateLimitMu.RLock()
	defer s.rateLimitMu.RUnlock()
	return s.rateLimit
}

// PrintRateLimit prints the current rate limit status.
func (s *Status) PrintRateLimit() {
	rateLimit := s.GetRateLimit()
	if rateLimit.Limit == 0 {
		return
	}

	used := rateLimit.Limit - rateLimit.Remaining

	reset := "unknown"
	if !rateLimit.Reset.IsZero() {
		reset = rateLimit.Reset.Format("15:04:05")
	}

	pterm.Info.Printf("%d/%d calls used | %d remaining | resets at: %s\n",
		used, rateLimit.Limit, rateLimit.Remaining, reset)
}

// MarkDone prints a final summary of the run.
func (s *Status) MarkDone() {
	repoDone := atomic.LoadInt64(&s.repoDone)
	repoTotal := atomic.LoadInt64(&s.repoTotal)
	commits := atomic.LoadInt64(&s.commitsCollected)
	apiCalls := atomic.LoadInt64(&s.apiCalls)

	pterm.Success.Printf("✓ Complete! Processed %d/%d repos | %d commits | %d API calls\n",
		repoDone, repoTotal, commits, apiCalls)
}
