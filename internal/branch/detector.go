// Package branch resolves which branch to collect commits from.
//
// This file (detector.go) implements default branch detection with caching,
// branch existence validation, and the fallback chain used when neither the
// configured branch nor the repository default can be confirmed. Resolution
// never fails: every path ends in a usable branch name.
package branch

import (
	"context"
	"sync"

	"github.com/pterm/pterm"

	"github.com/mona-actions/gh-commits/internal/ghapi"
)

// fallbackCandidates are probed in order when neither the requested branch
// nor the detected default can be validated.
var fallbackCandidates = []string{"main", "master", "develop", "trunk"}

// lastResortBranch is returned when every detection and validation attempt
// has failed.
const lastResortBranch = "main"

// API is the subset of the GitHub client the detector needs.
type API interface {
	GetRepository(ctx context.Context, owner, repo string) (*ghapi.Repository, error)
	ListCommits(ctx context.Context, owner, repo string, opts ghapi.ListCommitsOptions) ([]ghapi.CommitSummary, error)
}

// Detector resolves branches against the GitHub API, caching detected
// defaults per repository. Safe for concurrent use.
type Detector struct {
	api API

	mu    sync.Mutex
	cache map[string]string // "owner/repo" -> detected default branch
}

// NewDetector returns a Detector backed by the given API client.
func NewDetector(api API) *Detector {
	return &Detector{
		api:   api,
		cache: make(map[string]string),
	}
}

// DetectDefaultBranch returns the repository's default branch. Results are
// cached per repository so repeated resolutions cost a single API call.
// Detection never fails: when the repository lookup errors or reports no
// default branch, "main" is returned (uncached, so a transient failure does
// not stick).
func (d *Detector) DetectDefaultBranch(ctx context.Context, owner, repo string) string {
	key := owner + "/" + repo

	d.mu.Lock()
	if cached, ok := d.cache[key]; ok {
		d.mu.Unlock()
		return cached
	}
	d.mu.Unlock()

	repository, err := d.api.GetRepository(ctx, owner, repo)
	if err != nil {
		pterm.Debug.Printf("Default branch lookup failed for %s: %v\n", key, err)
		return lastResortBranch
	}
	if repository.DefaultBranch == "" {
		return lastResortBranch
	}

	d.mu.Lock()
	d.cache[key] = repository.DefaultBranch
	d.mu.Unlock()

	return repository.DefaultBranch
}

// ValidateBranch reports whether the branch exists and carries at least one
// commit, probing the commit list with a single-commit page. Errors are
// swallowed and read as "not valid", as is an empty commit list.
func (d *Detector) ValidateBranch(ctx context.Context, owner, repo, branch string) bool {
	commits, err := d.api.ListCommits(ctx, owner, repo, ghapi.ListCommitsOptions{
		Branch:  branch,
		PerPage: 1,
		Limit:   1,
	})
	if err != nil {
		pterm.Debug.Printf("Branch %q not usable for %s/%s: %v\n", branch, owner, repo, err)
		return false
	}
	return len(commits) > 0
}

// ResolveWithFallback picks the branch to collect from, in priority order:
//
//  1. The preferred branch, when given and valid.
//  2. The repository's detected default branch, when valid.
//  3. The first valid candidate among main, master, develop, trunk. A chain
//     hit is cached so later resolutions skip the search.
//  4. "main", unvalidated, as the last resort.
//
// Resolution never returns an error; the orchestrator surfaces problems when
// the actual commit listing fails.
func (d *Detector) ResolveWithFallback(ctx context.Context, owner, repo, preferred string) string {
	if preferred != "" && d.ValidateBranch(ctx, owner, repo, preferred) {
		return preferred
	}
	if preferred != "" {
		pterm.Warning.Printf("⚠ Branch %q not found in %s/%s, falling back\n", preferred, owner, repo)
	}

	detected := d.DetectDefaultBranch(ctx, owner, repo)
	if detected != preferred && d.ValidateBranch(ctx, owner, repo, detected) {
		return detected
	}

	for _, candidate := range fallbackCandidates {
		if candidate == preferred || candidate == detected {
			continue
		}
		if d.ValidateBranch(ctx, owner, repo, candidate) {
			d.mu.Lock()
			d.cache[owner+"/"+repo] = candidate
			d.mu.Unlock()
			return candidate
		}
	}

	return lastResortBranch
}

// ClearCache drops all cached default branches.
func (d *Detector) ClearCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = make(map[string]string)
}
