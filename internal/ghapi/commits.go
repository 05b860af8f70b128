// Package ghapi provides GitHub API client functionality.
//
// This file (commits.go) implements commit listing and detail fetching.
// Listing walks the paginated commits endpoint page by page; detail fetches
// retrieve per-commit statistics and file changes one commit at a time.
package ghapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// maxPerPage is the largest page size the commits endpoint accepts.
const maxPerPage = 100

// ListCommitsOptions narrows a commit listing. Zero values are omitted from
// the request.
type ListCommitsOptions struct {
	// Branch is the sha/branch to list from. Empty lists the default branch.
	Branch string
	// Since and Until bound the commit dates (inclusive, ISO 8601 on the wire).
	Since time.Time
	Until time.Time
	// Author filters by GitHub login or email address.
	Author string
	// PerPage overrides the page size, capped at 100. Zero means 100.
	PerPage int
	// Limit stops the listing after this many commits. Zero means unlimited.
	Limit int
}

// ListCommits fetches the commit list for a repository, following pagination
// until a short or empty page signals the end (or Limit is reached).
//
// Parameters:
//   - ctx: Context for cancellation
//   - owner, repo: Repository coordinates
//   - opts: Listing filters and bounds
//
// Returns:
//   - All matching commit summaries in API order (newest first)
//   - Error if any page request fails after retries
func (c *Client) ListCommits(ctx context.Context, owner, repo string, opts ListCommitsOptions) ([]CommitSummary, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/commits", owner, repo)

	perPage := opts.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	var commits []CommitSummary
	for page := 1; ; page++ {
		select {
		case <-ctx.Done():
			return commits, ctx.Err()
		default:
		}

		query := url.Values{}
		query.Set("per_page", strconv.Itoa(perPage))
		query.Set("page", strconv.Itoa(page))
		if opts.Branch != "" {
			query.Set("sha", opts.Branch)
		}
		if !opts.Since.IsZero() {
			query.Set("since", opts.Since.UTC().Format(time.RFC3339))
		}
		if !opts.Until.IsZero() {
			query.Set("until", opts.Until.UTC().Format(time.RFC3339))
		}
		if opts.Author != "" {
			query.Set("author", opts.Author)
		}

		var pageCommits []CommitSummary
		if err := c.getJSON(ctx, endpoint, query, &pageCommits); err != nil {
			return nil, fmt.Errorf("listing commits for %s/%s page %d: %w", owner, repo, page, err)
		}

		if len(pageCommits) == 0 {
			break
		}

		commits = append(commits, pageCommits...)

		if opts.Limit > 0 && len(commits) >= opts.Limit {
			commits = commits[:opts.Limit]
			break
		}

		// A short page is the last one
		if len(pageCommits) < perPage {
			break
		}
	}

	return commits, nil
}

// GetCommit fetches the full detail for a single commit, including aggregate
// stats and the per-file change list.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*CommitDetail, error) {
	var detail CommitDetail
	endpoint := fmt.Sprintf("/repos/%s/%s/commits/%s", owner, repo, sha)
	if err := c.getJSON(ctx, endpoint, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
