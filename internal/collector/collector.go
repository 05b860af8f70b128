// Package collector orchestrates commit collection across repositories.
//
// This file (collector.go) implements the collection run: per-repository
// branch resolution, paginated commit listing, per-commit detail enrichment,
// and the skip-on-failure policy that keeps one bad repository from sinking
// the run.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"github.com/mona-actions/gh-commits/internal/config"
	"github.com/mona-actions/gh-commits/internal/ghapi"
	"github.com/mona-actions/gh-commits/internal/output"
	"github.com/mona-actions/gh-commits/internal/state"
	"github.com/mona-actions/gh-commits/internal/teams"
)

// GitHubAPI is the subset of the API client the collector needs.
type GitHubAPI interface {
	ListCommits(ctx context.Context, owner, repo string, opts ghapi.ListCommitsOptions) ([]ghapi.CommitSummary, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*ghapi.CommitDetail, error)
}

// BranchResolver picks the branch to collect from for a repository.
type BranchResolver interface {
	ResolveWithFallback(ctx context.Context, owner, repo, preferred string) string
}

// Target is one repository to collect, with its optional branch override and
// per-repository filters.
type Target struct {
	URL     string
	Branch  string
	Filters config.Filters
}

// Options controls how commits are collected.
type Options struct {
	// IncludeDetails fetches per-commit stats and file changes. Costs one
	// extra API call per commit.
	IncludeDetails bool
	// IncludePatch carries patch text into the file change records.
	IncludePatch bool
	// PerPage overrides the listing page size. Zero means the API maximum.
	PerPage int
	// Limit caps the commits collected per repository. Zero means unlimited.
	Limit int
}

// Collector runs commit collection against a set of repositories.
type Collector struct {
	api      GitHubAPI
	branches BranchResolver
	teams    *teams.Mapper
	opts     Options
}

// New builds a Collector. A nil mapper gets an empty one so attribution
// falls through to the default team.
func New(api GitHubAPI, branches BranchResolver, mapper *teams.Mapper, opts Options) *Collector {
	if mapper == nil {
		mapper = teams.NewMapper(nil, "")
	}
	return &Collector{
		api:      api,
		branches: branches,
		teams:    mapper,
		opts:     opts,
	}
}

// parseFilterDate parses a filter date given as YYYY-MM-DD or RFC 3339.
// Date-only "until" values are extended to the end of that day so the bound
// is inclusive.
func parseFilterDate(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC 3339)", value)
	}
	return t.UTC(), nil
}

// CollectRepository collects all commits for one target.
//
// The branch is resolved first: an explicitly configured branch is still
// validated and falls back if it does not exist. A failing per-commit detail
// fetch demotes that commit to its listing summary instead of failing the
// repository.
func (c *Collector) CollectRepository(ctx context.Context, target Target, global config.Filters) (*output.RepositoryResult, error) {
	owner, name, err := ParseRepoURL(target.URL)
	if err != nil {
		return nil, err
	}
	fullName := owner + "/" + name

	filters := global.Merge(target.Filters)
	since, err := parseFilterDate(filters.DateFrom, false)
	if err != nil {
		return nil, fmt.Errorf("date_from for %s: %w", fullName, err)
	}
	until, err := parseFilterDate(filters.DateTo, true)
	if err != nil {
		return nil, fmt.Errorf("date_to for %s: %w", fullName, err)
	}

	branch := c.branches.ResolveWithFallback(ctx, owner, name, target.Branch)
	output.PrintRepoHeader(fullName, branch)

	summaries, err := c.api.ListCommits(ctx, owner, name, ghapi.ListCommitsOptions{
		Branch:  branch,
		Since:   since,
		Until:   until,
		Author:  filters.Author,
		PerPage: c.opts.PerPage,
		Limit:   c.opts.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("collecting commits from %s: %w", fullName, err)
	}

	pterm.Info.Printf("Found %d commits on %s\n", len(summaries), branch)

	commits := make([]output.CommitData, 0, len(summaries))
	for _, summary := range summaries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !c.opts.IncludeDetails {
			commits = append(commits, processSummary(fullName, branch, summary, c.teams))
			continue
		}

		detail, err := c.api.GetCommit(ctx, owner, name, summary.SHA)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			pterm.Warning.Printf("⚠ Detail fetch failed for %s@%s, keeping summary data: %v\n",
				fullName, shortSHA(summary.SHA), err)
			commits = append(commits, processSummary(fullName, branch, summary, c.teams))
			continue
		}
		commits = append(commits, processDetail(fullName, branch, detail, c.teams, c.opts.IncludePatch))
	}

	state.Get().AddCommits(len(commits))

	return &output.RepositoryResult{
		Repository: fullName,
		Branch:     branch,
		Commits:    commits,
		Stats:      CalculateRepositoryStats(fullName, branch, commits),
	}, nil
}

// CollectAll collects every target in order. A failing repository is logged
// and skipped; the run continues with the rest. Cancellation stops the loop
// and returns whatever was collected so far.
func (c *Collector) CollectAll(ctx context.Context, targets []Target, global config.Filters) *output.CollectionResult {
	state.Get().AddRepos(len(targets))

	result := &output.CollectionResult{
		Repositories: make([]output.RepositoryResult, 0, len(targets)),
	}
	var collected, failed []string

	for _, target := range targets {
		select {
		case <-ctx.Done():
			pterm.Warning.Println("⚠ Collection interrupted, exporting partial results")
			return c.finish(result, collected, failed, global)
		default:
		}

		repoResult, err := c.CollectRepository(ctx, target, global)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				pterm.Warning.Println("⚠ Collection interrupted, exporting partial results")
				return c.finish(result, collected, append(failed, target.URL), global)
			}
			failed = append(failed, target.URL)
			state.Get().PrintRepo(target.URL, false, err.Error())
			continue
		}

		result.Repositories = append(result.Repositories, *repoResult)
		collected = append(collected, repoResult.Repository)
		state.Get().PrintRepo(repoResult.Repository, true, "")
		if repoResult.Stats != nil {
			output.PrintRepoResult(*repoResult.Stats)
		}
	}

	return c.finish(result, collected, failed, global)
}

// finish stamps the run metadata onto a (possibly partial) result.
func (c *Collector) finish(result *output.CollectionResult, collected, failed []string, global config.Filters) *output.CollectionResult {
	total := 0
	for _, repo := range result.Repositories {
		total += len(repo.Commits)
	}
	result.Metadata = BuildMetadata(collected, failed, total, global, c.opts.IncludePatch)
	return result
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
