// Package collector orchestrates commit collection across repositories.
//
// This file (stats.go) computes per-repository and per-team aggregates plus
// the run metadata attached to every export.
package collector

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mona-actions/gh-commits/internal/config"
	"github.com/mona-actions/gh-commits/internal/output"
)

// CalculateRepositoryStats aggregates the commits collected from one
// repository. Returns nil for an empty commit set.
func CalculateRepositoryStats(repo, branch string, commits []output.CommitData) *output.RepositoryStats {
	if len(commits) == 0 {
		return nil
	}

	stats := &output.RepositoryStats{
		Repository:   repo,
		Branch:       branch,
		TotalCommits: len(commits),
	}

	authors := make(map[string]bool)
	teamSet := make(map[string]bool)
	for _, c := range commits {
		stats.Additions += c.Additions
		stats.Deletions += c.Deletions
		stats.FilesChanged += c.FilesChanged

		author := c.AuthorUsername
		if author == "" {
			author = c.AuthorEmail
		}
		if author != "" {
			authors[author] = true
		}
		if c.Team != "" {
			teamSet[c.Team] = true
		}

		if stats.FirstCommit.IsZero() || c.Date.Before(stats.FirstCommit) {
			stats.FirstCommit = c.Date
		}
		if c.Date.After(stats.LastCommit) {
			stats.LastCommit = c.Date
		}
	}

	stats.UniqueAuthors = len(authors)
	for team := range teamSet {
		stats.Teams = append(stats.Teams, team)
	}
	sort.Strings(stats.Teams)

	return stats
}

// CalculateTeamStats aggregates commit activity per team across all
// collected repositories.
func CalculateTeamStats(repos []output.RepositoryResult) []output.TeamStats {
	type teamAgg struct {
		stats   output.TeamStats
		authors map[string]bool
		repos   map[string]bool
	}

	byTeam := make(map[string]*teamAgg)
	for _, repo := range repos {
		for _, c := range repo.Commits {
			agg, ok := byTeam[c.Team]
			if !ok {
				agg = &teamAgg{
					stats:   output.TeamStats{Team: c.Team},
					authors: make(map[string]bool),
					repos:   make(map[string]bool),
				}
				byTeam[c.Team] = agg
			}
			agg.stats.Commits++
			agg.stats.Additions += c.Additions
			agg.stats.Deletions += c.Deletions
			if c.AuthorUsername != "" {
				agg.authors[c.AuthorUsername] = true
			}
			agg.repos[c.Repository] = true
		}
	}

	result := make([]output.TeamStats, 0, len(byTeam))
	for _, agg := range byTeam {
		for author := range agg.authors {
			agg.stats.Authors = append(agg.stats.Authors, author)
		}
		sort.Strings(agg.stats.Authors)
		for repo := range agg.repos {
			agg.stats.Repositories = append(agg.stats.Repositories, repo)
		}
		sort.Strings(agg.stats.Repositories)
		result = append(result, agg.stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Commits != result[j].Commits {
			return result[i].Commits > result[j].Commits
		}
		return result[i].Team < result[j].Team
	})

	return result
}

// BuildMetadata stamps a collection run with a fresh run ID, timestamp, and
// the filters that shaped it.
func BuildMetadata(collected, failed []string, totalCommits int, filters config.Filters, includePatch bool) output.CollectionMetadata {
	return output.CollectionMetadata{
		RunID:          uuid.NewString(),
		CollectedAt:    time.Now().UTC(),
		Repositories:   collected,
		TotalCommits:   totalCommits,
		FailedRepos:    failed,
		DateFrom:       filters.DateFrom,
		DateTo:         filters.DateTo,
		AuthorFilter:   filters.Author,
		IncludePatches: includePatch,
	}
}
