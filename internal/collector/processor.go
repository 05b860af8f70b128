// Package collector orchestrates commit collection across repositories.
//
// This file (processor.go) converts raw API payloads into normalized commit
// records, attributes them to teams, and applies post-collection filters.
package collector

import (
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/mona-actions/gh-commits/internal/ghapi"
	"github.com/mona-actions/gh-commits/internal/output"
	"github.com/mona-actions/gh-commits/internal/teams"
)

// parseCommitDate parses the RFC 3339 date GitHub reports for a commit
// author. An unparsable date falls back to the current time rather than
// dropping the commit.
func parseCommitDate(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		pterm.Debug.Printf("Unparsable commit date %q, using current time\n", value)
		return time.Now().UTC()
	}
	return t
}

// username extracts the GitHub login from a listing entry. Commits whose
// author has no GitHub account (e.g. imported history) have a null author.
func username(s ghapi.CommitSummary) string {
	if s.Author == nil {
		return ""
	}
	return s.Author.Login
}

// processSummary builds a commit record from listing data alone. Stats and
// file changes are unavailable at this level, so the record is marked as
// not detailed.
func processSummary(repo, branch string, s ghapi.CommitSummary, mapper *teams.Mapper) output.CommitData {
	login := username(s)
	return output.CommitData{
		SHA:            s.SHA,
		Repository:     repo,
		Branch:         branch,
		Message:        s.Commit.Message,
		AuthorName:     s.Commit.Author.Name,
		AuthorEmail:    s.Commit.Author.Email,
		AuthorUsername: login,
		Team:           mapper.TeamFor(login),
		Date:           parseCommitDate(s.Commit.Author.Date),
		URL:            s.HTMLURL,
		Detailed:       false,
	}
}

// processDetail builds a fully enriched commit record from a detail payload.
// Patch text is carried only when includePatch is set; patches dominate the
// output size for large diffs.
func processDetail(repo, branch string, d *ghapi.CommitDetail, mapper *teams.Mapper, includePatch bool) output.CommitData {
	record := processSummary(repo, branch, d.CommitSummary, mapper)
	record.Detailed = true
	record.Additions = d.Stats.Additions
	record.Deletions = d.Stats.Deletions
	record.TotalChanges = d.Stats.Total
	record.FilesChanged = len(d.Files)

	if len(d.Files) > 0 {
		record.FileChanges = make([]output.FileChange, 0, len(d.Files))
		for _, f := range d.Files {
			change := output.FileChange{
				Filename:  f.Filename,
				Status:    f.Status,
				Additions: f.Additions,
				Deletions: f.Deletions,
				Changes:   f.Changes,
			}
			if includePatch {
				change.Patch = f.Patch
			}
			record.FileChanges = append(record.FileChanges, change)
		}
	}

	return record
}

// FilterByTeams keeps only commits attributed to one of the given teams
// (case-insensitive). An empty team list keeps everything.
func FilterByTeams(commits []output.CommitData, teamNames []string) []output.CommitData {
	if len(teamNames) == 0 {
		return commits
	}

	wanted := make(map[string]bool, len(teamNames))
	for _, name := range teamNames {
		wanted[strings.ToLower(name)] = true
	}

	filtered := make([]output.CommitData, 0, len(commits))
	for _, c := range commits {
		if wanted[strings.ToLower(c.Team)] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// FilterByAuthors keeps only commits whose GitHub login or author email
// matches one of the given authors (case-insensitive). An empty author list
// keeps everything.
func FilterByAuthors(commits []output.CommitData, authors []string) []output.CommitData {
	if len(authors) == 0 {
		return commits
	}

	wanted := make(map[string]bool, len(authors))
	for _, a := range authors {
		wanted[strings.ToLower(a)] = true
	}

	filtered := make([]output.CommitData, 0, len(commits))
	for _, c := range commits {
		if wanted[strings.ToLower(c.AuthorUsername)] || wanted[strings.ToLower(c.AuthorEmail)] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
