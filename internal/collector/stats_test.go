package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mona-actions/gh-commits/internal/config"
	"github.com/mona-actions/gh-commits/internal/output"
)

func TestCalculateRepositoryStats(t *testing.T) {
	commits := []output.CommitData{
		{SHA: "a", AuthorUsername: "alice", Team: "backend", Additions: 10, Deletions: 2, FilesChanged: 3,
			Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{SHA: "b", AuthorUsername: "bob", Team: "frontend", Additions: 5, Deletions: 5, FilesChanged: 1,
			Date: time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)},
		{SHA: "c", AuthorUsername: "alice", Team: "backend", Additions: 1, Deletions: 0, FilesChanged: 1,
			Date: time.Date(2026, 4, 28, 0, 0, 0, 0, time.UTC)},
	}

	stats := CalculateRepositoryStats("octo/demo", "main", commits)
	require.NotNil(t, stats)

	assert.Equal(t, 3, stats.TotalCommits)
	assert.Equal(t, 16, stats.Additions)
	assert.Equal(t, 7, stats.Deletions)
	assert.Equal(t, 5, stats.FilesChanged)
	assert.Equal(t, 2, stats.UniqueAuthors)
	assert.Equal(t, []string{"backend", "frontend"}, stats.Teams)
	assert.Equal(t, time.Date(2026, 4, 28, 0, 0, 0, 0, time.UTC), stats.FirstCommit)
	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), stats.LastCommit)
}

func TestCalculateRepositoryStatsEmpty(t *testing.T) {
	assert.Nil(t, CalculateRepositoryStats("octo/demo", "main", nil))
}

func TestCalculateTeamStats(t *testing.T) {
	repos := []output.RepositoryResult{
		{
			Repository: "octo/one",
			Commits: []output.CommitData{
				{Team: "backend", AuthorUsername: "alice", Repository: "octo/one", Additions: 10},
				{Team: "backend", AuthorUsername: "bob", Repository: "octo/one", Additions: 2},
				{Team: "frontend", AuthorUsername: "carol", Repository: "octo/one"},
			},
		},
		{
			Repository: "octo/two",
			Commits: []output.CommitData{
				{Team: "backend", AuthorUsername: "alice", Repository: "octo/two", Deletions: 4},
			},
		},
	}

	stats := CalculateTeamStats(repos)
	require.Len(t, stats, 2)

	// Sorted by commit count descending
	assert.Equal(t, "backend", stats[0].Team)
	assert.Equal(t, 3, stats[0].Commits)
	assert.Equal(t, 12, stats[0].Additions)
	assert.Equal(t, 4, stats[0].Deletions)
	assert.Equal(t, []string{"alice", "bob"}, stats[0].Authors)
	assert.Equal(t, []string{"octo/one", "octo/two"}, stats[0].Repositories)

	assert.Equal(t, "frontend", stats[1].Team)
	assert.Equal(t, 1, stats[1].Commits)
}

func TestBuildMetadata(t *testing.T) {
	filters := config.Filters{DateFrom: "2026-01-01", DateTo: "2026-06-30", Author: "alice"}
	meta := BuildMetadata([]string{"octo/demo"}, []string{"octo/broken"}, 42, filters, true)

	assert.NotEmpty(t, meta.RunID)
	assert.WithinDuration(t, time.Now().UTC(), meta.CollectedAt, time.Minute)
	assert.Equal(t, []string{"octo/demo"}, meta.Repositories)
	assert.Equal(t, []string{"octo/broken"}, meta.FailedRepos)
	assert.Equal(t, 42, meta.TotalCommits)
	assert.Equal(t, "2026-01-01", meta.DateFrom)
	assert.Equal(t, "alice", meta.AuthorFilter)
	assert.True(t, meta.IncludePatches)

	other := BuildMetadata(nil, nil, 0, config.Filters{}, false)
	assert.NotEqual(t, meta.RunID, other.RunID, "every run gets a fresh ID")
}
