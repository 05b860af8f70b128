package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCommits() []CommitData {
	return []CommitData{
		{
			SHA:            "abc123",
			Repository:     "octo/demo",
			Branch:         "main",
			Message:        "fix parser, add tests",
			AuthorName:     "Alice Dev",
			AuthorEmail:    "alice@example.com",
			AuthorUsername: "alice",
			Team:           "backend",
			Date:           time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC),
			Additions:      3,
			Deletions:      1,
			TotalChanges:   4,
			FilesChanged:   2,
			FileChanges: []FileChange{
				{Filename: "parser.go", Status: "modified", Additions: 2, Deletions: 1, Changes: 3},
				{Filename: "parser_test.go", Status: "added", Additions: 1, Changes: 1},
			},
			Detailed: true,
		},
		{
			SHA:        "def456",
			Repository: "octo/demo",
			Branch:     "main",
			Message:    "summary only",
			Team:       "unassigned",
			Date:       time.Date(2026, 7, 29, 9, 0, 0, 0, time.UTC),
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()

	paths, err := ExportCSV(dir, sampleCommits(), false)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "commits.csv"), paths[0])

	rows := readCSV(t, paths[0])
	require.Len(t, rows, 3, "header plus two commits")
	assert.Equal(t, commitCSVHeader, rows[0])
	assert.Equal(t, "abc123", rows[1][0])
	assert.Equal(t, "fix parser, add tests", rows[1][8], "commas in messages survive quoting")
	assert.Equal(t, "true", rows[1][13])
	assert.Equal(t, "false", rows[2][13])
}

func TestExportCSVWithFileDetails(t *testing.T) {
	dir := t.TempDir()

	paths, err := ExportCSV(dir, sampleCommits(), true)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	rows := readCSV(t, paths[1])
	require.Len(t, rows, 3, "header plus two file changes")
	assert.Equal(t, fileChangeCSVHeader, rows[0])
	assert.Equal(t, []string{"abc123", "octo/demo", "parser.go", "modified", "2", "1", "3"}, rows[1])
	assert.Equal(t, "parser_test.go", rows[2][2])
}

func TestExportCSVNoFileChanges(t *testing.T) {
	dir := t.TempDir()
	commits := []CommitData{{SHA: "abc", Repository: "octo/demo", Date: time.Now()}}

	paths, err := ExportCSV(dir, commits, true)
	require.NoError(t, err)
	assert.Len(t, paths, 1, "companion file skipped when nothing to write")
}

func TestExportCSVEmpty(t *testing.T) {
	dir := t.TempDir()
	paths, err := ExportCSV(dir, nil, false)
	require.NoError(t, err)

	rows := readCSV(t, paths[0])
	require.Len(t, rows, 1, "header only")
}
