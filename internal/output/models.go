// Package output implements data models and export writers for collected
// commit data.
//
// This file (models.go) defines the normalized structures shared by the
// collector and the exporters.
package output

import "time"

// FileChange records one file touched by a commit.
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// CommitData is the normalized record for a single collected commit.
// Detailed is false when the per-commit detail fetch failed and only the
// listing summary is available (stats and file changes are then zero).
type CommitData struct {
	SHA            string       `json:"sha"`
	Repository     string       `json:"repository"`
	Branch         string       `json:"branch"`
	Message        string       `json:"message"`
	AuthorName     string       `json:"author_name"`
	AuthorEmail    string       `json:"author_email"`
	AuthorUsername string       `json:"author_username"`
	Team           string       `json:"team"`
	Date           time.Time    `json:"date"`
	Additions      int          `json:"additions"`
	Deletions      int          `json:"deletions"`
	TotalChanges   int          `json:"total_changes"`
	FilesChanged   int          `json:"files_changed"`
	FileChanges    []FileChange `json:"file_changes,omitempty"`
	URL            string       `json:"url"`
	Detailed       bool         `json:"detailed"`
}

// RepositoryStats aggregates the commits collected from one repository.
type RepositoryStats struct {
	Repository    string    `json:"repository"`
	Branch        string    `json:"branch"`
	TotalCommits  int       `json:"total_commits"`
	Additions     int       `json:"additions"`
	Deletions     int       `json:"deletions"`
	FilesChanged  int       `json:"files_changed"`
	UniqueAuthors int       `json:"unique_authors"`
	Teams         []string  `json:"teams"`
	FirstCommit   time.Time `json:"first_commit,omitempty"`
	LastCommit    time.Time `json:"last_commit,omitempty"`
}

// TeamStats aggregates commit activity for one team across the whole run.
type TeamStats struct {
	Team         string   `json:"team"`
	Commits      int      `json:"commits"`
	Additions    int      `json:"additions"`
	Deletions    int      `json:"deletions"`
	Authors      []string `json:"authors"`
	Repositories []string `json:"repositories"`
}

// CollectionMetadata describes a collection run.
type CollectionMetadata struct {
	RunID          string    `json:"run_id"`
	CollectedAt    time.Time `json:"collected_at"`
	Repositories   []string  `json:"repositories"`
	TotalCommits   int       `json:"total_commits"`
	FailedRepos    []string  `json:"failed_repos,omitempty"`
	DateFrom       string    `json:"date_from,omitempty"`
	DateTo         string    `json:"date_to,omitempty"`
	AuthorFilter   string    `json:"author_filter,omitempty"`
	TeamFilter     string    `json:"team_filter,omitempty"`
	IncludePatches bool      `json:"include_patches"`
}

// RepositoryResult holds everything collected from one repository.
type RepositoryResult struct {
	Repository string           `json:"repository"`
	Branch     string           `json:"branch"`
	Commits    []CommitData     `json:"commits"`
	Stats      *RepositoryStats `json:"statistics,omitempty"`
}

// CollectionResult is a full run: per-repository results plus run metadata.
type CollectionResult struct {
	Metadata     CollectionMetadata `json:"metadata"`
	Repositories []RepositoryResult `json:"repositories"`
}
