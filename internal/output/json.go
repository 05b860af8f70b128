// Package output implements data models and export writers for collected
// commit data.
//
// This file (json.go) handles JSON export. All writes are atomic (temp file
// + fsync + rename) so an interrupted run never leaves a corrupt or partial
// output file, and a mutex serializes writers.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// fileMu serializes all file write operations so concurrent exports cannot
// corrupt an output file.
var fileMu sync.Mutex

// writeJSONAtomic writes v as pretty-printed JSON to filePath atomically.
// The caller must hold fileMu.
func writeJSONAtomic(filePath string, v any) (err error) {
	tmpFile := filePath + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmpFile, err)
	}

	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmpFile)
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err = encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON to %s: %w", tmpFile, err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", tmpFile, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmpFile, err)
	}

	// Rename is atomic on POSIX, replacing any previous file in one step
	if err = os.Rename(tmpFile, filePath); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file to %s: %w", filePath, err)
	}

	return nil
}

// WriteJSON writes v as pretty-printed JSON to filePath atomically.
// Thread-safe.
func WriteJSON(filePath string, v any) error {
	fileMu.Lock()
	defer fileMu.Unlock()
	return writeJSONAtomic(filePath, v)
}

// ExportJSON writes the full collection result (metadata plus nested
// per-repository commits and statistics) to dir/commits.json.
func ExportJSON(dir string, result CollectionResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, "commits.json")
	if err := WriteJSON(path, result); err != nil {
		return "", err
	}
	return path, nil
}

// ExportRepositoryStats writes the per-repository statistics to
// dir/repository_stats.json.
func ExportRepositoryStats(dir string, stats []RepositoryStats) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, "repository_stats.json")
	if err := WriteJSON(path, stats); err != nil {
		return "", err
	}
	return path, nil
}

// summaryDocument is the shape of summary.json.
type summaryDocument struct {
	Metadata     CollectionMetadata `json:"metadata"`
	TotalCommits int                `json:"total_commits"`
	Repositories []RepositoryStats  `json:"repositories"`
}

// ExportSummary writes run metadata plus per-repository statistics to
// dir/summary.json.
func ExportSummary(dir string, metadata CollectionMetadata, stats []RepositoryStats) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	total := 0
	for _, s := range stats {
		total += s.TotalCommits
	}

	path := filepath.Join(dir, "summary.json")
	doc := summaryDocument{
		Metadata:     metadata,
		TotalCommits: total,
		Repositories: stats,
	}
	if err := WriteJSON(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// ExportTeamSummary writes per-team activity to dir/team_summary.json,
// sorted by commit count descending (ties broken by team name for stable
// output).
func ExportTeamSummary(dir string, stats []TeamStats) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	sorted := append([]TeamStats(nil), stats...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Commits != sorted[j].Commits {
			return sorted[i].Commits > sorted[j].Commits
		}
		return sorted[i].Team < sorted[j].Team
	})

	path := filepath.Join(dir, "team_summary.json")
	if err := WriteJSON(path, sorted); err != nil {
		return "", err
	}
	return path, nil
}
