// Package output implements data models and export writers for collected
// commit data.
//
// This file (csv.go) handles CSV export: one flat row per commit, with an
// optional companion file carrying per-file change rows. Writes use the same
// atomic temp-file pattern as the JSON exporter.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var commitCSVHeader = []string{
	"sha", "repository", "branch", "date", "author_name", "author_email",
	"author_username", "team", "message", "additions", "deletions",
	"total_changes", "files_changed", "detailed", "url",
}

var fileChangeCSVHeader = []string{
	"sha", "repository", "filename", "status", "additions", "deletions", "changes",
}

// writeCSVAtomic writes rows (header first) to filePath atomically.
// The caller must hold fileMu.
func writeCSVAtomic(filePath string, header []string, rows [][]string) (err error) {
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

	writer := csv.NewWriter(file)
	if err = writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header to %s: %w", tmpFile, err)
	}
	if err = writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows to %s: %w", tmpFile, err)
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV to %s: %w", tmpFile, err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", tmpFile, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmpFile, err)
	}

	if err = os.Rename(tmpFile, filePath); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file to %s: %w", filePath, err)
	}

	return nil
}

// commitRow flattens one commit into CSV column order.
func commitRow(c CommitData) []string {
	return []string{
		c.SHA,
		c.Repository,
		c.Branch,
		c.Date.Format(time.RFC3339),
		c.AuthorName,
		c.AuthorEmail,
		c.AuthorUsername,
		c.Team,
		c.Message,
		strconv.Itoa(c.Additions),
		strconv.Itoa(c.Deletions),
		strconv.Itoa(c.TotalChanges),
		strconv.Itoa(c.FilesChanged),
		strconv.FormatBool(c.Detailed),
		c.URL,
	}
}

// ExportCSV writes all commits as a flat CSV to dir/commits.csv. When
// includeFileDetails is set and any commit carries file changes, a companion
// dir/commits_file_changes.csv is written with one row per changed file.
//
// Returns the paths written, main file first.
func ExportCSV(dir string, commits []CommitData, includeFileDetails bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	rows := make([][]string, 0, len(commits))
	for _, c := range commits {
		rows = append(rows, commitRow(c))
	}

	mainPath := filepath.Join(dir, "commits.csv")

	fileMu.Lock()
	defer fileMu.Unlock()

	if err := writeCSVAtomic(mainPath, commitCSVHeader, rows); err != nil {
		return nil, err
	}
	paths := []string{mainPath}

	if !includeFileDetails {
		return paths, nil
	}

	var changeRows [][]string
	for _, c := range commits {
		for _, fc := range c.FileChanges {
			changeRows = append(changeRows, []string{
				c.SHA,
				c.Repository,
				fc.Filename,
				fc.Status,
				strconv.Itoa(fc.Additions),
				strconv.Itoa(fc.Deletions),
				strconv.Itoa(fc.Changes),
			})
		}
	}
	if len(changeRows) == 0 {
		return paths, nil
	}

	changesPath := filepath.Join(dir, "commits_file_changes.csv")
	if err := writeCSVAtomic(changesPath, fileChangeCSVHeader, changeRows); err != nil {
		return paths, err
	}
	return append(paths, changesPath), nil
}
