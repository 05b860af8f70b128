// Package output implements data models and export writers for collected
// commit data.
//
// This file (formatting.go) contains functions for displaying progress and
// summaries in a consistent format using pterm.
//
// Key features:
//   - Styled section headers and repository display
//   - Per-repository collection progress lines
//   - Completion summaries with API statistics
//   - Consistent emoji usage for visual clarity
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// PrintSectionHeader prints a prominent section header with separator.
func PrintSectionHeader(title string) {
	pterm.Println()
	pterm.DefaultSection.Println(title)
}

// PrintRepoHeader prints the repository header with styling.
func PrintRepoHeader(repoName, branch string) {
	pterm.Println()
	pterm.Info.Println(separator)
	pterm.Info.Printf("📦 Repository: %s (branch: %s)\n", repoName, branch)
	pterm.Info.Println(separator)
}

// PrintRepoResult prints a per-repository collection result in tree format.
func PrintRepoResult(stats RepositoryStats) {
	pterm.Info.Printf("📊 %s\n", stats.Repository)
	pterm.Info.Printf("   ├─ Commits: %d\n", stats.TotalCommits)
	pterm.Info.Printf("   ├─ Changes: +%d / -%d across %d files\n",
		stats.Additions, stats.Deletions, stats.FilesChanged)
	if len(stats.Teams) > 0 {
		pterm.Info.Printf("   ├─ Teams: %s\n", strings.Join(stats.Teams, ", "))
	}
	pterm.Info.Printf("   └─ Authors: %d\n", stats.UniqueAuthors)
}

// CompletionSummary holds the final summary information.
type CompletionSummary struct {
	RepoCount     int
	FailedRepos   []string
	CommitCount   int
	OutputFiles   []string
	Duration      time.Duration
	APICalls      int64
	RESTLimit     int64
	RESTRemaining int64
	RESTReset     time.Time
}

// PrintCompletionSummary prints the final completion summary.
func PrintCompletionSummary(summary CompletionSummary) {
	pterm.Println()
	pterm.Success.Println(separator)
	pterm.Success.Println("✨ Collection Complete!")
	pterm.Success.Println(separator)
	pterm.Println()

	pterm.Info.Println("📈 Summary")
	pterm.Info.Printf("   ├─ Repositories: %d collected\n", summary.RepoCount)
	if len(summary.FailedRepos) > 0 {
		pterm.Info.Printf("   ├─ Failed: %s\n", strings.Join(summary.FailedRepos, ", "))
	}
	pterm.Info.Printf("   ├─ Commits: %d\n", summary.CommitCount)
	for _, file := range summary.OutputFiles {
		pterm.Info.Printf("   ├─ Output: %s\n", file)
	}
	pterm.Info.Printf("   └─ Duration: %s\n", FormatDuration(summary.Duration))
	pterm.Println()

	pterm.Info.Println("🌐 API Usage")
	if summary.RESTLimit > 0 {
		pterm.Info.Printf("   ├─ REST: %d calls (%s remaining of %s)\n",
			summary.APICalls,
			FormatNumber(summary.RESTRemaining),
			FormatNumber(summary.RESTLimit))
		pterm.Info.Printf("   └─ Resets: %s (in %s)\n",
			summary.RESTReset.Format("15:04:05"),
			FormatTimeUntil(summary.RESTReset))
	} else {
		pterm.Info.Printf("   └─ REST: %d calls\n", summary.APICalls)
	}
	pterm.Println()

	if len(summary.FailedRepos) > 0 {
		pterm.Warning.Printf("⚠️  %d repositories failed (see warnings above)\n", len(summary.FailedRepos))
		pterm.Println()
	}
}

// FormatDuration formats a duration in a human-readable way (e.g., "5m30s", "2h15m").
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, minutes)
}

// FormatNumber formats a number with thousand separators (e.g., "1,234,567").
func FormatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(digit))
	}
	return string(result)
}

// FormatTimeUntil formats the time until a future time (e.g., "5m", "2h15m").
func FormatTimeUntil(t time.Time) string {
	d := time.Until(t)
	if d < 0 {
		return "now"
	}

	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
