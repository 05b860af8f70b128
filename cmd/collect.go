package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mona-actions/gh-commits/internal/collector"
	"github.com/spf13/cobra"
)

var (
	repoURL        string
	branchName     string
	configDir      string
	envFile        string
	outputDir      string
	format         string
	dateFrom       string
	dateTo         string
	author         string
	team           string
	includePatch   bool
	includeFiles   bool
	noDetails      bool
	testConnection bool
	verbose        bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run commit collection",
	Long: `Collect commit history from the configured repositories (or a single
repository given with --repo) and export it as JSON and/or CSV.

Examples:
  gh-commits collect                                      # Collect everything in config/repositories.yaml
  gh-commits collect --repo octocat/hello-world           # Collect a single repository
  gh-commits collect --repo octocat/hello-world -b main   # Pin the branch
  gh-commits collect --date-from 2026-01-01 --team backend
  gh-commits collect --format both --include-file-details
  gh-commits collect --test-connection                    # Verify the token and exit

The branch is auto-detected per repository when not configured; a configured
branch that does not exist falls back to the repository default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := collector.Config{
			RepoURL:        repoURL,
			Branch:         branchName,
			ConfigDir:      configDir,
			EnvFile:        envFile,
			OutputDir:      outputDir,
			Format:         format,
			DateFrom:       dateFrom,
			DateTo:         dateTo,
			Author:         author,
			Team:           team,
			Version:        Version,
			IncludePatch:   includePatch,
			IncludeFiles:   includeFiles,
			NoDetails:      noDetails,
			TestConnection: testConnection,
			Verbose:        verbose,
		}

		// Set up context with timeout and signal handling
		// 24-hour timeout prevents indefinite hangs if GitHub API becomes unresponsive
		ctx, cancel := context.WithTimeout(context.Background(), 24*time.Hour)
		defer cancel()

		// Handle interrupt signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			sig := <-sigChan

			if sig == syscall.SIGTERM {
				fmt.Fprintln(os.Stderr, "\nReceived termination signal (SIGTERM), shutting down gracefully...")
			} else {
				fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully... (press Ctrl-C again to force quit)")
			}
			cancel()

			// For SIGTERM (from timeout/systemd), exit gracefully without a second signal
			if sig == syscall.SIGTERM {
				return
			}

			// For SIGINT (Ctrl-C), wait for second signal to force quit
			<-sigChan
			fmt.Fprintln(os.Stderr, "\nForce quitting...")
			os.Exit(130) // Standard exit code for SIGINT
		}()

		return collector.RunWithContext(ctx, cfg)
	},
}

// init registers the collect command and its flags.
func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVarP(&repoURL, "repo", "r", "", "Single repository to collect (owner/repo or URL)")
	collectCmd.Flags().StringVarP(&branchName, "branch", "b", "", "Branch to collect (requires --repo, auto-detected otherwise)")
	collectCmd.Flags().StringVarP(&configDir, "config-dir", "c", "config", "Directory holding repositories.yaml and teams.yaml")
	collectCmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default .env)")
	collectCmd.Flags().StringVarP(&outputDir, "output-dir", "O", "", "Output directory (default from OUTPUT_DIR or ./output)")
	collectCmd.Flags().StringVarP(&format, "format", "f", "", "Export format: json, csv, or both (default from OUTPUT_FORMAT or json)")
	collectCmd.Flags().StringVar(&dateFrom, "date-from", "", "Collect commits on or after this date (YYYY-MM-DD)")
	collectCmd.Flags().StringVar(&dateTo, "date-to", "", "Collect commits on or before this date (YYYY-MM-DD)")
	collectCmd.Flags().StringVar(&author, "author", "", "Filter by GitHub login or email")
	collectCmd.Flags().StringVar(&team, "team", "", "Keep only commits attributed to this team")
	collectCmd.Flags().BoolVar(&includePatch, "include-patch", false, "Include patch text in file change records (large output)")
	collectCmd.Flags().BoolVar(&includeFiles, "include-file-details", false, "Write a companion CSV with per-file changes")
	collectCmd.Flags().BoolVar(&noDetails, "no-details", false, "Skip per-commit detail fetches (saves 1 API call/commit)")
	collectCmd.Flags().BoolVar(&testConnection, "test-connection", false, "Verify the GitHub token and exit")
	collectCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
