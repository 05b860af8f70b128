// Package collector orchestrates commit collection across repositories.
//
// This file (run.go) contains the main entry point wiring configuration,
// the API client, branch resolution, and team mapping into a collection run,
// then exporting the results.
//
// Key features:
//   - Multi-repository sequential processing.
//   - Per-repository failure isolation.
//   - Rate limit reporting before and after the run.
//   - JSON and CSV export with partial results on interruption.
package collector

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"

	"github.com/mona-actions/gh-commits/internal/branch"
	"github.com/mona-actions/gh-commits/internal/config"
	"github.com/mona-actions/gh-commits/internal/ghapi"
	"github.com/mona-actions/gh-commits/internal/output"
	"github.com/mona-actions/gh-commits/internal/state"
	"github.com/mona-actions/gh-commits/internal/teams"
)

// Config holds all configuration options for a collection run.
//
// Zero value behavior:
//   - RepoURL empty: targets come from the repositories config file
//   - Format empty: falls back to the OUTPUT_FORMAT environment setting
//   - NoDetails false: per-commit detail enrichment is on
type Config struct {
	RepoURL        string // Single repository to collect (overrides the config file)
	Branch         string // Branch override for --repo
	ConfigDir      string // Directory holding repositories.yaml and teams.yaml
	EnvFile        string // Path to the .env file
	OutputDir      string // Output directory (overrides OUTPUT_DIR)
	Format         string // Export format: json, csv, or both
	DateFrom       string // Collect commits on or after this date
	DateTo         string // Collect commits on or before this date
	Author         string // Filter by GitHub login or email
	Team           string // Keep only commits attributed to this team
	Version        string // Version string for the banner (set by main package)
	IncludePatch   bool   // Carry patch text into file change records
	IncludeFiles   bool   // Write the per-file-change companion CSV
	NoDetails      bool   // Skip per-commit detail fetches
	TestConnection bool   // Verify credentials and exit
	Verbose        bool   // Enable debug output
}

// printBanner displays the startup banner with version information.
func printBanner(version string) {
	if version == "" {
		version = "dev"
	}

	banner := fmt.Sprintf(`
    ██████╗ ██╗  ██╗     ██████╗ ██████╗ ███╗   ███╗███╗   ███╗██╗████████╗███████╗
   ██╔════╝ ██║  ██║    ██╔════╝██╔═══██╗████╗ ████║████╗ ████║██║╚══██╔══╝██╔════╝
   ██║  ███╗███████║    ██║     ██║   ██║██╔████╔██║██╔████╔██║██║   ██║   ███████╗
   ██║   ██║██╔══██║    ██║     ██║   ██║██║╚██╔╝██║██║╚██╔╝██║██║   ██║   ╚════██║
   ╚██████╔╝██║  ██║    ╚██████╗╚██████╔╝██║ ╚═╝ ██║██║ ╚═╝ ██║██║   ██║   ███████║
    ╚═════╝ ╚═╝  ╚═╝     ╚═════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝     ╚═╝╚═╝   ╚═╝   ╚══════╝
   📜 GitHub Commit Collector • %s
`, version)

	pterm.DefaultBox.WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		WithHorizontalString("═").
		WithVerticalString("║").
		Println(banner)
	fmt.Println()
}

// setupAndValidate performs initial setup and validation for the run.
func setupAndValidate(cfg *Config) error {
	if cfg.Verbose {
		pterm.EnableDebugMessages()
	}

	if cfg.Branch != "" && cfg.RepoURL == "" {
		return fmt.Errorf("--branch requires --repo")
	}

	switch cfg.Format {
	case "", "json", "csv", "both":
	default:
		return fmt.Errorf("invalid format %q (expected json, csv, or both)", cfg.Format)
	}

	if cfg.ConfigDir == "" {
		cfg.ConfigDir = "config"
	}

	return nil
}

// loadTargets resolves the repositories to collect: the --repo flag when
// given, otherwise the enabled entries of repositories.yaml.
func loadTargets(cfg Config, flagFilters config.Filters) ([]Target, config.Filters, error) {
	if cfg.RepoURL != "" {
		return []Target{{URL: cfg.RepoURL, Branch: cfg.Branch}}, flagFilters, nil
	}

	repos, globalFilters, err := config.LoadRepositories(filepath.Join(cfg.ConfigDir, "repositories.yaml"))
	if err != nil {
		return nil, config.Filters{}, err
	}

	targets := make([]Target, 0, len(repos))
	for _, repo := range repos {
		targets = append(targets, Target{
			URL:     repo.URL,
			Branch:  repo.Branch,
			Filters: repo.Filters,
		})
	}

	// Command-line filters override the config file
	return targets, globalFilters.Merge(flagFilters), nil
}

// loadMapper builds the team mapper from teams.yaml. A missing file degrades
// to default-team attribution.
func loadMapper(configDir string) (*teams.Mapper, error) {
	teamMembers, defaultTeam, err := config.LoadTeams(filepath.Join(configDir, "teams.yaml"))
	if err != nil {
		return nil, err
	}

	mapper := teams.NewMapper(teamMembers, defaultTeam)
	if perTeam, total := mapper.Stats(); total > 0 {
		pterm.Info.Printf("Loaded %d team mappings across %d teams\n", total, len(perTeam))
	} else {
		pterm.Info.Printf("No team configuration found, attributing commits to %q\n", mapper.DefaultTeamName())
	}
	return mapper, nil
}

// export writes the collected data in the requested formats and returns the
// paths written.
func export(cfg Config, settings *config.Settings, result *output.CollectionResult) ([]string, error) {
	dir := cfg.OutputDir
	if dir == "" {
		dir = settings.OutputDir
	}
	format := cfg.Format
	if format == "" {
		format = settings.OutputFormat
	}

	var files []string

	if format == "json" || format == "both" {
		path, err := output.ExportJSON(dir, *result)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if format == "csv" || format == "both" {
		var all []output.CommitData
		for _, repo := range result.Repositories {
			all = append(all, repo.Commits...)
		}
		paths, err := output.ExportCSV(dir, all, cfg.IncludeFiles)
		files = append(files, paths...)
		if err != nil {
			return files, err
		}
	}

	var repoStats []output.RepositoryStats
	for _, repo := range result.Repositories {
		if repo.Stats != nil {
			repoStats = append(repoStats, *repo.Stats)
		}
	}

	path, err := output.ExportRepositoryStats(dir, repoStats)
	if err != nil {
		return files, err
	}
	files = append(files, path)

	path, err = output.ExportSummary(dir, result.Metadata, repoStats)
	if err != nil {
		return files, err
	}
	files = append(files, path)

	path, err = output.ExportTeamSummary(dir, CalculateTeamStats(result.Repositories))
	if err != nil {
		return files, err
	}
	files = append(files, path)

	return files, nil
}

// RunWithContext orchestrates the commit collection process.
//
// This is the main entry point. It validates inputs, wires the API client
// and supporting services, collects every target, applies the post-collection
// team filter, and exports the results. A cancelled context exports whatever
// was collected before returning.
func RunWithContext(ctx context.Context, cfg Config) error {
	printBanner(cfg.Version)

	if err := setupAndValidate(&cfg); err != nil {
		return err
	}

	if err := config.LoadEnv(cfg.EnvFile); err != nil {
		return err
	}
	settings, err := config.FromEnv()
	if err != nil {
		return err
	}

	client, err := ghapi.NewClient(ghapi.Config{
		Token:           settings.Token,
		BaseURL:         settings.APIURL,
		Timeout:         settings.Timeout,
		Retry:           retryPolicyFor(settings),
		RateLimitBuffer: settings.RateLimitBuffer,
	})
	if err != nil {
		return err
	}

	if cfg.TestConnection {
		user, err := client.TestConnection(ctx)
		if err != nil {
			return err
		}
		pterm.Success.Printf("✅ Authenticated as %s\n", user.Login)
		return nil
	}

	startTime := time.Now()

	if rateLimit, err := client.GetRateLimit(ctx); err == nil {
		state.Get().UpdateRateLimit(
			rateLimit.Resources.Core.Limit,
			rateLimit.Resources.Core.Remaining,
			time.Unix(rateLimit.Resources.Core.Reset, 0),
		)
		state.Get().PrintRateLimit()
	} else {
		// Not fatal, the per-response headers will fill this in
		pterm.Debug.Printf("Rate limit check failed: %v\n", err)
	}

	flagFilters := config.Filters{
		DateFrom: cfg.DateFrom,
		DateTo:   cfg.DateTo,
		Author:   cfg.Author,
	}
	targets, globalFilters, err := loadTargets(cfg, flagFilters)
	if err != nil {
		return err
	}

	mapper, err := loadMapper(cfg.ConfigDir)
	if err != nil {
		return err
	}

	output.PrintSectionHeader(fmt.Sprintf("Collecting %d repositories", len(targets)))

	c := New(client, branch.NewDetector(client), mapper, Options{
		IncludeDetails: !cfg.NoDetails,
		IncludePatch:   cfg.IncludePatch,
		PerPage:        settings.PerPage,
	})

	result := c.CollectAll(ctx, targets, globalFilters)

	if cfg.Team != "" {
		total := 0
		for i := range result.Repositories {
			repo := &result.Repositories[i]
			repo.Commits = FilterByTeams(repo.Commits, []string{cfg.Team})
			repo.Stats = CalculateRepositoryStats(repo.Repository, repo.Branch, repo.Commits)
			total += len(repo.Commits)
		}
		result.Metadata.TeamFilter = cfg.Team
		result.Metadata.TotalCommits = total
	}

	files, err := export(cfg, settings, result)
	if err != nil {
		return fmt.Errorf("exporting results: %w", err)
	}

	rateLimit := state.Get().GetRateLimit()
	output.PrintCompletionSummary(output.CompletionSummary{
		RepoCount:     len(result.Repositories),
		FailedRepos:   result.Metadata.FailedRepos,
		CommitCount:   result.Metadata.TotalCommits,
		OutputFiles:   files,
		Duration:      time.Since(startTime),
		APICalls:      state.Get().GetAPICalls(),
		RESTLimit:     rateLimit.Limit,
		RESTRemaining: rateLimit.Remaining,
		RESTReset:     rateLimit.Reset,
	})
	state.Get().MarkDone()

	return ctx.Err()
}

// retryPolicyFor derives the retry policy from environment settings, keeping
// the default backoff schedule.
func retryPolicyFor(settings *config.Settings) ghapi.RetryPolicy {
	policy := ghapi.DefaultRetryPolicy()
	if settings.MaxRetries > 0 {
		policy.MaxAttempts = settings.MaxRetries
	}
	return policy
}
