// Package config loads collector configuration from the environment and
// YAML files.
//
// Three sources are read: a .env file plus process environment for API
// settings, repositories.yaml for the collection targets, and teams.yaml for
// author-to-team attribution. Missing team configuration is non-fatal; a
// missing token or an empty repository list aborts before any network
// activity.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment defaults
const (
	defaultAPIURL          = "https://api.github.com"
	defaultTimeout         = 30 * time.Second
	defaultMaxRetries      = 3
	defaultRateLimitBuffer = 10
	defaultPerPage         = 100
	defaultOutputFormat    = "json"
	defaultOutputDir       = "output"
)

// Settings holds the environment-driven API and output configuration.
type Settings struct {
	Token           string
	APIURL          string
	Timeout         time.Duration
	MaxRetries      int
	RateLimitBuffer int64
	PerPage         int
	OutputFormat    string
	OutputDir       string
}

// LoadEnv reads a .env file into the process environment. Variables already
// set in the environment win. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// FromEnv builds Settings from the process environment. GITHUB_TOKEN is the
// only required variable.
func FromEnv() (*Settings, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is required")
	}

	return &Settings{
		Token:           token,
		APIURL:          envOr("GITHUB_API_URL", defaultAPIURL),
		Timeout:         envDuration("GITHUB_API_TIMEOUT", defaultTimeout),
		MaxRetries:      envInt("MAX_RETRIES", defaultMaxRetries),
		RateLimitBuffer: int64(envInt("RATE_LIMIT_BUFFER", defaultRateLimitBuffer)),
		PerPage:         envInt("MAX_COMMITS_PER_REQUEST", defaultPerPage),
		OutputFormat:    envOr("OUTPUT_FORMAT", defaultOutputFormat),
		OutputDir:       envOr("OUTPUT_DIR", defaultOutputDir),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// envDuration reads a duration given as whole seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	n := envInt(key, 0)
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// Filters narrows which commits a collection run keeps. Dates are strings in
// YYYY-MM-DD or RFC 3339 form; empty fields apply no bound.
type Filters struct {
	DateFrom string `yaml:"date_from"`
	DateTo   string `yaml:"date_to"`
	Author   string `yaml:"author"`
}

// Merge overlays override onto f: each non-empty override field wins.
func (f Filters) Merge(override Filters) Filters {
	merged := f
	if override.DateFrom != "" {
		merged.DateFrom = override.DateFrom
	}
	if override.DateTo != "" {
		merged.DateTo = override.DateTo
	}
	if override.Author != "" {
		merged.Author = override.Author
	}
	return merged
}

// RepositoryConfig is one collection target from repositories.yaml.
type RepositoryConfig struct {
	URL     string  `yaml:"url"`
	Branch  string  `yaml:"branch"`
	Enabled *bool   `yaml:"enabled"`
	Filters Filters `yaml:"filters"`
}

// IsEnabled reports whether the repository should be collected.
// Repositories are enabled unless explicitly disabled.
func (r RepositoryConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// repositoriesFile mirrors the repositories.yaml layout.
type repositoriesFile struct {
	Repositories []RepositoryConfig `yaml:"repositories"`
	Filters      Filters            `yaml:"filters"`
}

// LoadRepositories reads repositories.yaml and returns the enabled targets
// plus the global filters. An empty enabled set is an error.
func LoadRepositories(path string) ([]RepositoryConfig, Filters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Filters{}, fmt.Errorf("reading repository config %s: %w", path, err)
	}

	var file repositoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, Filters{}, fmt.Errorf("parsing repository config %s: %w", path, err)
	}

	enabled := make([]RepositoryConfig, 0, len(file.Repositories))
	for i, repo := range file.Repositories {
		if repo.URL == "" {
			return nil, Filters{}, fmt.Errorf("repository entry %d in %s has no url", i+1, path)
		}
		if repo.IsEnabled() {
			enabled = append(enabled, repo)
		}
	}

	if len(enabled) == 0 {
		return nil, Filters{}, fmt.Errorf("no enabled repositories in %s", path)
	}

	return enabled, file.Filters, nil
}

// teamsFile mirrors the teams.yaml layout.
type teamsFile struct {
	Teams       map[string][]string `yaml:"teams"`
	DefaultTeam string              `yaml:"default_team"`
}

// LoadTeams reads teams.yaml. A missing file yields an empty mapping rather
// than an error so team attribution degrades to the default team.
func LoadTeams(path string) (map[string][]string, string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string][]string{}, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading team config %s: %w", path, err)
	}

	var file teamsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("parsing team config %s: %w", path, err)
	}

	if file.Teams == nil {
		file.Teams = map[string][]string{}
	}
	return file.Teams, file.DefaultTeam, nil
}
