package collector

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mona-actions/gh-commits/internal/config"
	"github.com/mona-actions/gh-commits/internal/ghapi"
	"github.com/mona-actions/gh-commits/internal/teams"
)

// fakeAPI scripts commit listings and detail fetches per repository.
type fakeAPI struct {
	summaries   map[string][]ghapi.CommitSummary // key "owner/repo"
	listErrs    map[string]error
	detailErrs  map[string]error // key sha
	listedOpts  []ghapi.ListCommitsOptions
	detailCalls int
}

func (f *fakeAPI) ListCommits(ctx context.Context, owner, repo string, opts ghapi.ListCommitsOptions) ([]ghapi.CommitSummary, error) {
	f.listedOpts = append(f.listedOpts, opts)
	key := owner + "/" + repo
	if err := f.listErrs[key]; err != nil {
		return nil, err
	}
	return f.summaries[key], nil
}

func (f *fakeAPI) GetCommit(ctx context.Context, owner, repo, sha string) (*ghapi.CommitDetail, error) {
	f.detailCalls++
	if err := f.detailErrs[sha]; err != nil {
		return nil, err
	}
	detail := &ghapi.CommitDetail{}
	detail.SHA = sha
	detail.Commit.Message = "detailed " + sha
	detail.Commit.Author.Name = "Alice Dev"
	detail.Commit.Author.Email = "alice@example.com"
	detail.Commit.Author.Date = "2026-05-01T10:00:00Z"
	detail.Author = &struct {
		Login string `json:"login"`
	}{Login: "ALICE"}
	detail.Stats.Additions = 5
	detail.Stats.Deletions = 1
	detail.Stats.Total = 6
	detail.Files = []ghapi.CommitFile{{Filename: "main.go", Status: "modified", Additions: 5, Deletions: 1, Changes: 6, Patch: "@@"}}
	return detail, nil
}

// fakeResolver returns the preferred branch or a fixed default.
type fakeResolver struct {
	resolved []string
}

func (f *fakeResolver) ResolveWithFallback(ctx context.Context, owner, repo, preferred string) string {
	if preferred == "" {
		preferred = "main"
	}
	f.resolved = append(f.resolved, preferred)
	return preferred
}

func summariesFor(logins ...string) []ghapi.CommitSummary {
	out := make([]ghapi.CommitSummary, 0, len(logins))
	for i, login := range logins {
		var s ghapi.CommitSummary
		s.SHA = fmt.Sprintf("sha-%d", i)
		s.Commit.Message = "change"
		s.Commit.Author.Name = login
		s.Commit.Author.Email = login + "@example.com"
		s.Commit.Author.Date = "2026-05-01T10:00:00Z"
		if login != "" {
			s.Author = &struct {
				Login string `json:"login"`
			}{Login: login}
		}
		out = append(out, s)
	}
	return out
}

func backendMapper() *teams.Mapper {
	return teams.NewMapper(map[string][]string{"backend": {"alice"}}, "")
}

func TestCollectRepositoryDetailFallback(t *testing.T) {
	api := &fakeAPI{
		summaries:  map[string][]ghapi.CommitSummary{"octo/demo": summariesFor("alice", "alice", "alice", "alice", "alice")},
		detailErrs: map[string]error{"sha-2": &ghapi.HTTPError{StatusCode: 500, Endpoint: "/commits/sha-2"}},
	}
	c := New(api, &fakeResolver{}, backendMapper(), Options{IncludeDetails: true})

	result, err := c.CollectRepository(context.Background(), Target{URL: "octo/demo"}, config.Filters{})
	require.NoError(t, err)

	// All five commits survive; the one with a failing detail fetch keeps
	// its summary data only
	require.Len(t, result.Commits, 5)
	detailed := 0
	for _, commit := range result.Commits {
		if commit.Detailed {
			detailed++
			assert.Equal(t, 5, commit.Additions)
		} else {
			assert.Equal(t, "sha-2", commit.SHA)
			assert.Zero(t, commit.Additions)
		}
	}
	assert.Equal(t, 4, detailed)
	assert.Equal(t, 5, api.detailCalls)
}

func TestCollectRepositoryNoDetails(t *testing.T) {
	api := &fakeAPI{
		summaries: map[string][]ghapi.CommitSummary{"octo/demo": summariesFor("alice", "bob")},
	}
	c := New(api, &fakeResolver{}, backendMapper(), Options{IncludeDetails: false})

	result, err := c.CollectRepository(context.Background(), Target{URL: "octo/demo"}, config.Filters{})
	require.NoError(t, err)

	assert.Len(t, result.Commits, 2)
	assert.Zero(t, api.detailCalls)
	for _, commit := range result.Commits {
		assert.False(t, commit.Detailed)
	}
}

func TestCollectRepositoryTeamAttribution(t *testing.T) {
	api := &fakeAPI{
		summaries: map[string][]ghapi.CommitSummary{"octo/demo": summariesFor("ALICE", "mallory", "")},
	}
	c := New(api, &fakeResolver{}, backendMapper(), Options{})

	result, err := c.CollectRepository(context.Background(), Target{URL: "octo/demo"}, config.Filters{})
	require.NoError(t, err)

	require.Len(t, result.Commits, 3)
	assert.Equal(t, "backend", result.Commits[0].Team, "mapping is case-insensitive")
	assert.Equal(t, "unassigned", result.Commits[1].Team)
	assert.Equal(t, "unassigned", result.Commits[2].Team, "missing username falls back to default team")
}

func TestCollectRepositoryFilterMerge(t *testing.T) {
	api := &fakeAPI{
		summaries: map[string][]ghapi.CommitSummary{"octo/demo": summariesFor("alice")},
	}
	c := New(api, &fakeResolver{}, backendMapper(), Options{})

	global := config.Filters{DateFrom: "2026-01-01", Author: "bob"}
	target := Target{URL: "octo/demo", Filters: config.Filters{Author: "alice"}}

	_, err := c.CollectRepository(context.Background(), target, global)
	require.NoError(t, err)

	require.Len(t, api.listedOpts, 1)
	opts := api.listedOpts[0]
	assert.Equal(t, "alice", opts.Author, "per-repo filter overrides global")
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), opts.Since, "global filter survives where not overridden")
}

func TestCollectRepositoryInvalidDate(t *testing.T) {
	api := &fakeAPI{summaries: map[string][]ghapi.CommitSummary{}}
	c := New(api, &fakeResolver{}, nil, Options{})

	_, err := c.CollectRepository(context.Background(), Target{URL: "octo/demo"}, config.Filters{DateFrom: "not-a-date"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date_from")
}

func TestCollectAllSkipsFailingRepository(t *testing.T) {
	api := &fakeAPI{
		summaries: map[string][]ghapi.CommitSummary{
			"octo/first": summariesFor("alice", "alice"),
			"octo/third": summariesFor("alice"),
		},
		listErrs: map[string]error{
			"octo/second": &ghapi.HTTPError{StatusCode: 500, Endpoint: "/commits"},
		},
	}
	c := New(api, &fakeResolver{}, backendMapper(), Options{})

	targets := []Target{
		{URL: "octo/first"},
		{URL: "octo/second"},
		{URL: "octo/third"},
	}
	result := c.CollectAll(context.Background(), targets, config.Filters{})

	require.Len(t, result.Repositories, 2)
	assert.Equal(t, "octo/first", result.Repositories[0].Repository)
	assert.Equal(t, "octo/third", result.Repositories[1].Repository)
	assert.Equal(t, []string{"octo/second"}, result.Metadata.FailedRepos)
	assert.Equal(t, 3, result.Metadata.TotalCommits)
	assert.NotEmpty(t, result.Metadata.RunID)
}

func TestCollectAllCancelledContext(t *testing.T) {
	api := &fakeAPI{
		summaries: map[string][]ghapi.CommitSummary{"octo/first": summariesFor("alice")},
	}
	c := New(api, &fakeResolver{}, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := c.CollectAll(ctx, []Target{{URL: "octo/first"}}, config.Filters{})
	assert.Empty(t, result.Repositories, "cancelled before the first repository")
	assert.NotEmpty(t, result.Metadata.RunID, "partial results still get metadata")
}

func TestCollectAllBadURLSkipped(t *testing.T) {
	api := &fakeAPI{
		summaries: map[string][]ghapi.CommitSummary{"octo/good": summariesFor("alice")},
	}
	c := New(api, &fakeResolver{}, nil, Options{})

	result := c.CollectAll(context.Background(), []Target{
		{URL: "not a url"},
		{URL: "octo/good"},
	}, config.Filters{})

	require.Len(t, result.Repositories, 1)
	assert.Equal(t, "octo/good", result.Repositories[0].Repository)
	assert.Equal(t, []string{"not a url"}, result.Metadata.FailedRepos)
}
