package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		ref       string
		wantOwner string
		wantRepo  string
	}{
		{"octocat/hello-world", "octocat", "hello-world"},
		{"https://github.com/octocat/hello-world", "octocat", "hello-world"},
		{"https://github.com/octocat/hello-world.git", "octocat", "hello-world"},
		{"https://github.com/octocat/hello-world/", "octocat", "hello-world"},
		{"git@github.com:octocat/hello-world.git", "octocat", "hello-world"},
		{"my-org/repo.name_v2", "my-org", "repo.name_v2"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestParseRepoURLInvalid(t *testing.T) {
	invalid := []string{
		"",
		"just-a-name",
		"too/many/segments",
		"https://github.com",
		"git@github.com",
		"owner/",
		"/repo",
		"owner/.hidden",
	}

	for _, ref := range invalid {
		t.Run(ref, func(t *testing.T) {
			_, _, err := ParseRepoURL(ref)
			assert.Error(t, err)
		})
	}
}
