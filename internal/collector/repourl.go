// Package collector orchestrates commit collection across repositories.
//
// This file (repourl.go) parses and validates repository references. The
// accepted forms are the ones people paste from GitHub: "owner/repo",
// https URLs with or without a .git suffix, and git SSH remotes.
package collector

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern validates GitHub owner and repository name segments:
// alphanumerics, hyphens, underscores, and dots, not starting with a dot.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

// ParseRepoURL extracts the owner and repository name from a repository
// reference.
//
// Accepted forms:
//   - owner/repo
//   - https://github.com/owner/repo
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//
// Returns:
//   - owner and repository name
//   - Error if the reference cannot be parsed or contains invalid segments
func ParseRepoURL(ref string) (owner, repo string, err error) {
	if ref == "" {
		return "", "", fmt.Errorf("repository reference cannot be empty")
	}

	path := strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(path, "git@"):
		// git@github.com:owner/repo.git
		idx := strings.Index(path, ":")
		if idx < 0 {
			return "", "", fmt.Errorf("invalid git remote %q", ref)
		}
		path = path[idx+1:]
	case strings.Contains(path, "://"):
		// https://github.com/owner/repo
		idx := strings.Index(path, "://")
		path = path[idx+3:]
		slash := strings.Index(path, "/")
		if slash < 0 {
			return "", "", fmt.Errorf("invalid repository URL %q", ref)
		}
		path = path[slash+1:]
	}

	path = strings.TrimSuffix(path, ".git")
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository reference %q (expected owner/repo)", ref)
	}

	owner, repo = parts[0], parts[1]
	if !namePattern.MatchString(owner) {
		return "", "", fmt.Errorf("invalid repository owner %q", owner)
	}
	if !namePattern.MatchString(repo) {
		return "", "", fmt.Errorf("invalid repository name %q", repo)
	}

	return owner, repo, nil
}
