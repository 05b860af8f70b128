// Package ghapi provides GitHub API client functionality.
//
// This file (types.go) defines the wire types decoded from GitHub REST API
// responses. Only the fields the collector consumes are declared.
package ghapi

// CommitSummary is a single entry from the commit list endpoint
// (GET /repos/{owner}/{repo}/commits). It carries commit metadata but no
// per-file statistics; those require a follow-up detail fetch.
type CommitSummary struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	HTMLURL string `json:"html_url"`
}

// CommitDetail is the full commit from GET /repos/{owner}/{repo}/commits/{sha},
// including aggregate stats and the per-file change list.
type CommitDetail struct {
	CommitSummary
	Stats struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
		Total     int `json:"total"`
	} `json:"stats"`
	Files []CommitFile `json:"files"`
}

// CommitFile describes one changed file within a commit detail response.
type CommitFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// Repository is the subset of GET /repos/{owner}/{repo} the collector uses.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Description   string `json:"description"`
}

// User is the authenticated user from GET /user, used by the connection test.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// RateLimitResponse is the payload of GET /rate_limit.
type RateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int64 `json:"limit"`
			Used      int64 `json:"used"`
			Remaining int64 `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
		Search struct {
			Limit     int64 `json:"limit"`
			Remaining int64 `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"search"`
	} `json:"resources"`
}
