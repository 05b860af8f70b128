// gh-commits collects commit history from GitHub repositories, attributes
// commits to teams, and exports the results as JSON or CSV with aggregate
// statistics.
//
// Usage:
//
//	gh-commits collect --repo octocat/hello-world
//	gh-commits collect --config-dir config --format both
//
// For full documentation, see: https://github.com/mona-actions/gh-commits
package main

import (
	"github.com/mona-actions/gh-commits/cmd"
)

// Version is the current version of gh-commits.
// It can be overridden at build time using:
//
//	go build -ldflags="-X main.Version=v1.0.0"
//
// During releases, this is automatically set from the git tag.
var Version = "dev"

func main() {
	// Set version in cmd package so it can be accessed by subcommands
	cmd.Version = Version
	cmd.Execute()
}
