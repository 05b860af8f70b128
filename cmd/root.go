// Package cmd provides the command-line interface for gh-commits.
// It defines the Cobra command structure, flag handling, and command execution
// for collecting commit history from GitHub repositories.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by the main package at startup.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gh-commits",
	Short: "Collect commit history from GitHub repositories",
	Long: `gh-commits collects commit history from one or more GitHub
repositories, attributes commits to teams, and exports the results as
JSON or CSV.`,
	Run: func(cmd *cobra.Command, args []string) {
		// fallback message, collection logic is in a subcommand
		fmt.Println("Use `gh-commits collect` to start collecting commits.")
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
