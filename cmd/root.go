// Package cmd defines the cobra command tree for the pharmacy CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command. Subcommands resolve their own App instance
// so that config and token storage are only touched when actually needed.
var rootCmd = &cobra.Command{
	Use:   "pharmacy-cli",
	Short: "A CLI client for the pharmacy operations platform",
	Long: `pharmacy-cli talks to the pharmacy operations backend on behalf of
admins, managers, pharmacists and cashiers.

Current capabilities include:
  - Authentication management (login, logout, status, verify, change-password)
  - Raw API access for any endpoint via the 'api' command

Every call goes through the resilient API client: bounded-time requests,
retry with backoff for transient failures, and automatic session teardown
when the server reports an expired session.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging for client internals")
}
