package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errInvalidForm signals a sanitized form that failed validation. The command
// has already written its result, so only the exit status changes.
var errInvalidForm = errors.New("form is invalid")

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Contact intake backend for a portfolio site",
	Long:          `Sanitizes and validates contact form submissions, stores them, and serves an admin inbox.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd(), mcpCmd(), sanitizeCmd(), totpSetupCmd(), backupCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalidForm) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
