// Package main is the entry point for the snip CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snip",
	Short: "snip - save, copy, and sync short title/value notes",
	Long: `snip keeps a list of titled values (addresses, snippets, account
numbers) that you want to paste often.

Items live in a .snip/ directory, or on a sync server shared between
machines. Each title is unique: saving an existing title replaces its
value in place.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Show help when no subcommand is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	flagDir     string
	flagVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "C", ".", "directory to search for .snip/")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log diagnostics at debug level")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("snip version {{.Version}}\n")
}
