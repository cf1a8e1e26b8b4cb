package main

import (
	"os"
	"strings"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Print shell completion scripts",
	Long: `Print a completion script for bash, zsh, or fish.

Titles are completed for show, copy, save, and delete.

Examples:
  source <(snip completion bash)
  snip completion zsh > "${fpath[1]}/_snip"
  snip completion fish > ~/.config/fish/completions/snip.fish`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Print the bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(os.Stdout, true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Print the zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Print the fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completeTitles completes the first argument with saved titles. Matching
// is case-sensitive, like title lookup.
func completeTitles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	e, err := openEnv()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	items, err := e.store.List(commandContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, it := range items {
		if strings.HasPrefix(it.Title, toComplete) {
			completions = append(completions, it.Title+"\t"+cli.Truncate(cli.Flatten(it.Value), 40))
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}
