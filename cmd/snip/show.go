package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <title>",
	Short: "Print an item's value",
	Long: `Print the value saved under a title, exactly as stored.

The title must match exactly, including case.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTitles,
	RunE:              runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}

	it, ok, err := e.store.FindByTitle(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if !ok {
		return &cli.NotFoundError{Title: args[0]}
	}

	fmt.Println(it.Value)
	return nil
}
