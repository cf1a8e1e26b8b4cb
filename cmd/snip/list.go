package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/render"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved items",
	Long: `List saved items in the order they were first saved.

By default only titles are shown. Use --values to show a one-line
preview of each value.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listValues bool

func init() {
	listCmd.Flags().BoolVar(&listValues, "values", false, "show a preview of each value")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}

	items, err := e.store.List(commandContext(cmd))
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println(cli.Muted(render.EmptyPlaceholder))
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(1, cli.DefaultMaxValueWidth)
	for _, it := range items {
		if listValues {
			table.AddRow(cli.Bold(it.Title), it.Value)
		} else {
			table.AddRow(it.Title)
		}
	}
	table.Render(os.Stdout)
	return nil
}
