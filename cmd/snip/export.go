package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/render"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all items to stdout",
	Long: `Write every saved item to stdout.

The default format is YAML, a list of title/value pairs. With --html the
items are written as a standalone HTML page, with titles and values
escaped.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportHTML bool

func init() {
	exportCmd.Flags().BoolVar(&exportHTML, "html", false, "write an HTML page instead of YAML")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}

	items, err := e.store.List(commandContext(cmd))
	if err != nil {
		return err
	}

	if exportHTML {
		return render.Page(os.Stdout, "Saved items", items)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	return enc.Close()
}
