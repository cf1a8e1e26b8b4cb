package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new snip directory",
	Long: `Create a .snip/ directory for saved items.

Items are stored in .snip/records/. Optional settings go in a
.snipconfig.yaml file next to .snip/.

Fails if .snip/ already exists in the target directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := storage.Init(flagDir); err != nil {
		return err
	}
	fmt.Println("Initialized snip in .snip/")
	return nil
}
