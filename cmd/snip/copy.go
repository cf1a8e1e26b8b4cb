package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var copyCmd = &cobra.Command{
	Use:   "copy <title>",
	Short: "Copy an item's value to the clipboard",
	Long: `Copy the value saved under a title to the system clipboard.

On Linux this needs xclip, xsel, or wl-clipboard to be installed.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTitles,
	RunE:              runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	title := args[0]

	it, ok, err := e.store.FindByTitle(commandContext(cmd), title)
	if err != nil {
		return err
	}
	if !ok {
		return &cli.NotFoundError{Title: title}
	}

	if err := clipboardWriter.WriteText(it.Value); err != nil {
		e.log.Warn("copy failed", zap.String("title", title), zap.Error(err))
		cli.Notify(os.Stderr, cli.NotificationFor(cli.ActionCopy, err))
		return fmt.Errorf("copy %q: %w", title, err)
	}

	cli.Notify(cmdOut(cmd), cli.NotificationFor(cli.ActionCopy, nil))
	return nil
}
