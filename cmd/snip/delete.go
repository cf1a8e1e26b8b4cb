package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/render"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <title>",
	Aliases: []string{"rm"},
	Short:   "Delete an item",
	Long: `Delete the item saved under a title.

When run from a terminal you are asked to confirm. Use --yes to skip the
question, for example in scripts.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTitles,
	RunE:              runDelete,
}

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	title := args[0]

	if !deleteYes && cli.IsTerminal(os.Stdin) {
		ok, err := cli.Confirm(os.Stdin, os.Stdout, render.ConfirmDelete(title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(cli.Warn("Cancelled"))
			return nil
		}
	}

	removed, err := e.store.Delete(ctx, title)
	if err != nil {
		return err
	}
	if !removed {
		notFound := &cli.NotFoundError{Title: title}
		cli.Notify(os.Stderr, cli.NotificationFor(cli.ActionDelete, notFound))
		return notFound
	}

	cli.Notify(cmdOut(cmd), cli.NotificationFor(cli.ActionDelete, nil))
	return nil
}

// cmdOut returns where a command writes its normal output.
func cmdOut(cmd *cobra.Command) io.Writer {
	if cmd != nil {
		return cmd.OutOrStdout()
	}
	return os.Stdout
}
