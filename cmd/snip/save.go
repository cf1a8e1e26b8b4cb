package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save <title> [value]",
	Short: "Save an item",
	Long: `Save a value under a title.

If an item with the same title exists its value is replaced and it keeps
its place in the list; otherwise the item is appended. Titles are
case-sensitive. Surrounding whitespace is trimmed from both fields.

With --edit, the value is written in $VISUAL or $EDITOR, starting from
the current value if the title already exists.`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeTitles,
	RunE:              runSave,
}

var saveEdit bool

func init() {
	saveCmd.Flags().BoolVarP(&saveEdit, "edit", "e", false, "write the value in your editor")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	title := args[0]

	var value string
	switch {
	case len(args) == 2 && saveEdit:
		return fmt.Errorf("cannot combine a value argument with --edit")
	case len(args) == 2:
		value = args[1]
	case saveEdit:
		current, _, err := e.store.FindByTitle(ctx, title)
		if err != nil {
			return err
		}
		value, err = cli.EditValue(title, current.Value)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("missing value for %q (pass it as an argument or use --edit)", title)
	}

	if err := e.store.Upsert(ctx, title, value); err != nil {
		if errors.Is(err, ops.ErrEmpty) {
			return fmt.Errorf("%s (%w)", cli.MsgEmptyInput, err)
		}
		return err
	}
	cli.Notify(cmdOut(cmd), cli.NotificationFor(cli.ActionSave, nil))
	return nil
}

// commandContext returns the command's context, or a background context
// when the command is invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
