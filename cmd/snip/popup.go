package main

import (
	"time"

	"github.com/jacksmith/snip/internal/popup"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/spf13/cobra"
)

var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Open the interactive item list",
	Long: `Open a full-screen view with a form for new items above the list of
saved ones.

Keys:
  tab / shift+tab  move between title, value, and the list
  enter            next field, save, or copy the selected item
  c                copy the selected item
  d                delete the selected item (asks first)
  esc              quit

With the remote backend, the list refreshes when another machine changes
it.`,
	Args: cobra.NoArgs,
	RunE: runPopup,
}

func init() {
	rootCmd.AddCommand(popupCmd)
}

func runPopup(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}

	opts := popup.Options{
		Context:   commandContext(cmd),
		Store:     e.store,
		Clipboard: clipboardWriter,
		Logger:    e.log,
		NotifyFor: time.Duration(e.cfg.NotifySeconds) * time.Second,
	}
	if w, ok := e.backend.(storage.Watcher); ok {
		opts.Watcher = w
	}

	return popup.Run(opts)
}
