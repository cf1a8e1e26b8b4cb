package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacksmith/snip/internal/syncserver"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync server",
	Long: `Serve the items in this .snip/ directory over HTTP so other machines
can use them with the remote backend.

Endpoints:
  GET  /                          HTML page listing the items
  GET  /api/records/{key}         record as JSON (404 if absent)
  PUT  /api/records/{key}         replace a record
  GET  /api/records/{key}/watch   websocket of change notifications

The listen address comes from --listen, or "listen" in .snipconfig.yaml.
The server always stores records on local disk, whatever backend is
configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveListen string

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}

	addr := serveListen
	if addr == "" {
		addr = e.cfg.Listen
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := newSyncServer(e)
	fmt.Fprintf(os.Stderr, "Serving %s on %s\n", e.storage.SnipPath(), addr)
	return srv.ListenAndServe(ctx, addr)
}

// newSyncServer serves the local .snip/ records.
func newSyncServer(e *env) *syncserver.Server {
	return syncserver.New(e.storage, syncserver.Options{
		Logger:   e.log,
		IndexKey: e.cfg.RecordKey,
	})
}

