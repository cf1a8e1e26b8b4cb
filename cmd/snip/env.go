package main

import (
	"github.com/jacksmith/snip/internal/clipboard"
	"github.com/jacksmith/snip/internal/logging"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/jacksmith/snip/internal/storage"
	"go.uber.org/zap"
)

// clipboardWriter is replaced in tests.
var clipboardWriter clipboard.Writer = clipboard.System{}

// env bundles what a command needs to work with the item store.
type env struct {
	storage *storage.Storage
	cfg     *storage.Config
	backend storage.Backend
	store   *ops.ItemStore
	log     *zap.Logger
}

// openEnv discovers .snip/, loads configuration, and connects the
// configured backend.
func openEnv() (*env, error) {
	s, err := storage.Discover(flagDir)
	if err != nil {
		return nil, err
	}

	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := storage.NewBackend(s, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("opened store",
		zap.String("root", s.Root()),
		zap.String("backend", cfg.Backend),
		zap.String("key", cfg.RecordKey))

	return &env{
		storage: s,
		cfg:     cfg,
		backend: backend,
		store:   ops.NewItemStore(backend, cfg.RecordKey),
		log:     log,
	}, nil
}

func newLogger(cfg *storage.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	return logging.New(level)
}
