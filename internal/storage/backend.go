package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jacksmith/snip/internal/model"
)

// Backend is the key-value store a collection lives in. Get reports an
// absent record as (nil, nil); Set overwrites the whole record.
type Backend interface {
	Get(ctx context.Context, key string) (*model.Record, error)
	Set(ctx context.Context, key string, r *model.Record) error
}

// Change is published after a record is written.
type Change struct {
	Type     string `json:"type"`
	Key      string `json:"key"`
	Revision string `json:"revision"`
}

// ChangeTypeChanged is the only change type currently published.
const ChangeTypeChanged = "changed"

// Watcher is implemented by backends that can push change notifications.
// The returned channel is closed when ctx ends or the feed breaks.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan Change, error)
}

// NewBackend returns the backend selected by cfg, using s for file storage.
func NewBackend(s *Storage, cfg *Config) (Backend, error) {
	switch cfg.Backend {
	case BackendFile, "":
		if s == nil {
			return nil, fmt.Errorf("file backend requires a .snip/ directory")
		}
		return s, nil
	case BackendRemote:
		return NewRemote(cfg.SyncURL, nil)
	default:
		return nil, fmt.Errorf("unknown backend %q (expected %q or %q)", cfg.Backend, BackendFile, BackendRemote)
	}
}

// stamp assigns a new revision and update time to r.
func stamp(r *model.Record) {
	r.Revision = uuid.NewString()
	r.Updated = time.Now().UTC()
	if r.Items == nil {
		r.Items = []model.Item{}
	}
}
