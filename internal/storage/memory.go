package storage

import (
	"context"
	"sync"

	"github.com/jacksmith/snip/internal/model"
)

// Memory is an in-process Backend. Records are copied on the way in and
// out, so callers never share slices with the store.
type Memory struct {
	mu      sync.Mutex
	records map[string]*model.Record
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*model.Record)}
}

func (m *Memory) Get(ctx context.Context, key string) (*model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key].Clone(), nil
}

func (m *Memory) Set(ctx context.Context, key string, r *model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stamp(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = r.Clone()
	return nil
}
