// Package ops implements the item operations on top of a storage backend.
package ops

import (
	"context"
	"strings"

	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/storage"
)

// ItemStore keeps a collection of items in a single backend record.
//
// Every call re-reads the record and mutations write the whole collection
// back. Nothing is cached and nothing is locked: two writers racing on the
// same record can lose one another's update.
type ItemStore struct {
	backend storage.Backend
	key     string
}

// NewItemStore returns an ItemStore over the record key in b. An empty key
// uses model.DefaultRecordKey.
func NewItemStore(b storage.Backend, key string) *ItemStore {
	if key == "" {
		key = model.DefaultRecordKey
	}
	return &ItemStore{backend: b, key: key}
}

// Key returns the record key the store reads and writes.
func (s *ItemStore) Key() string {
	return s.key
}

// ValidateItem checks that title and value are non-empty after trimming.
func ValidateItem(title, value string) error {
	t, v := strings.TrimSpace(title), strings.TrimSpace(value)
	switch {
	case t == "" && v == "":
		return &ValidationError{Field: "title and value", Err: ErrEmpty}
	case t == "":
		return &ValidationError{Field: "title", Err: ErrEmpty}
	case v == "":
		return &ValidationError{Field: "value", Err: ErrEmpty}
	}
	return nil
}

// Upsert sets the value for title. An existing item keeps its position;
// a new one is appended.
func (s *ItemStore) Upsert(ctx context.Context, title, value string) error {
	if err := ValidateItem(title, value); err != nil {
		return err
	}
	title, value = strings.TrimSpace(title), strings.TrimSpace(value)

	r, err := s.load(ctx)
	if err != nil {
		return err
	}

	if i := r.Index(title); i >= 0 {
		r.Items[i].Value = value
	} else {
		r.Items = append(r.Items, model.Item{Title: title, Value: value})
	}

	return s.save(ctx, r)
}

// List returns the current collection in stored order. The slice is never nil.
func (s *ItemStore) List(ctx context.Context) ([]model.Item, error) {
	r, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return r.Items, nil
}

// FindByTitle returns the item with exactly this title.
func (s *ItemStore) FindByTitle(ctx context.Context, title string) (model.Item, bool, error) {
	r, err := s.load(ctx)
	if err != nil {
		return model.Item{}, false, err
	}
	if i := r.Index(title); i >= 0 {
		return r.Items[i], true, nil
	}
	return model.Item{}, false, nil
}

// Delete removes every item with exactly this title and reports whether
// any was removed. The collection is written back either way.
func (s *ItemStore) Delete(ctx context.Context, title string) (bool, error) {
	r, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	kept := r.Items[:0]
	for _, it := range r.Items {
		if it.Title != title {
			kept = append(kept, it)
		}
	}
	removed := len(kept) != len(r.Items)
	r.Items = kept

	if err := s.save(ctx, r); err != nil {
		return false, err
	}
	return removed, nil
}

// load reads the record, treating an absent one as empty.
func (s *ItemStore) load(ctx context.Context) (*model.Record, error) {
	r, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: s.key, Err: err}
	}
	if r == nil {
		r = &model.Record{}
	}
	if r.Items == nil {
		r.Items = []model.Item{}
	}
	return r, nil
}

func (s *ItemStore) save(ctx context.Context, r *model.Record) error {
	if err := s.backend.Set(ctx, s.key, r); err != nil {
		return &StorageError{Op: "set", Key: s.key, Err: err}
	}
	return nil
}
