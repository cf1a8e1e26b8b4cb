// Package model defines the core data structures for snip.
package model

import "time"

// DefaultRecordKey is the storage key holding the saved items.
const DefaultRecordKey = "savedItems"

// Item is a single title/value pair. The title is its identity.
type Item struct {
	Title string `yaml:"title" json:"title"`
	Value string `yaml:"value" json:"value"`
}

// Record is the unit a backend stores under one key: the whole collection
// plus the stamp of the write that produced it.
type Record struct {
	Items    []Item    `yaml:"items,omitempty" json:"items"`
	Revision string    `yaml:"revision,omitempty" json:"revision,omitempty"`
	Updated  time.Time `yaml:"updated,omitempty" json:"updated"`
}

// Clone returns a deep copy of r. A nil record clones to nil.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Items = make([]Item, len(r.Items))
	copy(out.Items, r.Items)
	return &out
}

// Index returns the position of the first item titled title, or -1.
// Titles compare exactly, case included.
func (r *Record) Index(title string) int {
	if r == nil {
		return -1
	}
	for i, it := range r.Items {
		if it.Title == title {
			return i
		}
	}
	return -1
}
