package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadRecord loads a record file from the given path.
// A missing file is reported with an error wrapping os.ErrNotExist.
func LoadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}

	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse record file %s: %w", path, err)
	}
	if r.Items == nil {
		r.Items = []Item{}
	}

	return &r, nil
}

// SaveRecord writes a record file to the given path.
// The write goes to a temp file first and is renamed over path.
// Multi-line values use block scalar style.
func SaveRecord(path string, r *Record) error {
	data, err := yaml.Marshal(buildRecordNode(r))
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write record file %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace record file %s: %w", path, err)
	}

	return nil
}

// buildRecordNode creates a yaml.Node tree for a Record.
func buildRecordNode(r *Record) *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	if r.Revision != "" {
		addStringField(doc, "revision", r.Revision)
	}
	if !r.Updated.IsZero() {
		addTimeField(doc, "updated", r.Updated)
	}

	if len(r.Items) > 0 {
		items := &yaml.Node{Kind: yaml.SequenceNode}
		for _, it := range r.Items {
			node := &yaml.Node{Kind: yaml.MappingNode}
			addStringField(node, "title", it.Title)
			addMultilineStringField(node, "value", it.Value)
			items.Content = append(items.Content, node)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "items"},
			items,
		)
	}

	return doc
}

// Helper functions for building yaml.Node.
// String scalars carry an explicit !!str tag so values such as "123" or
// "null" are quoted on output and read back as strings.

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str"},
	)
}

func addTimeField(node *yaml.Node, key string, t time.Time) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: t.UTC().Format(time.RFC3339Nano)},
	)
}

func addMultilineStringField(node *yaml.Node, key, value string) {
	var style yaml.Style
	if strings.Contains(value, "\n") {
		style = yaml.LiteralStyle
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str", Style: style},
	)
}
