// Package storage provides the backends snip keeps its record in: a .snip/
// directory on disk, an in-process map, and a remote sync server.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksmith/snip/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// snipDir is the name of the snip directory.
	snipDir = ".snip"
	// recordsDir is the subdirectory for record files.
	recordsDir = "records"
	// configFile is the name of the config file within .snip/.
	configFile = "config.yaml"
)

// StorageConfig contains settings stored in .snip/config.yaml.
type StorageConfig struct {
	Version int `yaml:"version"`
}

// Storage provides access to a .snip/ directory. It implements Backend.
type Storage struct {
	root string // path to directory containing .snip/
}

// Open returns a Storage for the given directory.
// Returns error if .snip/ does not exist.
func Open(dir string) (*Storage, error) {
	snipPath := filepath.Join(dir, snipDir)
	info, err := os.Stat(snipPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".snip/ directory not found in %s (run `snip init`)", dir)
		}
		return nil, fmt.Errorf("failed to access .snip/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".snip is not a directory")
	}

	return &Storage{root: dir}, nil
}

// Discover opens the nearest .snip/ directory at or above dir.
func Discover(dir string) (*Storage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for cur := abs; ; {
		if info, err := os.Stat(filepath.Join(cur, snipDir)); err == nil && info.IsDir() {
			return &Storage{root: cur}, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return nil, fmt.Errorf(".snip/ directory not found in %s or any parent (run `snip init`)", abs)
}

// Init creates the .snip/ directory.
// Returns error if .snip/ already exists.
func Init(dir string) (*Storage, error) {
	snipPath := filepath.Join(dir, snipDir)

	if _, err := os.Stat(snipPath); err == nil {
		return nil, fmt.Errorf(".snip/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .snip/: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(snipPath, recordsDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create .snip/records/: %w", err)
	}

	cfg := StorageConfig{Version: 1}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(snipPath, configFile), cfgData, 0644); err != nil {
		os.RemoveAll(snipPath)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	return &Storage{root: dir}, nil
}

// Root returns the root directory containing .snip/.
func (s *Storage) Root() string {
	return s.root
}

// SnipPath returns the path to the .snip/ directory.
func (s *Storage) SnipPath() string {
	return filepath.Join(s.root, snipDir)
}

// recordPath returns the path to the file holding key.
func (s *Storage) recordPath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, snipDir, recordsDir, key+".yaml"), nil
}

// Get loads the record stored under key. An absent record yields (nil, nil).
func (s *Storage) Get(ctx context.Context, key string) (*model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.recordPath(key)
	if err != nil {
		return nil, err
	}
	r, err := model.LoadRecord(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// Set replaces the record stored under key. r is stamped with a fresh
// revision and update time before it is written.
func (s *Storage) Set(ctx context.Context, key string, r *model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.recordPath(key)
	if err != nil {
		return err
	}
	stamp(r)
	return model.SaveRecord(path, r)
}

// ValidateKey rejects record keys that cannot be used as a file name.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid record key %q", key)
	}
	return nil
}
