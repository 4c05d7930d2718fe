package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores each record set as an indented JSON array in
// <dir>/<set>.json.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates dir if needed and seeds every missing set file with
// an empty array.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	for _, set := range RecordSets {
		path := filepath.Join(dir, set+".json")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("initialise %s: %w", path, err)
			}
		}
	}
	log.Printf("Using file record store in %s", dir)
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(set string) string {
	return filepath.Join(f.dir, set+".json")
}

func (f *FileBackend) Load(_ context.Context, set string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path(set))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (f *FileBackend) Save(_ context.Context, set string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return os.WriteFile(f.path(set), payload, 0o644)
}

func (f *FileBackend) Close() error { return nil }
