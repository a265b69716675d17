package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go-jobwatch-automation/internal/models"
)

// FileStore keeps the collection as a 4-space indented JSON array on disk.
// The file is re-read on every call so external edits are picked up.
type FileStore struct {
	mu   sync.RWMutex
	path string
	log  *slog.Logger
}

func NewFileStore(path string, log *slog.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log.With("component", "store", "path", path),
	}
}

func (fs *FileStore) Load(ctx context.Context) ([]models.Listing, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.read()
}

func (fs *FileStore) Merge(ctx context.Context, pass []models.Listing) ([]models.Listing, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	existing, err := fs.read()
	if err != nil {
		return nil, err
	}

	fresh := NewEntries(existing, pass)
	if len(fresh) == 0 {
		return nil, nil
	}

	updated := make([]models.Listing, 0, len(existing)+len(fresh))
	updated = append(updated, existing...)
	updated = append(updated, fresh...)
	if err := fs.write(updated); err != nil {
		return nil, err
	}
	fs.log.Info("💾 Saved listings", "new", len(fresh), "total", len(updated))
	return fresh, nil
}

func (fs *FileStore) read() ([]models.Listing, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Listing{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fs.path, err)
	}

	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fs.path, err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}

// write replaces the file through a temp file in the same directory so a
// crash mid-write leaves the previous collection intact.
func (fs *FileStore) write(listings []models.Listing) error {
	data, err := json.MarshalIndent(listings, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal listings: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("replace %s: %w", fs.path, err)
	}
	return nil
}
