package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// document is the on-disk layout of the workspace snapshot.
type document struct {
	SavedAt       time.Time     `json:"savedAt"`
	State         State         `json:"state"`
	ImportHistory []ImportEntry `json:"importHistory"`
	ChangeHistory []ChangeEntry `json:"changeHistory"`
}

// SnapshotFile keeps the workspace in a single JSON file so the service can run
// without its database.
type SnapshotFile struct {
	path string
}

func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: path}
}

func (f *SnapshotFile) Path() string {
	return f.path
}

func (f *SnapshotFile) read() (*document, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("corrupt snapshot %s: %w", f.path, err)
	}
	doc.State = doc.State.normalized()

	return &doc, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (f *SnapshotFile) write(doc document) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return os.Rename(tmp.Name(), f.path)
}

func (f *SnapshotFile) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
