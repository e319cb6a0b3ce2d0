package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore persists uploaded files and returns an opaque reference.
// The rest of the system only ever stores and compares the reference;
// file bytes are never interpreted.
type FileStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// LocalFileStore writes files under a single directory with
// uuid-derived names so uploads cannot collide or traverse paths.
type LocalFileStore struct {
	dir string
}

// NewLocalFileStore creates the upload directory if needed.
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalFileStore{dir: dir}, nil
}

// Save streams r to disk and returns the stored file's reference.
func (s *LocalFileStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + filepath.Ext(filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}
