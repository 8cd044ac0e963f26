// Package files stores attachment bytes behind a small interface so the rest
// of the application never touches the filesystem directly.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded file contents and hands back an opaque key the
// attachment record keeps.
type Store interface {
	// Save writes the contents of r and returns the storage key and the
	// number of bytes written.
	Save(ctx context.Context, filename string, r io.Reader) (key string, size int64, err error)

	// Open returns a reader over the stored contents for the given key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the stored contents for the given key. Removing a key
	// that does not exist is not an error.
	Remove(ctx context.Context, key string) error
}

// DiskStore implements Store on a local directory.
type DiskStore struct {
	dir string
}

// Ensure DiskStore implements Store interface
var _ Store = (*DiskStore)(nil)

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("attachment directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save implements Store.Save. Keys are generated, never derived from the
// client-supplied filename, so uploads cannot collide or escape the root.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, int64, error) {
	ext := filepath.Ext(filename)
	// Keep only a harmless extension hint on the stored name.
	if len(ext) > 16 || strings.ContainsAny(ext, "/\\") {
		ext = ""
	}
	key := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create attachment file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(filepath.Join(s.dir, key))
		return "", 0, fmt.Errorf("failed to write attachment file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close attachment file: %w", err)
	}

	return key, size, nil
}

// Open implements Store.Open.
func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if key != filepath.Base(key) {
		return nil, fmt.Errorf("invalid attachment key %q", key)
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment file: %w", err)
	}
	return f, nil
}

// Remove implements Store.Remove.
func (s *DiskStore) Remove(ctx context.Context, key string) error {
	if key != filepath.Base(key) {
		return fmt.Errorf("invalid attachment key %q", key)
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove attachment file: %w", err)
	}
	return nil
}
