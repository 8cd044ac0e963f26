package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/platform/files"
)

// MockFileStore implements files.Store in memory.
type MockFileStore struct {
	SaveFn   func(ctx context.Context, filename string, r io.Reader) (string, int64, error)
	OpenFn   func(ctx context.Context, key string) (io.ReadCloser, error)
	RemoveFn func(ctx context.Context, key string) error

	// RemovedKeys records keys passed to Remove when no RemoveFn is set.
	RemovedKeys []string

	mu      sync.Mutex
	objects map[string][]byte
}

var _ files.Store = (*MockFileStore)(nil)

func (m *MockFileStore) Save(ctx context.Context, filename string, r io.Reader) (string, int64, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, filename, r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	key := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return key, int64(len(data)), nil
}

func (m *MockFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.OpenFn != nil {
		return m.OpenFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("no stored file for key %q", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockFileStore) Remove(ctx context.Context, key string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.RemovedKeys = append(m.RemovedKeys, key)
	return nil
}
