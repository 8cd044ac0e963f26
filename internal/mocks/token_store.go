package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockRevokedTokenStore implements store.RevokedTokenStore for testing. With
// no overrides it behaves as an in-memory blacklist.
type MockRevokedTokenStore struct {
	RevokeFn       func(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error
	IsRevokedFn    func(ctx context.Context, jti string) (bool, error)
	PurgeExpiredFn func(ctx context.Context, before time.Time) (int, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

var _ store.RevokedTokenStore = (*MockRevokedTokenStore)(nil)

func (m *MockRevokedTokenStore) Revoke(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, jti, userID, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[jti] = expiresAt
	return nil
}

func (m *MockRevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func (m *MockRevokedTokenStore) PurgeExpired(ctx context.Context, before time.Time) (int, error) {
	if m.PurgeExpiredFn != nil {
		return m.PurgeExpiredFn(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	for jti, exp := range m.revoked {
		if exp.Before(before) {
			delete(m.revoked, jti)
			purged++
		}
	}
	return purged, nil
}
