package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RevokedTokenStore records refresh tokens invalidated by logout. Tokens are
// identified by their jti claim; entries past their expiry are dead weight
// and may be purged at any time.
type RevokedTokenStore interface {
	// Revoke records the token as invalidated. Revoking an already revoked
	// token is not an error.
	Revoke(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error

	// IsRevoked reports whether the token has been invalidated.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PurgeExpired removes entries whose tokens expired before the given
	// instant and returns how many were removed.
	PurgeExpired(ctx context.Context, before time.Time) (int, error)
}
