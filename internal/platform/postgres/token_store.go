package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgresRevokedTokenStore implements the store.RevokedTokenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRevokedTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRevokedTokenStore creates a new PostgreSQL implementation of the RevokedTokenStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresRevokedTokenStore(db store.DBTX, logger *slog.Logger) *PostgresRevokedTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRevokedTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "revoked_token_store")),
	}
}

// Ensure PostgresRevokedTokenStore implements store.RevokedTokenStore interface
var _ store.RevokedTokenStore = (*PostgresRevokedTokenStore)(nil)

// Revoke implements store.RevokedTokenStore.Revoke
// Revoking the same token twice is not an error.
func (s *PostgresRevokedTokenStore) Revoke(
	ctx context.Context,
	jti string,
	userID uuid.UUID,
	expiresAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jti) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, jti, userID, expiresAt, time.Now().UTC())
	if err != nil {
		log.Error("failed to revoke token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	log.Info("refresh token revoked", slog.String("user_id", userID.String()))
	return nil
}

// IsRevoked implements store.RevokedTokenStore.IsRevoked
func (s *PostgresRevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var revoked bool
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	if err := s.db.QueryRowContext(ctx, query, jti).Scan(&revoked); err != nil {
		log.Error("failed to check token revocation", slog.String("error", err.Error()))
		return false, err
	}

	return revoked, nil
}

// PurgeExpired implements store.RevokedTokenStore.PurgeExpired
// Expired entries are safe to drop: the token itself no longer validates.
func (s *PostgresRevokedTokenStore) PurgeExpired(ctx context.Context, before time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < $1`,
		before,
	)
	if err != nil {
		log.Error("failed to purge expired revoked tokens", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		log.Info("purged expired revoked tokens", slog.Int64("count", purged))
	}
	return int(purged), nil
}
