package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/tasty/internal/domain"
)

// TokenRepo stores blacklisted refresh-token jtis.
type TokenRepo struct {
	pool *pgxpool.Pool
}

func NewTokenRepo(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

func (r *TokenRepo) Revoke(ctx context.Context, token *domain.RevokedToken) error {
	// Revoking twice is not an error.
	query := `
		INSERT INTO revoked_tokens (jti, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, token.JTI, token.UserID, token.ExpiresAt)
	return err
}

func (r *TokenRepo) IsRevoked(ctx context.Context, jti uuid.UUID) (bool, error) {
	var revoked bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)",
		jti,
	).Scan(&revoked)
	return revoked, err
}

func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM revoked_tokens WHERE expires_at < $1", now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
