package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
)

type TokenRepo struct {
	mu      sync.RWMutex
	revoked map[uuid.UUID]domain.RevokedToken
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{revoked: make(map[uuid.UUID]domain.RevokedToken)}
}

func (r *TokenRepo) Revoke(_ context.Context, token *domain.RevokedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token.JTI] = *token
	return nil
}

func (r *TokenRepo) IsRevoked(_ context.Context, jti uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[jti]
	return ok, nil
}

func (r *TokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for jti, token := range r.revoked {
		if token.ExpiresAt.Before(now) {
			delete(r.revoked, jti)
			n++
		}
	}
	return n, nil
}
