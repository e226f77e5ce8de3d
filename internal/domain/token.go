package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenPair is what a successful login hands out.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RevokedToken is a blacklist entry for a refresh token. Rows past
// ExpiresAt are garbage; the janitor evicts them.
type RevokedToken struct {
	JTI       uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
}
