package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// RecipeFilter narrows List. Visibility fields (OwnerID, PublicOnly,
// PublishedOnly, IncludeDeleted) are set by the service from the viewer;
// the rest come from the query string and only ever narrow further.
type RecipeFilter struct {
	OwnerID        *uuid.UUID
	PublicOnly     bool
	PublishedOnly  bool
	IncludeDeleted bool

	IsActive    *bool
	IsPublished *bool
	IsPrivate   *bool
	IsShared    *bool
	Username    *string
	Search      string

	// OrderBy is one of created_at, updated_at, rating with an optional
	// leading "-" for descending. Empty means -created_at.
	OrderBy string
	Limit   int
	Offset  int
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, error)
	Update(ctx context.Context, recipe *domain.Recipe) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	AddLike(ctx context.Context, recipeID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, recipeID, userID uuid.UUID) error
	HasLiked(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)

	// AddRating adds a contribution to the raw rating accumulator.
	AddRating(ctx context.Context, recipeID uuid.UUID, score int) error
}

// TokenRepository is the refresh-token blacklist.
type TokenRepository interface {
	Revoke(ctx context.Context, token *domain.RevokedToken) error
	IsRevoked(ctx context.Context, jti uuid.UUID) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
