package service

import (
	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
)

// Notifier pushes recipe activity to whoever is listening on the feed
// socket. Implementations must not block.
type Notifier interface {
	RecipePublished(recipe *domain.Recipe)
	RecipeLiked(recipe *domain.Recipe, userID uuid.UUID)
}

// NopNotifier drops everything. Used in tests and when the hub is disabled.
type NopNotifier struct{}

func (NopNotifier) RecipePublished(*domain.Recipe)        {}
func (NopNotifier) RecipeLiked(*domain.Recipe, uuid.UUID) {}
