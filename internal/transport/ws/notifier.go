package ws

import (
	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
	"github.com/vedran77/tasty/internal/logger"
	"go.uber.org/zap"
)

// HubNotifier implements service.Notifier using the feed Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) RecipePublished(recipe *domain.Recipe) {
	evt, err := NewEvent(EventTypeRecipePublished, RecipePayload{Recipe: *recipe})
	if err != nil {
		logger.L().Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.Broadcast(evt)
}

func (n *HubNotifier) RecipeLiked(recipe *domain.Recipe, userID uuid.UUID) {
	// Only publicly listed recipes leak activity to the feed.
	if !recipe.PubliclyListed() {
		return
	}

	evt, err := NewEvent(EventTypeRecipeLiked, RecipeLikedPayload{
		Recipe:     *recipe,
		LikedBy:    userID,
		TotalLikes: recipe.TotalLikes,
	})
	if err != nil {
		logger.L().Error("ws notifier: marshal error", zap.Error(err))
		return
	}
	n.hub.Broadcast(evt)
}
