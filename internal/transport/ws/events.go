package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
)

// Event types - Client → Server
const (
	EventTypePing = "ping"
)

// Event types - Server → Client
const (
	EventTypeRecipePublished = "recipe.published"
	EventTypeRecipeLiked     = "recipe.liked"
	EventTypePong            = "pong"
	EventTypeError           = "error"
)

// Event is the base envelope for all feed socket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

type RecipePayload struct {
	domain.Recipe
}

type RecipeLikedPayload struct {
	Recipe     domain.Recipe `json:"recipe"`
	LikedBy    uuid.UUID     `json:"liked_by"`
	TotalLikes int           `json:"total_likes"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
