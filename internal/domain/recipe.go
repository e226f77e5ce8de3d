package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	AuthorUsername  string    `json:"author"`
	Title           string    `json:"title"`
	PreparationTime int       `json:"preparation_time"`
	CookingTime     int       `json:"cooking_time"`
	Servings        int       `json:"servings"`
	Ingredients     string    `json:"ingredients"`
	Instructions    string    `json:"instructions"`
	ImageURL        *string   `json:"image_url,omitempty"`
	IsActive        bool      `json:"is_active"`
	IsDeleted       bool      `json:"is_deleted"`
	IsPublished     bool      `json:"is_published"`
	IsPrivate       bool      `json:"is_private"`
	IsShared        bool      `json:"is_shared"`
	Rating          int       `json:"rating"`
	TotalLikes      int       `json:"total_likes"`
	AverageRating   float64   `json:"average_rating"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AverageRating divides the accumulated rating score by the like count,
// not by the number of rating events. Zero likers means 0.00.
func AverageRating(rating, likes int) float64 {
	if likes <= 0 {
		return 0
	}
	return math.Round(float64(rating)/float64(likes)*100) / 100
}

// ComputeAggregates fills the derived fields from persisted state.
func (r *Recipe) ComputeAggregates() {
	r.AverageRating = AverageRating(r.Rating, r.TotalLikes)
}

// VisibleTo decides whether viewer can read this recipe. A nil viewer is
// anonymous: only public recipes (not private, not shared). Staff see
// everything, soft-deleted rows included. Any other authenticated user sees
// only their own recipes; browsing others happens through the published feed.
func (r *Recipe) VisibleTo(viewer *User) bool {
	if viewer != nil && viewer.IsStaff {
		return true
	}
	if r.IsDeleted {
		return false
	}
	if viewer == nil {
		return !r.IsPrivate && !r.IsShared
	}
	return r.UserID == viewer.ID
}

// PubliclyListed reports whether the recipe qualifies for the published feed.
func (r *Recipe) PubliclyListed() bool {
	return r.IsActive && !r.IsDeleted && r.IsPublished
}

// MutableBy gates write access: only the owner or staff may mutate.
func (r *Recipe) MutableBy(actor *User) bool {
	if actor == nil {
		return false
	}
	return actor.IsStaff || r.UserID == actor.ID
}
