package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
	"github.com/vedran77/tasty/internal/repository"
)

type likeKey struct {
	recipeID uuid.UUID
	userID   uuid.UUID
}

type RecipeRepo struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]domain.Recipe
	likes   map[likeKey]struct{}

	// authors resolves user_id → username for the listing join.
	authors *UserRepo
}

func NewRecipeRepo(authors *UserRepo) *RecipeRepo {
	return &RecipeRepo{
		recipes: make(map[uuid.UUID]domain.Recipe),
		likes:   make(map[likeKey]struct{}),
		authors: authors,
	}
}

func (r *RecipeRepo) Create(_ context.Context, recipe *domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[recipe.ID] = *recipe
	return nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recipes[id]
	if !ok {
		return nil, nil
	}
	r.hydrate(ctx, &rec)
	return &rec, nil
}

func (r *RecipeRepo) List(ctx context.Context, filter repository.RecipeFilter) ([]domain.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Recipe
	for _, rec := range r.recipes {
		rec := rec
		r.hydrate(ctx, &rec)
		if matches(&rec, filter) {
			out = append(out, rec)
		}
	}

	sortRecipes(out, filter.OrderBy)

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *RecipeRepo) Update(_ context.Context, recipe *domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[recipe.ID] = *recipe
	return nil
}

func (r *RecipeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.recipes[id]; ok {
		rec.IsDeleted = true
		rec.UpdatedAt = time.Now()
		r.recipes[id] = rec
	}
	return nil
}

func (r *RecipeRepo) AddLike(_ context.Context, recipeID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[likeKey{recipeID, userID}] = struct{}{}
	return nil
}

func (r *RecipeRepo) RemoveLike(_ context.Context, recipeID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, likeKey{recipeID, userID})
	return nil
}

func (r *RecipeRepo) HasLiked(_ context.Context, recipeID, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.likes[likeKey{recipeID, userID}]
	return ok, nil
}

func (r *RecipeRepo) AddRating(_ context.Context, recipeID uuid.UUID, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.recipes[recipeID]; ok {
		rec.Rating += score
		rec.UpdatedAt = time.Now()
		r.recipes[recipeID] = rec
	}
	return nil
}

// hydrate fills the derived fields the postgres queries compute with joins.
// Callers hold at least the read lock.
func (r *RecipeRepo) hydrate(ctx context.Context, rec *domain.Recipe) {
	count := 0
	for key := range r.likes {
		if key.recipeID == rec.ID {
			count++
		}
	}
	rec.TotalLikes = count
	rec.ComputeAggregates()

	if r.authors != nil {
		if author, _ := r.authors.GetByID(ctx, rec.UserID); author != nil {
			rec.AuthorUsername = author.Username
		}
	}
}

func matches(rec *domain.Recipe, f repository.RecipeFilter) bool {
	if !f.IncludeDeleted && rec.IsDeleted {
		return false
	}
	if f.OwnerID != nil && rec.UserID != *f.OwnerID {
		return false
	}
	if f.PublicOnly && (rec.IsPrivate || rec.IsShared) {
		return false
	}
	if f.PublishedOnly && !(rec.IsActive && rec.IsPublished) {
		return false
	}
	if f.IsActive != nil && rec.IsActive != *f.IsActive {
		return false
	}
	if f.IsPublished != nil && rec.IsPublished != *f.IsPublished {
		return false
	}
	if f.IsPrivate != nil && rec.IsPrivate != *f.IsPrivate {
		return false
	}
	if f.IsShared != nil && rec.IsShared != *f.IsShared {
		return false
	}
	if f.Username != nil && rec.AuthorUsername != *f.Username {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(rec.Title), needle) &&
			!strings.Contains(strings.ToLower(rec.Ingredients), needle) &&
			!strings.Contains(strings.ToLower(rec.Instructions), needle) {
			return false
		}
	}
	return true
}

func sortRecipes(recipes []domain.Recipe, orderBy string) {
	desc := strings.HasPrefix(orderBy, "-")
	key := strings.TrimPrefix(orderBy, "-")

	var less func(a, b *domain.Recipe) bool
	switch key {
	case "updated_at":
		less = func(a, b *domain.Recipe) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "rating":
		less = func(a, b *domain.Recipe) bool { return a.Rating < b.Rating }
	case "created_at":
		less = func(a, b *domain.Recipe) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		// Unknown keys fall back to newest-first, same as the SQL side.
		less = func(a, b *domain.Recipe) bool { return a.CreatedAt.Before(b.CreatedAt) }
		desc = true
	}

	sort.SliceStable(recipes, func(i, j int) bool {
		if desc {
			return less(&recipes[j], &recipes[i])
		}
		return less(&recipes[i], &recipes[j])
	})
}
