package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
	"github.com/vedran77/tasty/internal/repository"
)

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrPermissionDenied = errors.New("not allowed to modify this recipe")
)

const (
	DefaultFeedLimit = 10
	maxListLimit     = 100
)

type RecipeService struct {
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	notifier   Notifier
}

func NewRecipeService(recipeRepo repository.RecipeRepository, userRepo repository.UserRepository, notifier Notifier) *RecipeService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RecipeService{
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

type CreateRecipeInput struct {
	Title           string  `json:"title"`
	PreparationTime int     `json:"preparation_time"`
	CookingTime     int     `json:"cooking_time"`
	Servings        int     `json:"servings"`
	Ingredients     string  `json:"ingredients"`
	Instructions    string  `json:"instructions"`
	ImageURL        *string `json:"image_url"`
	IsPublished     bool    `json:"is_published"`
	IsPrivate       bool    `json:"is_private"`
	IsShared        bool    `json:"is_shared"`
}

type UpdateRecipeInput struct {
	Title           *string `json:"title"`
	PreparationTime *int    `json:"preparation_time"`
	CookingTime     *int    `json:"cooking_time"`
	Servings        *int    `json:"servings"`
	Ingredients     *string `json:"ingredients"`
	Instructions    *string `json:"instructions"`
	ImageURL        *string `json:"image_url"`
	IsActive        *bool   `json:"is_active"`
	IsPublished     *bool   `json:"is_published"`
	IsPrivate       *bool   `json:"is_private"`
	IsShared        *bool   `json:"is_shared"`
	Rating          *int    `json:"rating"`
}

func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, input CreateRecipeInput) (*domain.Recipe, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	recipe := &domain.Recipe{
		ID:              uuid.New(),
		UserID:          ownerID,
		AuthorUsername:  owner.Username,
		Title:           input.Title,
		PreparationTime: input.PreparationTime,
		CookingTime:     input.CookingTime,
		Servings:        input.Servings,
		Ingredients:     input.Ingredients,
		Instructions:    input.Instructions,
		ImageURL:        input.ImageURL,
		IsActive:        true,
		IsPublished:     input.IsPublished,
		IsPrivate:       input.IsPrivate,
		IsShared:        input.IsShared,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("creating recipe: %w", err)
	}

	if recipe.PubliclyListed() {
		s.notifier.RecipePublished(recipe)
	}

	return recipe, nil
}

// Get applies the same visibility rule as List: a recipe the viewer cannot
// see is reported as missing, never as forbidden.
func (s *RecipeService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*domain.Recipe, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil || !recipe.VisibleTo(viewer) {
		return nil, ErrRecipeNotFound
	}

	return recipe, nil
}

// List layers the viewer's visibility onto the caller's query filters. The
// query can narrow the visible set but never widen it: staff list everything,
// anonymous viewers get public recipes, everyone else only their own.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, filter repository.RecipeFilter) ([]domain.Recipe, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	filter.OwnerID = nil
	filter.PublicOnly = false
	filter.PublishedOnly = false
	filter.IncludeDeleted = false

	switch {
	case viewer != nil && viewer.IsStaff:
		filter.IncludeDeleted = true
	case viewer != nil:
		id := viewer.ID
		filter.OwnerID = &id
	default:
		filter.PublicOnly = true
	}

	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = 20
	}

	return s.recipeRepo.List(ctx, filter)
}

func (s *RecipeService) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateRecipeInput) (*domain.Recipe, error) {
	_, recipe, err := s.loadForWrite(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	wasListed := recipe.PubliclyListed()

	if input.Title != nil {
		recipe.Title = *input.Title
	}
	if input.PreparationTime != nil {
		recipe.PreparationTime = *input.PreparationTime
	}
	if input.CookingTime != nil {
		recipe.CookingTime = *input.CookingTime
	}
	if input.Servings != nil {
		recipe.Servings = *input.Servings
	}
	if input.Ingredients != nil {
		recipe.Ingredients = *input.Ingredients
	}
	if input.Instructions != nil {
		recipe.Instructions = *input.Instructions
	}
	if input.ImageURL != nil {
		recipe.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		recipe.IsActive = *input.IsActive
	}
	if input.IsPublished != nil {
		recipe.IsPublished = *input.IsPublished
	}
	if input.IsPrivate != nil {
		recipe.IsPrivate = *input.IsPrivate
	}
	if input.IsShared != nil {
		recipe.IsShared = *input.IsShared
	}
	if input.Rating != nil {
		recipe.Rating = *input.Rating
	}

	recipe.UpdatedAt = time.Now()
	recipe.ComputeAggregates()

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("updating recipe: %w", err)
	}

	if !wasListed && recipe.PubliclyListed() {
		s.notifier.RecipePublished(recipe)
	}

	return recipe, nil
}

// Delete is a soft delete; the row stays and every non-staff read path
// filters it out from here on.
func (s *RecipeService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, _, err := s.loadForWrite(ctx, actorID, id); err != nil {
		return err
	}
	return s.recipeRepo.SoftDelete(ctx, id)
}

// Like toggles the actor's like. Returns the recipe with fresh aggregates.
func (s *RecipeService) Like(ctx context.Context, actorID, id uuid.UUID) (*domain.Recipe, error) {
	actor, recipe, err := s.loadForRead(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	liked, err := s.recipeRepo.HasLiked(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.recipeRepo.RemoveLike(ctx, id, actor.ID)
	} else {
		err = s.recipeRepo.AddLike(ctx, id, actor.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("toggling like: %w", err)
	}

	recipe, err = s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !liked && recipe != nil {
		s.notifier.RecipeLiked(recipe, actor.ID)
	}

	return recipe, nil
}

// Rate adds a contribution to the raw rating accumulator. The average shown
// on reads divides this sum by the like count.
func (s *RecipeService) Rate(ctx context.Context, actorID, id uuid.UUID, score int) (*domain.Recipe, error) {
	if _, _, err := s.loadForRead(ctx, actorID, id); err != nil {
		return nil, err
	}

	if err := s.recipeRepo.AddRating(ctx, id, score); err != nil {
		return nil, fmt.Errorf("adding rating: %w", err)
	}

	return s.recipeRepo.GetByID(ctx, id)
}

// PublishedFeed is the public cross-user read path: active, not deleted,
// published, newest first.
func (s *RecipeService) PublishedFeed(ctx context.Context, limit int) ([]domain.Recipe, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.recipeRepo.List(ctx, repository.RecipeFilter{
		PublishedOnly: true,
		OrderBy:       "-created_at",
		Limit:         limit,
	})
}

func (s *RecipeService) viewer(ctx context.Context, viewerID *uuid.UUID) (*domain.User, error) {
	if viewerID == nil {
		return nil, nil
	}
	viewer, err := s.userRepo.GetByID(ctx, *viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUserNotFound
	}
	return viewer, nil
}

// loadForWrite loads the recipe and enforces owner-or-staff. A missing row is
// NotFound; an existing row the actor does not own is PermissionDenied.
func (s *RecipeService) loadForWrite(ctx context.Context, actorID, id uuid.UUID) (*domain.User, *domain.Recipe, error) {
	actor, err := s.viewer(ctx, &actorID)
	if err != nil {
		return nil, nil, err
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if recipe == nil || (recipe.IsDeleted && !actor.IsStaff) {
		return nil, nil, ErrRecipeNotFound
	}
	if !recipe.MutableBy(actor) {
		return nil, nil, ErrPermissionDenied
	}

	return actor, recipe, nil
}

// loadForRead gates like/rate: the recipe must be visible to the actor or
// publicly listed through the published feed.
func (s *RecipeService) loadForRead(ctx context.Context, actorID, id uuid.UUID) (*domain.User, *domain.Recipe, error) {
	actor, err := s.viewer(ctx, &actorID)
	if err != nil {
		return nil, nil, err
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if recipe == nil || (!recipe.VisibleTo(actor) && !recipe.PubliclyListed()) {
		return nil, nil, ErrRecipeNotFound
	}

	return actor, recipe, nil
}
