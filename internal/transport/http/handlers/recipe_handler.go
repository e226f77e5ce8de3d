package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/vedran77/tasty/internal/domain"
	"github.com/vedran77/tasty/internal/logger"
	"github.com/vedran77/tasty/internal/repository"
	"github.com/vedran77/tasty/internal/service"
	"github.com/vedran77/tasty/internal/transport/http/middleware"
	"github.com/vedran77/tasty/pkg/validator"
	"go.uber.org/zap"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
}

func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreateRecipeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRecipe(input.Title, input.PreparationTime, input.CookingTime, input.Servings, nil); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	recipe, err := h.recipeService.Create(r.Context(), userID, input)
	if err != nil {
		h.writeRecipeError(w, "create recipe", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"recipe": recipe})
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.MaybeUserID(r.Context())
	filter := parseListFilter(r.URL.Query())

	recipes, err := h.recipeService.List(r.Context(), viewerID, filter)
	if err != nil {
		h.writeRecipeError(w, "list recipes", err)
		return
	}

	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.MaybeUserID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return
	}

	recipe, err := h.recipeService.Get(r.Context(), viewerID, id)
	if err != nil {
		h.writeRecipeError(w, "get recipe", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return
	}

	var input service.UpdateRecipeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRecipePatch(input.Title, input.PreparationTime, input.CookingTime, input.Servings, input.Rating); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	recipe, err := h.recipeService.Update(r.Context(), userID, id, input)
	if err != nil {
		h.writeRecipeError(w, "update recipe", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return
	}

	if err := h.recipeService.Delete(r.Context(), userID, id); err != nil {
		h.writeRecipeError(w, "delete recipe", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return
	}

	recipe, err := h.recipeService.Like(r.Context(), userID, id)
	if err != nil {
		h.writeRecipeError(w, "like recipe", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}

type rateRequest struct {
	Score int `json:"score"`
}

func (h *RecipeHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRatingScore(req.Score); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	recipe, err := h.recipeService.Rate(r.Context(), userID, id, req.Score)
	if err != nil {
		h.writeRecipeError(w, "rate recipe", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}

func (h *RecipeHandler) PublishedFeed(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	recipes, err := h.recipeService.PublishedFeed(r.Context(), limit)
	if err != nil {
		h.writeRecipeError(w, "published feed", err)
		return
	}

	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (h *RecipeHandler) writeRecipeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, service.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You cannot modify this recipe")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown user")
	default:
		logger.L().Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

// parseListFilter maps the query string onto the narrowing filter fields.
// Visibility fields are owned by the service and ignored here.
func parseListFilter(q url.Values) repository.RecipeFilter {
	var filter repository.RecipeFilter

	filter.Search = q.Get("search")
	filter.OrderBy = q.Get("ordering")

	filter.IsActive = parseBoolParam(q, "is_active")
	filter.IsPublished = parseBoolParam(q, "is_published")
	filter.IsPrivate = parseBoolParam(q, "is_private")
	filter.IsShared = parseBoolParam(q, "is_shared")

	if username := q.Get("username"); username != "" {
		filter.Username = &username
	}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	return filter
}

func parseBoolParam(q url.Values, key string) *bool {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
