package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/tasty/internal/domain"
	"github.com/vedran77/tasty/internal/repository"
)

const recipeColumns = `r.id, r.user_id, u.username, r.title, r.preparation_time, r.cooking_time,
		r.servings, r.ingredients, r.instructions, r.image_url,
		r.is_active, r.is_deleted, r.is_published, r.is_private, r.is_shared,
		r.rating, r.created_at, r.updated_at,
		(SELECT count(*) FROM recipe_likes l WHERE l.recipe_id = r.id) AS total_likes`

type RecipeRepo struct {
	pool *pgxpool.Pool
}

func NewRecipeRepo(pool *pgxpool.Pool) *RecipeRepo {
	return &RecipeRepo{pool: pool}
}

func (r *RecipeRepo) Create(ctx context.Context, recipe *domain.Recipe) error {
	query := `
		INSERT INTO recipes (id, user_id, title, preparation_time, cooking_time, servings,
			ingredients, instructions, image_url,
			is_active, is_deleted, is_published, is_private, is_shared,
			rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID, recipe.UserID, recipe.Title,
		recipe.PreparationTime, recipe.CookingTime, recipe.Servings,
		recipe.Ingredients, recipe.Instructions, recipe.ImageURL,
		recipe.IsActive, recipe.IsDeleted, recipe.IsPublished, recipe.IsPrivate, recipe.IsShared,
		recipe.Rating, recipe.CreatedAt, recipe.UpdatedAt,
	)
	return err
}

func (r *RecipeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON r.user_id = u.id
		WHERE r.id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	recipe, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

var orderColumns = map[string]string{
	"created_at": "r.created_at",
	"updated_at": "r.updated_at",
	"rating":     "r.rating",
}

func (r *RecipeRepo) List(ctx context.Context, filter repository.RecipeFilter) ([]domain.Recipe, error) {
	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeDeleted {
		where = append(where, "NOT r.is_deleted")
	}
	if filter.OwnerID != nil {
		where = append(where, "r.user_id = "+arg(*filter.OwnerID))
	}
	if filter.PublicOnly {
		where = append(where, "NOT r.is_private AND NOT r.is_shared")
	}
	if filter.PublishedOnly {
		where = append(where, "r.is_active AND r.is_published")
	}
	if filter.IsActive != nil {
		where = append(where, "r.is_active = "+arg(*filter.IsActive))
	}
	if filter.IsPublished != nil {
		where = append(where, "r.is_published = "+arg(*filter.IsPublished))
	}
	if filter.IsPrivate != nil {
		where = append(where, "r.is_private = "+arg(*filter.IsPrivate))
	}
	if filter.IsShared != nil {
		where = append(where, "r.is_shared = "+arg(*filter.IsShared))
	}
	if filter.Username != nil {
		where = append(where, "u.username = "+arg(*filter.Username))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		p := arg(pattern)
		where = append(where, fmt.Sprintf("(r.title ILIKE %s OR r.ingredients ILIKE %s OR r.instructions ILIKE %s)", p, p, p))
	}

	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON r.user_id = u.id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY " + orderClause(filter.OrderBy)
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, rows.Err()
}

// orderClause maps the public ordering key onto a column. Unknown keys fall
// back to newest-first.
func orderClause(orderBy string) string {
	dir := "ASC"
	key := orderBy
	if strings.HasPrefix(key, "-") {
		dir = "DESC"
		key = key[1:]
	}
	col, ok := orderColumns[key]
	if !ok {
		return "r.created_at DESC"
	}
	return col + " " + dir
}

func (r *RecipeRepo) Update(ctx context.Context, recipe *domain.Recipe) error {
	query := `
		UPDATE recipes
		SET title = $2, preparation_time = $3, cooking_time = $4, servings = $5,
			ingredients = $6, instructions = $7, image_url = $8,
			is_active = $9, is_deleted = $10, is_published = $11, is_private = $12, is_shared = $13,
			rating = $14, updated_at = $15
		WHERE id = $1`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID, recipe.Title,
		recipe.PreparationTime, recipe.CookingTime, recipe.Servings,
		recipe.Ingredients, recipe.Instructions, recipe.ImageURL,
		recipe.IsActive, recipe.IsDeleted, recipe.IsPublished, recipe.IsPrivate, recipe.IsShared,
		recipe.Rating, recipe.UpdatedAt,
	)
	return err
}

func (r *RecipeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE recipes SET is_deleted = TRUE, updated_at = $2 WHERE id = $1",
		id, time.Now(),
	)
	return err
}

func (r *RecipeRepo) AddLike(ctx context.Context, recipeID, userID uuid.UUID) error {
	query := `
		INSERT INTO recipe_likes (recipe_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, recipeID, userID, time.Now())
	return err
}

func (r *RecipeRepo) RemoveLike(ctx context.Context, recipeID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2",
		recipeID, userID,
	)
	return err
}

func (r *RecipeRepo) HasLiked(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2)",
		recipeID, userID,
	).Scan(&liked)
	return liked, err
}

func (r *RecipeRepo) AddRating(ctx context.Context, recipeID uuid.UUID, score int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE recipes SET rating = rating + $2, updated_at = $3 WHERE id = $1",
		recipeID, score, time.Now(),
	)
	return err
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.AuthorUsername, &rec.Title,
		&rec.PreparationTime, &rec.CookingTime, &rec.Servings,
		&rec.Ingredients, &rec.Instructions, &rec.ImageURL,
		&rec.IsActive, &rec.IsDeleted, &rec.IsPublished, &rec.IsPrivate, &rec.IsShared,
		&rec.Rating, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.TotalLikes,
	)
	if err != nil {
		return nil, err
	}
	rec.ComputeAggregates()
	return &rec, nil
}
