package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recipebox-backend/internal/domains/ingredient"
	"recipebox-backend/pkg/cache"
	"recipebox-backend/pkg/logger"
)

const (
	cacheKeyAll = "ingredients:all"
	cacheTTL    = 10 * time.Minute
)

type postgresIngredientRepository struct {
	db    *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresIngredientRepository(db *pgxpool.Pool, c cache.Cache) ingredient.Repository {
	return &postgresIngredientRepository{db: db, cache: c}
}

func (r *postgresIngredientRepository) List(ctx context.Context, prefix string) ([]ingredient.Ingredient, error) {
	// Only the unfiltered catalog is cached; prefix searches go to the
	// database every time.
	if prefix == "" && r.cache != nil {
		var cached []ingredient.Ingredient
		found, err := r.cache.Get(ctx, cacheKeyAll, &cached)
		if err != nil {
			logger.Warn("ingredient cache read failed", map[string]interface{}{"error": err.Error()})
		}
		if found {
			return cached, nil
		}
	}

	query := `
		SELECT id, name, measurement_unit, created_at
		FROM ingredients
		WHERE name ILIKE $1 || '%'
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]ingredient.Ingredient, 0)
	for rows.Next() {
		var ing ingredient.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ingredients: %w", err)
	}

	if prefix == "" && r.cache != nil {
		if err := r.cache.Set(ctx, cacheKeyAll, ingredients, cacheTTL); err != nil {
			logger.Warn("ingredient cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return ingredients, nil
}

func (r *postgresIngredientRepository) GetByID(ctx context.Context, id uuid.UUID) (*ingredient.Ingredient, error) {
	query := `
		SELECT id, name, measurement_unit, created_at
		FROM ingredients
		WHERE id = $1`

	var ing ingredient.Ingredient
	err := r.db.QueryRow(ctx, query, id).Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit, &ing.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}

	return &ing, nil
}

func (r *postgresIngredientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]ingredient.Ingredient, error) {
	if len(ids) == 0 {
		return []ingredient.Ingredient{}, nil
	}

	query := `
		SELECT id, name, measurement_unit, created_at
		FROM ingredients
		WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredients by ids: %w", err)
	}
	defer rows.Close()

	ingredients := make([]ingredient.Ingredient, 0, len(ids))
	for rows.Next() {
		var ing ingredient.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ingredients: %w", err)
	}

	return ingredients, nil
}

func (r *postgresIngredientRepository) Create(ctx context.Context, ing *ingredient.Ingredient) error {
	query := `
		INSERT INTO ingredients (id, name, measurement_unit, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, ing.ID, ing.Name, ing.MeasurementUnit, ing.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ingredient.ErrDuplicateIngredient
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresIngredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ingredient.ErrIngredientNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresIngredientRepository) invalidateCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cacheKeyAll); err != nil {
		logger.Warn("ingredient cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
