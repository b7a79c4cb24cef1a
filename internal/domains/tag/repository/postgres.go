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

	"recipebox-backend/internal/domains/tag"
	"recipebox-backend/pkg/cache"
	"recipebox-backend/pkg/logger"
)

const tagListCacheKey = "tags:all"

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresTagRepository(pool *pgxpool.Pool, cache cache.Cache) tag.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

// List returns all tags. The full list is small reference data, so it is
// served from cache when possible.
func (r *postgresRepository) List(ctx context.Context) ([]tag.Tag, error) {
	var cached []tag.Tag
	if found, err := r.cache.Get(ctx, tagListCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	query := `
		SELECT id, name, color, slug, created_at
		FROM tags
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []tag.Tag
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	if err := r.cache.Set(ctx, tagListCacheKey, tags, 10*time.Minute); err != nil {
		logger.Error("failed to cache tag list", err)
	}

	return tags, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*tag.Tag, error) {
	query := `
		SELECT id, name, color, slug, created_at
		FROM tags
		WHERE id = $1
	`

	var t tag.Tag
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Color, &t.Slug, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &t, nil
}

func (r *postgresRepository) Create(ctx context.Context, t *tag.Tag) error {
	query := `
		INSERT INTO tags (id, name, color, slug, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, t.ID, t.Name, t.Color, t.Slug, t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return tag.ErrDuplicateTag
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}

	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.invalidate(ctx)
	return true, nil
}

func (r *postgresRepository) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, tagListCacheKey); err != nil {
		logger.Error("failed to invalidate tag cache", err)
	}
}
