package ingredient

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for the ingredient catalog.
type Repository interface {
	// List returns catalog entries whose name starts with prefix,
	// ordered by name. An empty prefix returns the whole catalog.
	List(ctx context.Context, prefix string) ([]Ingredient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ingredient, error)
	// GetByIDs resolves a batch of ids in one round trip. Missing ids
	// are simply absent from the result.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Ingredient, error)
	Create(ctx context.Context, ing *Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error
}
