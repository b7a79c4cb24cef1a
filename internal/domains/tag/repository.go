package tag

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for tags.
type Repository interface {
	List(ctx context.Context) ([]Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	Create(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
