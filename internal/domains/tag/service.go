package tag

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes the tag operations. Tags are read-only for regular
// users; create/delete are admin-only reference-data management.
type Service interface {
	List(ctx context.Context) ([]TagDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TagDTO, error)
	Create(ctx context.Context, req CreateTagRequest) (*TagDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
