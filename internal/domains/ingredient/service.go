package ingredient

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service exposes the ingredient catalog to handlers and to the recipe
// domain (which resolves ingredient ids during recipe validation).
type Service interface {
	List(ctx context.Context, prefix string) ([]IngredientDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*IngredientDTO, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Ingredient, error)
	Create(ctx context.Context, req CreateIngredientRequest) (*IngredientDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ImportXLSX loads catalog entries from a spreadsheet whose first
	// sheet has one ingredient per row: name in column A, measurement
	// unit in column B. Duplicates are skipped, not failed.
	ImportXLSX(ctx context.Context, r io.Reader) (*ImportResult, error)
}
