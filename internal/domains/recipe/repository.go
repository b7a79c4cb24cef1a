package recipe

import (
	"context"

	"github.com/google/uuid"

	"recipebox-backend/internal/domains/tag"
)

// ListFilter narrows the recipe listing. Zero values mean "no filter";
// TagSlugs are OR-ed (a recipe matches if it carries any of them).
type ListFilter struct {
	AuthorID    uuid.UUID
	TagSlugs    []string
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
	Page        int
	Limit       int
}

// Repository persists recipes and their relations. CreateWithRelations
// and UpdateWithRelations run all their writes in one transaction so a
// failing relation insert leaves nothing behind.
type Repository interface {
	CreateWithRelations(ctx context.Context, r *Recipe, tagIDs []uuid.UUID, ingredients []IngredientAmount) error
	UpdateWithRelations(ctx context.Context, r *Recipe, tagIDs []uuid.UUID, ingredients []IngredientAmount) error
	GetByID(ctx context.Context, id uuid.UUID) (*Recipe, error)
	List(ctx context.Context, f ListFilter) ([]Recipe, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	TagsByRecipeIDs(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]tag.Tag, error)
	IngredientsByRecipeIDs(ctx context.Context, recipeIDs []uuid.UUID) (map[uuid.UUID][]RecipeIngredient, error)

	FavoriteExists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	CreateFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	DeleteFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	// FavoritedSet reports which of recipeIDs the user has favorited.
	FavoritedSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	CartExists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	CreateCartItem(ctx context.Context, userID, recipeID uuid.UUID) error
	DeleteCartItem(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	InCartSet(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	// AggregateShoppingList sums amounts per (ingredient name, unit)
	// across every recipe in the user's cart, ordered by name.
	AggregateShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error)
}
