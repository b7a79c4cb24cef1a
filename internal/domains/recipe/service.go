package recipe

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ImageStore is the slice of object storage the recipe service needs.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// TaskQueue enqueues background work. *asynq.Client satisfies it.
type TaskQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service is the recipe API. callerID identifies the requesting user;
// uuid.Nil means anonymous.
type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, payload RecipePayload) (*RecipeDTO, error)
	Update(ctx context.Context, id, callerID uuid.UUID, isAdmin bool, payload RecipePayload) (*RecipeDTO, error)
	Delete(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error
	GetByID(ctx context.Context, id, callerID uuid.UUID) (*RecipeDTO, error)
	List(ctx context.Context, q ListQuery, callerID uuid.UUID, page, limit int) ([]RecipeDTO, int64, error)

	// Favorite and AddToCart return the compact projection of the
	// recipe that was just linked.
	Favorite(ctx context.Context, callerID, recipeID uuid.UUID) (*RecipeBrief, error)
	Unfavorite(ctx context.Context, callerID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, callerID, recipeID uuid.UUID) (*RecipeBrief, error)
	RemoveFromCart(ctx context.Context, callerID, recipeID uuid.UUID) error

	// ShoppingList renders the caller's aggregated cart as plain text,
	// one "{name} - {total} {unit}" line per ingredient.
	ShoppingList(ctx context.Context, callerID uuid.UUID) (string, error)
}
