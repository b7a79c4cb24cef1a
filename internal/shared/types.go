package shared

import "github.com/google/uuid"

// Asynq task type names. Producers and the worker agree on these.
const (
	TypeProcessRecipeImage = "recipe:process_image"
	TypeDeleteRecipeImages = "recipe:delete_images"
)

// ProcessRecipeImagePayload asks the worker to build resized variants for
// a freshly uploaded recipe image.
type ProcessRecipeImagePayload struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	ImageKey string    `json:"image_key"`
}

// DeleteRecipeImagesPayload asks the worker to remove every stored object
// for a deleted recipe.
type DeleteRecipeImagesPayload struct {
	RecipeID uuid.UUID `json:"recipe_id"`
}
