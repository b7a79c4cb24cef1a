package recipe

import (
	"time"

	"github.com/google/uuid"

	"recipebox-backend/internal/domains/tag"
	"recipebox-backend/internal/domains/user"
)

// Recipe is the aggregate root. Image holds the public URL of the
// stored original; ImageKey is the object key inside the bucket,
// kept so the worker can locate and clean up stored variants.
type Recipe struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Name        string    `json:"name"`
	Text        string    `json:"text"`
	Image       string    `json:"image"`
	ImageKey    string    `json:"-"`
	CookingTime int       `json:"cooking_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecipeBrief is the compact projection returned when a recipe is
// added to favorites or the shopping cart.
type RecipeBrief struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func (r *Recipe) Brief() *RecipeBrief {
	return &RecipeBrief{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// IngredientAmount is what gets written to recipe_ingredients.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeIngredient is the read-side projection of one recipe line.
type RecipeIngredient struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// ShoppingItem is one aggregated line of a user's shopping list:
// the same (name, unit) pair across all carted recipes summed up.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

// RecipeDTO is the full API shape. The flag fields are computed
// relative to the requesting user and are always false for anonymous
// requests.
type RecipeDTO struct {
	ID                uuid.UUID          `json:"id"`
	Author            user.UserDTO       `json:"author"`
	Name              string             `json:"name"`
	Text              string             `json:"text"`
	Image             string             `json:"image"`
	CookingTime       int                `json:"cooking_time"`
	Tags              []tag.TagDTO       `json:"tags"`
	Ingredients       []RecipeIngredient `json:"ingredients"`
	IsFavorited       bool               `json:"is_favorited"`
	IsInShoppingCart  bool               `json:"is_in_shopping_cart"`
	CreatedAt         time.Time          `json:"created_at"`
}
