package recipe

import (
	"bytes"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FlexAmount accepts an ingredient amount given as either a JSON
// number or a numeric string. A value that is present but does not
// parse as an integer is kept with Valid=false so validation can
// report it by ingredient name instead of failing at bind time.
type FlexAmount struct {
	Valid bool
	Value int
}

func (a *FlexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)

	n, err := strconv.Atoi(string(data))
	if err != nil {
		a.Valid = false
		return nil
	}

	a.Valid = true
	a.Value = n
	return nil
}

// IngredientRef is one line of a recipe payload. Both fields are
// pointers so a missing field is distinguishable from a zero value;
// ID stays a raw string so an unknown or malformed id produces the
// same not-found message instead of a bind error.
type IngredientRef struct {
	ID     *string     `json:"id"`
	Amount *FlexAmount `json:"amount"`
}

// RecipePayload is shared by create and update. Scalars are pointers:
// on update, absent ones keep their stored values. Tags and
// ingredients are always replaced wholesale.
type RecipePayload struct {
	Name        *string         `json:"name"`
	Text        *string         `json:"text"`
	Image       *string         `json:"image"`
	CookingTime *int            `json:"cooking_time"`
	Tags        []string        `json:"tags"`
	Ingredients []IngredientRef `json:"ingredients"`
}

// ValidateCreate checks the fields the domain validation sequence does
// not cover. The sequence itself runs in the service.
func (p RecipePayload) ValidateCreate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NotNil, validation.Length(1, 200)),
		validation.Field(&p.Text, validation.NotNil, validation.Length(1, 10000)),
		validation.Field(&p.Image, validation.NotNil),
	)
}

// ListQuery carries the recipe list filters.
type ListQuery struct {
	Author           string   `form:"author"`
	Tags             []string `form:"tags"`
	IsFavorited      string   `form:"is_favorited"`
	IsInShoppingCart string   `form:"is_in_shopping_cart"`
}
