package ingredient

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is a unit of the global ingredient catalog. Name is unique;
// the measurement unit is free-form text ("g", "ml", "шт").
type Ingredient struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	CreatedAt       time.Time `json:"-"`
}

// IngredientDTO is the API-facing shape.
type IngredientDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

func (i *Ingredient) ToDTO() IngredientDTO {
	return IngredientDTO{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}
