package ingredient

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateIngredientRequest is the admin payload for adding a single
// catalog entry.
type CreateIngredientRequest struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func (r CreateIngredientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MeasurementUnit, validation.Required, validation.Length(1, 50)),
	)
}

// ListQuery carries the optional name prefix filter for the catalog
// listing endpoint.
type ListQuery struct {
	Name string `form:"name"`
}

// ImportResult summarizes a bulk xlsx import.
type ImportResult struct {
	TotalRows int      `json:"total_rows"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}
