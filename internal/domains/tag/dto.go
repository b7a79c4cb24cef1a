package tag

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CreateTagRequest is the admin payload for adding a tag. Slug is derived
// from the name when omitted.
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
	Slug  string `json:"slug"`
}

func (r CreateTagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Color,
			validation.Required.Error("color is required"),
			validation.Match(hexColor).Error("color must be a hex string like #E26C2D"),
		),
		validation.Field(&r.Slug,
			validation.Length(0, 200),
		),
	)
}
