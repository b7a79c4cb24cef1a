package tag

import (
	"time"

	"github.com/google/uuid"
)

// Tag labels recipes for filtering. Name, color and slug are all globally
// unique.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"` // hex string, e.g. #E26C2D
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// TagDTO is the API-facing shape.
type TagDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

func (t *Tag) ToDTO() TagDTO {
	return TagDTO{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}
