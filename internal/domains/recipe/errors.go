package recipe

import (
	"errors"
	"net/http"

	"recipebox-backend/internal/shared/toggle"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrNotOwner       = errors.New("only the author or an admin can modify this recipe")
	ErrInvalidImage   = errors.New("image must be a base64 data URI")
)

func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrRecipeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidImage), toggle.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
