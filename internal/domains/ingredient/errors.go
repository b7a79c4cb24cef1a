package ingredient

import (
	"errors"
	"net/http"
)

var (
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrDuplicateIngredient = errors.New("ingredient with this name already exists")
	ErrInvalidImportFile   = errors.New("import file is not a valid xlsx document")
)

func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrIngredientNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateIngredient):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidImportFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
