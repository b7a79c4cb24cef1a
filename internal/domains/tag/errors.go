package tag

import (
	"errors"
	"net/http"
)

var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrDuplicateTag = errors.New("tag with the same name, color or slug already exists")
)

// GetHTTPStatusCode maps domain errors to HTTP status codes.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrTagNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateTag):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
