package utils

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ParseStringToUUID parses s, returning uuid.Nil on any failure.
func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

// ParseDataURI decodes an inline base64 data URI
// ("data:image/png;base64,....") into raw bytes plus a file extension
// derived from the MIME subtype. "svg+xml" collapses to "svg".
func ParseDataURI(data string) ([]byte, string, error) {
	format, payload, found := strings.Cut(data, ";base64,")
	if !found {
		return nil, "", fmt.Errorf("not a base64 data URI")
	}

	ext := format[strings.LastIndex(format, "/")+1:]
	if strings.HasPrefix(ext, "svg") {
		ext = "svg"
	}
	if ext == "" {
		return nil, "", fmt.Errorf("data URI has no MIME subtype")
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}

	return decoded, ext, nil
}

// ParsePagination reads page/limit query params with sane defaults
// and caps.
func ParsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// MarshalTask builds an asynq task from a JSON payload.
func MarshalTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}
