package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipebox-backend/internal/shared/response"
)

// AdminMiddleware checks the role set by AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
