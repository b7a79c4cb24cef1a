package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipebox-backend/internal/domains/user"
	"recipebox-backend/internal/shared/middleware"
	"recipebox-backend/internal/shared/response"
	"recipebox-backend/internal/shared/toggle"
	"recipebox-backend/internal/shared/utils"
)

type UserHandler struct {
	service user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{service: svc}
}

// Register - POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "USER_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, u)
}

// Login - POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "AUTH_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// Refresh - POST /auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	var req user.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "AUTH_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// Me - GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	callerID := middleware.CallerID(c)

	u, err := h.service.GetByID(c.Request.Context(), callerID, callerID)
	if err != nil {
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "USER_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, u)
}

// SetPassword - POST /users/set_password
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req user.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SetPassword(c.Request.Context(), middleware.CallerID(c), req); err != nil {
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "USER_ERROR", err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// List - GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	users, total, err := h.service.List(c.Request.Context(), middleware.CallerID(c), page, limit)
	if err != nil {
		response.InternalServerError(c, "failed to list users")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{Page: page, Limit: limit, Total: int(total)})
}

// GetByID - GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id, middleware.CallerID(c))
	if err != nil {
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "USER_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, u)
}

// Subscribe - POST /users/:id/subscribe
func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), middleware.CallerID(c), authorID, recipesLimitQuery(c))
	if err != nil {
		if toggle.IsValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "SUBSCRIPTION_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, sub)
}

// Unsubscribe - DELETE /users/:id/subscribe
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), middleware.CallerID(c), authorID); err != nil {
		if toggle.IsValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ErrorResponse(c, user.GetHTTPStatusCode(err), "SUBSCRIPTION_ERROR", err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// recipesLimitQuery caps recipe previews per author. An unparseable
// recipes_limit is ignored rather than rejected.
func recipesLimitQuery(c *gin.Context) int {
	if raw := c.Query("recipes_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Subscriptions - GET /users/subscriptions?recipes_limit=N
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	subs, total, err := h.service.Subscriptions(c.Request.Context(), middleware.CallerID(c), page, limit, recipesLimitQuery(c))
	if err != nil {
		response.InternalServerError(c, "failed to list subscriptions")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, subs, &response.Meta{Page: page, Limit: limit, Total: int(total)})
}
