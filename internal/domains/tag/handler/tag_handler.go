package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipebox-backend/internal/domains/tag"
	"recipebox-backend/internal/shared/response"
)

type TagHandler struct {
	service tag.Service
}

func NewTagHandler(svc tag.Service) *TagHandler {
	return &TagHandler{service: svc}
}

// List - GET /tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to list tags")
		return
	}

	response.Success(c, http.StatusOK, tags)
}

// GetByID - GET /tags/:id
func (h *TagHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tag id")
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, tag.GetHTTPStatusCode(err), "TAG_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, t)
}

// Create - POST /tags (admin)
func (h *TagHandler) Create(c *gin.Context) {
	var req tag.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, tag.GetHTTPStatusCode(err), "TAG_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, t)
}

// Delete - DELETE /tags/:id (admin)
func (h *TagHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tag id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, tag.GetHTTPStatusCode(err), "TAG_ERROR", err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
