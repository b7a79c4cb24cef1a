package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipebox-backend/internal/domains/ingredient"
	"recipebox-backend/internal/shared/response"
)

const maxImportFileSize = 10 << 20 // 10 MB

type IngredientHandler struct {
	service ingredient.Service
}

func NewIngredientHandler(svc ingredient.Service) *IngredientHandler {
	return &IngredientHandler{service: svc}
}

// List - GET /ingredients?name=<prefix>
func (h *IngredientHandler) List(c *gin.Context) {
	ingredients, err := h.service.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.InternalServerError(c, "failed to list ingredients")
		return
	}

	response.Success(c, http.StatusOK, ingredients)
}

// GetByID - GET /ingredients/:id
func (h *IngredientHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ingredient id")
		return
	}

	ing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, ingredient.GetHTTPStatusCode(err), "INGREDIENT_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, ing)
}

// Create - POST /ingredients (admin)
func (h *IngredientHandler) Create(c *gin.Context) {
	var req ingredient.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ing, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, ingredient.GetHTTPStatusCode(err), "INGREDIENT_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, ing)
}

// Delete - DELETE /ingredients/:id (admin)
func (h *IngredientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ingredient id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, ingredient.GetHTTPStatusCode(err), "INGREDIENT_ERROR", err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// Import - POST /ingredients/import (admin, multipart field "file")
func (h *IngredientHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		response.BadRequest(c, "file exceeds the 10MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	result, err := h.service.ImportXLSX(c.Request.Context(), file)
	if err != nil {
		response.ErrorResponse(c, ingredient.GetHTTPStatusCode(err), "INGREDIENT_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}
