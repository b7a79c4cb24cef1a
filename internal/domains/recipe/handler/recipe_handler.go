package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipebox-backend/internal/domains/recipe"
	"recipebox-backend/internal/shared/middleware"
	"recipebox-backend/internal/shared/response"
	"recipebox-backend/internal/shared/toggle"
	"recipebox-backend/internal/shared/utils"
)

type RecipeHandler struct {
	service recipe.Service
}

func NewRecipeHandler(svc recipe.Service) *RecipeHandler {
	return &RecipeHandler{service: svc}
}

func respondError(c *gin.Context, err error) {
	if toggle.IsValidationError(err) {
		response.BadRequest(c, err.Error())
		return
	}
	response.ErrorResponse(c, recipe.GetHTTPStatusCode(err), "RECIPE_ERROR", err.Error())
}

// List - GET /recipes
func (h *RecipeHandler) List(c *gin.Context) {
	var q recipe.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, limit := utils.ParsePagination(c)

	recipes, total, err := h.service.List(c.Request.Context(), q, middleware.CallerID(c), page, limit)
	if err != nil {
		response.InternalServerError(c, "failed to list recipes")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, recipes, &response.Meta{Page: page, Limit: limit, Total: int(total)})
}

// GetByID - GET /recipes/:id
func (h *RecipeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recipe id")
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), id, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rec)
}

// Create - POST /recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var payload recipe.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rec, err := h.service.Create(c.Request.Context(), middleware.CallerID(c), payload)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rec)
}

// Update - PATCH /recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recipe id")
		return
	}

	var payload recipe.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rec, err := h.service.Update(c.Request.Context(), id, middleware.CallerID(c), middleware.IsAdmin(c), payload)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rec)
}

// Delete - DELETE /recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recipe id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.CallerID(c), middleware.IsAdmin(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Favorite - POST /recipes/:id/favorite
func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.linkEndpoint(c, h.service.Favorite)
}

// Unfavorite - DELETE /recipes/:id/favorite
func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.unlinkEndpoint(c, h.service.Unfavorite)
}

// AddToCart - POST /recipes/:id/shopping_cart
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.linkEndpoint(c, h.service.AddToCart)
}

// RemoveFromCart - DELETE /recipes/:id/shopping_cart
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.unlinkEndpoint(c, h.service.RemoveFromCart)
}

// linkEndpoint handles the POST side of a recipe relation: it creates
// the link and echoes the compact recipe back with 201.
func (h *RecipeHandler) linkEndpoint(c *gin.Context, op func(ctx context.Context, callerID, recipeID uuid.UUID) (*recipe.RecipeBrief, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recipe id")
		return
	}

	brief, err := op(c.Request.Context(), middleware.CallerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, brief)
}

func (h *RecipeHandler) unlinkEndpoint(c *gin.Context, op func(ctx context.Context, callerID, recipeID uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recipe id")
		return
	}

	if err := op(c.Request.Context(), middleware.CallerID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart - GET /recipes/download_shopping_cart
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	text, err := h.service.ShoppingList(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		response.InternalServerError(c, "failed to build shopping list")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
