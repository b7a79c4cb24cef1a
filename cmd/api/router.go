package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recipebox-backend/internal/shared/middleware"
	"recipebox-backend/pkg/container"
)

func setupRouter(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), middleware.Recovery())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		})
	})

	auth := middleware.AuthMiddleware(c.JWTManager)
	optionalAuth := middleware.OptionalAuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", c.UserHandler.Register)
		authGroup.POST("/login", c.UserHandler.Login)
		authGroup.POST("/refresh", c.UserHandler.Refresh)
	}

	tags := v1.Group("/tags")
	{
		tags.GET("", c.TagHandler.List)
		tags.GET("/:id", c.TagHandler.GetByID)
		tags.POST("", auth, admin, c.TagHandler.Create)
		tags.DELETE("/:id", auth, admin, c.TagHandler.Delete)
	}

	ingredients := v1.Group("/ingredients")
	{
		ingredients.GET("", c.IngredientHandler.List)
		ingredients.GET("/:id", c.IngredientHandler.GetByID)
		ingredients.POST("", auth, admin, c.IngredientHandler.Create)
		ingredients.POST("/import", auth, admin, c.IngredientHandler.Import)
		ingredients.DELETE("/:id", auth, admin, c.IngredientHandler.Delete)
	}

	users := v1.Group("/users")
	{
		users.GET("", optionalAuth, c.UserHandler.List)
		users.GET("/me", auth, c.UserHandler.Me)
		users.GET("/subscriptions", auth, c.UserHandler.Subscriptions)
		users.GET("/:id", optionalAuth, c.UserHandler.GetByID)
		users.POST("/set_password", auth, c.UserHandler.SetPassword)
		users.POST("/:id/subscribe", auth, c.UserHandler.Subscribe)
		users.DELETE("/:id/subscribe", auth, c.UserHandler.Unsubscribe)
	}

	recipes := v1.Group("/recipes")
	{
		recipes.GET("", optionalAuth, c.RecipeHandler.List)
		recipes.GET("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, c.RecipeHandler.GetByID)
		recipes.POST("", auth, c.RecipeHandler.Create)
		recipes.PATCH("/:id", auth, c.RecipeHandler.Update)
		recipes.DELETE("/:id", auth, c.RecipeHandler.Delete)
		recipes.POST("/:id/favorite", auth, c.RecipeHandler.Favorite)
		recipes.DELETE("/:id/favorite", auth, c.RecipeHandler.Unfavorite)
		recipes.POST("/:id/shopping_cart", auth, c.RecipeHandler.AddToCart)
		recipes.DELETE("/:id/shopping_cart", auth, c.RecipeHandler.RemoveFromCart)
	}

	return r
}
