package container

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"recipebox-backend/internal/config"
	"recipebox-backend/internal/domains/ingredient"
	ingredienthandler "recipebox-backend/internal/domains/ingredient/handler"
	ingredientrepo "recipebox-backend/internal/domains/ingredient/repository"
	ingredientservice "recipebox-backend/internal/domains/ingredient/service"
	"recipebox-backend/internal/domains/recipe"
	recipehandler "recipebox-backend/internal/domains/recipe/handler"
	reciperepo "recipebox-backend/internal/domains/recipe/repository"
	recipeservice "recipebox-backend/internal/domains/recipe/service"
	"recipebox-backend/internal/domains/tag"
	taghandler "recipebox-backend/internal/domains/tag/handler"
	tagrepo "recipebox-backend/internal/domains/tag/repository"
	tagservice "recipebox-backend/internal/domains/tag/service"
	"recipebox-backend/internal/domains/user"
	userhandler "recipebox-backend/internal/domains/user/handler"
	userrepo "recipebox-backend/internal/domains/user/repository"
	userservice "recipebox-backend/internal/domains/user/service"
	infracache "recipebox-backend/internal/infrastructure/cache"
	"recipebox-backend/internal/infrastructure/database"
	"recipebox-backend/internal/infrastructure/storage"
	"recipebox-backend/pkg/cache"
	"recipebox-backend/pkg/jwt"
	"recipebox-backend/pkg/logger"
)

// Container wires every dependency of the API process.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client

	TagService        tag.Service
	IngredientService ingredient.Service
	UserService       user.Service
	RecipeService     recipe.Service

	TagHandler        *taghandler.TagHandler
	IngredientHandler *ingredienthandler.IngredientHandler
	UserHandler       *userhandler.UserHandler
	RecipeHandler     *recipehandler.RecipeHandler
}

// New builds the container: infrastructure first, then repositories,
// services and handlers.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// Infrastructure
	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	c.Cache = infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	store, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	c.Storage = store

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Repositories
	tagRepository := tagrepo.NewPostgresTagRepository(c.DB.Pool, c.Cache)
	ingredientRepository := ingredientrepo.NewPostgresIngredientRepository(c.DB.Pool, c.Cache)
	userRepository := userrepo.NewPostgresUserRepository(c.DB.Pool)
	recipeRepository := reciperepo.NewPostgresRecipeRepository(c.DB.Pool)

	// Services
	c.TagService = tagservice.NewTagService(tagRepository)
	c.IngredientService = ingredientservice.NewIngredientService(ingredientRepository)
	c.UserService = userservice.NewUserService(userRepository, c.JWTManager)
	c.RecipeService = recipeservice.NewRecipeService(
		recipeRepository, tagRepository, ingredientRepository, userRepository,
		c.Storage, c.AsynqClient)

	// Handlers
	c.TagHandler = taghandler.NewTagHandler(c.TagService)
	c.IngredientHandler = ingredienthandler.NewIngredientHandler(c.IngredientService)
	c.UserHandler = userhandler.NewUserHandler(c.UserService)
	c.RecipeHandler = recipehandler.NewRecipeHandler(c.RecipeService)

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	return c, nil
}

// Cleanup releases external connections in reverse order of creation.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}
	if closer, ok := c.Cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container cleaned up", nil)
}
