package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"recipebox-backend/internal/infrastructure/storage"
	"recipebox-backend/internal/shared"
	"recipebox-backend/pkg/logger"
)

// ObjectStore is the slice of object storage the image jobs need.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// ImageTaskHandler processes recipe image tasks on the worker.
type ImageTaskHandler struct {
	store     ObjectStore
	processor *storage.ImageProcessor
}

func NewImageTaskHandler(store ObjectStore, processor *storage.ImageProcessor) *ImageTaskHandler {
	return &ImageTaskHandler{store: store, processor: processor}
}

// Register attaches the handlers to the worker mux.
func (h *ImageTaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeProcessRecipeImage, h.HandleProcessImage)
	mux.HandleFunc(shared.TypeDeleteRecipeImages, h.HandleDeleteImages)
}

// HandleProcessImage builds the resized variants for a stored original
// and uploads them next to it as recipes/{id}/{variant}.jpg.
func (h *ImageTaskHandler) HandleProcessImage(ctx context.Context, t *asynq.Task) error {
	var payload shared.ProcessRecipeImagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", shared.TypeProcessRecipeImage, err)
	}

	data, err := h.store.Download(ctx, payload.ImageKey)
	if err != nil {
		return fmt.Errorf("download original %s: %w", payload.ImageKey, err)
	}

	if err := h.processor.ValidateImage(data); err != nil {
		// Not retryable: the stored object will never become a valid
		// raster image.
		logger.Warn("skipping image variants", map[string]interface{}{
			"recipe_id": payload.RecipeID.String(),
			"reason":    err.Error(),
		})
		return nil
	}

	variants, err := h.processor.ProcessImage(data)
	if err != nil {
		return fmt.Errorf("process image for recipe %s: %w", payload.RecipeID, err)
	}

	for name, body := range variants {
		key := fmt.Sprintf("recipes/%s/%s.jpg", payload.RecipeID, name)
		if _, err := h.store.Upload(ctx, key, body, "image/jpeg"); err != nil {
			return fmt.Errorf("upload variant %s: %w", key, err)
		}
	}

	logger.Info("recipe image processed", map[string]interface{}{
		"recipe_id": payload.RecipeID.String(),
		"variants":  len(variants),
	})

	return nil
}

// HandleDeleteImages removes the original and every variant for a
// deleted recipe.
func (h *ImageTaskHandler) HandleDeleteImages(ctx context.Context, t *asynq.Task) error {
	var payload shared.DeleteRecipeImagesPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", shared.TypeDeleteRecipeImages, err)
	}

	prefix := "recipes/" + payload.RecipeID.String()
	if err := h.store.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("delete objects under %s: %w", prefix, err)
	}

	logger.Info("recipe images deleted", map[string]interface{}{
		"recipe_id": payload.RecipeID.String(),
	})

	return nil
}
