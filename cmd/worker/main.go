package main

import (
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"recipebox-backend/internal/config"
	"recipebox-backend/internal/domains/recipe/job"
	"recipebox-backend/internal/infrastructure/storage"
	"recipebox-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Error("failed to load configuration", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	store, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		logger.Error("failed to connect to object storage", err)
		os.Exit(1)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	job.NewImageTaskHandler(store, storage.NewImageProcessor()).Register(mux)

	logger.Info("worker starting", map[string]interface{}{
		"redis":       cfg.Redis.Host,
		"environment": cfg.App.Environment,
	})

	// Run blocks until SIGINT/SIGTERM and drains in-flight tasks.
	if err := srv.Run(mux); err != nil {
		logger.Error("worker terminated", err)
		os.Exit(1)
	}
}
