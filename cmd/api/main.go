package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"recipebox-backend/internal/config"
	"recipebox-backend/pkg/container"
	"recipebox-backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Error("failed to load configuration", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", err)
		os.Exit(1)
	}

	ctx := context.Background()
	c, err := container.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize dependencies", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	if err := runServer(c); err != nil {
		logger.Error("server terminated", err)
		os.Exit(1)
	}
}
