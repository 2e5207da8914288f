package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"BrandRadar/internal/app"
	"BrandRadar/internal/config"
	"BrandRadar/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	markdown, err := application.RunOnce(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(markdown)
}
