package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"e-approval/internal/app"
	"e-approval/internal/bootstrap"
	"e-approval/internal/config"
	"e-approval/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	cfg, err := config.Load(env, os.Getenv("APP_CONFIG"))
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.IsProduction())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunAPI(ctx, cfg); err != nil {
		logger.Fatal("run api failed", zap.Error(err))
	}
}
