package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tiagocodinha/StagelinkApproval/internal/app/apiapp"
	"github.com/tiagocodinha/StagelinkApproval/internal/config"
	"github.com/tiagocodinha/StagelinkApproval/internal/infra/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := apiapp.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("bootstrap api", zap.Error(err))
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		zapLogger.Fatal("run api", zap.Error(err))
	}
}
