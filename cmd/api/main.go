package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/prg-tools/dispatch-backend/internal/api"
	"github.com/prg-tools/dispatch-backend/internal/infrastructure/config"
	"github.com/prg-tools/dispatch-backend/internal/infrastructure/storage"
	"github.com/prg-tools/dispatch-backend/internal/observability"
)

func main() {
	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	cfg := config.LoadOrEnv()
	logger := observability.NewLogger(cfg.Observability.Logging)

	store := storage.NewSessionStore()
	server := api.NewServer(cfg, store, logger)

	if err := server.Run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
