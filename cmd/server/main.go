package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/musamusakannike/creator-ai-backend2/internal/app"
	"github.com/musamusakannike/creator-ai-backend2/internal/config"
	"github.com/musamusakannike/creator-ai-backend2/internal/logger"
)

func main() {
	// best effort; real deployments configure the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err.Error())
		os.Exit(1)
	}

	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	slog.Info("creator-dashboard started", "port", cfg.Server.Port)

	<-ctx.Done() // wait for Ctrl+C

	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("creator-dashboard stopped cleanly")
}
