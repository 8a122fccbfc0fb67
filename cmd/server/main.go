package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/hongminglow/confession-be/internal/config"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/photos"
	"github.com/hongminglow/confession-be/internal/server"
	"github.com/hongminglow/confession-be/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "confession-be: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	port := pflag.String("port", "", "listen port, overrides PORT")
	pflag.Parse()

	envErr := godotenv.Load(*envFile)
	if *port != "" {
		if err := os.Setenv("PORT", *port); err != nil {
			return fmt.Errorf("set port: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	slog.SetDefault(log.Slog())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if envErr != nil {
		log.Info(ctx, "no env file loaded; relying on existing environment", "path", *envFile)
	}
	if cfg.UsesDefaultSecret() {
		log.Warn(ctx, "JWT_SECRET is the shipped default; set it before deploying")
	}

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()

	photoStore, err := newPhotoStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init photo storage: %w", err)
	}

	srv, err := server.New(cfg, server.Deps{
		Users:  store,
		Notes:  store,
		Photos: photoStore,
		DB:     store,
		Log:    log,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "confession backend listening", "addr", cfg.HTTPAddress(), "phase", cfg.Phase.String())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

func newPhotoStore(ctx context.Context, cfg config.Config, log logging.Logger) (photos.Store, error) {
	if cfg.PhotoStorage == config.PhotoStorageS3 {
		return photos.NewS3Store(ctx, cfg.S3, log)
	}
	return photos.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix, log)
}
