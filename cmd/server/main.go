package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkamau/chamapool/internal/auth"
	"github.com/mkamau/chamapool/internal/config"
	"github.com/mkamau/chamapool/internal/metrics"
	"github.com/mkamau/chamapool/internal/registry"
	"github.com/mkamau/chamapool/internal/server"
	"github.com/mkamau/chamapool/internal/service"
	"github.com/mkamau/chamapool/internal/storage"
	"github.com/mkamau/chamapool/internal/storage/sqlite"
	"github.com/mkamau/chamapool/internal/treasury"
	"github.com/mkamau/chamapool/pkg/logging"
)

func main() {
	logging.Setup()
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("storage initialized", "database", cfg.DBPath)

	m := metrics.New()

	reg := registry.New(
		cfg.RegistryOwner,
		nil, // system clock
		treasury.NewStoreLedger(store),
		storage.NewJournal(store),
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	chamaSvc := service.NewChamaService(reg, store, m, logger)

	handlers := server.NewHandlers(chamaSvc, authSvc)
	srv := server.New(logger, cfg.HTTP, server.NewRouter(handlers, jwtManager, m))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("received signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
