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

	h "github.com/veranemoloko/route-uploader/internal/api/http"
	cfgpkg "github.com/veranemoloko/route-uploader/internal/config"
	repo "github.com/veranemoloko/route-uploader/internal/repository"
	svc "github.com/veranemoloko/route-uploader/internal/service"
	"github.com/veranemoloko/route-uploader/internal/storage"
	"github.com/veranemoloko/route-uploader/internal/worker"
)

func main() {

	cfg, err := cfgpkg.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfgpkg.SetupLogger(cfg)
	logger.Info("configuration loaded successfully")

	routeStorage, err := repo.NewRouteStorage(cfg.RoutesFile)
	if err != nil {
		logger.Error("failed to initialize route repository", "error", err)
		os.Exit(1)
	}

	states := storage.NewStateStore()
	transfer := worker.NewTransferWorker(cfg, logger)
	coordinator := svc.NewUploadCoordinator(states, transfer, logger)

	router := h.NewRouter(coordinator, states, routeStorage, logger)
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:     router,
		ReadTimeout: cfg.HTTPTimeout,
		IdleTimeout: cfg.HTTPTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	if err := coordinator.Shutdown(shutdownCtx); err != nil {
		logger.Error("upload coordinator shutdown failed", "error", err)
	} else {
		logger.Info("server stopped gracefully")
	}
}
