package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"idle-dag/config"
	"idle-dag/db"
	"idle-dag/game"
	"idle-dag/handlers"
	"idle-dag/hub"
	"idle-dag/logger"
	"idle-dag/repository"
	"idle-dag/routers"
)

// openRepository builds the save repository for the configured driver.
func openRepository(cfg config.StorageConfig) (repository.SaveRepository, io.Closer, error) {
	switch cfg.Driver {
	case "leveldb":
		ldb, err := db.NewLevelDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewLevelSaveRepository(ldb), ldb, nil
	case "sqlite":
		conn, err := db.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteSaveRepository(conn), conn, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Config file error:", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(cfg.Log.Output, cfg.Log.Level); err != nil {
		fmt.Println("Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Logger.Sync()

	logger.Logger.Info("Starting idle game server...")

	repo, closer, err := openRepository(cfg.Storage)
	if err != nil {
		logger.Logger.Fatal("Failed to open save storage",
			zap.String("driver", cfg.Storage.Driver), zap.String("path", cfg.Storage.Path), zap.Error(err))
	}
	defer closer.Close()

	g := game.NewSeeded(cfg.Game, nil)
	svc := game.NewService(g, repo, nil)
	h := hub.New(svc)
	svc.SetSink(h)

	if cfg.Storage.LoadOnStart {
		save, err := svc.LoadLatest()
		switch {
		case err == nil:
			logger.Logger.Info("Resumed from save", zap.String("save_id", save.ID))
		case errors.Is(err, repository.ErrNoSave):
			logger.Logger.Info("No save found, starting a new game")
		default:
			logger.Logger.Error("Failed to resume, starting a new game", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	go svc.Run(ctx, cfg.Game.TickInterval)

	// Setup router
	r := mux.NewRouter()
	routers.RegisterRoutes(r, handlers.NewHandler(svc), h.ServeWS)

	// HTTP Server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Error("Server stopped", zap.Error(err))
		}
	}()

	logger.Logger.Info("Server running on port", zap.Int("port", cfg.Server.Port))

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Logger.Info("Shutdown signal received, exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Warn("Server shutdown incomplete", zap.Error(err))
	}
	cancel()

	if cfg.Storage.SaveOnExit {
		if _, err := svc.Save(); err != nil {
			logger.Logger.Error("Failed to save on exit", zap.Error(err))
		}
	}
}
