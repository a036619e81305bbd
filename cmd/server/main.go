package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/athlete-performance-service/internal/config"
	"github.com/maxviazov/athlete-performance-service/internal/handler"
	"github.com/maxviazov/athlete-performance-service/internal/logger"
	"github.com/maxviazov/athlete-performance-service/internal/recommend"
	"github.com/maxviazov/athlete-performance-service/internal/service"
	"github.com/maxviazov/athlete-performance-service/internal/store/memory"
	syncmgr "github.com/maxviazov/athlete-performance-service/internal/sync"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	st := memory.New(appLogger)
	matches := service.NewMatchService(st, recommend.New(), appLogger)
	mgr := syncmgr.NewManager(st, appLogger)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine, st, matches, mgr, appLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info().Str("addr", cfg.Server.Addr).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down")
	mgr.UnsubscribeAll()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
	appLogger.Info().Msg("stopped")
}
