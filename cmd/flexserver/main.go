package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bert_flex/internal/app/bootstrap"
	"bert_flex/internal/infrastructure/restapi"
	"bert_flex/internal/pkg/logger"
	"bert_flex/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, zapLogger, err := bootstrap.InitLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	logger.Info("Flex API server is starting", "config", bootstrap.ConfigPath())
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.MustRegisterMetrics()

	app, err := bootstrap.New(cfg, zapLogger)
	if err != nil {
		logger.Fatal("Failed to initialize flex pipeline", "error", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := app.NewCooldown(ctx, zapLogger)
	flexHandler := restapi.NewFlexHandler(app.Flex, tracker, logger.NewSlogAdapter())
	router := restapi.SetupRouter(flexHandler, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", "error", err)
	} else {
		logger.Info("HTTP server stopped")
	}
}
