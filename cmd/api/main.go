// Command api serves the transaction-cost simulator over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bond-tc-sim/internal/api"
	"bond-tc-sim/internal/config"
	"bond-tc-sim/internal/logging"
	"bond-tc-sim/internal/observability"
	"bond-tc-sim/internal/store"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logging.New("error", "json", os.Stderr).Error("invalid server configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := observability.NewMetrics("")
	runs := store.New(cfg.CacheTTL, cfg.CacheSize)
	defer runs.Close()

	router := api.NewRouter(api.Deps{
		Logger:         logger,
		Metrics:        metrics,
		Store:          runs,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Workers:        cfg.Workers,
		MaxCells:       cfg.MaxCells,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			"addr", srv.Addr,
			"env", cfg.Env,
			"cache_ttl", cfg.CacheTTL,
			"cache_size", cfg.CacheSize,
			"max_cells", cfg.MaxCells,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
