package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vgsales/internal/api"
	"vgsales/internal/config"
	"vgsales/internal/engine"
	"vgsales/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server. The server answers immediately; data routes
return 503 until the CSV has been loaded in the background.`,
	RunE: runServe,
}

// newServer wires middleware and routes around a handler.
func newServer(cfg config.Config, cache *engine.Cache, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = newLogger(cfg.Debug)
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(m.Middleware())

	h := api.NewHandler(cache, cfg, m)
	h.RegisterRoutes(e)
	return e
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m := metrics.New()
	cache := engine.NewFileCache(cfg.DataFile)
	e := newServer(cfg, cache, m)
	logger := e.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// The API is live before the data is; handlers answer 503 meanwhile.
	g.Go(func() error {
		logger.Infof("BACKGROUND: loading %s", cfg.DataFile)
		ds, err := cache.Load()
		if err != nil {
			logger.Errorf("BACKGROUND: load failed: %v", err)
			return fmt.Errorf("load dataset: %w", err)
		}
		m.ObserveLoad(cache.Elapsed(), ds.Len())
		logger.Infof("BACKGROUND: %d rows loaded in %v. API is fully ready.", ds.Len(), cache.Elapsed())
		return nil
	})

	g.Go(func() error {
		logger.Infof("Server ready on %s (data loading in background...)", cfg.Address)
		if err := e.Start(cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
