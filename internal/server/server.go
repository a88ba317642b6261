// Package server runs the HTTP server until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/stockpile/app/routes"
	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/internal/kernel"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/event"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// Start boots logging, the database and storage, serves on APP_PORT and
// drains in-flight requests on SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup()
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close(database.DB) //nolint:errcheck

	storage.Connect(ctx)
	event.Listen(services.EventStockChanged, lowStockAlert(config.LowStockThreshold()))

	opts := kernel.Options{Routes: routes.OptionsFromConfig()}
	limiter := kernel.NewLimiter(ctx)
	if limiter != nil {
		opts.Limiter = limiter
		defer limiter.Close()
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.NewHTTPKernel(database.DB, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stockpile listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// lowStockAlert warns when a stock change leaves an item at or below threshold.
func lowStockAlert(threshold int) event.Handler {
	return func(ctx context.Context, payload any) {
		lvl, ok := payload.(services.StockLevel)
		if !ok || lvl.Qty > threshold {
			return
		}
		logger.WithCtx(ctx).Warn("low stock", "item", lvl.Item, "item_id", lvl.ItemID, "qty", lvl.Qty, "threshold", threshold)
	}
}
