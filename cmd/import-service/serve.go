package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	delivery "golang-stock-importer/internal/importer/delivery/http"
	"golang-stock-importer/internal/importer/service"
	"golang-stock-importer/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the import HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("Starting Import Service", logger.StringField("name", a.cfg.App.Name))

	if a.cfg.Retention.Enabled() {
		loc, err := a.cfg.Location()
		if err != nil {
			return err
		}
		retention := service.NewRetentionService(a.stockRepo, a.newsRepo,
			a.cfg.Retention.Cron, a.cfg.Retention.NewsMaxAgeDays, loc, a.logger)
		if err := retention.Start(); err != nil {
			return err
		}
		defer retention.Stop()
	}

	e := delivery.NewRouter(delivery.Handlers{
		Stock:  delivery.NewStockHandler(a.stockService, a.logger),
		Price:  delivery.NewPriceHandler(a.priceService, a.cfg.Import.MaxPriceUploadBytes, a.logger),
		News:   delivery.NewNewsHandler(a.newsService, a.cfg.Import.MaxNewsUploadBytes, a.logger),
		Health: delivery.NewHealthHandler(a.db, a.logger),
	}, delivery.NewImportLimiter(a.cfg.Import.MaxImportsPerMinute), a.cfg.CORS.AllowOrigins)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	go func() {
		addr := a.cfg.API.Address()
		a.logger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", logger.ErrorField(err))
		return err
	}

	a.logger.Info("Server exiting")
	return nil
}
