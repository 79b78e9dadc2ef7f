package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"billing/internal/amqp"
	"billing/internal/cli"
	apphttp "billing/internal/http"
	"billing/internal/services"
	ports "billing/internal/sheets"
	gsheet "billing/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)
	defer store.Close()

	// AMQP is optional. Without it mutations are persisted locally and the
	// spreadsheet mirror simply lags until the worker's periodic resync.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, sync publishing disabled", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	ctx := context.Background()
	products, err := services.NewProductService(ctx, store, amqpClient)
	if err != nil {
		logger.Error("Failed to initialize product service", "error", err)
		os.Exit(1)
	}
	customers, err := services.NewCustomerService(ctx, store, amqpClient)
	if err != nil {
		logger.Error("Failed to initialize customer service", "error", err)
		os.Exit(1)
	}
	settings, err := services.NewSettingsService(ctx, store, amqpClient)
	if err != nil {
		logger.Error("Failed to initialize settings service", "error", err)
		os.Exit(1)
	}
	invoices, err := services.NewInvoiceService(ctx, store, amqpClient, customers, settings)
	if err != nil {
		logger.Error("Failed to initialize invoice service", "error", err)
		os.Exit(1)
	}

	// Spreadsheet import source (optional).
	var sheetReader ports.RangeReader
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client, sheet import disabled", "error", err)
		} else {
			sheetReader = client
			logger.Info("Google Sheets import enabled", "sheet", cfg.ImportSheet)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Services{
		Products:  products,
		Customers: customers,
		Invoices:  invoices,
		Settings:  settings,
	}, sheetReader, cfg.ImportSheet)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting billing server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
