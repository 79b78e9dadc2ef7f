package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"billing/internal/amqp"
	"billing/internal/cli"
	gsheet "billing/internal/sheets/google"
	"billing/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting billing-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if !cfg.SheetsEnabled() {
		logger.Error("No GOOGLE_SPREADSHEET_ID configured, nothing to mirror")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("No AMQP_URL configured, cannot consume sync messages")
		os.Exit(1)
	}

	store := cli.InitStore(logger, cfg)
	defer store.Close()

	sheetsClient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(store, sheetsClient, worker.Tabs{
		Products:  cfg.ProductsSheet,
		Customers: cfg.CustomersSheet,
		Invoices:  cfg.InvoicesSheet,
		Settings:  cfg.SettingsSheet,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Catch up on anything missed while the worker was down.
	logger.Info("Performing startup sync")
	if err := syncWorker.SyncAll(shutdownCtx); err != nil {
		logger.Error("Startup sync failed", "error", err)
		// Continue; the consumer and periodic resync will retry.
	}

	g, ctx := errgroup.WithContext(shutdownCtx)

	g.Go(func() error {
		return amqpClient.ConsumeCollectionSync(ctx, func(msg *amqp.CollectionSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := syncWorker.SyncAll(ctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		cli.WaitForShutdown(shutdownCtx, done)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Worker stopped gracefully")
}
