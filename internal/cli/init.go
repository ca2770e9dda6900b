// Package cli provides common process initialization for cmd/ledger and
// cmd/alert-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"ledger/internal/amqp"
	"ledger/internal/config"
	"ledger/internal/log"
	"ledger/internal/sheets/google"
	"ledger/internal/storage"
)

// SetupLogger builds the component-tagged logger at the configured level,
// writing to stderr, and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: component,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// The configured logger depends on cfg, so report with the default one
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the ledger database, creating the schema if needed.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, log.FieldPath, dbPath)
		os.Exit(1)
	}
	return repo
}

// InitAlertPublisher connects to AMQP when configured. A connection failure
// is logged and alerts are then only shown in the terminal.
func InitAlertPublisher(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.AlertsEnabled() {
		logger.Info("AMQP disabled - budget alerts are shown in the terminal only")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without alert publishing", log.FieldError, err)
		return nil
	}
	logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// InitSheets creates the Google Sheets client when a spreadsheet is configured.
func InitSheets(ctx context.Context, logger *log.Logger, cfg *config.Config) *google.Client {
	if !cfg.SheetsEnabled() {
		return nil
	}
	client, err := google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, google.Credentials{
		File: cfg.GoogleServiceAccountFile,
		JSON: cfg.GoogleServiceAccountJSON,
	})
	if err != nil {
		logger.Warn("Failed to initialize Google Sheets client, sheets export disabled", log.FieldError, err)
		return nil
	}
	return client
}

// InitIntegrations dials the optional AMQP broker and Google Sheets API in
// parallel. Either result may be nil when disabled or unreachable.
func InitIntegrations(ctx context.Context, logger *log.Logger, cfg *config.Config) (*amqp.Client, *google.Client) {
	var (
		alerts *amqp.Client
		sheets *google.Client
		g      errgroup.Group
	)
	g.Go(func() error {
		alerts = InitAlertPublisher(logger, cfg)
		return nil
	})
	g.Go(func() error {
		sheets = InitSheets(ctx, logger, cfg)
		return nil
	})
	_ = g.Wait()
	return alerts, sheets
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs once, after the signal and before the context is cancelled.
func GracefulShutdown(logger *log.Logger, cleanup func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown, "signal", sig.String())
			if cleanup != nil {
				cleanup()
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
