package main

import (
	"context"
	"errors"
	"os"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/export"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/shell"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	repo := cli.InitSQLite(logger, cfg.DBPath)

	var alerts *amqp.Client
	closeAll := func() {
		if alerts != nil {
			alerts.Close()
		}
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close database", log.FieldError, err)
		}
	}

	// The menu blocks on stdin, so an interrupt closes the store and exits
	// from the signal goroutine.
	ctx, cancel := cli.GracefulShutdown(logger, func() {
		closeAll()
		os.Exit(130)
	})
	defer cancel()

	alerts, sheets := cli.InitIntegrations(ctx, logger, cfg)

	var opts []services.Option
	if alerts != nil {
		opts = append(opts, services.WithAlertPublisher(alerts))
	}
	svc := services.NewLedgerService(repo, opts...)

	shellOpts := []shell.Option{shell.WithLogger(logger)}
	if sheets != nil {
		shellOpts = append(shellOpts, shell.WithSheets(sheets))
	}

	sh := shell.New(os.Stdin, os.Stdout, svc, export.NewExporter(svc, cfg.ExportDir), shellOpts...)

	logger.Info("Ledger started", log.FieldOperation, log.OpStartup, log.FieldPath, cfg.DBPath)
	err := sh.Run(ctx)
	closeAll()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Shell stopped", log.FieldError, err)
		os.Exit(1)
	}
}
