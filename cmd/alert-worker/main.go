package main

import (
	"context"
	"errors"
	"os"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if !cfg.AlertsEnabled() {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	ctx, cancel := cli.GracefulShutdown(logger, nil)
	defer cancel()

	logger.Info("Starting alert-worker", log.FieldOperation, log.OpStartup, "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	handle := func(msg *amqp.BudgetAlertMessage) error {
		check := msg.Check()
		logger.WarnContext(ctx, check.AlertMessage(),
			log.NewFields().WithOperation(log.OpAlert).WithBudget(check.UserID, check.Category, check.Month, check.Limit.Cents, check.Spent.Cents).ToSlice()...)
		return nil
	}

	err := amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Alert consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Alert worker stopped", log.FieldOperation, log.OpShutdown)
}
