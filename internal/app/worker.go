package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go-payroll/internal/config"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays pending outbox rows to Kafka until SIGINT or SIGTERM, then makes one
// last pass bounded by the shutdown timeout.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg, logger, false)
	if err != nil {
		return err
	}
	defer in.Close()

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return err
	}
	defer writer.Close()

	relay := producer.NewRelay(kafka.NewOutboxRepository(in.sql), writer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay.Run(ctx)
	logger.Info("worker shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	res, err := relay.Flush(drainCtx)
	if err != nil {
		logger.Warn("outbox drain incomplete", zap.Error(err))
		return nil
	}
	logger.Info("outbox drained", zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	return nil
}
