package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-payroll/internal/config"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const consumerGroupPrefix = "go-payroll-"

// RunConsumer drives the payroll gate from approval events and generates payslips
// queued by async batch runs.
func RunConsumer(cfg config.Config, policy config.Policy, logger *zap.Logger) error {
	logger = logger.Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg, logger, false)
	if err != nil {
		return err
	}
	defer in.Close()

	m, err := buildModules(in.sql, in.gorm, in.redis, cfg, policy, bootstrapAudit(logger), logger)
	if err != nil {
		return err
	}

	holdReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		GroupTopics:    consumer.ApprovalHoldTopics,
		GroupID:        consumerGroupPrefix + "payroll-gate",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer holdReader.Close()

	payslipReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.PayrollPayslipRequestedTopic,
		GroupID:        consumerGroupPrefix + "payslip-batch",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer payslipReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeApprovalHolds(ctx, holdReader, m.gate, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumePayrollPayslipRequested(ctx, payslipReader, m.payroll, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
