package producer

import (
	"context"
	"time"

	"go-payroll/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize    = 50
	DefaultPollInterval = 3 * time.Second
)

// MessageWriter is satisfied by *kafkago.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// BatchResult counts what one pass over the outbox did.
type BatchResult struct {
	Sent   int
	Failed int
}

// Full reports whether the pass returned as many rows as it asked for.
func (b BatchResult) Full(size int) bool { return b.Sent+b.Failed >= size }

// Relay moves committed outbox rows to Kafka. Rows are published one at a time so a
// failure only delays its own row.
type Relay struct {
	repo         kafka.OutboxRepository
	writer       MessageWriter
	batchSize    int
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewRelay(repo kafka.OutboxRepository, writer MessageWriter, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.L()
	}
	return &Relay{
		repo:         repo,
		writer:       writer,
		batchSize:    DefaultBatchSize,
		pollInterval: DefaultPollInterval,
		logger:       logger.Named("outbox.relay"),
	}
}

func (r *Relay) WithPollInterval(d time.Duration) *Relay {
	if d > 0 {
		r.pollInterval = d
	}
	return r
}

// Run polls until ctx is done. A full batch is followed straight away by the next one.
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("outbox relay started", zap.Duration("poll_interval", r.pollInterval))
	timer := time.NewTimer(r.pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-timer.C:
		}

		next := r.pollInterval
		res, err := r.Flush(ctx)
		if err != nil {
			r.logger.Error("outbox pass failed", zap.Error(err))
		} else if res.Full(r.batchSize) {
			next = 0
		}
		timer.Reset(next)
	}
}

// Flush publishes one batch of due rows.
func (r *Relay) Flush(ctx context.Context) (BatchResult, error) {
	var res BatchResult

	due, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		return res, err
	}

	for _, event := range due {
		if err := publishEvent(ctx, r.writer, event); err != nil {
			res.Failed++
			r.recordFailure(ctx, event, err)
			continue
		}
		res.Sent++
		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			// published but still pending; the next pass sends it again
			r.logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
		}
	}

	if res.Failed > 0 {
		r.logger.Warn("outbox pass had failures", zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	} else if res.Sent > 0 {
		r.logger.Debug("outbox pass done", zap.Int("sent", res.Sent))
	}
	return res, nil
}

func (r *Relay) recordFailure(ctx context.Context, event kafka.OutboxEvent, cause error) {
	attempt := event.RetryCount + 1
	r.logger.Error("publish outbox event failed",
		zap.String("outbox_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("topic", event.Topic),
		zap.Int("attempt", attempt),
		zap.Error(cause),
	)

	if err := r.repo.MarkFailed(ctx, event.ID, cause.Error()); err != nil {
		r.logger.Error("record outbox failure failed", zap.String("outbox_id", event.ID), zap.Error(err))
		return
	}
	if attempt >= kafka.MaxOutboxRetries {
		r.logger.Warn("outbox event dead-lettered",
			zap.String("outbox_id", event.ID),
			zap.String("aggregate_id", event.AggregateID),
			zap.Int("attempts", attempt),
		)
	}
}
