package producer

import (
	"context"
	"strconv"

	"go-payroll/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderRequestID     = "request_id"
	HeaderOutboxID      = "outbox_id"
	HeaderAttempt       = "attempt"
)

// toMessage keys by aggregate so every event of one approval request or payslip lands on
// the same partition. outbox_id lets consumers drop redeliveries.
func toMessage(event kafka.OutboxEvent) kafkago.Message {
	headers := []kafkago.Header{
		{Key: HeaderEventType, Value: []byte(event.EventType)},
		{Key: HeaderAggregateType, Value: []byte(event.AggregateType)},
		{Key: HeaderOutboxID, Value: []byte(event.ID)},
		{Key: HeaderAttempt, Value: []byte(strconv.Itoa(event.RetryCount + 1))},
	}
	if event.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: HeaderRequestID, Value: []byte(event.RequestID)})
	}

	return kafkago.Message{
		Topic:   event.Topic,
		Key:     []byte(event.AggregateID),
		Value:   event.Payload,
		Headers: headers,
	}
}

func publishEvent(ctx context.Context, writer MessageWriter, event kafka.OutboxEvent) error {
	return writer.WriteMessages(ctx, toMessage(event))
}
