package consumer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// errSkip marks a message that can never be processed. It is committed and dropped.
type errSkip struct{ err error }

func (e errSkip) Error() string { return e.err.Error() }
func (e errSkip) Unwrap() error { return e.err }

func skip(err error) error { return errSkip{err: err} }

// consume fetches messages until ctx is done. A message is committed after handle
// succeeds or reports it as unprocessable; any other failure leaves it uncommitted.
func consume(ctx context.Context, reader MessageReader, log *zap.Logger, handle func(context.Context, kafkago.Message) error) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handle(ctx, msg); err != nil {
			if _, ok := err.(errSkip); !ok {
				log.Error("handle message failed",
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset),
					zap.String("outbox_id", header(msg, "outbox_id")),
					zap.Error(err),
				)
				continue
			}
			log.Warn("dropping unprocessable message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.String("outbox_id", header(msg, "outbox_id")),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
