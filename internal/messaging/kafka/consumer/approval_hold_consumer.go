package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-payroll/internal/approval"
	"go-payroll/internal/domain"
	"go-payroll/internal/events"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ApprovalHoldTopics are read by one consumer group so a submit and its decision
// arrive on the same reader.
var ApprovalHoldTopics = []string{events.ApprovalSubmittedTopic, events.ApprovalDecidedTopic}

// PayslipSyncer re-applies the payment gate to one employee-month.
type PayslipSyncer interface {
	Sync(ctx context.Context, employeeID uuid.UUID, period domain.Period) error
}

// holdEvent is the subset shared by approval_submitted and approval_decided.
type holdEvent struct {
	EventType  string `json:"event_type"`
	RequestID  string `json:"request_id"`
	Kind       string `json:"kind"`
	SubjectID  string `json:"subject_id"`
	HoldPeriod string `json:"hold_period"`
	Status     string `json:"status"`
}

// ConsumeApprovalHolds keeps stored payslip status in step with payment holds: a new
// hold moves a finalized payslip to ON_HOLD and resolving it moves it back.
func ConsumeApprovalHolds(
	ctx context.Context,
	reader MessageReader,
	syncer PayslipSyncer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_holds")
	log.Info("approval hold consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		if rid := header(msg, "request_id"); rid != "" {
			ctx = contextutil.WithRequestID(ctx, rid)
		}
		return HandleApprovalHoldEvent(ctx, msg.Value, syncer, log)
	})
}

func HandleApprovalHoldEvent(ctx context.Context, value []byte, syncer PayslipSyncer, log *zap.Logger) error {
	var event holdEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return skip(fmt.Errorf("decode approval event: %w", err))
	}
	if event.Kind != approval.KindPaymentHold {
		return nil
	}

	subjectID, err := uuid.Parse(event.SubjectID)
	if err != nil {
		return skip(fmt.Errorf("approval %s: invalid subject id: %w", event.RequestID, err))
	}
	period, err := domain.ParsePeriodKey(event.HoldPeriod)
	if err != nil {
		return skip(fmt.Errorf("approval %s: %w", event.RequestID, err))
	}

	if err := syncer.Sync(ctx, subjectID, period); err != nil {
		return err
	}

	log.Info("payslip gate synced",
		zap.String("approval_id", event.RequestID),
		zap.String("event_type", event.EventType),
		zap.String("subject_id", event.SubjectID),
		zap.String("period", period.Key()),
	)
	return nil
}
