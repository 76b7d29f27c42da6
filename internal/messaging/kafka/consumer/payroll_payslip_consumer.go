package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-payroll/internal/domain"
	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayslipGenerator is the payroll operation the consumer drives.
type PayslipGenerator interface {
	Generate(ctx context.Context, actor domain.Actor, req payroll.GeneratePayslipRequest) (payroll.PayslipResponse, error)
}

func ConsumePayrollPayslipRequested(
	ctx context.Context,
	reader MessageReader,
	payrollService PayslipGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_payslip")
	log.Info("payroll payslip consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		if rid := header(msg, "request_id"); rid != "" {
			ctx = contextutil.WithRequestID(ctx, rid)
		}
		return HandlePayslipRequested(ctx, msg.Value, payrollService, log)
	})
}

// HandlePayslipRequested generates the requested payslip as the actor who queued it.
// Business rejections are final; only infrastructure failures are retried.
func HandlePayslipRequested(ctx context.Context, value []byte, payrollService PayslipGenerator, log *zap.Logger) error {
	var event events.PayrollPayslipRequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return skip(fmt.Errorf("decode payslip request: %w", err))
	}

	actor, err := domain.NewActor(event.RequestedBy, event.RequestedRole)
	if err != nil {
		return skip(fmt.Errorf("payslip request for %s: %w", event.EmployeeID, err))
	}

	resp, err := payrollService.Generate(ctx, actor, payroll.GeneratePayslipRequest{
		EmployeeID: event.EmployeeID,
		Year:       event.Year,
		Month:      event.Month,
	})
	if err != nil {
		if errors.Is(err, payrollerrors.ErrPayslipExists) {
			log.Warn("payslip already generated, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.Int("year", event.Year),
				zap.Int("month", event.Month),
			)
			return nil
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
			return skip(err)
		}
		return err
	}

	log.Info("payroll payslip generated",
		zap.String("employee_id", event.EmployeeID),
		zap.String("reference_number", resp.ReferenceNumber),
	)
	return nil
}
