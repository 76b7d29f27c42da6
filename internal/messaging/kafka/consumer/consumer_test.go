package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves msgs in order, then cancels the consumer.
type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, context.Canceled
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

type syncCall struct {
	employeeID uuid.UUID
	period     domain.Period
	requestID  string
}

type fakeSyncer struct {
	calls []syncCall
	err   error
}

func (f *fakeSyncer) Sync(ctx context.Context, employeeID uuid.UUID, period domain.Period) error {
	f.calls = append(f.calls, syncCall{employeeID, period, contextutil.GetRequestID(ctx)})
	return f.err
}

func message(t *testing.T, offset int64, v any) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: body, Headers: []kafkago.Header{{Key: "request_id", Value: []byte("rid-7")}}}
}

func TestConsumeApprovalHolds(t *testing.T) {
	subject := uuid.New()

	t.Run("hold events sync the payslip and other kinds are ignored", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			message(t, 1, events.ApprovalSubmittedEvent{EventType: events.EventApprovalSubmitted, Kind: "PAYMENT_HOLD", SubjectID: subject.String(), HoldPeriod: "2025-03"}),
			message(t, 2, events.ApprovalDecidedEvent{EventType: events.EventApprovalDecided, Kind: "LEAVE", SubjectID: subject.String()}),
			message(t, 3, events.ApprovalDecidedEvent{EventType: events.EventApprovalDecided, Kind: "PAYMENT_HOLD", SubjectID: subject.String(), HoldPeriod: "2025-03", Status: "APPROVED"}),
		}}
		syncer := &fakeSyncer{}

		consumer.ConsumeApprovalHolds(ctx, reader, syncer, zap.NewNop())

		require.Len(t, syncer.calls, 2)
		assert.Equal(t, subject, syncer.calls[0].employeeID)
		assert.Equal(t, domain.Period{Year: 2025, Month: 3}, syncer.calls[0].period)
		assert.Equal(t, "rid-7", syncer.calls[0].requestID)
		assert.Len(t, reader.committed, 3)
	})

	t.Run("malformed events are committed and dropped", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			{Offset: 1, Value: []byte("{not json")},
			message(t, 2, events.ApprovalSubmittedEvent{Kind: "PAYMENT_HOLD", SubjectID: subject.String(), HoldPeriod: "March"}),
		}}
		syncer := &fakeSyncer{}

		consumer.ConsumeApprovalHolds(ctx, reader, syncer, zap.NewNop())

		assert.Empty(t, syncer.calls)
		assert.Len(t, reader.committed, 2)
	})

	t.Run("sync failure is not committed", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			message(t, 1, events.ApprovalDecidedEvent{Kind: "PAYMENT_HOLD", SubjectID: subject.String(), HoldPeriod: "2025-03"}),
		}}
		syncer := &fakeSyncer{err: payrollerrors.ErrStatusChanged}

		consumer.ConsumeApprovalHolds(ctx, reader, syncer, zap.NewNop())

		assert.Len(t, syncer.calls, 1)
		assert.Empty(t, reader.committed)
	})
}

type fakeGenerator struct {
	actor domain.Actor
	req   payroll.GeneratePayslipRequest
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, actor domain.Actor, req payroll.GeneratePayslipRequest) (payroll.PayslipResponse, error) {
	f.actor, f.req = actor, req
	return payroll.PayslipResponse{ReferenceNumber: "PS-202503-000001"}, f.err
}

func TestHandlePayslipRequested(t *testing.T) {
	hr := uuid.New()
	employeeID := uuid.NewString()
	body, err := json.Marshal(events.PayrollPayslipRequestedEvent{
		EmployeeID:    employeeID,
		Year:          2025,
		Month:         3,
		RequestedBy:   hr.String(),
		RequestedRole: "HR",
	})
	require.NoError(t, err)

	t.Run("generates as the requester", func(t *testing.T) {
		gen := &fakeGenerator{}

		err := consumer.HandlePayslipRequested(context.Background(), body, gen, zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, domain.Actor{ID: hr, Role: domain.RoleHR}, gen.actor)
		assert.Equal(t, payroll.GeneratePayslipRequest{EmployeeID: employeeID, Year: 2025, Month: 3}, gen.req)
	})

	t.Run("existing payslip is success", func(t *testing.T) {
		err := consumer.HandlePayslipRequested(context.Background(), body, &fakeGenerator{err: payrollerrors.ErrPayslipExists}, zap.NewNop())
		assert.NoError(t, err)
	})

	t.Run("business rejection is dropped, infrastructure error retried", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{{Offset: 1, Value: body}}}

		consumer.ConsumePayrollPayslipRequested(ctx, reader, &fakeGenerator{err: payrollerrors.ErrMissingAttendance}, zap.NewNop())
		assert.Len(t, reader.committed, 1)

		ctx, cancel = context.WithCancel(context.Background())
		reader = &fakeReader{cancel: cancel, msgs: []kafkago.Message{{Offset: 1, Value: body}}}

		consumer.ConsumePayrollPayslipRequested(ctx, reader, &fakeGenerator{err: errors.New("connection reset")}, zap.NewNop())
		assert.Empty(t, reader.committed)
	})
}
