package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/compensation"
	"go-payroll/internal/domain"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	payslipCounterType = "payslip"
	maxBatchSize       = 500
	aggregatePayslip   = "payslip"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, actor domain.Actor, req GeneratePayslipRequest) (PayslipResponse, error)
	RunBatch(ctx context.Context, actor domain.Actor, req BatchPayslipRequest) ([]BatchResult, error)
	EnqueueBatch(ctx context.Context, actor domain.Actor, req BatchPayslipRequest) (EnqueueBatchResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error)
	Status(ctx context.Context, actor domain.Actor, employeeID string, year, month int) (StatusResponse, error)
	Finalize(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error)
	MarkPaid(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error)
}

// HoldGate decides whether a payslip may be disbursed.
type HoldGate interface {
	// Apply sets p to ON_HOLD or PAYABLE from the live hold state. PAID is left alone.
	Apply(ctx context.Context, p *Payslip) error
	EffectiveStatus(ctx context.Context, p Payslip) (string, *uuid.UUID, error)
	// HoldWithinTx serializes with hold submission for employeeID and returns the PENDING
	// hold visible on tx, or nil.
	HoldWithinTx(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, period domain.Period) (*uuid.UUID, error)
}

type ComponentSource interface {
	ActiveComponents(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (compensation.SalaryComponents, error)
}

type AttendanceSource interface {
	ComputeFromApprovedLeave(ctx context.Context, employeeID uuid.UUID, period domain.Period) (attendance.AttendancePeriod, error)
}

type Config struct {
	Statutory        StatutoryPolicy
	BasicRate        decimal.Decimal
	BatchConcurrency int
}

func DefaultConfig() Config {
	return Config{
		Statutory:        DefaultStatutoryPolicy(),
		BasicRate:        compensation.DefaultCTCPolicy().BasicRate,
		BatchConcurrency: 8,
	}
}

type Dependencies struct {
	DB         *sql.DB
	Repo       Repository
	Counter    counter.Repository
	Outbox     kafka.OutboxRepository
	Gate       HoldGate
	Components ComponentSource
	Attendance AttendanceSource
	Authorizer domain.Authorizer
}

type service struct {
	db         *sql.DB
	repo       Repository
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	gate       HoldGate
	components ComponentSource
	attendance AttendanceSource
	authorizer domain.Authorizer
	cfg        Config
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(deps Dependencies, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	return &service{
		db:         deps.DB,
		repo:       deps.Repo,
		counter:    deps.Counter,
		outbox:     deps.Outbox,
		gate:       deps.Gate,
		components: deps.Components,
		attendance: deps.Attendance,
		authorizer: deps.Authorizer,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) Generate(ctx context.Context, actor domain.Actor, req GeneratePayslipRequest) (PayslipResponse, error) {
	if err := s.authorize(actor, domain.ActionCreate); err != nil {
		return PayslipResponse{}, err
	}
	return s.generate(ctx, actor, req)
}

func (s *service) generate(ctx context.Context, actor domain.Actor, req GeneratePayslipRequest) (PayslipResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	period, err := domain.NewPeriod(req.Year, req.Month)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidPeriod.WithMessage("%s", err.Error())
	}

	log.Debug("generate payslip",
		zap.String("employee_id", employeeID.String()),
		zap.String("period", period.Key()),
	)

	earnings, err := s.earningsFor(ctx, employeeID, period, req.MonthlyBase)
	if err != nil {
		return PayslipResponse{}, err
	}

	att, err := s.attendance.ComputeFromApprovedLeave(ctx, employeeID, period)
	if err != nil {
		return PayslipResponse{}, err
	}

	payslip, err := Generate(earnings, &att, s.cfg.Statutory)
	if err != nil {
		log.Warn("payslip generation rejected",
			zap.String("employee_id", employeeID.String()),
			zap.String("period", period.Key()),
			zap.Error(err),
		)
		return PayslipResponse{}, err
	}

	seq, err := s.counter.GetNextValue(ctx, period.Key(), payslipCounterType)
	if err != nil {
		log.Error("payslip counter failed", zap.String("period", period.Key()), zap.Error(err))
		return PayslipResponse{}, err
	}

	payslip.ID = uuid.New()
	payslip.ReferenceNumber = ReferenceNumber(period, seq)
	payslip.CreatedBy = actor.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, &payslip); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, payrollerrors.ErrPayslipExists) {
			log.Warn("payslip already exists",
				zap.String("employee_id", employeeID.String()),
				zap.String("period", period.Key()),
			)
			return PayslipResponse{}, mapped
		}
		log.Error("persist payslip failed", zap.Error(err))
		return PayslipResponse{}, mapped
	}

	if err := s.enqueueStatusEvent(ctx, tx, events.EventPayslipGenerated, payslip, actor.ID); err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	log.Info("payslip generated",
		zap.String("payslip_id", payslip.ID.String()),
		zap.String("reference_number", payslip.ReferenceNumber),
		zap.String("net_pay", payslip.NetPay.StringFixed(2)),
	)
	return mapToResponse(payslip), nil
}

func (s *service) earningsFor(ctx context.Context, employeeID uuid.UUID, period domain.Period, monthlyBase *decimal.Decimal) (MonthlyEarnings, error) {
	if monthlyBase != nil {
		if monthlyBase.IsNegative() {
			return MonthlyEarnings{}, payrollerrors.ErrInvalidEarnings
		}
		return EarningsFromMonthlyBase(*monthlyBase, s.cfg.BasicRate), nil
	}

	components, err := s.components.ActiveComponents(ctx, employeeID, period.LastDay())
	if err != nil {
		return MonthlyEarnings{}, err
	}
	return EarningsFromComponents(components), nil
}

// RunBatch generates one payslip per employee. A failure for one employee is reported
// in its result and does not stop the others.
func (s *service) RunBatch(ctx context.Context, actor domain.Actor, req BatchPayslipRequest) ([]BatchResult, error) {
	if err := s.authorize(actor, domain.ActionCreate); err != nil {
		return nil, err
	}
	if len(req.EmployeeIDs) > maxBatchSize {
		return nil, payrollerrors.ErrBatchTooLarge
	}
	if _, err := domain.NewPeriod(req.Year, req.Month); err != nil {
		return nil, payrollerrors.ErrInvalidPeriod.WithMessage("%s", err.Error())
	}

	results := make([]BatchResult, len(req.EmployeeIDs))

	var g errgroup.Group
	g.SetLimit(s.cfg.BatchConcurrency)

	for i, employeeID := range req.EmployeeIDs {
		g.Go(func() error {
			results[i].EmployeeID = employeeID
			resp, err := s.generate(ctx, actor, GeneratePayslipRequest{
				EmployeeID: employeeID,
				Year:       req.Year,
				Month:      req.Month,
			})
			if err != nil {
				results[i].Error = toBatchError(err)
				return nil
			}
			results[i].Payslip = &resp
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	s.logger.Info("payroll batch finished",
		zap.String("period", fmt.Sprintf("%04d-%02d", req.Year, req.Month)),
		zap.Int("total", len(results)),
		zap.Int("failed", failed),
	)

	return results, nil
}

// EnqueueBatch writes one payslip request per employee to the outbox. The payslip
// consumer generates them later with the requesting actor.
func (s *service) EnqueueBatch(ctx context.Context, actor domain.Actor, req BatchPayslipRequest) (EnqueueBatchResponse, error) {
	if err := s.authorize(actor, domain.ActionCreate); err != nil {
		return EnqueueBatchResponse{}, err
	}
	if s.outbox == nil {
		return EnqueueBatchResponse{}, payrollerrors.ErrAsyncUnavailable
	}
	if len(req.EmployeeIDs) > maxBatchSize {
		return EnqueueBatchResponse{}, payrollerrors.ErrBatchTooLarge
	}
	period, err := domain.NewPeriod(req.Year, req.Month)
	if err != nil {
		return EnqueueBatchResponse{}, payrollerrors.ErrInvalidPeriod.WithMessage("%s", err.Error())
	}

	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EnqueueBatchResponse{}, err
	}
	defer tx.Rollback()

	outbox := s.outbox.WithTx(tx)
	for _, employeeID := range req.EmployeeIDs {
		event, err := kafka.NewOutboxEvent(
			rid,
			"employee",
			employeeID,
			events.EventPayslipRequested,
			events.PayrollPayslipRequestedTopic,
			events.PayrollPayslipRequestedEvent{
				EventType:     events.EventPayslipRequested,
				EmployeeID:    employeeID,
				Year:          period.Year,
				Month:         int(period.Month),
				RequestedBy:   actor.ID.String(),
				RequestedRole: string(actor.Role),
				OccurredAt:    s.now(),
			},
		)
		if err != nil {
			return EnqueueBatchResponse{}, err
		}
		if err := outbox.Create(ctx, event); err != nil {
			s.logger.Error("enqueue payslip request failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return EnqueueBatchResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return EnqueueBatchResponse{}, err
	}

	s.logger.Info("payroll batch enqueued",
		zap.String("request_id", rid),
		zap.String("period", period.Key()),
		zap.Int("total", len(req.EmployeeIDs)),
	)
	return EnqueueBatchResponse{Period: period.Key(), Enqueued: len(req.EmployeeIDs)}, nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error) {
	payslip, err := s.findByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	if err := s.authorizeRead(actor, payslip.EmployeeID); err != nil {
		return PayslipResponse{}, err
	}
	return mapToResponse(*payslip), nil
}

// Status reports the payslip status as seen by disbursement, consulting live holds.
func (s *service) Status(ctx context.Context, actor domain.Actor, employeeID string, year, month int) (StatusResponse, error) {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return StatusResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	if err := s.authorizeRead(actor, eid); err != nil {
		return StatusResponse{}, err
	}
	period, err := domain.NewPeriod(year, month)
	if err != nil {
		return StatusResponse{}, payrollerrors.ErrInvalidPeriod.WithMessage("%s", err.Error())
	}

	payslip, err := s.repo.FindByEmployeeAndPeriod(ctx, eid, period.Year, int(period.Month))
	if err != nil {
		return StatusResponse{}, mapRepositoryError(err)
	}

	status, holdID := payslip.Status, payslip.HoldRequestID
	if s.gate != nil {
		status, holdID, err = s.gate.EffectiveStatus(ctx, *payslip)
		if err != nil {
			s.logger.Error("evaluate payslip hold failed",
				zap.String("payslip_id", payslip.ID.String()),
				zap.Error(err),
			)
			return StatusResponse{}, err
		}
	}

	return StatusResponse{
		PayslipID:     payslip.ID.String(),
		EmployeeID:    payslip.EmployeeID.String(),
		Period:        period.Key(),
		Status:        status,
		HoldRequestID: uuidString(holdID),
	}, nil
}

// Finalize moves a DRAFT payslip into the gate: PAYABLE, or ON_HOLD when a hold is pending.
func (s *service) Finalize(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error) {
	if err := s.authorize(actor, domain.ActionCreate); err != nil {
		return PayslipResponse{}, err
	}

	payslip, err := s.findByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, err
	}

	switch payslip.Status {
	case StatusPaid:
		return PayslipResponse{}, payrollerrors.ErrPayslipAlreadyPaid
	case StatusDraft:
	default:
		// already finalized
		return mapToResponse(*payslip), nil
	}

	from := payslip.Status
	if err := s.gate.Apply(ctx, payslip); err != nil {
		return PayslipResponse{}, err
	}

	eventType := events.EventPayslipFinalized
	if payslip.Status == StatusOnHold {
		eventType = events.EventPayslipHeld
	}
	if err := s.saveStatus(ctx, payslip, from, eventType, actor.ID); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip finalized",
		zap.String("payslip_id", payslip.ID.String()),
		zap.String("status", payslip.Status),
	)
	return mapToResponse(*payslip), nil
}

// MarkPaid disburses a PAYABLE payslip. The gate is checked once up front and again
// inside the PAID transaction under the hold-submission lock, so a hold committed in
// between still blocks payment. A payslip found held is stored ON_HOLD and the call fails.
func (s *service) MarkPaid(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error) {
	if err := s.authorize(actor, domain.ActionPay); err != nil {
		return PayslipResponse{}, err
	}

	payslip, err := s.findByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, err
	}

	switch payslip.Status {
	case StatusPaid:
		return PayslipResponse{}, payrollerrors.ErrPayslipAlreadyPaid
	case StatusDraft:
		return PayslipResponse{}, payrollerrors.ErrPayslipNotFinalized
	}

	from := payslip.Status
	if err := s.gate.Apply(ctx, payslip); err != nil {
		return PayslipResponse{}, err
	}

	if payslip.Status == StatusOnHold {
		if from != StatusOnHold {
			if err := s.saveStatus(ctx, payslip, from, events.EventPayslipHeld, actor.ID); err != nil {
				return PayslipResponse{}, err
			}
		}
		s.logger.Warn("disbursement blocked by payment hold",
			zap.String("payslip_id", payslip.ID.String()),
			zap.Stringp("hold_request_id", uuidString(payslip.HoldRequestID)),
		)
		return PayslipResponse{}, payrollerrors.ErrPayslipOnHold.WithDetails(map[string]any{
			"hold_request_id": uuidString(payslip.HoldRequestID),
		})
	}

	if err := s.disburse(ctx, payslip, from, actor.ID); err != nil {
		if errors.Is(err, payrollerrors.ErrPayslipOnHold) {
			s.logger.Warn("disbursement blocked by payment hold placed during payment",
				zap.String("payslip_id", payslip.ID.String()),
				zap.Stringp("hold_request_id", uuidString(payslip.HoldRequestID)),
			)
		}
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip paid",
		zap.String("payslip_id", payslip.ID.String()),
		zap.String("paid_by", actor.ID.String()),
	)
	return mapToResponse(*payslip), nil
}

// disburse writes PAID only if no hold is pending once the hold lock is held. Otherwise
// the payslip is committed ON_HOLD and ErrPayslipOnHold is returned.
func (s *service) disburse(ctx context.Context, p *Payslip, from string, actorID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	holdID, err := s.gate.HoldWithinTx(ctx, tx, p.EmployeeID, p.Period())
	if err != nil {
		return err
	}

	if holdID != nil {
		p.Status = StatusOnHold
		p.HoldRequestID = holdID
		if err := s.writeStatus(ctx, tx, p, from, events.EventPayslipHeld, actorID); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		return payrollerrors.ErrPayslipOnHold.WithDetails(map[string]any{
			"hold_request_id": uuidString(holdID),
		})
	}

	paidAt := s.now()
	p.Status = StatusPaid
	p.PaidBy = &actorID
	p.PaidAt = &paidAt
	if err := s.writeStatus(ctx, tx, p, from, events.EventPayslipPaid, actorID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) saveStatus(ctx context.Context, p *Payslip, from, eventType string, actorID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.writeStatus(ctx, tx, p, from, eventType, actorID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) writeStatus(ctx context.Context, tx *sql.Tx, p *Payslip, from, eventType string, actorID uuid.UUID) error {
	if err := s.repo.WithTx(tx).UpdateStatus(ctx, p, from); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, payrollerrors.ErrStatusChanged) {
			s.logger.Warn("payslip status changed concurrently",
				zap.String("payslip_id", p.ID.String()),
				zap.String("expected_status", from),
			)
		} else {
			s.logger.Error("update payslip status failed", zap.Error(err))
		}
		return mapped
	}
	return s.enqueueStatusEvent(ctx, tx, eventType, *p, actorID)
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *sql.Tx, eventType string, p Payslip, actorID uuid.UUID) error {
	if s.outbox == nil {
		return nil
	}

	holdID := ""
	if p.HoldRequestID != nil {
		holdID = p.HoldRequestID.String()
	}

	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		aggregatePayslip,
		p.ID.String(),
		eventType,
		events.PayrollPayslipStatusTopic,
		events.PayslipStatusChangedEvent{
			EventType:       eventType,
			PayslipID:       p.ID.String(),
			ReferenceNumber: p.ReferenceNumber,
			EmployeeID:      p.EmployeeID.String(),
			Period:          p.Period().Key(),
			Status:          p.Status,
			HoldRequestID:   holdID,
			ActorID:         actorID.String(),
			OccurredAt:      s.now(),
		},
	)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("payslip outbox persist failed",
			zap.String("payslip_id", p.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) findByID(ctx context.Context, id string) (*Payslip, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, payrollerrors.ErrInvalidPayslipID
	}
	payslip, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return payslip, nil
}

func (s *service) authorize(actor domain.Actor, action string) error {
	allowed, err := s.authorizer.Enforce(domain.EnforceRequest{
		Role:     actor.Role,
		Resource: domain.ResourcePayroll,
		Action:   action,
	})
	if err != nil {
		return err
	}
	if !allowed {
		return payrollerrors.ErrForbidden
	}
	return nil
}

func (s *service) authorizeRead(actor domain.Actor, employeeID uuid.UUID) error {
	if actor.ID == employeeID {
		return nil
	}
	return s.authorize(actor, domain.ActionRead)
}

// ReferenceNumber formats PS-YYYYMM-NNNNNN.
func ReferenceNumber(period domain.Period, seq int64) string {
	return counter.Format(fmt.Sprintf("PS-%04d%02d", period.Year, int(period.Month)), seq)
}

func toBatchError(err error) *BatchError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return &BatchError{Code: appErr.Code, Message: appErr.Message}
	}
	return &BatchError{Code: apperror.CodeInternalError, Message: "internal server error"}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

func mapToResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:              p.ID.String(),
		ReferenceNumber: p.ReferenceNumber,
		EmployeeID:      p.EmployeeID.String(),
		Period:          p.Period().Key(),

		Basic:            p.Basic,
		HRA:              p.HRA,
		Conveyance:       p.Conveyance,
		Medical:          p.Medical,
		SpecialAllowance: p.SpecialAllowance,
		PerformanceBonus: p.PerformanceBonus,
		Gross:            p.Gross,

		RetirementContribution: p.RetirementContribution,
		ProfessionalTax:        p.ProfessionalTax,
		TaxAtSource:            p.TaxAtSource,
		InsurancePremium:       p.InsurancePremium,
		TotalDeductions:        p.TotalDeductions,

		NetMonthly:           p.NetMonthly,
		UnpaidLeaveDeduction: p.UnpaidLeaveDeduction,
		NetPay:               p.NetPay,

		TotalDays:            p.TotalDays,
		WorkingDays:          p.WorkingDays,
		UnpaidLeaveDays:      p.UnpaidLeaveDays,
		EffectiveWorkingDays: p.EffectiveWorkingDays,

		Status:        p.Status,
		HoldRequestID: uuidString(p.HoldRequestID),
		CreatedBy:     p.CreatedBy.String(),
		PaidBy:        uuidString(p.PaidBy),
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}
