// Package payrollgate decides whether a payslip may be disbursed by consulting pending
// payment holds. It only ever moves the status columns of a payslip.
package payrollgate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/approval"
	"go-payroll/internal/domain"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	aggregatePayslip = "payslip"
	maxSyncAttempts  = 3
)

// HoldFinder reads the PENDING payment hold for an employee-period from the primary store.
// LockSubject takes the transaction-scoped lock hold submission takes for (subject, kind).
type HoldFinder interface {
	LockSubject(ctx context.Context, subjectID uuid.UUID, kind string) error
	PendingHoldID(ctx context.Context, subjectID uuid.UUID, periodKey string) (uuid.UUID, bool, error)
}

// TxBinder returns holds that read and lock on tx.
type TxBinder func(tx *sql.Tx) HoldFinder

var errNoTxBinder = errors.New("payrollgate: no transaction binder configured")

type Verdict struct {
	Held          bool
	HoldRequestID *uuid.UUID
}

type Gate struct {
	db       *sql.DB
	holds    HoldFinder
	bindTx   TxBinder
	payslips payroll.Repository
	outbox   kafka.OutboxRepository
	now      func() time.Time
	logger   *zap.Logger
}

func New(
	db *sql.DB,
	holds HoldFinder,
	payslips payroll.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) *Gate {
	l := zap.L().Named("payrollgate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollgate")
	}
	return &Gate{
		db:       db,
		holds:    holds,
		payslips: payslips,
		outbox:   outbox,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

// WithTxBinder enables HoldWithinTx.
func (g *Gate) WithTxBinder(bind TxBinder) *Gate {
	g.bindTx = bind
	return g
}

func (g *Gate) Evaluate(ctx context.Context, employeeID uuid.UUID, period domain.Period) (Verdict, error) {
	id, found, err := g.holds.PendingHoldID(ctx, employeeID, period.Key())
	if err != nil {
		g.logger.Error("pending hold lookup failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("period", period.Key()),
			zap.Error(err),
		)
		return Verdict{}, err
	}
	if !found {
		return Verdict{}, nil
	}
	return Verdict{Held: true, HoldRequestID: &id}, nil
}

// Apply sets p to ON_HOLD or PAYABLE according to the live hold state. PAID is final.
func (g *Gate) Apply(ctx context.Context, p *payroll.Payslip) error {
	if p.Status == payroll.StatusPaid {
		return nil
	}

	verdict, err := g.Evaluate(ctx, p.EmployeeID, p.Period())
	if err != nil {
		return err
	}

	if verdict.Held {
		p.Status = payroll.StatusOnHold
		p.HoldRequestID = verdict.HoldRequestID
		return nil
	}
	p.Status = payroll.StatusPayable
	p.HoldRequestID = nil
	return nil
}

// HoldWithinTx locks the employee's payment-hold key on tx and reads the PENDING hold
// through it. A hold committed before the lock is seen; one submitted later waits for tx.
// It returns nil when the period is clear.
func (g *Gate) HoldWithinTx(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, period domain.Period) (*uuid.UUID, error) {
	if g.bindTx == nil {
		return nil, errNoTxBinder
	}
	holds := g.bindTx(tx)
	if err := holds.LockSubject(ctx, employeeID, approval.KindPaymentHold); err != nil {
		g.logger.Error("payment hold lock failed", zap.String("employee_id", employeeID.String()), zap.Error(err))
		return nil, err
	}
	id, found, err := holds.PendingHoldID(ctx, employeeID, period.Key())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &id, nil
}

// EffectiveStatus is the status disbursement would see right now, without writing it.
// A DRAFT under a pending hold reads as ON_HOLD; its stored status is left for Finalize.
func (g *Gate) EffectiveStatus(ctx context.Context, p payroll.Payslip) (string, *uuid.UUID, error) {
	if p.Status == payroll.StatusPaid {
		return p.Status, p.HoldRequestID, nil
	}
	if p.Status == payroll.StatusDraft {
		verdict, err := g.Evaluate(ctx, p.EmployeeID, p.Period())
		if err != nil {
			return "", nil, err
		}
		if verdict.Held {
			return payroll.StatusOnHold, verdict.HoldRequestID, nil
		}
		return p.Status, nil, nil
	}
	if err := g.Apply(ctx, &p); err != nil {
		return "", nil, err
	}
	return p.Status, p.HoldRequestID, nil
}

// Sync re-evaluates the stored payslip of (employeeID, period) and persists a flip between
// PAYABLE and ON_HOLD. A missing, DRAFT or PAID payslip is left alone.
func (g *Gate) Sync(ctx context.Context, employeeID uuid.UUID, period domain.Period) error {
	log := contextutil.GetLogger(ctx, g.logger)

	for attempt := 1; attempt <= maxSyncAttempts; attempt++ {
		p, err := g.payslips.FindByEmployeeAndPeriod(ctx, employeeID, period.Year, int(period.Month))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug("no payslip to sync",
				zap.String("employee_id", employeeID.String()),
				zap.String("period", period.Key()),
			)
			return nil
		}
		if err != nil {
			g.logger.Error("load payslip for sync failed", zap.Error(err))
			return err
		}
		if p.Status == payroll.StatusDraft || p.Status == payroll.StatusPaid {
			return nil
		}

		from, prevHold := p.Status, p.HoldRequestID
		if err := g.Apply(ctx, p); err != nil {
			return err
		}
		if p.Status == from && sameID(p.HoldRequestID, prevHold) {
			return nil
		}

		err = g.persist(ctx, p, from)
		if errors.Is(err, payroll.ErrStatusNotMatched) {
			log.Warn("payslip changed during sync, retrying",
				zap.String("payslip_id", p.ID.String()),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return err
		}

		log.Info("payslip status synced with holds",
			zap.String("payslip_id", p.ID.String()),
			zap.String("from", from),
			zap.String("to", p.Status),
		)
		return nil
	}
	return payrollerrors.ErrStatusChanged
}

func (g *Gate) persist(ctx context.Context, p *payroll.Payslip, from string) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := g.payslips.WithTx(tx).UpdateStatus(ctx, p, from); err != nil {
		return err
	}

	if g.outbox != nil {
		eventType := events.EventPayslipReleased
		holdID := ""
		if p.Status == payroll.StatusOnHold {
			eventType = events.EventPayslipHeld
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
				OccurredAt:      g.now(),
			},
		)
		if err != nil {
			return err
		}
		if err := g.outbox.WithTx(tx).Create(ctx, event); err != nil {
			g.logger.Error("payslip outbox persist failed", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
