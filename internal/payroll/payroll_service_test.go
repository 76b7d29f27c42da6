package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/domain"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePayslipRepository struct {
	createFn                  func(ctx context.Context, p *payroll.Payslip) error
	findByIDFn                func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error)
	findByEmployeeAndPeriodFn func(ctx context.Context, employeeID uuid.UUID, year, month int) (*payroll.Payslip, error)
	updateStatusFn            func(ctx context.Context, p *payroll.Payslip, fromStatus string) error
}

func (f *fakePayslipRepository) WithTx(tx *sql.Tx) payroll.Repository {
	return f
}

func (f *fakePayslipRepository) Create(ctx context.Context, p *payroll.Payslip) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayslipRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayslipRepository) FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, year, month int) (*payroll.Payslip, error) {
	if f.findByEmployeeAndPeriodFn != nil {
		return f.findByEmployeeAndPeriodFn(ctx, employeeID, year, month)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayslipRepository) UpdateStatus(ctx context.Context, p *payroll.Payslip, fromStatus string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, p, fromStatus)
	}
	return nil
}

type fakeCounter struct {
	mu   sync.Mutex
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, scope, counterType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

// fakeGate holds every payslip while hold is set. onLock runs when the transactional
// check takes the hold lock, standing in for a submission that committed just before it.
type fakeGate struct {
	hold   *uuid.UUID
	onLock func()
	lockTx *sql.Tx
}

func (g *fakeGate) HoldWithinTx(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, period domain.Period) (*uuid.UUID, error) {
	g.lockTx = tx
	if g.onLock != nil {
		g.onLock()
	}
	return g.hold, nil
}

func (g *fakeGate) Apply(ctx context.Context, p *payroll.Payslip) error {
	if p.Status == payroll.StatusPaid {
		return nil
	}
	if g.hold != nil {
		p.Status = payroll.StatusOnHold
		p.HoldRequestID = g.hold
		return nil
	}
	p.Status = payroll.StatusPayable
	p.HoldRequestID = nil
	return nil
}

func (g *fakeGate) EffectiveStatus(ctx context.Context, p payroll.Payslip) (string, *uuid.UUID, error) {
	if err := g.Apply(ctx, &p); err != nil {
		return "", nil, err
	}
	return p.Status, p.HoldRequestID, nil
}

type fakeComponents struct {
	fn func(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (compensation.SalaryComponents, error)
}

func (f fakeComponents) ActiveComponents(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (compensation.SalaryComponents, error) {
	return f.fn(ctx, employeeID, asOf)
}

type fakeAttendance struct {
	unpaidDays int
}

func (f fakeAttendance) ComputeFromApprovedLeave(ctx context.Context, employeeID uuid.UUID, period domain.Period) (attendance.AttendancePeriod, error) {
	return attendance.AttendancePeriod{
		EmployeeID:           employeeID,
		Month:                int(period.Month),
		Year:                 period.Year,
		TotalDays:            period.DaysInMonth(),
		WorkingDays:          27,
		UnpaidLeaveDays:      f.unpaidDays,
		EffectiveWorkingDays: 27 - f.unpaidDays,
	}, nil
}

// roleAuthorizer grants every action to the listed roles.
type roleAuthorizer map[domain.Role]bool

func (a roleAuthorizer) Enforce(req domain.EnforceRequest) (bool, error) {
	return a[req.Role], nil
}

type payrollServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakePayslipRepository
	outbox  *fakeOutbox
	gate    *fakeGate
	service payroll.Service
}

func setupPayrollServiceTest(t *testing.T, components fakeComponents) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	deps := &payrollServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    &fakePayslipRepository{},
		outbox:  &fakeOutbox{},
		gate:    &fakeGate{},
	}

	cfg := payroll.DefaultConfig()
	cfg.BatchConcurrency = 1

	deps.service = payroll.NewService(payroll.Dependencies{
		DB:         db,
		Repo:       deps.repo,
		Counter:    &fakeCounter{},
		Outbox:     deps.outbox,
		Gate:       deps.gate,
		Components: components,
		Attendance: fakeAttendance{unpaidDays: 3},
		Authorizer: roleAuthorizer{domain.RoleHR: true, domain.RoleAdmin: true},
	}, cfg)

	return deps
}

func ctcComponents(annual string) fakeComponents {
	return fakeComponents{fn: func(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (compensation.SalaryComponents, error) {
		return compensation.Decompose(d(annual), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), compensation.DefaultCTCPolicy())
	}}
}

func storedPayslip(status string) *payroll.Payslip {
	return &payroll.Payslip{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Month:      1,
		Year:       2025,
		NetPay:     d("37248.78"),
		Status:     status,
	}
}

func TestPayrollService_Generate(t *testing.T) {
	ctx := context.Background()
	hr := domain.Actor{ID: uuid.New(), Role: domain.RoleHR}
	employeeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		var created *payroll.Payslip
		deps.repo.createFn = func(ctx context.Context, p *payroll.Payslip) error {
			created = p
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Generate(ctx, hr, payroll.GeneratePayslipRequest{
			EmployeeID: employeeID.String(),
			Year:       2025,
			Month:      1,
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, "PS-202501-000001", resp.ReferenceNumber)
		assert.Equal(t, "2025-01", resp.Period)
		assert.Equal(t, payroll.StatusDraft, resp.Status)
		assert.Equal(t, hr.ID, created.CreatedBy)
		assertMoney(t, "37248.78", resp.NetPay, "net_pay")

		require.Len(t, deps.outbox.events, 1)
		assert.Equal(t, events.PayrollPayslipStatusTopic, deps.outbox.events[0].Topic)
		assert.Equal(t, events.EventPayslipGenerated, deps.outbox.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("monthly base", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, fakeComponents{fn: func(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (compensation.SalaryComponents, error) {
			t.Fatal("components must not be loaded when a monthly base is given")
			return compensation.SalaryComponents{}, nil
		}})
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		base := d("60000")
		resp, err := deps.service.Generate(ctx, hr, payroll.GeneratePayslipRequest{
			EmployeeID:  employeeID.String(),
			Year:        2025,
			Month:       1,
			MonthlyBase: &base,
		})
		require.NoError(t, err)
		assertMoney(t, "6000", resp.TaxAtSource, "tds")
	})

	t.Run("forbidden", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		_, err := deps.service.Generate(ctx, domain.Actor{ID: employeeID, Role: domain.RoleEmployee}, payroll.GeneratePayslipRequest{
			EmployeeID: employeeID.String(), Year: 2025, Month: 1,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrForbidden)
	})

	t.Run("invalid period", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		_, err := deps.service.Generate(ctx, hr, payroll.GeneratePayslipRequest{
			EmployeeID: employeeID.String(), Year: 2025, Month: 13,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})

	t.Run("no compensation structure", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, fakeComponents{fn: func(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (compensation.SalaryComponents, error) {
			return compensation.SalaryComponents{}, compensationerrors.ErrStructureNotFound
		}})
		defer deps.db.Close()

		_, err := deps.service.Generate(ctx, hr, payroll.GeneratePayslipRequest{
			EmployeeID: employeeID.String(), Year: 2025, Month: 1,
		})
		assert.ErrorIs(t, err, compensationerrors.ErrStructureNotFound)
	})

	t.Run("duplicate payslip", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, p *payroll.Payslip) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_payslip_employee_period"}
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Generate(ctx, hr, payroll.GeneratePayslipRequest{
			EmployeeID: employeeID.String(), Year: 2025, Month: 1,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipExists)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_RunBatch(t *testing.T) {
	ctx := context.Background()
	hr := domain.Actor{ID: uuid.New(), Role: domain.RoleHR}
	missing := uuid.New()

	deps := setupPayrollServiceTest(t, fakeComponents{fn: func(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (compensation.SalaryComponents, error) {
		if employeeID == missing {
			return compensation.SalaryComponents{}, compensationerrors.ErrStructureNotFound
		}
		return compensation.Decompose(d("600000"), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), compensation.DefaultCTCPolicy())
	}})
	defer deps.db.Close()

	for i := 0; i < 2; i++ {
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
	}

	ids := []string{uuid.NewString(), missing.String(), uuid.NewString()}
	results, err := deps.service.RunBatch(ctx, hr, payroll.BatchPayslipRequest{
		EmployeeIDs: ids,
		Year:        2025,
		Month:       1,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, ids[i], r.EmployeeID)
	}
	assert.NotNil(t, results[0].Payslip)
	assert.NotNil(t, results[2].Payslip)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, "NOT_FOUND", results[1].Error.Code)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_EnqueueBatch(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-batch")
	hr := domain.Actor{ID: uuid.New(), Role: domain.RoleHR}

	t.Run("one outbox event per employee", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		ids := []string{uuid.NewString(), uuid.NewString()}
		resp, err := deps.service.EnqueueBatch(ctx, hr, payroll.BatchPayslipRequest{EmployeeIDs: ids, Year: 2025, Month: 3})
		require.NoError(t, err)

		assert.Equal(t, payroll.EnqueueBatchResponse{Period: "2025-03", Enqueued: 2}, resp)
		require.Len(t, deps.outbox.events, 2)
		for i, e := range deps.outbox.events {
			assert.Equal(t, events.PayrollPayslipRequestedTopic, e.Topic)
			assert.Equal(t, "rid-batch", e.RequestID)

			var body events.PayrollPayslipRequestedEvent
			require.NoError(t, json.Unmarshal(e.Payload, &body))
			assert.Equal(t, ids[i], body.EmployeeID)
			assert.Equal(t, hr.ID.String(), body.RequestedBy)
			assert.Equal(t, "HR", body.RequestedRole)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("forbidden", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		_, err := deps.service.EnqueueBatch(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleManager}, payroll.BatchPayslipRequest{
			EmployeeIDs: []string{uuid.NewString()}, Year: 2025, Month: 3,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrForbidden)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("invalid period", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		_, err := deps.service.EnqueueBatch(ctx, hr, payroll.BatchPayslipRequest{
			EmployeeIDs: []string{uuid.NewString()}, Year: 1800, Month: 3,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})
}

func TestPayrollService_Finalize(t *testing.T) {
	ctx := context.Background()
	hr := domain.Actor{ID: uuid.New(), Role: domain.RoleHR}

	t.Run("payable without hold", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		stored := storedPayslip(payroll.StatusDraft)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}
		var from string
		deps.repo.updateStatusFn = func(ctx context.Context, p *payroll.Payslip, fromStatus string) error {
			from = fromStatus
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Finalize(ctx, hr, stored.ID.String())
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusPayable, resp.Status)
		assert.Equal(t, payroll.StatusDraft, from)
		assert.Equal(t, events.EventPayslipFinalized, deps.outbox.events[0].EventType)
	})

	t.Run("held", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		holdID := uuid.New()
		deps.gate.hold = &holdID
		stored := storedPayslip(payroll.StatusDraft)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Finalize(ctx, hr, stored.ID.String())
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusOnHold, resp.Status)
		require.NotNil(t, resp.HoldRequestID)
		assert.Equal(t, holdID.String(), *resp.HoldRequestID)
		assert.Equal(t, events.EventPayslipHeld, deps.outbox.events[0].EventType)
	})

	t.Run("concurrent status change", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		stored := storedPayslip(payroll.StatusDraft)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}
		deps.repo.updateStatusFn = func(ctx context.Context, p *payroll.Payslip, fromStatus string) error {
			return payroll.ErrStatusNotMatched
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Finalize(ctx, hr, stored.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrStatusChanged)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		_, err := deps.service.Finalize(ctx, hr, uuid.NewString())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})
}

func TestPayrollService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("paid", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		stored := storedPayslip(payroll.StatusPayable)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.MarkPaid(ctx, admin, stored.ID.String())
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		require.NotNil(t, resp.PaidBy)
		assert.Equal(t, admin.ID.String(), *resp.PaidBy)
		assert.NotNil(t, resp.PaidAt)
		assertMoney(t, "37248.78", resp.NetPay, "net_pay")
	})

	t.Run("hold placed after finalize", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		holdID := uuid.New()
		deps.gate.hold = &holdID
		stored := storedPayslip(payroll.StatusPayable)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}
		var persisted string
		deps.repo.updateStatusFn = func(ctx context.Context, p *payroll.Payslip, fromStatus string) error {
			persisted = p.Status
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		_, err := deps.service.MarkPaid(ctx, admin, stored.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipOnHold)
		assert.Equal(t, payroll.StatusOnHold, persisted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("hold committed between gate read and payment", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		holdID := uuid.New()
		stored := storedPayslip(payroll.StatusPayable)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}
		deps.gate.onLock = func() { deps.gate.hold = &holdID }
		var persisted []string
		deps.repo.updateStatusFn = func(ctx context.Context, p *payroll.Payslip, fromStatus string) error {
			persisted = append(persisted, fromStatus+"->"+p.Status)
			return nil
		}
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.MarkPaid(ctx, admin, stored.ID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrPayslipOnHold)
		assert.Empty(t, resp.Status)
		assert.NotNil(t, deps.gate.lockTx)
		assert.Equal(t, []string{"PAYABLE->ON_HOLD"}, persisted)
		require.Len(t, deps.outbox.events, 1)
		assert.Equal(t, events.EventPayslipHeld, deps.outbox.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("draft", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		stored := storedPayslip(payroll.StatusDraft)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}

		_, err := deps.service.MarkPaid(ctx, admin, stored.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFinalized)
	})

	t.Run("already paid", func(t *testing.T) {
		deps := setupPayrollServiceTest(t, ctcComponents("600000"))
		defer deps.db.Close()

		stored := storedPayslip(payroll.StatusPaid)
		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
			return stored, nil
		}

		_, err := deps.service.MarkPaid(ctx, admin, stored.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipAlreadyPaid)
	})
}

func TestPayrollService_Status(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t, ctcComponents("600000"))
	defer deps.db.Close()

	stored := storedPayslip(payroll.StatusPayable)
	deps.repo.findByEmployeeAndPeriodFn = func(ctx context.Context, employeeID uuid.UUID, year, month int) (*payroll.Payslip, error) {
		assert.Equal(t, 2025, year)
		assert.Equal(t, 1, month)
		return stored, nil
	}

	owner := domain.Actor{ID: stored.EmployeeID, Role: domain.RoleEmployee}

	resp, err := deps.service.Status(ctx, owner, stored.EmployeeID.String(), 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPayable, resp.Status)

	holdID := uuid.New()
	deps.gate.hold = &holdID

	resp, err = deps.service.Status(ctx, owner, stored.EmployeeID.String(), 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusOnHold, resp.Status)
	require.NotNil(t, resp.HoldRequestID)
	assert.Equal(t, holdID.String(), *resp.HoldRequestID)

	_, err = deps.service.Status(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleEmployee}, stored.EmployeeID.String(), 2025, 1)
	assert.ErrorIs(t, err, payrollerrors.ErrForbidden)
}

func TestReferenceNumber(t *testing.T) {
	assert.Equal(t, "PS-202503-000042", payroll.ReferenceNumber(domain.Period{Year: 2025, Month: time.March}, 42))
}
