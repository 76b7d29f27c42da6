package payrollgate_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollgate"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeHolds struct {
	id    uuid.UUID
	found bool
	err   error
	keys  []string
	locks []string
}

func (f *fakeHolds) LockSubject(ctx context.Context, subjectID uuid.UUID, kind string) error {
	f.locks = append(f.locks, subjectID.String()+":"+kind)
	return nil
}

func (f *fakeHolds) PendingHoldID(ctx context.Context, subjectID uuid.UUID, periodKey string) (uuid.UUID, bool, error) {
	f.keys = append(f.keys, periodKey)
	return f.id, f.found, f.err
}

type fakePayslips struct {
	payroll.Repository
	stored     *payroll.Payslip
	findErr    error
	updateErrs []error
	updates    []string
}

func (f *fakePayslips) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayslips) FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, year, month int) (*payroll.Payslip, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	cp := *f.stored
	return &cp, nil
}

func (f *fakePayslips) UpdateStatus(ctx context.Context, p *payroll.Payslip, fromStatus string) error {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.updates = append(f.updates, fromStatus+"->"+p.Status)
	cp := *p
	f.stored = &cp
	return nil
}

type fakeOutbox struct {
	kafka.OutboxRepository
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

var january = domain.Period{Year: 2025, Month: 1}

func payslipWithStatus(status string) *payroll.Payslip {
	return &payroll.Payslip{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Year:       2025,
		Month:      1,
		Status:     status,
	}
}

func TestGate_Apply(t *testing.T) {
	holdID := uuid.New()

	t.Run("pending hold puts payslip on hold", func(t *testing.T) {
		holds := &fakeHolds{id: holdID, found: true}
		gate := payrollgate.New(nil, holds, nil, nil)
		p := payslipWithStatus(payroll.StatusPayable)

		require.NoError(t, gate.Apply(context.Background(), p))

		assert.Equal(t, payroll.StatusOnHold, p.Status)
		require.NotNil(t, p.HoldRequestID)
		assert.Equal(t, holdID, *p.HoldRequestID)
		assert.Equal(t, []string{"2025-01"}, holds.keys)
	})

	t.Run("no hold releases payslip", func(t *testing.T) {
		gate := payrollgate.New(nil, &fakeHolds{}, nil, nil)
		p := payslipWithStatus(payroll.StatusOnHold)
		p.HoldRequestID = &holdID

		require.NoError(t, gate.Apply(context.Background(), p))

		assert.Equal(t, payroll.StatusPayable, p.Status)
		assert.Nil(t, p.HoldRequestID)
	})

	t.Run("paid is untouched", func(t *testing.T) {
		holds := &fakeHolds{id: holdID, found: true}
		gate := payrollgate.New(nil, holds, nil, nil)
		p := payslipWithStatus(payroll.StatusPaid)

		require.NoError(t, gate.Apply(context.Background(), p))

		assert.Equal(t, payroll.StatusPaid, p.Status)
		assert.Empty(t, holds.keys)
	})

	t.Run("negative lookup error", func(t *testing.T) {
		gate := payrollgate.New(nil, &fakeHolds{err: errors.New("db down")}, nil, nil)
		p := payslipWithStatus(payroll.StatusPayable)

		err := gate.Apply(context.Background(), p)

		assert.EqualError(t, err, "db down")
		assert.Equal(t, payroll.StatusPayable, p.Status)
	})
}

func TestGate_EffectiveStatus(t *testing.T) {
	holdID := uuid.New()
	gate := payrollgate.New(nil, &fakeHolds{id: holdID, found: true}, nil, nil)

	stored := payslipWithStatus(payroll.StatusPayable)
	status, id, err := gate.EffectiveStatus(context.Background(), *stored)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusOnHold, status)
	assert.Equal(t, holdID, *id)
	assert.Equal(t, payroll.StatusPayable, stored.Status)

	draft := payslipWithStatus(payroll.StatusDraft)
	status, id, err = gate.EffectiveStatus(context.Background(), *draft)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusOnHold, status)
	assert.Equal(t, holdID, *id)

	unheld := payrollgate.New(nil, &fakeHolds{}, nil, nil)
	status, id, err = unheld.EffectiveStatus(context.Background(), *draft)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusDraft, status)
	assert.Nil(t, id)
}

func TestGate_HoldWithinTx(t *testing.T) {
	holdID := uuid.New()
	employeeID := uuid.New()

	begin := func(t *testing.T) *sql.Tx {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		mock.ExpectBegin()
		tx, err := db.Begin()
		require.NoError(t, err)
		return tx
	}

	t.Run("locks the hold key on the caller's tx before reading", func(t *testing.T) {
		tx := begin(t)
		holds := &fakeHolds{id: holdID, found: true}
		var boundTo *sql.Tx
		gate := payrollgate.New(nil, &fakeHolds{}, nil, nil).WithTxBinder(func(got *sql.Tx) payrollgate.HoldFinder {
			boundTo = got
			return holds
		})

		id, err := gate.HoldWithinTx(context.Background(), tx, employeeID, january)

		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, holdID, *id)
		assert.Same(t, tx, boundTo)
		assert.Equal(t, []string{employeeID.String() + ":PAYMENT_HOLD"}, holds.locks)
		assert.Equal(t, []string{"2025-01"}, holds.keys)
	})

	t.Run("clear period", func(t *testing.T) {
		tx := begin(t)
		gate := payrollgate.New(nil, &fakeHolds{}, nil, nil).WithTxBinder(func(*sql.Tx) payrollgate.HoldFinder {
			return &fakeHolds{}
		})

		id, err := gate.HoldWithinTx(context.Background(), tx, employeeID, january)

		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("unbound gate refuses", func(t *testing.T) {
		gate := payrollgate.New(nil, &fakeHolds{}, nil, nil)

		_, err := gate.HoldWithinTx(context.Background(), begin(t), employeeID, january)

		assert.Error(t, err)
	})
}

func TestGate_Sync(t *testing.T) {
	holdID := uuid.New()

	t.Run("flips payable to on hold", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		stored := payslipWithStatus(payroll.StatusPayable)
		repo := &fakePayslips{stored: stored}
		outbox := &fakeOutbox{}
		gate := payrollgate.New(db, &fakeHolds{id: holdID, found: true}, repo, outbox)

		require.NoError(t, gate.Sync(context.Background(), stored.EmployeeID, january))

		assert.Equal(t, []string{"PAYABLE->ON_HOLD"}, repo.updates)
		assert.Equal(t, holdID, *repo.stored.HoldRequestID)
		require.Len(t, outbox.events, 1)
		assert.Equal(t, "payslip_held", outbox.events[0].EventType)
		assert.Equal(t, "hr.payroll.payslip.status.v1", outbox.events[0].Topic)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("flips on hold back to payable after release", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		stored := payslipWithStatus(payroll.StatusOnHold)
		stored.HoldRequestID = &holdID
		repo := &fakePayslips{stored: stored}
		outbox := &fakeOutbox{}
		gate := payrollgate.New(db, &fakeHolds{}, repo, outbox)

		require.NoError(t, gate.Sync(context.Background(), stored.EmployeeID, january))

		assert.Equal(t, []string{"ON_HOLD->PAYABLE"}, repo.updates)
		assert.Nil(t, repo.stored.HoldRequestID)
		require.Len(t, outbox.events, 1)
		assert.Equal(t, "payslip_released", outbox.events[0].EventType)
	})

	t.Run("no change writes nothing", func(t *testing.T) {
		stored := payslipWithStatus(payroll.StatusPayable)
		repo := &fakePayslips{stored: stored}
		gate := payrollgate.New(nil, &fakeHolds{}, repo, &fakeOutbox{})

		require.NoError(t, gate.Sync(context.Background(), stored.EmployeeID, january))

		assert.Empty(t, repo.updates)
	})

	t.Run("draft and paid are left alone", func(t *testing.T) {
		for _, status := range []string{payroll.StatusDraft, payroll.StatusPaid} {
			repo := &fakePayslips{stored: payslipWithStatus(status)}
			gate := payrollgate.New(nil, &fakeHolds{id: holdID, found: true}, repo, nil)

			require.NoError(t, gate.Sync(context.Background(), uuid.New(), january))
			assert.Empty(t, repo.updates)
		}
	})

	t.Run("missing payslip is not an error", func(t *testing.T) {
		repo := &fakePayslips{findErr: gorm.ErrRecordNotFound}
		gate := payrollgate.New(nil, &fakeHolds{id: holdID, found: true}, repo, nil)

		assert.NoError(t, gate.Sync(context.Background(), uuid.New(), january))
	})

	t.Run("retries after concurrent status change", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectCommit()

		stored := payslipWithStatus(payroll.StatusPayable)
		repo := &fakePayslips{stored: stored, updateErrs: []error{payroll.ErrStatusNotMatched}}
		gate := payrollgate.New(db, &fakeHolds{id: holdID, found: true}, repo, nil)

		require.NoError(t, gate.Sync(context.Background(), stored.EmployeeID, january))

		assert.Equal(t, []string{"PAYABLE->ON_HOLD"}, repo.updates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative gives up after repeated conflicts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		for i := 0; i < 3; i++ {
			mock.ExpectBegin()
			mock.ExpectRollback()
		}

		stored := payslipWithStatus(payroll.StatusPayable)
		repo := &fakePayslips{stored: stored, updateErrs: []error{
			payroll.ErrStatusNotMatched, payroll.ErrStatusNotMatched, payroll.ErrStatusNotMatched,
		}}
		gate := payrollgate.New(db, &fakeHolds{id: holdID, found: true}, repo, nil)

		err = gate.Sync(context.Background(), stored.EmployeeID, january)

		assert.ErrorIs(t, err, payrollerrors.ErrStatusChanged)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
