package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payslip) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payslip, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, year, month int) (*Payslip, error)
	UpdateStatus(ctx context.Context, p *Payslip, fromStatus string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, p *Payslip) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, employeeID uuid.UUID, year, month int) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Where("month = ?", month).
		First(&p).Error
	return &p, err
}

// UpdateStatus writes the status columns only if the row is still in fromStatus.
// PAID rows never match because no caller passes PAID as fromStatus.
func (r *repository) UpdateStatus(ctx context.Context, p *Payslip, fromStatus string) error {
	p.UpdatedAt = time.Now().UTC()
	res := r.conn(ctx).
		Model(&Payslip{}).
		Where("id = ?", p.ID).
		Where("status = ?", fromStatus).
		Updates(map[string]any{
			"status":          p.Status,
			"hold_request_id": p.HoldRequestID,
			"paid_by":         p.PaidBy,
			"paid_at":         p.PaidAt,
			"updated_at":      p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusNotMatched
	}
	return nil
}
