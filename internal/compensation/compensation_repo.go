package compensation

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_repo.go -destination=mock/compensation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *CompensationStructure) error
	FindByID(ctx context.Context, id uuid.UUID) (*CompensationStructure, error)
	FindActiveByEmployee(ctx context.Context, employeeID uuid.UUID) (*CompensationStructure, error)
	FindApplicableAt(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (*CompensationStructure, error)
	FindAllByEmployee(ctx context.Context, employeeID uuid.UUID) ([]CompensationStructure, error)
	Supersede(ctx context.Context, id uuid.UUID, at time.Time) error
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

func (r *repository) Create(ctx context.Context, s *CompensationStructure) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*CompensationStructure, error) {
	var s CompensationStructure
	err := r.conn(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID uuid.UUID) (*CompensationStructure, error) {
	var s CompensationStructure
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusActive).
		First(&s).Error
	return &s, err
}

// FindApplicableAt returns the revision in force on asOf, superseded or not.
func (r *repository) FindApplicableAt(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (*CompensationStructure, error) {
	var s CompensationStructure
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("effective_from <= ?", asOf).
		Order("effective_from DESC").
		Order("created_at DESC").
		First(&s).Error
	return &s, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID uuid.UUID) ([]CompensationStructure, error) {
	var structures []CompensationStructure
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("effective_from DESC").
		Order("created_at DESC").
		Find(&structures).Error
	return structures, err
}

func (r *repository) Supersede(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.conn(ctx).
		Model(&CompensationStructure{}).
		Where("id = ?", id).
		Where("status = ?", StatusActive).
		Updates(map[string]any{
			"status":        StatusSuperseded,
			"superseded_at": at,
			"updated_at":    at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
