package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindApprovedLeaves(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]ApprovedLeave, error)
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

// FindApprovedLeaves returns approved leave requests of employeeID that touch [from, to].
func (r *repository) FindApprovedLeaves(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]ApprovedLeave, error) {
	var leaves []ApprovedLeave
	query := `
SELECT
	payload->>'leave_type' AS leave_type,
	(payload->>'start_date')::date AS start_date,
	(payload->>'end_date')::date AS end_date
FROM approval_requests
WHERE subject_id = ?
	AND kind = 'LEAVE'
	AND status = 'APPROVED'
	AND (payload->>'start_date')::date <= ?
	AND (payload->>'end_date')::date >= ?
ORDER BY start_date ASC
`
	err := connection.Conn(ctx, r.db, r.tx).Raw(query, employeeID, to, from).Scan(&leaves).Error
	return leaves, err
}
