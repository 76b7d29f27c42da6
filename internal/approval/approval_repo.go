package approval

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVersionConflict means the row was decided by someone else first.
var ErrVersionConflict = errors.New("approval request version conflict")

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockSubject(ctx context.Context, subjectID uuid.UUID, kind string) error
	Create(ctx context.Context, req *ApprovalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*ApprovalRequest, error)
	FindBySubject(ctx context.Context, subjectID uuid.UUID, kind string) ([]ApprovalRequest, error)
	FindOutstanding(ctx context.Context, subjectID uuid.UUID, kind string) ([]ApprovalRequest, error)
	PendingHoldID(ctx context.Context, subjectID uuid.UUID, periodKey string) (uuid.UUID, bool, error)
	UpdateDecision(ctx context.Context, req *ApprovalRequest, expectedVersion int) error
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

// LockSubject takes a transaction-scoped advisory lock so submissions for the same
// subject and kind run one at a time. Outside a transaction it is released at once.
func (r *repository) LockSubject(ctx context.Context, subjectID uuid.UUID, kind string) error {
	return r.conn(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", subjectID.String()+":"+kind).Error
}

func (r *repository) Create(ctx context.Context, req *ApprovalRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*ApprovalRequest, error) {
	var req ApprovalRequest
	err := r.conn(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindBySubject(ctx context.Context, subjectID uuid.UUID, kind string) ([]ApprovalRequest, error) {
	var reqs []ApprovalRequest
	err := r.conn(ctx).
		Scopes(subjectScope(subjectID, kind)).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindOutstanding(ctx context.Context, subjectID uuid.UUID, kind string) ([]ApprovalRequest, error) {
	var reqs []ApprovalRequest
	err := r.conn(ctx).
		Scopes(subjectScope(subjectID, kind)).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

// PendingHoldID reads the PENDING payment hold for (subjectID, periodKey), if any.
func (r *repository) PendingHoldID(ctx context.Context, subjectID uuid.UUID, periodKey string) (uuid.UUID, bool, error) {
	var req ApprovalRequest
	err := r.conn(ctx).
		Select("id").
		Scopes(subjectScope(subjectID, KindPaymentHold)).
		Where("hold_period = ?", periodKey).
		Where("status = ?", StatusPending).
		Take(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return req.ID, true, nil
}

// UpdateDecision writes the decision only if the row is still PENDING at expectedVersion.
func (r *repository) UpdateDecision(ctx context.Context, req *ApprovalRequest, expectedVersion int) error {
	req.UpdatedAt = time.Now().UTC()
	res := r.conn(ctx).
		Model(&ApprovalRequest{}).
		Where("id = ?", req.ID).
		Where("status = ?", StatusPending).
		Where("version = ?", expectedVersion).
		Updates(map[string]any{
			"status":           req.Status,
			"payload":          req.Payload,
			"decider_id":       req.DeciderID,
			"decider_role":     req.DeciderRole,
			"decision_comment": req.DecisionComment,
			"decided_at":       req.DecidedAt,
			"version":          req.Version,
			"updated_at":       req.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
