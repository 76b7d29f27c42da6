package approval

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	KindLeave       = "LEAVE"
	KindResignation = "RESIGNATION"
	KindPaymentHold = "PAYMENT_HOLD"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusWithdrawn = "WITHDRAWN"
)

// ApprovalRequest is one instance of the workflow. Only the decision columns and
// version change after creation, and only while the row is PENDING.
type ApprovalRequest struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind        string          `gorm:"type:varchar(20);not null;index:idx_approval_subject_kind"`
	RequesterID uuid.UUID       `gorm:"type:uuid;not null"`
	SubjectID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_approval_subject_kind"`
	Payload     json.RawMessage `gorm:"type:jsonb;not null"`
	HoldPeriod  *string         `gorm:"type:varchar(7)"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	DeciderID       *uuid.UUID `gorm:"type:uuid"`
	DeciderRole     *string    `gorm:"type:varchar(20)"`
	DecisionComment *string    `gorm:"type:text"`
	DecidedAt       *time.Time

	Version   int `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ApprovalRequest) TableName() string {
	return "approval_requests"
}

func (r ApprovalRequest) IsPending() bool {
	return r.Status == StatusPending
}

func ValidKind(kind string) bool {
	switch kind {
	case KindLeave, KindResignation, KindPaymentHold:
		return true
	}
	return false
}
