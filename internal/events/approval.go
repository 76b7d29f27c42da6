package events

import (
	"encoding/json"
	"time"
)

const (
	ApprovalSubmittedTopic = "hr.approval.submitted.v1"
	ApprovalDecidedTopic   = "hr.approval.decided.v1"

	EventApprovalSubmitted = "approval_submitted"
	EventApprovalDecided   = "approval_decided"
)

type ApprovalSubmittedEvent struct {
	EventType   string          `json:"event_type"`
	RequestID   string          `json:"request_id"`
	Kind        string          `json:"kind"`
	RequesterID string          `json:"requester_id"`
	SubjectID   string          `json:"subject_id"`
	HoldPeriod  string          `json:"hold_period,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type ApprovalDecidedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	Kind        string    `json:"kind"`
	SubjectID   string    `json:"subject_id"`
	HoldPeriod  string    `json:"hold_period,omitempty"`
	Status      string    `json:"status"`
	DeciderID   string    `json:"decider_id"`
	DeciderRole string    `json:"decider_role"`
	Comment     string    `json:"comment,omitempty"`
	DecidedAt   time.Time `json:"decided_at"`
}
