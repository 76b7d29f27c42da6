package approval

import "encoding/json"

type SubmitRequest struct {
	Kind      string          `json:"kind" binding:"required,oneof=LEAVE RESIGNATION PAYMENT_HOLD"`
	SubjectID string          `json:"subject_id" binding:"required,uuid"`
	Payload   json.RawMessage `json:"payload" binding:"required"`
}

type DecideRequest struct {
	Action       string  `json:"action" binding:"required,oneof=approve reject withdraw"`
	Comment      string  `json:"comment" binding:"max=1000"`
	OverrideDate *string `json:"override_date" binding:"omitempty,date"`
}

type ListRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	Kind       string `form:"kind" binding:"omitempty,oneof=LEAVE RESIGNATION PAYMENT_HOLD"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type ApprovalResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	RequesterID     string          `json:"requester_id"`
	SubjectID       string          `json:"subject_id"`
	Payload         json.RawMessage `json:"payload"`
	HoldPeriod      *string         `json:"hold_period,omitempty"`
	Status          string          `json:"status"`
	DeciderID       *string         `json:"decider_id,omitempty"`
	DeciderRole     *string         `json:"decider_role,omitempty"`
	DecisionComment *string         `json:"decision_comment,omitempty"`
	DecidedAt       *string         `json:"decided_at,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       string          `json:"created_at"`
}
