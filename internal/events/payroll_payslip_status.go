package events

import "time"

const PayrollPayslipStatusTopic = "hr.payroll.payslip.status.v1"

const (
	EventPayslipGenerated = "payslip_generated"
	EventPayslipFinalized = "payslip_finalized"
	EventPayslipPaid      = "payslip_paid"
	EventPayslipHeld      = "payslip_held"
	EventPayslipReleased  = "payslip_released"
)

type PayslipStatusChangedEvent struct {
	EventType       string    `json:"event_type"`
	PayslipID       string    `json:"payslip_id"`
	ReferenceNumber string    `json:"reference_number"`
	EmployeeID      string    `json:"employee_id"`
	Period          string    `json:"period"`
	Status          string    `json:"status"`
	HoldRequestID   string    `json:"hold_request_id,omitempty"`
	ActorID         string    `json:"actor_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
