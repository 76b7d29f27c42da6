package events

import "time"

const (
	PayrollPayslipRequestedTopic = "hr.payroll.payslip.requested.v1"
	EventPayslipRequested        = "payslip_requested"
)

// PayrollPayslipRequestedEvent asks the consumer to generate one employee-month asynchronously.
type PayrollPayslipRequestedEvent struct {
	EventType     string    `json:"event_type"`
	EmployeeID    string    `json:"employee_id"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	RequestedBy   string    `json:"requested_by"`
	RequestedRole string    `json:"requested_role"`
	OccurredAt    time.Time `json:"occurred_at"`
}
