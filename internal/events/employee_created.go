package events

import "time"

const (
	EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

	EventEmployeeCreated = "employee_created"
)

// EmployeeCreatedEvent announces a new employee to directory consumers. ManagerID is
// empty for employees without a line manager.
type EmployeeCreatedEvent struct {
	EventType      string    `json:"event_type"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeNumber string    `json:"employee_number"`
	ManagerID      string    `json:"manager_id,omitempty"`
	Role           string    `json:"role"`
	OccurredAt     time.Time `json:"occurred_at"`
}
