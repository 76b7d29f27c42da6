package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee carries only what payroll and approvals need: a role and the reporting line.
type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string     `gorm:"type:varchar(20);uniqueIndex:uq_employee_number"`
	FullName       string     `gorm:"not null"`
	Email          string     `gorm:"uniqueIndex:uq_employee_email"`
	Role           string     `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	ManagerID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
