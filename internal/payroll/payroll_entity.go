package payroll

import (
	"time"

	"go-payroll/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft   = "DRAFT"
	StatusOnHold  = "ON_HOLD"
	StatusPayable = "PAYABLE"
	StatusPaid    = "PAID"
)

// Payslip is one employee-month. Monetary columns are written once at generation;
// afterwards only the status columns move.
type Payslip struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReferenceNumber string    `gorm:"type:varchar(32);uniqueIndex"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;index:uq_payslip_employee_period,unique"`
	Month           int       `gorm:"not null;index:uq_payslip_employee_period,unique"`
	Year            int       `gorm:"not null;index:uq_payslip_employee_period,unique"`

	// monthly earnings
	Basic            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	HRA              decimal.Decimal `gorm:"column:hra;type:numeric(14,2);not null"`
	Conveyance       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Medical          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SpecialAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PerformanceBonus decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Gross            decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	// deductions
	RetirementContribution decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ProfessionalTax        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxAtSource            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	InsurancePremium       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalDeductions        decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	NetMonthly           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	UnpaidLeaveDeduction decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NetPay               decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	// attendance snapshot
	TotalDays            int `gorm:"not null"`
	WorkingDays          int `gorm:"not null"`
	UnpaidLeaveDays      int `gorm:"not null"`
	EffectiveWorkingDays int `gorm:"not null"`

	Status        string     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	HoldRequestID *uuid.UUID `gorm:"type:uuid"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	PaidBy        *uuid.UUID `gorm:"type:uuid"`
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}

func (p Payslip) Period() domain.Period {
	return domain.Period{Year: p.Year, Month: time.Month(p.Month)}
}
