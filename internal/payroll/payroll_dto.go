package payroll

import "github.com/shopspring/decimal"

type GeneratePayslipRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Year       int    `json:"year" binding:"required"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	// MonthlyBase switches to the hourly/scheduled flow instead of the active CTC revision.
	MonthlyBase *decimal.Decimal `json:"monthly_base,omitempty"`
}

type BatchPayslipRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	Year        int      `json:"year" binding:"required"`
	Month       int      `json:"month" binding:"required,min=1,max=12"`
}

type EnqueueBatchResponse struct {
	Period   string `json:"period"`
	Enqueued int    `json:"enqueued"`
}

type BatchResult struct {
	EmployeeID string           `json:"employee_id"`
	Payslip    *PayslipResponse `json:"payslip,omitempty"`
	Error      *BatchError      `json:"error,omitempty"`
}

type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PayslipResponse struct {
	ID              string `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	EmployeeID      string `json:"employee_id"`
	Period          string `json:"period"`

	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	Conveyance       decimal.Decimal `json:"conveyance"`
	Medical          decimal.Decimal `json:"medical"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	PerformanceBonus decimal.Decimal `json:"performance_bonus"`
	Gross            decimal.Decimal `json:"gross"`

	RetirementContribution decimal.Decimal `json:"retirement_contribution"`
	ProfessionalTax        decimal.Decimal `json:"professional_tax"`
	TaxAtSource            decimal.Decimal `json:"tax_at_source"`
	InsurancePremium       decimal.Decimal `json:"insurance_premium"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`

	NetMonthly           decimal.Decimal `json:"net_monthly"`
	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`
	NetPay               decimal.Decimal `json:"net_pay"`

	TotalDays            int `json:"total_days"`
	WorkingDays          int `json:"working_days"`
	UnpaidLeaveDays      int `json:"unpaid_leave_days"`
	EffectiveWorkingDays int `json:"effective_working_days"`

	Status        string  `json:"status"`
	HoldRequestID *string `json:"hold_request_id,omitempty"`
	CreatedBy     string  `json:"created_by"`
	PaidBy        *string `json:"paid_by,omitempty"`
	PaidAt        *string `json:"paid_at,omitempty"`
}

type StatusResponse struct {
	PayslipID     string  `json:"payslip_id"`
	EmployeeID    string  `json:"employee_id"`
	Period        string  `json:"period"`
	Status        string  `json:"status"`
	HoldRequestID *string `json:"hold_request_id,omitempty"`
}
