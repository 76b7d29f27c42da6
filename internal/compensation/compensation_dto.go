package compensation

import "github.com/shopspring/decimal"

type BreakdownRequest struct {
	AnnualTotal   decimal.Decimal `json:"annual_total"`
	EffectiveDate string          `json:"effective_date" binding:"required,date"`
}

type CreateRevisionRequest struct {
	EmployeeID     string          `json:"employee_id" binding:"required,uuid"`
	AnnualTotal    decimal.Decimal `json:"annual_total"`
	EffectiveFrom  string          `json:"effective_from" binding:"required,date"`
	RevisionReason string          `json:"revision_reason" binding:"required,max=255"`
}

type StructureResponse struct {
	ID             string           `json:"id"`
	EmployeeID     string           `json:"employee_id"`
	AnnualTotal    decimal.Decimal  `json:"annual_total"`
	EffectiveFrom  string           `json:"effective_from"`
	Status         string           `json:"status"`
	RevisionReason string           `json:"revision_reason"`
	CreatedBy      string           `json:"created_by"`
	SupersededAt   *string          `json:"superseded_at,omitempty"`
	Components     SalaryComponents `json:"components"`
}
