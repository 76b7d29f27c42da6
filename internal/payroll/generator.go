package payroll

import (
	"go-payroll/internal/attendance"
	"go-payroll/internal/compensation"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

// MonthlyEarnings are the monthly earning lines, kept at full precision.
type MonthlyEarnings struct {
	Basic            decimal.Decimal
	HRA              decimal.Decimal
	Conveyance       decimal.Decimal
	Medical          decimal.Decimal
	SpecialAllowance decimal.Decimal
	PerformanceBonus decimal.Decimal
}

func (e MonthlyEarnings) Gross() decimal.Decimal {
	return decimal.Sum(e.Basic, e.HRA, e.Conveyance, e.Medical, e.SpecialAllowance, e.PerformanceBonus)
}

func (e MonthlyEarnings) validate() error {
	for _, v := range []decimal.Decimal{e.Basic, e.HRA, e.Conveyance, e.Medical, e.SpecialAllowance, e.PerformanceBonus} {
		if v.IsNegative() {
			return payrollerrors.ErrInvalidEarnings
		}
	}
	return nil
}

// EarningsFromComponents spreads the annual earning components over twelve months.
// Employer retirement and gratuity are cost-to-company only and never paid out monthly.
func EarningsFromComponents(c compensation.SalaryComponents) MonthlyEarnings {
	months := decimal.NewFromInt(monthsPerYear)
	return MonthlyEarnings{
		Basic:            c.Basic.Div(months),
		HRA:              c.HRA.Div(months),
		Conveyance:       c.Conveyance.Div(months),
		Medical:          c.Medical.Div(months),
		SpecialAllowance: c.SpecialAllowance.Div(months),
		PerformanceBonus: c.PerformanceBonus.Div(months),
	}
}

// EarningsFromMonthlyBase is used by hourly and scheduled flows where only a monthly
// base is known. The base is split into basic and special so the gross equals base.
func EarningsFromMonthlyBase(base, basicRate decimal.Decimal) MonthlyEarnings {
	basic := base.Mul(basicRate)
	return MonthlyEarnings{
		Basic:            basic,
		HRA:              decimal.Zero,
		Conveyance:       decimal.Zero,
		Medical:          decimal.Zero,
		SpecialAllowance: base.Sub(basic),
		PerformanceBonus: decimal.Zero,
	}
}

// Generate computes a DRAFT payslip for the attendance period's employee and month.
// Arithmetic runs at full precision and each monetary field is rounded once on output.
func Generate(earnings MonthlyEarnings, period *attendance.AttendancePeriod, policy StatutoryPolicy) (Payslip, error) {
	if period == nil {
		return Payslip{}, payrollerrors.ErrMissingAttendance
	}
	if err := validateAttendance(period); err != nil {
		return Payslip{}, err
	}
	if err := earnings.validate(); err != nil {
		return Payslip{}, err
	}
	if err := policy.Validate(); err != nil {
		return Payslip{}, err
	}

	gross := earnings.Gross()
	retirement := earnings.Basic.Mul(policy.RetirementRate)
	tds := gross.Mul(policy.TDSRate(gross))
	insurance := gross.Mul(policy.InsuranceRate)
	totalDeductions := decimal.Sum(retirement, policy.ProfessionalTax, tds, insurance)
	netMonthly := gross.Sub(totalDeductions)

	dailyNet := netMonthly.Div(decimal.NewFromInt(int64(period.TotalDays)))
	unpaidDeduction := dailyNet.Mul(decimal.NewFromInt(int64(period.UnpaidLeaveDays)))
	netPay := decimal.Max(decimal.Zero, netMonthly.Sub(unpaidDeduction))

	return Payslip{
		EmployeeID: period.EmployeeID,
		Month:      period.Month,
		Year:       period.Year,

		Basic:            money(earnings.Basic),
		HRA:              money(earnings.HRA),
		Conveyance:       money(earnings.Conveyance),
		Medical:          money(earnings.Medical),
		SpecialAllowance: money(earnings.SpecialAllowance),
		PerformanceBonus: money(earnings.PerformanceBonus),
		Gross:            money(gross),

		RetirementContribution: money(retirement),
		ProfessionalTax:        money(policy.ProfessionalTax),
		TaxAtSource:            money(tds),
		InsurancePremium:       money(insurance),
		TotalDeductions:        money(totalDeductions),

		NetMonthly:           money(netMonthly),
		UnpaidLeaveDeduction: money(unpaidDeduction),
		NetPay:               money(netPay),

		TotalDays:            period.TotalDays,
		WorkingDays:          period.WorkingDays,
		UnpaidLeaveDays:      period.UnpaidLeaveDays,
		EffectiveWorkingDays: period.EffectiveWorkingDays,

		Status: StatusDraft,
	}, nil
}

func validateAttendance(p *attendance.AttendancePeriod) error {
	if err := p.Period().Validate(); err != nil {
		return payrollerrors.ErrInvalidPeriod.WithMessage("%s", err.Error())
	}
	switch {
	case p.TotalDays != p.Period().DaysInMonth(),
		p.WorkingDays < 0 || p.WorkingDays > p.TotalDays,
		p.UnpaidLeaveDays < 0 || p.UnpaidLeaveDays > p.WorkingDays,
		p.EffectiveWorkingDays != p.WorkingDays-p.UnpaidLeaveDays:
		return payrollerrors.ErrInvalidAttendance
	}
	return nil
}

func money(v decimal.Decimal) decimal.Decimal {
	return v.Round(compensation.CurrencyPlaces)
}
