package compensation

import (
	"fmt"
	"time"

	compensationerrors "go-payroll/internal/compensation/errors"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision every stored amount is rounded to.
const CurrencyPlaces = 2

// CTCPolicy holds the fixed-percentage model. Rates are fractions (0.40 == 40%).
type CTCPolicy struct {
	BasicRate              decimal.Decimal `yaml:"basic_rate"`
	HRARate                decimal.Decimal `yaml:"hra_rate"` // of basic
	Conveyance             decimal.Decimal `yaml:"conveyance"`
	Medical                decimal.Decimal `yaml:"medical"`
	BonusRate              decimal.Decimal `yaml:"bonus_rate"`
	EmployerRetirementRate decimal.Decimal `yaml:"employer_retirement_rate"` // of basic
	GratuityRate           decimal.Decimal `yaml:"gratuity_rate"`            // of basic
}

func DefaultCTCPolicy() CTCPolicy {
	return CTCPolicy{
		BasicRate:              decimal.RequireFromString("0.40"),
		HRARate:                decimal.RequireFromString("0.50"),
		Conveyance:             decimal.NewFromInt(19200),
		Medical:                decimal.NewFromInt(15000),
		BonusRate:              decimal.RequireFromString("0.10"),
		EmployerRetirementRate: decimal.RequireFromString("0.12"),
		GratuityRate:           decimal.RequireFromString("0.0481"),
	}
}

func (p CTCPolicy) Validate() error {
	rates := map[string]decimal.Decimal{
		"basic_rate":               p.BasicRate,
		"hra_rate":                 p.HRARate,
		"bonus_rate":               p.BonusRate,
		"employer_retirement_rate": p.EmployerRetirementRate,
		"gratuity_rate":            p.GratuityRate,
	}
	for name, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return compensationerrors.ErrInvalidPolicy.WithMessage("%s must be between 0 and 1", name)
		}
	}
	if p.Conveyance.IsNegative() || p.Medical.IsNegative() {
		return compensationerrors.ErrInvalidPolicy.WithMessage("flat allowances cannot be negative")
	}
	return nil
}

// SalaryComponents is the annual breakdown of a CTC figure. The special allowance is
// the residual, so the components always sum to AnnualTotal.
type SalaryComponents struct {
	AnnualTotal        decimal.Decimal `json:"annual_total"`
	Basic              decimal.Decimal `json:"basic"`
	HRA                decimal.Decimal `json:"hra"`
	Conveyance         decimal.Decimal `json:"conveyance"`
	Medical            decimal.Decimal `json:"medical"`
	SpecialAllowance   decimal.Decimal `json:"special_allowance"`
	PerformanceBonus   decimal.Decimal `json:"performance_bonus"`
	EmployerRetirement decimal.Decimal `json:"employer_retirement"`
	Gratuity           decimal.Decimal `json:"gratuity"`
	EffectiveDate      time.Time       `json:"effective_date"`
}

// Sum adds every component except AnnualTotal.
func (c SalaryComponents) Sum() decimal.Decimal {
	return decimal.Sum(
		c.Basic,
		c.HRA,
		c.Conveyance,
		c.Medical,
		c.SpecialAllowance,
		c.PerformanceBonus,
		c.EmployerRetirement,
		c.Gratuity,
	)
}

// ValidateAnnualTotal accepts positive amounts with at most two decimal places.
func ValidateAnnualTotal(total decimal.Decimal) error {
	if !total.IsPositive() {
		return compensationerrors.ErrInvalidAnnualTotal
	}
	if !total.Equal(total.Round(CurrencyPlaces)) {
		return compensationerrors.ErrInvalidAnnualTotal
	}
	return nil
}

// Decompose splits an annual total into salary components under policy.
func Decompose(annualTotal decimal.Decimal, effectiveDate time.Time, policy CTCPolicy) (SalaryComponents, error) {
	if err := ValidateAnnualTotal(annualTotal); err != nil {
		return SalaryComponents{}, err
	}
	if effectiveDate.IsZero() {
		return SalaryComponents{}, compensationerrors.ErrInvalidEffectiveDate
	}
	if err := policy.Validate(); err != nil {
		return SalaryComponents{}, err
	}

	basic := annualTotal.Mul(policy.BasicRate)

	c := SalaryComponents{
		AnnualTotal:        annualTotal,
		Basic:              basic.Round(CurrencyPlaces),
		HRA:                basic.Mul(policy.HRARate).Round(CurrencyPlaces),
		Conveyance:         policy.Conveyance.Round(CurrencyPlaces),
		Medical:            policy.Medical.Round(CurrencyPlaces),
		PerformanceBonus:   annualTotal.Mul(policy.BonusRate).Round(CurrencyPlaces),
		EmployerRetirement: basic.Mul(policy.EmployerRetirementRate).Round(CurrencyPlaces),
		Gratuity:           basic.Mul(policy.GratuityRate).Round(CurrencyPlaces),
		EffectiveDate:      effectiveDate,
	}

	fixed := decimal.Sum(c.Basic, c.HRA, c.Conveyance, c.Medical, c.PerformanceBonus, c.EmployerRetirement, c.Gratuity)
	c.SpecialAllowance = annualTotal.Sub(fixed)
	if c.SpecialAllowance.IsNegative() {
		details := map[string]string{
			"annual_total":      annualTotal.StringFixed(CurrencyPlaces),
			"fixed_components":  fixed.StringFixed(CurrencyPlaces),
			"special_allowance": c.SpecialAllowance.StringFixed(CurrencyPlaces),
		}
		if minimum, err := MinimumAnnualTotal(policy); err == nil {
			details["minimum_annual_total"] = minimum.StringFixed(CurrencyPlaces)
		}
		return SalaryComponents{}, compensationerrors.ErrNegativeResidual.WithDetails(details)
	}

	return c, nil
}

// MinimumAnnualTotal is the smallest CTC whose special allowance is not negative.
// The percentage share of T is (basic*(1+hra+retirement+gratuity) + bonus); the flat
// allowances must fit in what is left.
func MinimumAnnualTotal(policy CTCPolicy) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	share := policy.BasicRate.Mul(one.Add(policy.HRARate).Add(policy.EmployerRetirementRate).Add(policy.GratuityRate)).
		Add(policy.BonusRate)
	if share.GreaterThanOrEqual(one) {
		return decimal.Zero, fmt.Errorf("percentage components consume the whole annual total")
	}
	flat := policy.Conveyance.Add(policy.Medical)
	return flat.Div(one.Sub(share)).RoundCeil(CurrencyPlaces), nil
}
