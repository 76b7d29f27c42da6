package payroll

import (
	"sort"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/shopspring/decimal"
)

// TaxSlab applies Rate to the whole gross once gross exceeds Above.
type TaxSlab struct {
	Above decimal.Decimal `yaml:"above"`
	Rate  decimal.Decimal `yaml:"rate"`
}

type StatutoryPolicy struct {
	RetirementRate  decimal.Decimal `yaml:"retirement_rate"` // of monthly basic
	ProfessionalTax decimal.Decimal `yaml:"professional_tax"`
	InsuranceRate   decimal.Decimal `yaml:"insurance_rate"` // of monthly gross
	TDSSlabs        []TaxSlab       `yaml:"tds_slabs"`
}

func DefaultStatutoryPolicy() StatutoryPolicy {
	return StatutoryPolicy{
		RetirementRate:  decimal.RequireFromString("0.12"),
		ProfessionalTax: decimal.NewFromInt(200),
		InsuranceRate:   decimal.RequireFromString("0.01"),
		TDSSlabs: []TaxSlab{
			{Above: decimal.NewFromInt(25000), Rate: decimal.RequireFromString("0.05")},
			{Above: decimal.NewFromInt(50000), Rate: decimal.RequireFromString("0.10")},
		},
	}
}

func (p StatutoryPolicy) Validate() error {
	one := decimal.NewFromInt(1)
	for _, rate := range []decimal.Decimal{p.RetirementRate, p.InsuranceRate} {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return payrollerrors.ErrInvalidPolicy.WithMessage("statutory rates must be between 0 and 1")
		}
	}
	if p.ProfessionalTax.IsNegative() {
		return payrollerrors.ErrInvalidPolicy.WithMessage("professional tax cannot be negative")
	}
	for i, slab := range p.TDSSlabs {
		if slab.Rate.IsNegative() || slab.Rate.GreaterThan(one) || slab.Above.IsNegative() {
			return payrollerrors.ErrInvalidPolicy.WithMessage("tds slab %d is out of range", i)
		}
		if i > 0 && !slab.Above.GreaterThan(p.TDSSlabs[i-1].Above) {
			return payrollerrors.ErrInvalidPolicy.WithMessage("tds slabs must be in ascending order")
		}
	}
	return nil
}

// TDSRate is a step function: the highest slab whose threshold gross exceeds sets the
// rate for the whole amount. It is not marginal.
func (p StatutoryPolicy) TDSRate(gross decimal.Decimal) decimal.Decimal {
	slabs := make([]TaxSlab, len(p.TDSSlabs))
	copy(slabs, p.TDSSlabs)
	sort.Slice(slabs, func(i, j int) bool { return slabs[i].Above.LessThan(slabs[j].Above) })

	rate := decimal.Zero
	for _, slab := range slabs {
		if gross.GreaterThan(slab.Above) {
			rate = slab.Rate
		}
	}
	return rate
}
