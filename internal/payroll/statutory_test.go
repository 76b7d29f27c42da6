package payroll_test

import (
	"testing"

	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/stretchr/testify/assert"
)

func TestStatutoryPolicy_TDSRate(t *testing.T) {
	policy := payroll.DefaultStatutoryPolicy()

	cases := []struct {
		gross string
		rate  string
	}{
		{"0", "0"},
		{"25000", "0"},
		{"25000.01", "0.05"},
		{"46638", "0.05"},
		{"50000", "0.05"},
		{"50000.01", "0.10"},
		{"250000", "0.10"},
	}

	for _, tc := range cases {
		t.Run(tc.gross, func(t *testing.T) {
			assert.True(t, d(tc.rate).Equal(policy.TDSRate(d(tc.gross))), "gross %s", tc.gross)
		})
	}
}

func TestStatutoryPolicy_TDSRateUnsortedSlabs(t *testing.T) {
	policy := payroll.DefaultStatutoryPolicy()
	policy.TDSSlabs = []payroll.TaxSlab{
		{Above: d("50000"), Rate: d("0.10")},
		{Above: d("25000"), Rate: d("0.05")},
	}
	assert.True(t, d("0.10").Equal(policy.TDSRate(d("60000"))))
}

func TestStatutoryPolicy_Validate(t *testing.T) {
	assert.NoError(t, payroll.DefaultStatutoryPolicy().Validate())

	p := payroll.DefaultStatutoryPolicy()
	p.TDSSlabs = []payroll.TaxSlab{
		{Above: d("50000"), Rate: d("0.10")},
		{Above: d("25000"), Rate: d("0.05")},
	}
	assert.ErrorIs(t, p.Validate(), payrollerrors.ErrInvalidPolicy)

	p = payroll.DefaultStatutoryPolicy()
	p.ProfessionalTax = d("-1")
	assert.ErrorIs(t, p.Validate(), payrollerrors.ErrInvalidPolicy)
}
