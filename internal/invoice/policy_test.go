package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTaxPolicy_InclusiveKeepsSubtotal(t *testing.T) {
	p := TaxPolicy{Rate: DefaultTaxRate, Inclusive: true}

	totals := p.Totals(dec("4.50"))
	assert.True(t, totals.Total.Equal(dec("4.50")), "total = %s", totals.Total)
	assert.True(t, totals.Subtotal.Equal(dec("4.50")))
	// 4.50 - 4.50/1.13 = 0.5177 -> 0.52
	assert.True(t, totals.Tax.Equal(dec("0.52")), "tax = %s", totals.Tax)
	assert.Equal(t, "A", p.Name())
}

func TestTaxPolicy_ExclusiveAddsTax(t *testing.T) {
	p := TaxPolicy{Rate: DefaultTaxRate, Inclusive: false}

	totals := p.Totals(dec("10.00"))
	assert.True(t, totals.Tax.Equal(dec("1.30")), "tax = %s", totals.Tax)
	assert.True(t, totals.Total.Equal(dec("11.30")), "total = %s", totals.Total)
	assert.Equal(t, "B", p.Name())
}

func TestTaxPolicy_ExclusiveRoundsTaxToCents(t *testing.T) {
	p := TaxPolicy{Rate: DefaultTaxRate}

	// 4.50 * 0.13 = 0.585 -> 0.59
	totals := p.Totals(dec("4.50"))
	assert.Equal(t, "0.59", totals.Tax.StringFixed(2))
	assert.Equal(t, "5.09", totals.Total.StringFixed(2))
}

func TestTaxPolicy_ZeroSubtotal(t *testing.T) {
	for _, inclusive := range []bool{true, false} {
		totals := TaxPolicy{Rate: DefaultTaxRate, Inclusive: inclusive}.Totals(decimal.Zero)
		assert.True(t, totals.Total.IsZero())
		assert.True(t, totals.Tax.IsZero())
	}
}

func TestTaxPolicy_Validate(t *testing.T) {
	require.NoError(t, TaxPolicy{Rate: DefaultTaxRate}.Validate())
	require.NoError(t, TaxPolicy{Rate: decimal.Zero}.Validate())
	assert.Error(t, TaxPolicy{Rate: dec("-0.01")}.Validate())
	assert.Error(t, TaxPolicy{Rate: dec("1.5")}.Validate())
}

func TestTaxPolicy_Describe(t *testing.T) {
	assert.Equal(t, "política A: precios con 13% de IVA incluido", TaxPolicy{Rate: DefaultTaxRate, Inclusive: true}.Describe())
	assert.Equal(t, "política B: 13% de IVA sobre el subtotal", TaxPolicy{Rate: DefaultTaxRate}.Describe())
}
