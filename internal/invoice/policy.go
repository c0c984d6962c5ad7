package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the 13% rate used when configuration does not set one.
var DefaultTaxRate = decimal.RequireFromString("0.13")

// TaxPolicy selects how a total is derived from a subtotal.
//
// Exactly one policy is active per finalizer:
//   - Inclusive (policy A): catalog prices already embed tax, total = subtotal
//   - Exclusive (policy B): total = subtotal + round2(subtotal * Rate)
type TaxPolicy struct {
	Rate      decimal.Decimal
	Inclusive bool
}

// Totals is the result of applying a TaxPolicy to a subtotal.
// Under the inclusive policy Tax is the portion already contained in Total.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Name identifies the active policy for display and logs.
func (p TaxPolicy) Name() string {
	if p.Inclusive {
		return "A"
	}
	return "B"
}

// Describe is the operator-facing description of the policy.
func (p TaxPolicy) Describe() string {
	pct := p.Rate.Mul(decimal.NewFromInt(100)).String()
	if p.Inclusive {
		return fmt.Sprintf("política A: precios con %s%% de IVA incluido", pct)
	}
	return fmt.Sprintf("política B: %s%% de IVA sobre el subtotal", pct)
}

// Validate rejects rates outside [0, 1].
func (p TaxPolicy) Validate() error {
	if p.Rate.IsNegative() || p.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate %s out of range [0, 1]", p.Rate)
	}
	return nil
}

// Totals computes subtotal, tax and total under the policy.
func (p TaxPolicy) Totals(subtotal decimal.Decimal) Totals {
	if p.Inclusive {
		net := subtotal.Div(decimal.NewFromInt(1).Add(p.Rate))
		return Totals{
			Subtotal: subtotal,
			Tax:      RoundCents(subtotal.Sub(net)),
			Total:    subtotal,
		}
	}
	tax := RoundCents(subtotal.Mul(p.Rate))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
