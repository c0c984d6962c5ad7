package testutil

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/caja/internal/invoice"
)

// TacoSale is the record produced by finalizing three tacos paid with 5.00
// under the inclusive 13% policy at 15/10/2026 14:05:09 UTC.
func TacoSale() invoice.SaleRecord {
	return invoice.SaleRecord{
		ID:                "sale-0001",
		InvoiceNumber:     1,
		TimestampISO:      "2026-10-15T14:05:09Z",
		TimestampReadable: "15/10/2026 14:05:09",
		ClientName:        "Juan Pérez",
		Items:             []invoice.LineItem{invoice.NewLineItem(Taco(), 3)},
		Subtotal:          decimal.RequireFromString("4.50"),
		Tax:               decimal.RequireFromString("0.52"),
		Total:             decimal.RequireFromString("4.50"),
		Payment:           decimal.RequireFromString("5.00"),
		Change:            decimal.RequireFromString("0.50"),
		TaxInclusive:      true,
	}
}

// MixedSale is a second record with two lines, no client and a quoted name
// so that export escaping is exercised.
func MixedSale() invoice.SaleRecord {
	return invoice.SaleRecord{
		ID:                "sale-0002",
		InvoiceNumber:     2,
		TimestampISO:      "2026-10-15T15:30:00Z",
		TimestampReadable: "15/10/2026 15:30:00",
		ClientName:        `Mesa "4"`,
		Items: []invoice.LineItem{
			invoice.NewLineItem(Horchata(), 2),
			invoice.NewLineItem(Pupusa(), 5),
		},
		Subtotal:     decimal.RequireFromString("6.50"),
		Tax:          decimal.RequireFromString("0.75"),
		Total:        decimal.RequireFromString("6.50"),
		Payment:      decimal.RequireFromString("10"),
		Change:       decimal.RequireFromString("3.50"),
		Contact:      "50370001234",
		TaxInclusive: true,
	}
}
