package invoice

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Products are read-only for the whole session.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem is one product entry of an in-progress order.
//
// Identity is the product ID: an order holds at most one LineItem per ID.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// NewLineItem copies the product fields into a new line with the given quantity.
func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: quantity,
	}
}

// Amount returns price * quantity.
func (li LineItem) Amount() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Subtotal sums the amounts of all items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Amount())
	}
	return sum
}

// SaleRecord is one finalized invoice as stored in the daily ledger.
//
// Records are immutable once appended. Items is a snapshot of the order at
// the moment of finalization, not a reference to it.
type SaleRecord struct {
	ID                string          `json:"id"`
	InvoiceNumber     int             `json:"invoice_number"`
	TimestampISO      string          `json:"timestamp_iso"`
	TimestampReadable string          `json:"timestamp_readable"`
	ClientName        string          `json:"client_name,omitempty"`
	Items             []LineItem      `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Tax               decimal.Decimal `json:"tax"`
	Total             decimal.Decimal `json:"total"`
	Payment           decimal.Decimal `json:"payment"`
	Change            decimal.Decimal `json:"change"`
	Contact           string          `json:"contact,omitempty"`
	TaxInclusive      bool            `json:"tax_inclusive"`
}

// ItemSummary renders "name xN" for every item joined by sep.
func (r SaleRecord) ItemSummary(sep string) string {
	parts := make([]string, len(r.Items))
	for i, item := range r.Items {
		parts[i] = item.Name + " x" + strconv.Itoa(item.Quantity)
	}
	return strings.Join(parts, sep)
}

// DisplayDate prefers the readable timestamp and falls back to the ISO one.
func (r SaleRecord) DisplayDate() string {
	if r.TimestampReadable != "" {
		return r.TimestampReadable
	}
	return r.TimestampISO
}

// CloneItems returns a copy of items so callers cannot alias internal state.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// Clone returns a deep copy of the record.
func (r SaleRecord) Clone() SaleRecord {
	r.Items = CloneItems(r.Items)
	return r
}
