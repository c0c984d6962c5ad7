// Package invoice defines the domain types shared by every other caja package.
//
// The package holds type definitions, the tax policy arithmetic and the error
// taxonomy. It imports nothing internal; register, receipt, export and cli all
// build on it.
//
// Key constraints:
//   - Money is always decimal.Decimal, never float64
//   - A LineItem is identified by its product ID
//   - A SaleRecord is a historical fact and is never mutated after append
//   - JSON tags use snake_case
package invoice
