// Package register implements the invoicing core of caja.
//
// ARCHITECTURE:
//
// Four components, each owning one durable slot:
//   - Counter: today's invoice number, reset to the configured floor on a new day
//   - Ledger: today's finalized SaleRecords, reset on a new day or confirmed clear
//   - Order: line items of the invoice being assembled
//   - Finalizer: validates, computes totals and commits one sale
//
// Components are explicit instances created once per process by Open and
// injected into the Finalizer. None of them reads another component's slot.
//
// Day rollover is checked once, when a component is opened. A session that
// spans midnight keeps the old day until the components are reopened.
//
// DURABILITY:
//
// Every mutation persists synchronously through the Vault. The first storage
// failure is logged once and switches the Vault to memory-only; in-memory
// state stays authoritative for the rest of the process.
//
// CONCURRENCY:
//
// The core assumes a single operator. Nothing here is safe for concurrent
// mutation and Finalize is not reentrant: callers serialize invocations (for
// example by disabling the triggering control until the call returns). An
// overlapping Finalize is rejected with FINALIZE_IN_PROGRESS.
package register
