package register

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/caja/internal/invoice"
)

// Options configures Open.
type Options struct {
	// Slots is the durable storage. Required.
	Slots Slots

	// Clock defaults to SystemClock in the local zone.
	Clock Clock

	// IDs defaults to UUIDv7Generator.
	IDs IDGenerator

	Policy invoice.TaxPolicy

	// CounterFloor is the first invoice number of each day.
	CounterFloor int

	// ReconcileCounter raises the counter above the ledger's highest invoice
	// number when the two disagree at open.
	ReconcileCounter bool

	Logger *zap.Logger

	// OnDegrade is forwarded to the Vault.
	OnDegrade func(err error)
}

// Register wires the order, counter, ledger and finalizer of one session.
type Register struct {
	Order     *Order
	Counter   *Counter
	Ledger    *Ledger
	Finalizer *Finalizer

	vault *Vault
}

// Snapshot is a read-only view of the session for display.
type Snapshot struct {
	Date          string             `json:"date"`
	InvoiceNumber int                `json:"invoice_number"`
	Items         []invoice.LineItem `json:"items"`
	Totals        invoice.Totals     `json:"totals"`
	Policy        string             `json:"policy"`
	Sales         int                `json:"sales"`
	DayTotal      decimal.Decimal    `json:"day_total"`
	Degraded      bool               `json:"degraded"`
}

// Open restores every component from opts.Slots.
func Open(ctx context.Context, opts Options) (*Register, error) {
	if opts.Slots == nil {
		return nil, fmt.Errorf("open register: no slots")
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("open register: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	vault := NewVault(opts.Slots, opts.Logger)
	vault.OnDegrade = opts.OnDegrade

	counter, err := OpenCounter(ctx, vault, opts.Clock, opts.CounterFloor)
	if err != nil {
		return nil, fmt.Errorf("open register: %w", err)
	}
	ledger := OpenLedger(ctx, vault, opts.Clock)
	order := OpenOrder(ctx, vault)

	if highest, ok := ledger.Highest(); ok && counter.Current() <= highest {
		if opts.ReconcileCounter {
			if counter.fastForward(ctx, highest+1) {
				opts.Logger.Warn("invoice counter behind ledger, fast-forwarded",
					zap.Int("highest_invoice", highest),
					zap.Int("counter", counter.Current()))
			}
		} else {
			opts.Logger.Warn("invoice counter behind ledger, next finalize will be rejected",
				zap.Int("highest_invoice", highest),
				zap.Int("counter", counter.Current()))
		}
	}

	return &Register{
		Order:     order,
		Counter:   counter,
		Ledger:    ledger,
		Finalizer: NewFinalizer(opts.Policy, opts.Clock, opts.IDs, opts.Logger),
		vault:     vault,
	}, nil
}

// Finalize finalizes the current order.
func (r *Register) Finalize(ctx context.Context, req Request) (invoice.SaleRecord, error) {
	return r.Finalizer.Finalize(ctx, r.Order, r.Counter, r.Ledger, req)
}

// Quote previews totals and change for the current order.
func (r *Register) Quote(payment decimal.Decimal) (invoice.Totals, decimal.Decimal, error) {
	return r.Finalizer.Quote(r.Order, payment)
}

// Degraded returns the PERSISTENCE_UNAVAILABLE error once storage has failed.
func (r *Register) Degraded() error {
	return r.vault.Degraded()
}

// SlotKeys lists the slots currently held by durable storage.
func (r *Register) SlotKeys(ctx context.Context) []string {
	return r.vault.Keys(ctx)
}

// Snapshot returns the current session view.
func (r *Register) Snapshot() Snapshot {
	return Snapshot{
		Date:          r.Counter.Date(),
		InvoiceNumber: r.Counter.Current(),
		Items:         r.Order.Items(),
		Totals:        r.Finalizer.Policy().Totals(r.Order.Subtotal()),
		Policy:        r.Finalizer.Policy().Describe(),
		Sales:         r.Ledger.Len(),
		DayTotal:      r.Ledger.TotalForDay(),
		Degraded:      r.vault.Degraded() != nil,
	}
}
