package register

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/caja/internal/invoice"
)

// State is a phase of one finalize attempt.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateComputing
	StateCommitting
	StateRejected
)

// String returns the phase name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateComputing:
		return "computing"
	case StateCommitting:
		return "committing"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Request carries the operator input for one finalize call.
type Request struct {
	Payment    decimal.Decimal
	ClientName string

	// Contact is the optional messaging destination. Empty means no hand-off.
	Contact string
}

// Finalizer turns the in-progress order into a numbered SaleRecord.
//
// A successful Finalize moves through Idle, Validating, Computing,
// Committing and back to Idle. A rejected one moves through Validating and
// Rejected back to Idle with no state committed.
//
// Finalize is not reentrant. Overlapping calls are refused with
// FINALIZE_IN_PROGRESS; callers should still serialize invocations.
type Finalizer struct {
	policy invoice.TaxPolicy
	clock  Clock
	ids    IDGenerator
	logger *zap.Logger

	busy  atomic.Bool
	state State

	// OnTransition, if set, observes every phase change.
	OnTransition func(from, to State)
}

// NewFinalizer creates a Finalizer applying policy. A nil logger discards
// log output.
func NewFinalizer(policy invoice.TaxPolicy, clock Clock, ids IDGenerator, logger *zap.Logger) *Finalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finalizer{
		policy: policy,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

// Policy returns the active tax policy.
func (f *Finalizer) Policy() invoice.TaxPolicy {
	return f.policy
}

// State returns the current phase. It is Idle between calls.
func (f *Finalizer) State() State {
	return f.state
}

// Quote computes totals and change for the current order without
// committing anything. Payment is validated the same way Finalize does.
func (f *Finalizer) Quote(order *Order, payment decimal.Decimal) (invoice.Totals, decimal.Decimal, error) {
	totals, err := f.validate(order, Request{Payment: payment})
	if err != nil {
		return totals, decimal.Zero, err
	}
	return totals, payment.Sub(totals.Total), nil
}

// Finalize validates the request, builds the SaleRecord numbered with the
// counter's current value and commits it.
//
// The commit appends to the ledger first. If the append fails the counter
// is not advanced and the order is not cleared. On success the ledger grows
// by one record, the counter advances by one and the order is empty.
func (f *Finalizer) Finalize(ctx context.Context, order *Order, counter *Counter, ledger *Ledger, req Request) (invoice.SaleRecord, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return invoice.SaleRecord{}, invoice.NewInProgressError()
	}
	defer f.busy.Store(false)

	f.transition(StateValidating)
	totals, err := f.validate(order, req)
	if err != nil {
		return invoice.SaleRecord{}, f.reject(err)
	}

	f.transition(StateComputing)
	now := f.clock.Now()
	rec := invoice.SaleRecord{
		ID:                f.ids.Generate(),
		InvoiceNumber:     counter.Current(),
		TimestampISO:      now.UTC().Format(time.RFC3339),
		TimestampReadable: now.Format(ReadableLayout),
		ClientName:        invoice.NormalizeName(req.ClientName),
		Items:             order.Items(),
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		Total:             totals.Total,
		Payment:           req.Payment,
		Change:            req.Payment.Sub(totals.Total),
		Contact:           strings.TrimSpace(req.Contact),
		TaxInclusive:      f.policy.Inclusive,
	}

	f.transition(StateCommitting)
	if err := ledger.Append(ctx, rec); err != nil {
		f.logger.Error("ledger rejected invoice, nothing committed",
			zap.Int("invoice_number", rec.InvoiceNumber), zap.Error(err))
		return invoice.SaleRecord{}, f.reject(err)
	}
	counter.Advance(ctx)
	order.Clear(ctx)
	f.transition(StateIdle)

	f.logger.Info("invoice finalized",
		zap.Int("invoice_number", rec.InvoiceNumber),
		zap.String("total", rec.Total.StringFixed(2)),
		zap.String("change", rec.Change.StringFixed(2)),
		zap.String("policy", f.policy.Name()))
	return rec, nil
}

func (f *Finalizer) validate(order *Order, req Request) (invoice.Totals, error) {
	if order.IsEmpty() {
		return invoice.Totals{}, invoice.NewEmptyOrderError()
	}
	totals := f.policy.Totals(order.Subtotal())
	if req.Payment.IsNegative() || req.Payment.LessThan(totals.Total) {
		return totals, invoice.NewInsufficientPaymentError(req.Payment, totals.Total)
	}
	if contact := strings.TrimSpace(req.Contact); contact != "" && !invoice.ValidContact(contact) {
		return totals, invoice.NewInvalidContactError(contact)
	}
	return totals, nil
}

func (f *Finalizer) reject(err error) error {
	f.transition(StateRejected)
	f.transition(StateIdle)
	return err
}

func (f *Finalizer) transition(to State) {
	from := f.state
	f.state = to
	f.logger.Debug("finalize state", zap.Stringer("from", from), zap.Stringer("to", to))
	if f.OnTransition != nil {
		f.OnTransition(from, to)
	}
}

// ParsePayment parses operator payment input such as "5", "5.00" or "$5".
// Unparsable or negative input is INSUFFICIENT_PAYMENT.
func ParsePayment(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	trimmed := strings.TrimPrefix(raw, "$")
	if trimmed == "" {
		return decimal.Zero, invoice.NewInvalidPaymentError(raw)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return decimal.Zero, invoice.NewInvalidPaymentError(raw)
	}
	return d, nil
}
