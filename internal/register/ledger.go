package register

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/caja/internal/invoice"
)

const ledgerSlot = "ledger"

type ledgerState struct {
	Records        []invoice.SaleRecord `json:"records"`
	LastLedgerDate string               `json:"last_ledger_date"`
}

// Ledger is the append-only journal of today's finalized sales.
//
// Append order is chronological order and invoice numbers are strictly
// increasing along it. Records are never modified once appended.
type Ledger struct {
	vault *Vault
	state ledgerState
}

// OpenLedger restores the ledger and applies the same day-rollover rule as
// OpenCounter against its own last_ledger_date tag.
func OpenLedger(ctx context.Context, vault *Vault, clock Clock) *Ledger {
	l := &Ledger{vault: vault}
	today := Today(clock)

	var stored ledgerState
	found := vault.Load(ctx, ledgerSlot, &stored)
	switch {
	case !found || stored.LastLedgerDate == "":
		l.state = ledgerState{Records: []invoice.SaleRecord{}, LastLedgerDate: today}
		l.persist(ctx)
	case stored.LastLedgerDate != today:
		vault.Logger().Info("new day, sales ledger reset",
			zap.String("previous_date", stored.LastLedgerDate),
			zap.String("date", today),
			zap.Int("discarded_records", len(stored.Records)))
		l.state = ledgerState{Records: []invoice.SaleRecord{}, LastLedgerDate: today}
		l.persist(ctx)
	default:
		if stored.Records == nil {
			stored.Records = []invoice.SaleRecord{}
		}
		l.state = stored
	}

	return l
}

// Append adds rec to the end of the ledger.
//
// rec.InvoiceNumber must be greater than every number already present.
// A violation means the counter and ledger diverged; the append is rejected
// with LEDGER_MONOTONICITY_VIOLATION and the ledger is left untouched.
func (l *Ledger) Append(ctx context.Context, rec invoice.SaleRecord) error {
	if highest, ok := l.Highest(); ok && rec.InvoiceNumber <= highest {
		return invoice.NewMonotonicityError(rec.InvoiceNumber, highest)
	}

	l.state.Records = append(l.state.Records, rec.Clone())
	l.persist(ctx)
	return nil
}

// All returns the records in chronological order.
func (l *Ledger) All() []invoice.SaleRecord {
	out := make([]invoice.SaleRecord, len(l.state.Records))
	for i, rec := range l.state.Records {
		out[i] = rec.Clone()
	}
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.state.Records)
}

// Highest returns the largest invoice number in the ledger.
func (l *Ledger) Highest() (int, bool) {
	if len(l.state.Records) == 0 {
		return 0, false
	}
	highest := l.state.Records[0].InvoiceNumber
	for _, rec := range l.state.Records[1:] {
		if rec.InvoiceNumber > highest {
			highest = rec.InvoiceNumber
		}
	}
	return highest, true
}

// Find returns the record with the given invoice number.
func (l *Ledger) Find(invoiceNumber int) (invoice.SaleRecord, bool) {
	for _, rec := range l.state.Records {
		if rec.InvoiceNumber == invoiceNumber {
			return rec.Clone(), true
		}
	}
	return invoice.SaleRecord{}, false
}

// Last returns the most recently appended record.
func (l *Ledger) Last() (invoice.SaleRecord, bool) {
	if len(l.state.Records) == 0 {
		return invoice.SaleRecord{}, false
	}
	return l.state.Records[len(l.state.Records)-1].Clone(), true
}

// TotalForDay is the exact sum of every record's total.
func (l *Ledger) TotalForDay() decimal.Decimal {
	sum := decimal.Zero
	for _, rec := range l.state.Records {
		sum = sum.Add(rec.Total)
	}
	return sum
}

// Date returns the day tag the ledger belongs to.
func (l *Ledger) Date() string {
	return l.state.LastLedgerDate
}

// Reset empties the ledger after the caller-owned confirmation step agrees.
// Returns false, with no change, when confirm declines.
func (l *Ledger) Reset(ctx context.Context, confirm func() bool) bool {
	if confirm == nil || !confirm() {
		return false
	}
	discarded := len(l.state.Records)
	l.state.Records = []invoice.SaleRecord{}
	l.persist(ctx)
	l.vault.Logger().Info("sales ledger cleared", zap.Int("discarded_records", discarded))
	return true
}

func (l *Ledger) persist(ctx context.Context) {
	l.vault.Save(ctx, ledgerSlot, l.state)
}
