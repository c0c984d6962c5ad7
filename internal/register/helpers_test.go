package register

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caja/internal/invoice"
	"github.com/roach88/caja/internal/store"
	"github.com/roach88/caja/internal/testutil"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func policyA() invoice.TaxPolicy {
	return invoice.TaxPolicy{Rate: invoice.DefaultTaxRate, Inclusive: true}
}

func policyB() invoice.TaxPolicy {
	return invoice.TaxPolicy{Rate: invoice.DefaultTaxRate, Inclusive: false}
}

// openTestRegister opens a register over slots with policy A and floor 1.
func openTestRegister(t *testing.T, slots Slots, clock Clock) *Register {
	t.Helper()
	r, err := Open(context.Background(), Options{
		Slots:            slots,
		Clock:            clock,
		IDs:              testutil.NewSequentialIDs(""),
		Policy:           policyA(),
		CounterFloor:     1,
		ReconcileCounter: true,
	})
	require.NoError(t, err)
	return r
}

// seed writes raw slot contents.
func seed(t *testing.T, slots *store.Memory, key, data string) {
	t.Helper()
	require.NoError(t, slots.Put(context.Background(), key, []byte(data)))
}

// brokenSlots fails every call after the first okCalls.
type brokenSlots struct {
	inner   Slots
	okCalls int
	calls   int
}

var errDiskGone = errors.New("disk gone")

func (b *brokenSlots) Get(ctx context.Context, key string) ([]byte, error) {
	b.calls++
	if b.calls > b.okCalls {
		return nil, errDiskGone
	}
	return b.inner.Get(ctx, key)
}

func (b *brokenSlots) Put(ctx context.Context, key string, data []byte) error {
	b.calls++
	if b.calls > b.okCalls {
		return errDiskGone
	}
	return b.inner.Put(ctx, key, data)
}

type mapLookup map[string]invoice.Product

func (m mapLookup) Find(id string) (invoice.Product, bool) {
	p, ok := m[id]
	return p, ok
}
