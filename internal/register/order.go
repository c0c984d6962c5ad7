package register

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/roach88/caja/internal/invoice"
)

const orderSlot = "order"

// ProductLookup resolves catalog IDs. catalog.Catalog implements it.
type ProductLookup interface {
	Find(id string) (invoice.Product, bool)
}

// Order holds the line items of the invoice being assembled.
//
// Items keep first-insertion order and there is at most one line per product
// ID. Every mutation is persisted before the method returns.
type Order struct {
	vault *Vault
	items []invoice.LineItem
}

// OpenOrder restores the in-progress order. Stored lines that share an ID
// are merged and lines with non-positive quantity are dropped, so the
// uniqueness invariant holds even for a hand-edited slot.
func OpenOrder(ctx context.Context, vault *Vault) *Order {
	o := &Order{vault: vault, items: []invoice.LineItem{}}

	var stored []invoice.LineItem
	if !vault.Load(ctx, orderSlot, &stored) {
		return o
	}

	dirty := false
	for _, item := range stored {
		if item.Quantity <= 0 {
			dirty = true
			continue
		}
		if i := o.index(item.ID); i >= 0 {
			o.items[i].Quantity += item.Quantity
			dirty = true
			continue
		}
		o.items = append(o.items, item)
	}
	if dirty {
		vault.Logger().Warn("restored order normalized", zap.Int("lines", len(o.items)))
		o.persist(ctx)
	}
	return o
}

// Add puts quantity units of product on the order. An existing line for the
// same ID has quantity added to it; otherwise a new line is appended.
// Non-positive quantities are rejected without mutation.
func (o *Order) Add(ctx context.Context, product invoice.Product, quantity int) error {
	if quantity <= 0 {
		return invoice.NewInvalidQuantityError(quantity)
	}

	if i := o.index(product.ID); i >= 0 {
		o.items[i].Quantity += quantity
	} else {
		o.items = append(o.items, invoice.NewLineItem(product, quantity))
	}
	o.persist(ctx)
	return nil
}

// AddByID looks the product up and adds it.
func (o *Order) AddByID(ctx context.Context, lookup ProductLookup, id string, quantity int) (invoice.Product, error) {
	product, ok := lookup.Find(id)
	if !ok {
		return invoice.Product{}, invoice.NewUnknownProductError(id)
	}
	return product, o.Add(ctx, product, quantity)
}

// Remove deletes the line for id. Removing an absent id is a no-op.
func (o *Order) Remove(ctx context.Context, id string) bool {
	i := o.index(id)
	if i < 0 {
		return false
	}
	o.items = append(o.items[:i], o.items[i+1:]...)
	o.persist(ctx)
	return true
}

// Clear empties the order.
func (o *Order) Clear(ctx context.Context) {
	o.items = []invoice.LineItem{}
	o.persist(ctx)
}

// Items returns a read-only snapshot of the lines in insertion order.
func (o *Order) Items() []invoice.LineItem {
	return invoice.CloneItems(o.items)
}

// Len returns the number of distinct lines.
func (o *Order) Len() int {
	return len(o.items)
}

// IsEmpty reports whether the order has no lines.
func (o *Order) IsEmpty() bool {
	return len(o.items) == 0
}

// Subtotal is the sum of price * quantity over all lines.
func (o *Order) Subtotal() decimal.Decimal {
	return invoice.Subtotal(o.items)
}

func (o *Order) index(id string) int {
	for i, item := range o.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (o *Order) persist(ctx context.Context) {
	o.vault.Save(ctx, orderSlot, o.items)
}
