package testutil

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/caja/internal/invoice"
)

// Taco is the product used by the worked examples: id t1, price 1.50.
func Taco() invoice.Product {
	return invoice.Product{ID: "t1", Name: "Taco", Price: decimal.RequireFromString("1.50")}
}

// Horchata is a second product priced so that sums are not round.
func Horchata() invoice.Product {
	return invoice.Product{ID: "h1", Name: "Horchata", Price: decimal.RequireFromString("1.25")}
}

// Pupusa is a third product.
func Pupusa() invoice.Product {
	return invoice.Product{ID: "p1", Name: "Pupusa", Price: decimal.RequireFromString("0.80")}
}
