package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"github.com/shopspring/decimal"

	"github.com/roach88/caja/internal/invoice"
)

//go:embed schema.cue
var schemaCUE string

//go:embed default.cue
var defaultCUE []byte

// Default returns the embedded menu.
func Default() (*Catalog, error) {
	return ParseCUE("default.cue", defaultCUE)
}

// ParseCUE unifies src with the product schema and builds a catalog.
func ParseCUE(filename string, src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(filename, err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(filename, err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(filename, err)
	}

	iter, err := unified.LookupPath(cue.ParsePath("products")).List()
	if err != nil {
		return nil, formatCUEError(filename, err)
	}

	var products []invoice.Product
	for i := 0; iter.Next(); i++ {
		p, err := decodeProduct(iter.Value())
		if err != nil {
			return nil, &LoadError{Source: filename, Index: i, Message: err.Error()}
		}
		products = append(products, p)
	}

	return New(filename, products)
}

func decodeProduct(v cue.Value) (invoice.Product, error) {
	id, err := v.LookupPath(cue.ParsePath("id")).String()
	if err != nil {
		return invoice.Product{}, err
	}
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return invoice.Product{}, err
	}

	// The JSON form of a CUE number is its exact literal.
	raw, err := v.LookupPath(cue.ParsePath("price")).MarshalJSON()
	if err != nil {
		return invoice.Product{}, err
	}
	price, err := decimal.NewFromString(string(raw))
	if err != nil {
		return invoice.Product{}, fmt.Errorf("price: %w", err)
	}

	return invoice.Product{ID: id, Name: name, Price: price}, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(filename string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Source: filename, Index: -1, Message: err.Error()}
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		pos := positions[0]
		return &LoadError{
			Source:  fmt.Sprintf("%s:%d:%d", filename, pos.Line(), pos.Column()),
			Index:   -1,
			Message: first.Error(),
		}
	}
	return &LoadError{Source: filename, Index: -1, Message: first.Error()}
}
