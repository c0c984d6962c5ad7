package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/caja/internal/invoice"
)

// Catalog is an immutable set of products indexed by ID.
type Catalog struct {
	products []invoice.Product
	byID     map[string]int
}

// LoadError reports a catalog entry that could not be accepted.
type LoadError struct {
	Source  string
	Index   int
	Message string
}

func (e *LoadError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: products[%d]: %s", e.Source, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// New builds a catalog from products in display order.
// IDs must be unique and non-empty; names are normalized and may not contain
// the "|" used to separate items in exports.
func New(source string, products []invoice.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]invoice.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		p.Name = invoice.NormalizeName(p.Name)
		switch {
		case p.ID == "":
			return nil, &LoadError{Source: source, Index: i, Message: "id is required"}
		case p.Name == "":
			return nil, &LoadError{Source: source, Index: i, Message: "name is required"}
		case strings.Contains(p.Name, "|"):
			return nil, &LoadError{Source: source, Index: i, Message: fmt.Sprintf("name %q must not contain '|'", p.Name)}
		case p.Price.IsNegative():
			return nil, &LoadError{Source: source, Index: i, Message: fmt.Sprintf("price %s is negative", p.Price)}
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, &LoadError{Source: source, Index: i, Message: fmt.Sprintf("duplicate id %q", p.ID)}
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	if len(c.products) == 0 {
		return nil, &LoadError{Source: source, Index: -1, Message: "catalog has no products"}
	}
	return c, nil
}

// Load reads a catalog file, choosing the decoder by extension.
// An empty path loads the embedded default menu.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return ParseCUE(path, data)
	case ".yaml", ".yml":
		return ParseYAML(path, data)
	default:
		return nil, fmt.Errorf("catalog %s: unsupported extension (want .cue, .yaml or .yml)", path)
	}
}

// Find returns the product with the given ID.
func (c *Catalog) Find(id string) (invoice.Product, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return invoice.Product{}, false
	}
	return c.products[i], true
}

// Products returns every product in display order.
func (c *Catalog) Products() []invoice.Product {
	out := make([]invoice.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
