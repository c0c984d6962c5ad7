package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/roach88/caja/internal/invoice"
)

type yamlFile struct {
	Products []yamlProduct `yaml:"products"`
}

type yamlProduct struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Price is decoded from the scalar text so 1.10 is not routed through float64.
	Price string `yaml:"price"`
}

// ParseYAML decodes a YAML catalog. Unknown fields are rejected.
func ParseYAML(filename string, data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f yamlFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Source: filename, Index: -1, Message: "catalog has no products"}
		}
		return nil, &LoadError{Source: filename, Index: -1, Message: err.Error()}
	}

	products := make([]invoice.Product, 0, len(f.Products))
	for i, p := range f.Products {
		if p.Price == "" {
			return nil, &LoadError{Source: filename, Index: i, Message: "price is required"}
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, &LoadError{Source: filename, Index: i, Message: fmt.Sprintf("price %q is not a number", p.Price)}
		}
		products = append(products, invoice.Product{ID: p.ID, Name: p.Name, Price: price})
	}

	return New(filename, products)
}
