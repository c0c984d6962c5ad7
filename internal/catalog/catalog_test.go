package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caja/internal/invoice"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 9, c.Len())

	taco, ok := c.Find("t1")
	require.True(t, ok)
	assert.Equal(t, "Taco de asada", taco.Name)
	assert.True(t, taco.Price.Equal(decimal.RequireFromString("1.50")))

	_, ok = c.Find("nope")
	assert.False(t, ok)
}

func TestParseCUE(t *testing.T) {
	c, err := ParseCUE("menu.cue", []byte(`
		products: [
			{id: "t1", name: "Taco", price: 1.50},
			{id: "x1", name: "Extra", price: 1.10},
			{id: "w1", name: "Water", price: 1},
		]
	`))
	require.NoError(t, err)

	products := c.Products()
	require.Len(t, products, 3)
	assert.Equal(t, []string{"t1", "x1", "w1"}, []string{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, "1.10", products[1].Price.StringFixed(2))
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("1.1")))
	assert.True(t, products[2].Price.Equal(decimal.NewFromInt(1)))
}

func TestParseCUE_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"negative price", `products: [{id: "t1", name: "Taco", price: -1}]`},
		{"empty id", `products: [{id: "", name: "Taco", price: 1}]`},
		{"missing name", `products: [{id: "t1", price: 1}]`},
		{"string price", `products: [{id: "t1", name: "Taco", price: "1.50"}]`},
		{"unknown field", `products: [{id: "t1", name: "Taco", price: 1, color: "red"}]`},
		{"syntax error", `products: [{id: "t1"`},
		{"pipe in name", `products: [{id: "c1", name: "Combo | Grande", price: 5}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCUE("bad.cue", []byte(tt.src))
			require.Error(t, err)
			var le *LoadError
			assert.ErrorAs(t, err, &le)
		})
	}
}

func TestParseCUE_DuplicateID(t *testing.T) {
	_, err := ParseCUE("dup.cue", []byte(`products: [
		{id: "t1", name: "Taco", price: 1},
		{id: "t1", name: "Otro", price: 2},
	]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "t1"`)
}

func TestParseYAML(t *testing.T) {
	c, err := ParseYAML("menu.yaml", []byte(`
products:
  - id: t1
    name: "  Taco   grande "
    price: 1.50
  - id: x1
    name: Extra
    price: "1.10"
`))
	require.NoError(t, err)

	taco, ok := c.Find("t1")
	require.True(t, ok)
	assert.Equal(t, "Taco grande", taco.Name)
	assert.Equal(t, "1.50", taco.Price.StringFixed(2))

	extra, ok := c.Find("x1")
	require.True(t, ok)
	assert.True(t, extra.Price.Equal(decimal.RequireFromString("1.10")))
}

func TestParseYAML_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", "products:\n  - id: t1\n    name: Taco\n    price: 1\n    color: red\n"},
		{"bad price", "products:\n  - id: t1\n    name: Taco\n    price: cheap\n"},
		{"missing price", "products:\n  - id: t1\n    name: Taco\n"},
		{"empty", ""},
		{"no products", "products: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML("bad.yaml", []byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cuePath := filepath.Join(dir, "menu.cue")
	require.NoError(t, os.WriteFile(cuePath, []byte(`products: [{id: "a", name: "A", price: 2}]`), 0o644))
	yamlPath := filepath.Join(dir, "menu.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("products:\n  - {id: b, name: B, price: 3}\n"), 0o644))
	txtPath := filepath.Join(dir, "menu.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("a"), 0o644))

	c, err := Load(cuePath)
	require.NoError(t, err)
	_, ok := c.Find("a")
	assert.True(t, ok)

	c, err = Load(yamlPath)
	require.NoError(t, err)
	_, ok = c.Find("b")
	assert.True(t, ok)

	_, err = Load(txtPath)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.cue"))
	assert.Error(t, err)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, c.Len())
}

func TestNew_RejectsPipeInName(t *testing.T) {
	_, err := New("menu.yaml", []invoice.Product{
		{ID: "t1", Name: "Taco", Price: decimal.NewFromInt(1)},
		{ID: "c1", Name: "Combo | Grande", Price: decimal.NewFromInt(5)},
	})
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 1, le.Index)
}

func TestCatalog_ProductsIsACopy(t *testing.T) {
	c, err := New("test", []invoice.Product{{ID: "a", Name: "A", Price: decimal.NewFromInt(1)}})
	require.NoError(t, err)

	products := c.Products()
	products[0].Name = "changed"

	p, _ := c.Find("a")
	assert.Equal(t, "A", p.Name)
}
