package receipt

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/caja/internal/invoice"
	"github.com/roach88/caja/internal/testutil"
)

func mercy() Business {
	return Business{
		Name:    "Taquería Mercy",
		Address: "Colonia Escalón, San Salvador",
		Footer:  []string{"¡Gracias por su compra!", "¡Vuelva pronto!"},
	}
}

func TestTextRenderer_PolicyA(t *testing.T) {
	out, err := TextRenderer{}.Render(Document{
		Business: mercy(),
		Record:   testutil.TacoSale(),
		TaxRate:  invoice.DefaultTaxRate,
	})
	require.NoError(t, err)

	testutil.AssertGolden(t, "ticket_policy_a", out)
}

func TestTextRenderer_PolicyB(t *testing.T) {
	rec := testutil.MixedSale()
	rec.TaxInclusive = false
	rec.Tax = decimal.RequireFromString("0.85")
	rec.Total = decimal.RequireFromString("7.35")
	rec.Change = decimal.RequireFromString("2.65")

	out, err := TextRenderer{}.Render(Document{
		Business: Business{Name: "Taquería Mercy"},
		Record:   rec,
		TaxRate:  invoice.DefaultTaxRate,
	})
	require.NoError(t, err)

	testutil.AssertGolden(t, "ticket_policy_b", out)
}

func TestTextRenderer_FallsBackToISODate(t *testing.T) {
	rec := testutil.TacoSale()
	rec.TimestampReadable = ""

	out, err := TextRenderer{Width: 32}.Render(Document{Business: mercy(), Record: rec})
	require.NoError(t, err)

	assert.Contains(t, string(out), "Fecha y Hora: 2026-10-15T14:05:09Z")
	assert.True(t, strings.HasPrefix(string(out), strings.Repeat("═", 32)+"\n"))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Save(dir, TextRenderer{}, Document{Business: mercy(), Record: testutil.TacoSale()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice-2026-10-15-1.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Factura No: 1")
}

func TestSave_SameNumberOnDifferentDays(t *testing.T) {
	dir := t.TempDir()

	first := testutil.TacoSale()
	second := testutil.MixedSale()
	second.InvoiceNumber = 1
	second.TimestampReadable = "16/10/2026 09:00:00"

	p1, err := Save(dir, TextRenderer{}, Document{Business: mercy(), Record: first, Date: "2026-10-15"})
	require.NoError(t, err)
	p2, err := Save(dir, TextRenderer{}, Document{Business: mercy(), Record: second, Date: "2026-10-16"})
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)

	day1, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Contains(t, string(day1), "15/10/2026 14:05:09")

	day2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Contains(t, string(day2), "16/10/2026 09:00:00")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestComposer_BuildMessage(t *testing.T) {
	testutil.AssertGolden(t, "message_taco", []byte(Composer{}.BuildMessage(testutil.TacoSale())))

	mixed := Composer{Closing: "¡Vuelva pronto!"}.BuildMessage(testutil.MixedSale())
	testutil.AssertGolden(t, "message_mixed", []byte(mixed))
}

func TestComposer_OmitsEmptyClient(t *testing.T) {
	rec := testutil.TacoSale()
	rec.ClientName = ""

	assert.NotContains(t, Composer{}.BuildMessage(rec), "Cliente:")
}

func TestLinkDispatcher_Link(t *testing.T) {
	text := Composer{}.BuildMessage(testutil.TacoSale())

	link, err := LinkDispatcher{}.Link("50370001234", text)
	require.NoError(t, err)
	testutil.AssertGolden(t, "link_taco", []byte(link+"\n"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/50370001234", u.Path)
	assert.Equal(t, text, u.Query().Get("text"))
	assert.NotContains(t, u.RawQuery, "+")
}

func TestLinkDispatcher_CustomBase(t *testing.T) {
	link, err := LinkDispatcher{BaseURL: "https://chat.example/send/"}.Link("12345678", "a b")
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example/send/12345678?text=a%20b", link)
}

func TestLinkDispatcher_RejectsBadContact(t *testing.T) {
	var out bytes.Buffer
	d := LinkDispatcher{Out: &out}

	err := d.Dispatch(context.Background(), "503 7000", "hola")
	require.Error(t, err)
	assert.True(t, invoice.IsInvalidContact(err))
	assert.Empty(t, out.String())
}

func TestLinkDispatcher_Dispatch(t *testing.T) {
	var out bytes.Buffer
	d := LinkDispatcher{Out: &out}

	require.NoError(t, d.Dispatch(context.Background(), "12345678", "hola"))
	assert.Equal(t, "https://wa.me/12345678?text=hola\n", out.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, d.Dispatch(ctx, "12345678", "hola"))
}

func TestLinkDispatcher_Open(t *testing.T) {
	var out bytes.Buffer
	var opened string
	d := LinkDispatcher{
		BaseURL: "https://chat.example/",
		Out:     &out,
		Open: func(link string) error {
			opened = link
			return nil
		},
	}

	require.NoError(t, d.Dispatch(context.Background(), "12345678", "hola mundo"))
	assert.Equal(t, "https://chat.example/12345678?text=hola%20mundo", opened)
	assert.Empty(t, out.String())
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hola mundo", "hola%20mundo"},
		{"¡Gracias!", "%C2%A1Gracias!"},
		{"*Factura No:* 1", "*Factura%20No%3A*%201"},
		{"(Mesa 'A')", "(Mesa%20'A')"},
		{"a+b=$3 & c/d", "a%2Bb%3D%243%20%26%20c%2Fd"},
		{"-_.~", "-_.~"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeComponent(tt.in))
		})
	}
}
