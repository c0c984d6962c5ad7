package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/roach88/caja/internal/invoice"
)

const (
	defaultWidth = 40
	labelWidth   = 23
)

// TextRenderer draws a plain-text ticket Width columns wide.
type TextRenderer struct {
	// Width defaults to 40.
	Width int
}

// Render implements Renderer.
func (r TextRenderer) Render(doc Document) ([]byte, error) {
	width := r.Width
	if width <= 0 {
		width = defaultWidth
	}
	if doc.Record.InvoiceNumber < 0 {
		return nil, fmt.Errorf("invoice number %d is negative", doc.Record.InvoiceNumber)
	}

	rec := doc.Record
	heavy := strings.Repeat("═", width)
	light := strings.Repeat("─", width)

	var lines []string
	lines = append(lines, heavy)
	lines = append(lines, center(doc.Business.Name, width))
	lines = append(lines, heavy)
	lines = append(lines, fmt.Sprintf("Factura No: %d", rec.InvoiceNumber))
	lines = append(lines, "Fecha y Hora: "+rec.DisplayDate())
	if rec.ClientName != "" {
		lines = append(lines, "Cliente: "+rec.ClientName)
	}
	lines = append(lines, light)

	for _, item := range rec.Items {
		lines = append(lines, fmt.Sprintf("%d x %s @ %s = %s",
			item.Quantity,
			item.Name,
			invoice.FormatMoney(item.Price),
			invoice.FormatMoney(item.Amount())))
	}

	lines = append(lines, light)
	lines = append(lines, amountLine("Subtotal:", rec.Subtotal))
	pct := doc.TaxRate.Mul(decimal.NewFromInt(100)).String()
	if rec.TaxInclusive {
		lines = append(lines, amountLine(fmt.Sprintf("IVA incluido (%s%%):", pct), rec.Tax))
	} else {
		lines = append(lines, amountLine(fmt.Sprintf("IVA (%s%%):", pct), rec.Tax))
	}
	lines = append(lines, light)
	lines = append(lines, amountLine("TOTAL:", rec.Total))
	lines = append(lines, amountLine("Pago recibido:", rec.Payment))
	lines = append(lines, amountLine("Vuelto:", rec.Change))
	lines = append(lines, heavy)

	lines = append(lines, doc.Business.Footer...)
	if doc.Business.Address != "" {
		lines = append(lines, "Dirección: "+doc.Business.Address)
	}
	lines = append(lines, heavy)

	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

// amountLine left-aligns label in a fixed column so amounts line up.
func amountLine(label string, amount decimal.Decimal) string {
	return fmt.Sprintf("%-*s%s", labelWidth, label, invoice.FormatMoney(amount))
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}
