package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/caja/internal/invoice"
)

// ItemSeparator joins the item summaries of one sale.
const ItemSeparator = " | "

// Header is the first row of every export.
var Header = []string{"Factura", "Fecha", "Cliente", "Total", "Pago", "Vuelto", "Items"}

// ErrNothingToExport is returned when the ledger has no records.
var ErrNothingToExport = errors.New("no hay ventas para exportar")

// Row is one parsed export line.
type Row struct {
	InvoiceNumber int
	Date          string
	Client        string
	Total         decimal.Decimal
	Payment       decimal.Decimal
	Change        decimal.Decimal
	Items         []Item
}

// Item is one "name xN" entry of a row.
type Item struct {
	Name     string
	Quantity int
}

// FileName is the export name for the given day tag (2006-01-02).
func FileName(date string) string {
	return fmt.Sprintf("sales_%s.csv", date)
}

// WriteLedger writes records in the order given.
func WriteLedger(w io.Writer, records []invoice.SaleRecord) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, Header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.InvoiceNumber),
			rec.DisplayDate(),
			rec.ClientName,
			rec.Total.StringFixed(2),
			rec.Payment.StringFixed(2),
			rec.Change.StringFixed(2),
			rec.ItemSummary(ItemSeparator),
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile exports records to dir/FileName(date) and returns the path.
func WriteFile(dir, date string, records []invoice.SaleRecord) (string, error) {
	if len(records) == 0 {
		return "", ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, FileName(date))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if err := WriteLedger(f, records); err != nil {
		f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	return path, nil
}

// writeRow quotes every field. encoding/csv only quotes when needed.
func writeRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// ParseLedger reads an export back.
func ParseLedger(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("header column %d: got %q, want %q", i+1, header[i], name)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(fields []string) (Row, error) {
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return Row{}, fmt.Errorf("invoice number %q: %w", fields[0], err)
	}

	var amounts [3]decimal.Decimal
	for i, field := range fields[3:6] {
		d, err := decimal.NewFromString(field)
		if err != nil {
			return Row{}, fmt.Errorf("%s %q: %w", strings.ToLower(Header[3+i]), field, err)
		}
		amounts[i] = d
	}

	items, err := parseItems(fields[6])
	if err != nil {
		return Row{}, err
	}

	return Row{
		InvoiceNumber: n,
		Date:          fields[1],
		Client:        fields[2],
		Total:         amounts[0],
		Payment:       amounts[1],
		Change:        amounts[2],
		Items:         items,
	}, nil
}

// parseItems splits "name xN | name xN". A fragment without a trailing
// " x<digits>" belongs to a name that itself contains the separator and is
// joined with the next fragment.
func parseItems(s string) ([]Item, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ItemSeparator)
	items := make([]Item, 0, len(parts))
	pending := ""
	for _, part := range parts {
		if pending != "" {
			part = pending + ItemSeparator + part
		}
		item, ok := parseItem(part)
		if !ok {
			pending = part
			continue
		}
		items = append(items, item)
		pending = ""
	}
	if pending != "" {
		return nil, fmt.Errorf("item %q: missing quantity", pending)
	}
	return items, nil
}

func parseItem(s string) (Item, bool) {
	i := strings.LastIndex(s, " x")
	if i < 0 {
		return Item{}, false
	}
	digits := s[i+2:]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return Item{}, false
	}
	qty, err := strconv.Atoi(digits)
	if err != nil {
		return Item{}, false
	}
	return Item{Name: s[:i], Quantity: qty}, true
}
