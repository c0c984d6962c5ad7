package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/roach88/caja/internal/invoice"
)

// Business identifies the shop on every ticket.
type Business struct {
	Name    string
	Address string

	// Footer lines are printed after the totals, one per line.
	Footer []string
}

// Document is everything a Renderer needs to draw one invoice.
type Document struct {
	Business Business
	Record   invoice.SaleRecord

	// TaxRate is the rate the record was computed with.
	TaxRate decimal.Decimal

	// Date is the business day (2006-01-02) the sale belongs to. Invoice
	// numbers restart daily, so it is part of the saved file name. Empty
	// falls back to the date of the record's ISO timestamp.
	Date string
}

// day returns the day tag used to name the ticket file.
func (d Document) day() string {
	if d.Date != "" {
		return d.Date
	}
	if len(d.Record.TimestampISO) >= len("2006-01-02") {
		return d.Record.TimestampISO[:len("2006-01-02")]
	}
	return "undated"
}

// Renderer produces a printable form of a Document.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

// FileName is the name a rendered ticket is saved under.
func FileName(date string, invoiceNumber int) string {
	return fmt.Sprintf("invoice-%s-%d.txt", date, invoiceNumber)
}

// Save renders doc into dir and returns the written path.
func Save(dir string, r Renderer, doc Document) (string, error) {
	data, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("render invoice %d: %w", doc.Record.InvoiceNumber, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(doc.day(), doc.Record.InvoiceNumber))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write invoice %d: %w", doc.Record.InvoiceNumber, err)
	}
	return path, nil
}
