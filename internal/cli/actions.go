package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/roach88/caja/internal/export"
	"github.com/roach88/caja/internal/invoice"
	"github.com/roach88/caja/internal/receipt"
	"github.com/roach88/caja/internal/register"
)

// result is what an action produced: a JSON payload and its text rendering.
type result struct {
	data any
	text string
}

// finalizeInput carries the raw operator input for finalize.
type finalizeInput struct {
	Payment string
	Client  string
	Contact string
	Ticket  bool
}

// FinalizeResult is the JSON payload of a finalized sale.
type FinalizeResult struct {
	Sale        invoice.SaleRecord `json:"sale"`
	NextInvoice int                `json:"next_invoice"`
	TicketPath  string             `json:"ticket_path,omitempty"`
	Link        string             `json:"link,omitempty"`
}

// QuoteResult is the JSON payload of a change preview.
type QuoteResult struct {
	Totals  invoice.Totals `json:"totals"`
	Payment string         `json:"payment"`
	Change  string         `json:"change"`
}

// SendResult is the JSON payload of a message hand-off.
type SendResult struct {
	InvoiceNumber int    `json:"invoice_number"`
	Contact       string `json:"contact"`
	Message       string `json:"message"`
	Link          string `json:"link"`
}

// ExportResult is the JSON payload of a CSV export.
type ExportResult struct {
	Path  string `json:"path"`
	Sales int    `json:"sales"`
}

func (t *till) listCatalog() result {
	products := t.catalog.Products()

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCTO\tPRECIO")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, invoice.FormatMoney(p.Price))
	}
	w.Flush()

	return result{data: products, text: strings.TrimRight(buf.String(), "\n")}
}

func (t *till) addItem(ctx context.Context, id string, quantity int) (result, error) {
	p, err := t.reg.Order.AddByID(ctx, t.catalog, id, quantity)
	if err != nil {
		return result{}, err
	}
	snap := t.reg.Snapshot()
	text := fmt.Sprintf("agregado %d x %s (subtotal %s)", quantity, p.Name, invoice.FormatMoney(snap.Totals.Subtotal))
	return result{data: snap, text: text}, nil
}

func (t *till) removeItem(ctx context.Context, id string) result {
	removed := t.reg.Order.Remove(ctx, id)
	snap := t.reg.Snapshot()
	text := fmt.Sprintf("%s no está en la orden", id)
	if removed {
		text = fmt.Sprintf("eliminado %s (subtotal %s)", id, invoice.FormatMoney(snap.Totals.Subtotal))
	}
	return result{data: snap, text: text}
}

func (t *till) clearOrder(ctx context.Context, confirm func() bool) result {
	if t.reg.Order.IsEmpty() {
		return result{data: t.reg.Snapshot(), text: "la orden ya está vacía"}
	}
	if confirm != nil && !confirm() {
		return result{data: t.reg.Snapshot(), text: "orden conservada"}
	}
	t.reg.Order.Clear(ctx)
	return result{data: t.reg.Snapshot(), text: "orden borrada"}
}

func (t *till) show() result {
	snap := t.reg.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "Factura %d  %s\n", snap.InvoiceNumber, snap.Date)
	if len(snap.Items) == 0 {
		b.WriteString("(orden vacía)\n")
	} else {
		w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, item := range snap.Items {
			fmt.Fprintf(w, "%s\t%s\tx%d\t%s\n", item.ID, item.Name, item.Quantity, invoice.FormatMoney(item.Amount()))
		}
		w.Flush()
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", invoice.FormatMoney(snap.Totals.Subtotal))
	fmt.Fprintf(&b, "IVA:      %s\n", invoice.FormatMoney(snap.Totals.Tax))
	fmt.Fprintf(&b, "Total:    %s\n", invoice.FormatMoney(snap.Totals.Total))
	fmt.Fprintf(&b, "%s\n", snap.Policy)
	fmt.Fprintf(&b, "Ventas del día: %d (%s)", snap.Sales, invoice.FormatMoney(snap.DayTotal))
	if snap.Degraded {
		b.WriteString("\nAVISO: almacenamiento no disponible, no se está guardando nada")
	}
	return result{data: snap, text: b.String()}
}

func (t *till) quote(payment string) (result, error) {
	amount, err := register.ParsePayment(payment)
	if err != nil {
		return result{}, err
	}
	totals, change, err := t.reg.Quote(amount)
	if err != nil {
		return result{}, err
	}
	data := QuoteResult{
		Totals:  totals,
		Payment: amount.StringFixed(2),
		Change:  change.StringFixed(2),
	}
	text := fmt.Sprintf("Total: %s\nPago: %s\nVuelto: %s",
		invoice.FormatMoney(totals.Total), invoice.FormatMoney(amount), invoice.FormatMoney(change))
	return result{data: data, text: text}, nil
}

func (t *till) finalize(ctx context.Context, in finalizeInput) (result, error) {
	payment, err := register.ParsePayment(in.Payment)
	if err != nil {
		return result{}, err
	}
	rec, err := t.reg.Finalize(ctx, register.Request{
		Payment:    payment,
		ClientName: in.Client,
		Contact:    in.Contact,
	})
	if err != nil {
		return result{}, err
	}

	// The sale is committed. Ticket and link failures are reported, not returned.
	data := FinalizeResult{Sale: rec, NextInvoice: t.reg.Counter.Current()}
	if in.Ticket {
		path, err := receipt.Save(t.cfg.Output.Dir, receipt.TextRenderer{}, receipt.Document{
			Business: t.business(),
			Record:   rec,
			TaxRate:  t.policy.Rate,
			Date:     t.reg.Ledger.Date(),
		})
		if err != nil {
			t.logger.Error("ticket not saved", zap.Int("invoice", rec.InvoiceNumber), zap.Error(err))
		} else {
			data.TicketPath = path
		}
	}
	if rec.Contact != "" {
		link, err := t.dispatch(ctx, rec, rec.Contact)
		if err != nil {
			t.logger.Error("message link not built", zap.Int("invoice", rec.InvoiceNumber), zap.Error(err))
		} else {
			data.Link = link
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Factura No: %d\n", rec.InvoiceNumber)
	fmt.Fprintf(&b, "Total: %s\n", invoice.FormatMoney(rec.Total))
	fmt.Fprintf(&b, "Pago: %s\n", invoice.FormatMoney(rec.Payment))
	fmt.Fprintf(&b, "Vuelto: %s", invoice.FormatMoney(rec.Change))
	if data.TicketPath != "" {
		fmt.Fprintf(&b, "\nticket: %s", data.TicketPath)
	}
	if data.Link != "" {
		fmt.Fprintf(&b, "\nenlace: %s", data.Link)
	}
	return result{data: data, text: b.String()}, nil
}

// dispatch hands rec off to contact and returns the link that was produced.
func (t *till) dispatch(ctx context.Context, rec invoice.SaleRecord, contact string) (string, error) {
	var link string
	d := receipt.LinkDispatcher{
		BaseURL: t.cfg.Messaging.BaseURL,
		Open: func(l string) error {
			link = l
			return nil
		},
	}
	if err := d.Dispatch(ctx, contact, t.composer().BuildMessage(rec)); err != nil {
		return "", err
	}
	return link, nil
}

// send rebuilds the message for a recorded sale. invoiceNumber 0 means the
// latest sale. It never records a sale.
func (t *till) send(ctx context.Context, invoiceNumber int, contact string) (result, error) {
	var (
		rec invoice.SaleRecord
		ok  bool
	)
	if invoiceNumber == 0 {
		rec, ok = t.reg.Ledger.Last()
	} else {
		rec, ok = t.reg.Ledger.Find(invoiceNumber)
	}
	if !ok {
		return result{}, NewExitError(ExitFailure, "no existe esa venta hoy")
	}

	contact = strings.TrimSpace(contact)
	if contact == "" {
		contact = rec.Contact
	}
	link, err := t.dispatch(ctx, rec, contact)
	if err != nil {
		return result{}, err
	}

	data := SendResult{
		InvoiceNumber: rec.InvoiceNumber,
		Contact:       contact,
		Message:       t.composer().BuildMessage(rec),
		Link:          link,
	}
	return result{data: data, text: link}, nil
}

func (t *till) sales() result {
	records := t.reg.Ledger.All()
	// newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	if len(records) == 0 {
		return result{data: records, text: "no hay ventas hoy"}
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tFECHA\tCLIENTE\tTOTAL\tPRODUCTOS")
	for _, rec := range records {
		client := rec.ClientName
		if client == "" {
			client = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			rec.InvoiceNumber, rec.DisplayDate(), client, invoice.FormatMoney(rec.Total), rec.ItemSummary(", "))
	}
	w.Flush()
	fmt.Fprintf(&buf, "Total del día: %s", invoice.FormatMoney(t.reg.Ledger.TotalForDay()))
	return result{data: records, text: buf.String()}
}

func (t *till) exportSales() (result, error) {
	records := t.reg.Ledger.All()
	path, err := export.WriteFile(t.cfg.Output.Dir, t.reg.Ledger.Date(), records)
	if errors.Is(err, export.ErrNothingToExport) {
		return result{}, WrapExitError(ExitFailure, "", err)
	}
	if err != nil {
		return result{}, err
	}
	data := ExportResult{Path: path, Sales: len(records)}
	return result{data: data, text: fmt.Sprintf("%d ventas exportadas a %s", len(records), path)}, nil
}

func (t *till) resetSales(ctx context.Context, confirm func() bool) result {
	if !t.reg.Ledger.Reset(ctx, confirm) {
		return result{data: map[string]bool{"reset": false}, text: "ventas conservadas"}
	}
	return result{data: map[string]bool{"reset": true}, text: "ventas borradas"}
}
