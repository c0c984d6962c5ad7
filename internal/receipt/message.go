package receipt

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/roach88/caja/internal/invoice"
)

// DefaultBaseURL opens a chat with a phone number on WhatsApp.
const DefaultBaseURL = "https://wa.me/"

const defaultClosing = "¡Gracias por su compra!"

// Composer builds the messaging hand-off text for a sale.
type Composer struct {
	// Closing is the last line of every message.
	Closing string
}

// BuildMessage renders rec as a chat message.
func (c Composer) BuildMessage(rec invoice.SaleRecord) string {
	closing := c.Closing
	if closing == "" {
		closing = defaultClosing
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Factura No:* %d\n", rec.InvoiceNumber)
	fmt.Fprintf(&b, "*Fecha y Hora:* %s\n\n", rec.DisplayDate())
	if rec.ClientName != "" {
		fmt.Fprintf(&b, "Cliente: %s\n\n", rec.ClientName)
	}
	b.WriteString("Productos:\n")
	for _, item := range rec.Items {
		fmt.Fprintf(&b, "- %s x%d = %s\n", item.Name, item.Quantity, invoice.FormatMoney(item.Amount()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", invoice.FormatMoney(rec.Total))
	fmt.Fprintf(&b, "Pago: %s\n", invoice.FormatMoney(rec.Payment))
	fmt.Fprintf(&b, "Vuelto: %s\n\n", invoice.FormatMoney(rec.Change))
	b.WriteString(closing)
	return b.String()
}

// Dispatcher delivers a message to a contact.
type Dispatcher interface {
	Dispatch(ctx context.Context, contact, text string) error
}

// LinkDispatcher hands off by producing a pre-filled chat link.
// The operator opens it; nothing is sent automatically.
type LinkDispatcher struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Open receives the link. When nil the link is printed to Out.
	Open func(link string) error
	Out  io.Writer
}

// Link builds the chat URL for contact with text pre-filled.
func (d LinkDispatcher) Link(contact, text string) (string, error) {
	if !invoice.ValidContact(contact) {
		return "", invoice.NewInvalidContactError(contact)
	}
	base := d.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + contact + "?text=" + encodeComponent(text), nil
}

// Dispatch implements Dispatcher.
func (d LinkDispatcher) Dispatch(ctx context.Context, contact, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	link, err := d.Link(contact, text)
	if err != nil {
		return err
	}
	if d.Open != nil {
		return d.Open(link)
	}
	if d.Out == nil {
		return nil
	}
	_, err = fmt.Fprintln(d.Out, link)
	return err
}

// uriMarks are left unescaped by encodeComponent, as in a browser's
// encodeURIComponent. url.QueryEscape escapes them.
var uriMarks = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// encodeComponent percent-encodes s for a query value the way
// encodeURIComponent does: spaces as %20 and !'()* kept literal.
func encodeComponent(s string) string {
	return uriMarks.Replace(url.QueryEscape(s))
}
