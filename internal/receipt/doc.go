// Package receipt turns finalized sales into customer-facing output.
//
// The invoicing core hands over structured data only. This package owns
// the layout of the printable ticket, the text of the messaging hand-off and
// the link that opens a pre-filled chat.
//
// # Collaborators
//
//   - Renderer: Document -> bytes (TextRenderer draws a fixed-width ticket)
//   - Composer: SaleRecord -> message text
//   - Dispatcher: (contact, text) -> delivery (LinkDispatcher prints a wa.me link)
//
// Sending a message never registers a sale. Only a successful finalize does.
package receipt
