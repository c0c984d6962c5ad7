// Package export writes the daily ledger as delimited text and reads it back.
//
// The format is one header row followed by one row per sale, oldest first:
//
//	"Factura","Fecha","Cliente","Total","Pago","Vuelto","Items"
//
// Every field is double-quoted and embedded quotes are doubled. Amounts are
// written with two decimals. Items are "name xN" joined by " | ".
package export
