package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// contactPattern accepts 8 to 15 ASCII digits with no separators.
var contactPattern = regexp.MustCompile(`^\d{8,15}$`)

// FormatMoney renders an amount as "$0.00".
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// RoundCents rounds to two decimal places.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ValidContact reports whether s is a usable messaging destination.
func ValidContact(s string) bool {
	return contactPattern.MatchString(s)
}

// NormalizeName trims, collapses inner whitespace and applies NFC so that
// composed and decomposed accents are stored identically.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
