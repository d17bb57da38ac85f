// Package utils holds small pure helpers with no hidden shared state.
package utils

import (
	"fmt"
	"math/rand"
	"net/mail"
	"strings"

	"github.com/corebank/ledger/pkg/currency"
	"github.com/corebank/ledger/pkg/domain/money"
)

// MaskEmail redacts the local part of an email for display to other users:
// the first two characters are kept, the rest of the local part becomes
// "***", and the domain is left verbatim. Addresses whose local part is
// shorter than two characters are returned unchanged, matching the
// behaviour of the `(.{2})(.*)(@.*)` replacement this mirrors.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 2 {
		return email
	}
	return email[:2] + "***" + email[at:]
}

// IsEmail returns true if the string is a valid email address.
func IsEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// FormatAmount renders a Money value for display with the currency symbol
// and full minor-unit precision, e.g. "$1234.56". Falls back to the bare
// String form for unknown currencies.
func FormatAmount(m money.Money) string {
	meta, err := currency.Get(string(m.Currency()))
	if err != nil {
		return m.String()
	}
	return fmt.Sprintf("%s%.*f", meta.Symbol, meta.Decimals, m.AmountFloat())
}

// GenerateAccountNumber returns a random 10-digit account number. Uniqueness
// is enforced by the store's unique index, not here.
func GenerateAccountNumber() string {
	return fmt.Sprintf("%010d", rand.Int63n(10_000_000_000))
}
