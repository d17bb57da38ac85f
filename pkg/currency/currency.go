// Package currency defines the ISO 4217 currency code type and the metadata
// registry used for minor-unit precision and display formatting.
package currency

import (
	"fmt"
	"regexp"
)

// Code is an ISO 4217 currency code (3 uppercase letters).
type Code string

// Commonly used currency codes.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	KWD Code = "KWD"
	EGP Code = "EGP"
	CAD Code = "CAD"
	AUD Code = "AUD"
	CHF Code = "CHF"
	CNY Code = "CNY"
	INR Code = "INR"
)

const (
	// DefaultCurrency is the fallback currency code.
	DefaultCurrency = USD
	// DefaultDecimals is the default number of decimal places for currencies.
	DefaultDecimals = 2
)

// Meta holds currency-specific metadata.
type Meta struct {
	Code     Code
	Decimals int
	Symbol   string
}

var supported = map[Code]Meta{
	USD: {Code: USD, Decimals: 2, Symbol: "$"},
	EUR: {Code: EUR, Decimals: 2, Symbol: "€"},
	GBP: {Code: GBP, Decimals: 2, Symbol: "£"},
	JPY: {Code: JPY, Decimals: 0, Symbol: "¥"},
	KWD: {Code: KWD, Decimals: 3, Symbol: "د.ك"},
	EGP: {Code: EGP, Decimals: 2, Symbol: "£"},
	CAD: {Code: CAD, Decimals: 2, Symbol: "C$"},
	AUD: {Code: AUD, Decimals: 2, Symbol: "A$"},
	CHF: {Code: CHF, Decimals: 2, Symbol: "CHF"},
	CNY: {Code: CNY, Decimals: 2, Symbol: "¥"},
	INR: {Code: INR, Decimals: 2, Symbol: "₹"},
}

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// IsValidCurrencyFormat reports whether the string has the shape of an
// ISO 4217 code (3 uppercase letters). It does not imply the code is supported.
func IsValidCurrencyFormat(code string) bool {
	return codePattern.MatchString(code)
}

// IsSupported reports whether the currency code is registered.
func IsSupported(code string) bool {
	_, ok := supported[Code(code)]
	return ok
}

// Get returns the metadata for the given currency code.
func Get(code string) (Meta, error) {
	meta, ok := supported[Code(code)]
	if !ok {
		return Meta{}, fmt.Errorf("unsupported currency: %q", code)
	}
	return meta, nil
}

// ListSupported returns all registered currency codes.
func ListSupported() []Code {
	codes := make([]Code, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	return codes
}

// String returns the code as a plain string.
func (c Code) String() string {
	return string(c)
}
