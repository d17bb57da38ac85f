// Package money provides the Money value object. Amounts are stored as
// integers in the currency's smallest unit so that ledger arithmetic is exact.
package money

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/corebank/ledger/pkg/currency"
	"github.com/corebank/ledger/pkg/domain/common"
)

// Amount is a monetary amount in the smallest currency unit (e.g. cents).
type Amount = int64

// Money represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit.
//   - Currency code must be a supported ISO 4217 code.
//   - All arithmetic operations require matching currencies.
type Money struct {
	amount   Amount
	currency currency.Code
}

// New creates a Money value from a major-unit amount (e.g. dollars).
// Invariants enforced:
//   - Currency code must be valid and supported.
//   - Amount must not have more decimal places than the currency allows.
func New(amount float64, code currency.Code) (Money, error) {
	if code == "" {
		code = currency.DefaultCurrency
	}
	if !currency.IsValidCurrencyFormat(string(code)) || !currency.IsSupported(string(code)) {
		return Money{}, common.ErrInvalidCurrencyCode
	}
	smallest, err := toSmallestUnit(amount, string(code))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: smallest, currency: code}, nil
}

// NewFromData creates a Money value directly from a smallest-unit amount.
// Used for hydration from the store; it bypasses the precision check but
// still validates the currency code.
func NewFromData(amount int64, code string) (Money, error) {
	if code == "" {
		code = string(currency.DefaultCurrency)
	}
	if !currency.IsValidCurrencyFormat(code) {
		return Money{}, common.ErrInvalidCurrencyCode
	}
	return Money{amount: amount, currency: currency.Code(code)}, nil
}

// Zero returns a zero Money value in the given currency.
func Zero(code currency.Code) Money {
	return Money{amount: 0, currency: code}
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() Amount {
	return m.amount
}

// AmountFloat returns the amount in the major currency unit.
func (m Money) AmountFloat() float64 {
	meta, err := currency.Get(string(m.currency))
	if err != nil {
		return float64(m.amount)
	}
	return float64(m.amount) / math.Pow10(meta.Decimals)
}

// Currency returns the currency code.
func (m Money) Currency() currency.Code {
	return m.currency
}

// Add returns the sum of two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, common.ErrCurrencyMismatch
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of two Money values of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, common.ErrCurrencyMismatch
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Negate returns the value with the sign flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Equals reports whether both values have the same currency and amount.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// GreaterThan reports whether m > other. Currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, common.ErrCurrencyMismatch
	}
	return m.amount > other.amount, nil
}

// LessThan reports whether m < other. Currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, common.ErrCurrencyMismatch
	}
	return m.amount < other.amount, nil
}

// IsSameCurrency reports whether both values share a currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// String renders the value with the currency's full minor-unit precision.
// Amounts are never rounded below the minor unit, so a real-money discrepancy
// is always visible.
func (m Money) String() string {
	meta, err := currency.Get(string(m.currency))
	if err != nil {
		return fmt.Sprintf("%d %s", m.amount, m.currency)
	}
	return fmt.Sprintf("%.*f %s", meta.Decimals, m.AmountFloat(), m.currency)
}

// toSmallestUnit converts a major-unit amount to the smallest currency unit
// using big.Rat to avoid floating-point drift.
func toSmallestUnit(amount float64, code string) (int64, error) {
	meta, err := currency.Get(code)
	if err != nil {
		return 0, common.ErrInvalidCurrencyCode
	}

	amountStr := fmt.Sprintf("%.10f", amount)
	if parts := strings.Split(amountStr, "."); len(parts) > 1 {
		decimals := strings.TrimRight(parts[1], "0")
		if len(decimals) > meta.Decimals {
			return 0, fmt.Errorf("%w: more than %d decimal places",
				common.ErrInvalidAmount, meta.Decimals)
		}
	}

	amountRat, ok := new(big.Rat).SetString(fmt.Sprintf("%.*f", meta.Decimals, amount))
	if !ok {
		return 0, fmt.Errorf("%w: unparseable amount %f", common.ErrInvalidAmount, amount)
	}
	multiplier := int64(math.Pow10(meta.Decimals))
	smallestRat := new(big.Rat).Mul(amountRat, big.NewRat(multiplier, 1))
	if !smallestRat.IsInt() {
		return 0, fmt.Errorf("%w: more than %d decimal places",
			common.ErrInvalidAmount, meta.Decimals)
	}
	num := smallestRat.Num()
	if !num.IsInt64() {
		return 0, fmt.Errorf("%w: amount exceeds maximum safe value", common.ErrInvalidAmount)
	}
	return num.Int64(), nil
}
