package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPriceAmount bounds every price the catalog will accept
var MaxPriceAmount = decimal.NewFromInt(100000)

// Currency represents an ISO 4217 currency code
type Currency string

const (
	RUB Currency = "RUB" // Russian Ruble (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
)

// DefaultCurrency is the default currency for the catalog
const DefaultCurrency = RUB

// Money is a value object representing a monetary amount.
// It is immutable - construction validates the amount and currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money with the specified amount and currency.
// Amounts are rounded to two decimal places and must lie in
// [0, MaxPriceAmount]. The currency code must be exactly three letters.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if err := validateCurrency(currency); err != nil {
		return Money{}, err
	}
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return Money{}, fmt.Errorf("amount cannot be negative: %s", rounded)
	}
	if rounded.GreaterThan(MaxPriceAmount) {
		return Money{}, fmt.Errorf("amount %s exceeds maximum %s", rounded, MaxPriceAmount)
	}
	return Money{amount: rounded, currency: currency}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equals returns true when both amount and currency match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a human-readable representation
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

func validateCurrency(currency Currency) error {
	if len(currency) != 3 {
		return fmt.Errorf("currency code must be exactly 3 letters, got %q", currency)
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("currency code must be uppercase letters, got %q", currency)
		}
	}
	return nil
}
