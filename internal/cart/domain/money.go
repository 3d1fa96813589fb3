package domain

import (
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code supported by the cart
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

// ParseCurrency validates a currency code
func ParseCurrency(code string) (Currency, error) {
	switch Currency(code) {
	case EUR, USD, GBP:
		return Currency(code), nil
	default:
		return "", NewInvalidMoney("unsupported currency", map[string]interface{}{
			"currency": code,
		})
	}
}

// Money is an exact monetary amount stored as integer minor units
// (cents). It is immutable; every operation returns a new value.
type Money struct {
	minorUnits int64
	currency   Currency
}

// NewMoney creates Money from a major-unit decimal amount, rounding
// half away from zero to the nearest cent.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if _, err := ParseCurrency(string(currency)); err != nil {
		return Money{}, err
	}
	minor := amount.Mul(decimal.NewFromInt(100)).Round(0)
	if minor.IsNegative() {
		return Money{}, NewInvalidMoney("amount cannot be negative", map[string]interface{}{
			"amount": amount.String(),
		})
	}
	return Money{minorUnits: minor.IntPart(), currency: currency}, nil
}

// NewMoneyFromFloat creates Money from a float major-unit amount
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromMinorUnits creates Money directly from minor units
func NewMoneyFromMinorUnits(minorUnits int64, currency Currency) (Money, error) {
	if _, err := ParseCurrency(string(currency)); err != nil {
		return Money{}, err
	}
	if minorUnits < 0 {
		return Money{}, NewInvalidMoney("minor units cannot be negative", map[string]interface{}{
			"minor_units": minorUnits,
		})
	}
	return Money{minorUnits: minorUnits, currency: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency Currency) Money {
	return Money{minorUnits: 0, currency: currency}
}

// MinorUnits returns the amount in minor units (cents)
func (m Money) MinorUnits() int64 {
	return m.minorUnits
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Amount returns the amount in major units (e.g. 59.98)
func (m Money) Amount() decimal.Decimal {
	return decimal.NewFromInt(m.minorUnits).Div(decimal.NewFromInt(100))
}

// Add returns the sum of two amounts in the same currency
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{minorUnits: m.minorUnits + other.minorUnits, currency: m.currency}, nil
}

// Subtract returns the difference; the result must not be negative
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.minorUnits > m.minorUnits {
		return Money{}, NewInvalidMoney("result cannot be negative", map[string]interface{}{
			"minuend":    m.minorUnits,
			"subtrahend": other.minorUnits,
		})
	}
	return Money{minorUnits: m.minorUnits - other.minorUnits, currency: m.currency}, nil
}

// Multiply scales the amount by a factor, rounding the result half away
// from zero to the nearest minor unit. For integer factors this is exact.
func (m Money) Multiply(factor float64) (Money, error) {
	if factor < 0 {
		return Money{}, NewInvalidMoney("factor cannot be negative", map[string]interface{}{
			"factor": factor,
		})
	}
	product := decimal.NewFromInt(m.minorUnits).Mul(decimal.NewFromFloat(factor)).Round(0)
	return Money{minorUnits: product.IntPart(), currency: m.currency}, nil
}

// GreaterThan reports whether m exceeds other
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.minorUnits > other.minorUnits, nil
}

// LessThan reports whether m is below other
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.minorUnits < other.minorUnits, nil
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.minorUnits == 0
}

// Equals reports whether both amount and currency match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.minorUnits == other.minorUnits
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return NewCurrencyMismatch(m.currency, other.currency)
	}
	return nil
}

// MoneyDTO is the serializable projection of Money. Amount is the
// major-unit decimal value; minor units stay internal.
type MoneyDTO struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ToDTO returns the serializable projection
func (m Money) ToDTO() MoneyDTO {
	return MoneyDTO{
		Amount:   m.Amount().InexactFloat64(),
		Currency: string(m.currency),
	}
}
