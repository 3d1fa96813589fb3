package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cart/pkg/errors"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		currency  Currency
		wantMinor int64
		wantCode  string
	}{
		{name: "whole cents", amount: 29.99, currency: EUR, wantMinor: 2999},
		{name: "zero", amount: 0, currency: USD, wantMinor: 0},
		{name: "rounds half away from zero", amount: 10.005, currency: GBP, wantMinor: 1001},
		{name: "rounds down below half", amount: 10.004, currency: EUR, wantMinor: 1000},
		{name: "negative amount", amount: -1.00, currency: EUR, wantCode: errors.CodeInvalidMoney},
		{name: "unsupported currency", amount: 1.00, currency: "JPY", wantCode: errors.CodeInvalidMoney},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromFloat(tt.amount, tt.currency)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMinor, m.MinorUnits())
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestNewMoneyFromMinorUnits(t *testing.T) {
	m, err := NewMoneyFromMinorUnits(2999, EUR)
	require.NoError(t, err)
	assert.Equal(t, "29.99", m.Amount().String())

	_, err = NewMoneyFromMinorUnits(-1, EUR)
	assert.True(t, errors.Is(err, errors.CodeInvalidMoney))
}

func TestMoneyAdd(t *testing.T) {
	a := mustMoney(t, 29.99, EUR)
	b := mustMoney(t, 15.50, EUR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(4549), sum.MinorUnits())

	// operands are untouched
	assert.Equal(t, int64(2999), a.MinorUnits())

	_, err = a.Add(mustMoney(t, 1.00, USD))
	assert.True(t, errors.Is(err, errors.CodeCurrencyMismatch))
}

func TestMoneySubtract(t *testing.T) {
	a := mustMoney(t, 29.99, EUR)
	b := mustMoney(t, 15.50, EUR)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1449), diff.MinorUnits())

	_, err = b.Subtract(a)
	assert.True(t, errors.Is(err, errors.CodeInvalidMoney), "negative result must fail")

	_, err = a.Subtract(mustMoney(t, 1.00, GBP))
	assert.True(t, errors.Is(err, errors.CodeCurrencyMismatch))
}

func TestMoneyMultiply(t *testing.T) {
	tests := []struct {
		name      string
		minor     int64
		factor    float64
		wantMinor int64
	}{
		{name: "integer factor is exact", minor: 2999, factor: 3, wantMinor: 8997},
		{name: "factor one", minor: 1550, factor: 1, wantMinor: 1550},
		{name: "half rounds away from zero", minor: 5, factor: 0.5, wantMinor: 3},
		{name: "tax factor", minor: 10000, factor: 1.19, wantMinor: 11900},
		{name: "zero factor", minor: 2999, factor: 0, wantMinor: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromMinorUnits(tt.minor, EUR)
			require.NoError(t, err)

			got, err := m.Multiply(tt.factor)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMinor, got.MinorUnits())
		})
	}

	m := mustMoney(t, 1.00, EUR)
	_, err := m.Multiply(-1)
	assert.True(t, errors.Is(err, errors.CodeInvalidMoney))
}

func TestMoneyComparisons(t *testing.T) {
	small := mustMoney(t, 1.00, EUR)
	big := mustMoney(t, 2.00, EUR)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	_, err = small.GreaterThan(mustMoney(t, 1.00, USD))
	assert.True(t, errors.Is(err, errors.CodeCurrencyMismatch))

	assert.True(t, ZeroMoney(EUR).IsZero())
	assert.False(t, small.IsZero())

	assert.True(t, small.Equals(mustMoney(t, 1.00, EUR)))
	assert.False(t, small.Equals(mustMoney(t, 1.00, USD)))
}

func TestMoneyDTOUsesMajorUnits(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(59.98), EUR)
	require.NoError(t, err)

	dto := m.ToDTO()
	assert.Equal(t, 59.98, dto.Amount)
	assert.Equal(t, "EUR", dto.Currency)
}

func mustMoney(t *testing.T, amount float64, currency Currency) Money {
	t.Helper()
	m, err := NewMoneyFromFloat(amount, currency)
	require.NoError(t, err)
	return m
}
