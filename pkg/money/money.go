// Package money provides functionality for handling monetary values.
//
// It is a value object that represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit (e.g., cents for USD).
//   - Amount is never negative; operations that would go below zero fail.
//   - Currency code must be valid ISO 4217 (3 uppercase letters).
//   - All arithmetic operations require matching currencies.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
)

// Amount represents a monetary amount as an integer in the
// smallest currency unit (e.g., cents for USD).
type Amount = int64

// Money represents a non-negative monetary value in a specific currency.
// It is constructed fresh on every arithmetic result and never mutated in place.
type Money struct {
	amount   Amount
	currency Currency
}

// New creates a new Money value object with the given amount and currency.
// The currency parameter can be either a Code, Currency, or string (e.g., "USD").
// Invariants enforced:
//   - Currency must be valid (valid ISO 4217 code and valid decimal places).
//   - Amount must not be negative.
//   - Amount is converted to the smallest currency unit.
//
// Returns Money or an error if any invariant is violated.
func New(amount float64, currency any) (*Money, error) {
	c, err := resolveCurrency(currency)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative, got %v", ErrInvalidAmount, amount)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	smallestUnit, err := convertToSmallestUnit(amount, c)
	if err != nil {
		return nil, err
	}

	return &Money{amount: smallestUnit, currency: c}, nil
}

// NewFromSmallestUnit creates a new Money object from the smallest currency unit.
// This is the hydration path for repositories and tests.
func NewFromSmallestUnit(amount int64, currency any) (*Money, error) {
	c, err := resolveCurrency(currency)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative, got %d", ErrInvalidAmount, amount)
	}
	return &Money{amount: amount, currency: c}, nil
}

// Zero creates a Money object with zero amount in the specified currency.
func Zero(currency any) *Money {
	c, err := resolveCurrency(currency)
	if err != nil {
		c = DefaultCurrency
	}
	return &Money{amount: 0, currency: c}
}

// Must creates a Money object from the given amount and currency.
// Panics if any invariant is violated. Intended for constants and tests.
func Must(amount float64, currency any) *Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(fmt.Sprintf("money.Must(%v, %v): %v", amount, currency, err))
	}
	return m
}

// resolveCurrency normalizes the accepted currency argument types.
func resolveCurrency(currency any) (Currency, error) {
	var c Currency
	switch v := currency.(type) {
	case string:
		code := Code(v)
		if !code.IsValid() {
			return c, fmt.Errorf("%w: %q", ErrInvalidCurrency, v)
		}
		c = code.ToCurrency()
	case Code:
		c = v.ToCurrency()
	case Currency:
		c = v
	default:
		return c, fmt.Errorf(
			"invalid currency type: %T, expected string, Code, or Currency",
			currency,
		)
	}
	if !c.IsValid() {
		return c, fmt.Errorf("%w: %v", ErrInvalidCurrency, c)
	}
	return c, nil
}

// Amount returns the amount of the Money object in the smallest currency unit.
func (m *Money) Amount() Amount {
	return m.amount
}

// AmountFloat returns the amount as a float64 in the main currency unit
// (e.g., dollars for USD).
func (m *Money) AmountFloat() float64 {
	amount := new(big.Rat).SetInt64(m.amount)
	divisor := new(big.Rat).SetFloat64(math.Pow10(m.currency.Decimals))
	result := new(big.Rat).Quo(amount, divisor)

	floatResult, _ := result.Float64()
	return floatResult
}

// Currency returns the currency of the Money object.
func (m *Money) Currency() Currency {
	return m.currency
}

// CurrencyCode returns the currency code of the Money object.
func (m *Money) CurrencyCode() Code {
	return m.currency.Code
}

// IsSameCurrency checks if the current Money object has the same currency as another.
func (m *Money) IsSameCurrency(other *Money) bool {
	return m.currency == other.currency
}

// Add returns a new Money object with the sum of amounts.
// Invariants enforced:
//   - Currencies must match.
//   - Result must not overflow int64.
func (m *Money) Add(other *Money) (*Money, error) {
	if !m.IsSameCurrency(other) {
		return nil, fmt.Errorf("%w: cannot add %s and %s",
			ErrCurrencyMismatch, m.currency.Code, other.currency.Code)
	}
	sum := m.amount + other.amount
	if sum < m.amount {
		return nil, ErrAmountOverflow
	}
	return &Money{amount: sum, currency: m.currency}, nil
}

// Subtract returns a new Money object with the difference of amounts.
// Invariants enforced:
//   - Currencies must match.
//   - Result must not be negative.
func (m *Money) Subtract(other *Money) (*Money, error) {
	if !m.IsSameCurrency(other) {
		return nil, fmt.Errorf("%w: cannot subtract %s from %s",
			ErrCurrencyMismatch, other.currency.Code, m.currency.Code)
	}
	diff := m.amount - other.amount
	if diff < 0 {
		return nil, fmt.Errorf("%w: %s - %s", ErrNegativeResult, m, other)
	}
	return &Money{amount: diff, currency: m.currency}, nil
}

// Multiply multiplies the Money amount by a scalar factor.
// The result is rounded to the nearest smallest unit.
// Invariants enforced:
//   - Factor must not be negative.
//   - Result must not overflow int64.
func (m *Money) Multiply(factor float64) (*Money, error) {
	if factor < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeFactor, factor)
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, factor)
	}

	amount := new(big.Rat).SetInt64(m.amount)
	f := new(big.Rat).SetFloat64(factor)
	result := new(big.Rat).Mul(amount, f)

	resultFloat, _ := result.Float64()
	// float64(MaxInt64) is exactly 2^63, so equality already overflows.
	if resultFloat >= float64(math.MaxInt64) {
		return nil, ErrAmountOverflow
	}
	rounded := int64(math.Round(resultFloat))

	return &Money{amount: rounded, currency: m.currency}, nil
}

// Divide divides the Money amount by a scalar divisor.
// The result is rounded to the nearest smallest unit.
// Invariants enforced:
//   - Divisor must not be zero.
//   - Divisor must not be negative.
//   - Result must not overflow int64.
func (m *Money) Divide(divisor float64) (*Money, error) {
	if divisor == 0 {
		return nil, ErrDivisionByZero
	}
	if divisor < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeFactor, divisor)
	}

	amount := new(big.Rat).SetInt64(m.amount)
	d := new(big.Rat).SetFloat64(divisor)
	result := new(big.Rat).Quo(amount, d)

	resultFloat, _ := result.Float64()
	if resultFloat >= float64(math.MaxInt64) {
		return nil, ErrAmountOverflow
	}
	rounded := int64(math.Round(resultFloat))

	return &Money{amount: rounded, currency: m.currency}, nil
}

// Percentage returns the given percentage of the amount,
// rounded to the nearest smallest unit (e.g. 2.9% of 100.00 USD = 2.90 USD).
// The percentage must not be negative.
func (m *Money) Percentage(pct float64) (*Money, error) {
	if pct < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeFactor, pct)
	}
	return m.Multiply(pct / 100)
}

// Equals checks if the current Money object is equal to another Money object.
// Money of different currencies is never equal.
func (m *Money) Equals(other *Money) bool {
	if m == nil || other == nil {
		return false
	}
	return m.currency == other.currency && m.amount == other.amount
}

// GreaterThan checks if the current Money object is greater than another.
// Returns an error if currencies do not match.
func (m *Money) GreaterThan(other *Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, fmt.Errorf("%w: cannot compare %s and %s",
			ErrCurrencyMismatch, m.currency.Code, other.currency.Code)
	}
	return m.amount > other.amount, nil
}

// GreaterThanOrEqual checks if the current Money object is greater than
// or equal to another. Returns an error if currencies do not match.
func (m *Money) GreaterThanOrEqual(other *Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, fmt.Errorf("%w: cannot compare %s and %s",
			ErrCurrencyMismatch, m.currency.Code, other.currency.Code)
	}
	return m.amount >= other.amount, nil
}

// LessThan checks if the current Money object is less than another.
// Returns an error if currencies do not match.
func (m *Money) LessThan(other *Money) (bool, error) {
	gte, err := m.GreaterThanOrEqual(other)
	if err != nil {
		return false, err
	}
	return !gte, nil
}

// LessThanOrEqual checks if the current Money object is less than
// or equal to another. Returns an error if currencies do not match.
func (m *Money) LessThanOrEqual(other *Money) (bool, error) {
	gt, err := m.GreaterThan(other)
	if err != nil {
		return false, err
	}
	return !gt, nil
}

// IsPositive returns true if the Money is not nil and its amount is greater than zero.
func (m *Money) IsPositive() bool {
	return m != nil && m.amount > 0
}

// IsZero returns true if the Money is nil or its amount is zero.
func (m *Money) IsZero() bool {
	return m == nil || m.amount == 0
}

// String returns a string representation of the Money object.
func (m *Money) String() string {
	return fmt.Sprintf("%.*f %s", m.currency.Decimals, m.AmountFloat(), m.currency.Code)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"amount":   m.amount,
		"currency": m.currency.Code,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var aux struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	code := Code(aux.Currency)
	if !code.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, aux.Currency)
	}
	if aux.Amount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, aux.Amount)
	}
	m.amount = aux.Amount
	m.currency = code.ToCurrency()
	return nil
}

// convertToSmallestUnit converts a float64 amount to the smallest currency unit.
// This ensures precision by avoiding floating-point arithmetic issues.
func convertToSmallestUnit(amount float64, currency Currency) (int64, error) {
	factor := new(big.Rat).SetFloat64(math.Pow10(currency.Decimals))
	amountRat := new(big.Rat).SetFloat64(amount)
	result := new(big.Rat).Mul(amountRat, factor)

	resultFloat, _ := result.Float64()
	if resultFloat >= float64(math.MaxInt64) {
		return 0, ErrAmountOverflow
	}
	return int64(math.Round(resultFloat)), nil
}
