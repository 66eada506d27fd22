package money

import "errors"

// Common money package errors
var (
	// ErrCurrencyMismatch is returned when performing operations on money with
	// different currencies.
	ErrCurrencyMismatch = errors.New("mismatched currencies")

	// ErrNegativeResult is returned when an operation would result in a negative amount.
	ErrNegativeResult = errors.New("resulting amount cannot be negative")

	// ErrDivisionByZero is returned when dividing a monetary amount by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNegativeFactor is returned when multiplying or dividing by a negative scalar.
	ErrNegativeFactor = errors.New("factor cannot be negative")

	// ErrInvalidAmount is returned when an invalid amount is provided.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned when a currency code is invalid.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrAmountOverflow is returned when an amount exceeds the maximum safe integer value.
	ErrAmountOverflow = errors.New("amount exceeds maximum safe integer value")
)
