package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a human-entered amount string into Money, applying
// locale heuristics for the decimal separator:
//
//   - When both '.' and ',' occur, the rightmost separator is the
//     decimal mark and the other is a thousands separator
//     ("1.234,56" -> 1234.56, "1,234.56" -> 1234.56).
//   - When a single separator occurs, it is ambiguous ("1.234" could
//     be one-point-two-three-four or one thousand two hundred
//     thirty-four). The tie is broken by the currency's convention:
//     decimal-comma currencies (e.g. EUR) read '.' as a thousands
//     separator and ',' as the decimal mark; all others the reverse.
//
// Negative amounts are rejected: Money is non-negative by invariant.
func Parse(s string, code Code) (*Money, error) {
	if !code.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSuffix(cleaned, string(code))
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty amount string", ErrInvalidAmount)
	}
	if strings.HasPrefix(cleaned, "-") {
		return nil, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, s)
	}

	normalized, err := normalizeSeparators(cleaned, code)
	if err != nil {
		return nil, err
	}

	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return New(amount, code)
}

// normalizeSeparators rewrites an amount string into canonical
// dot-decimal form with no grouping separators.
func normalizeSeparators(s string, code Code) (string, error) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	var decimal, grouping byte
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: rightmost wins as decimal mark.
		if lastDot > lastComma {
			decimal, grouping = '.', ','
		} else {
			decimal, grouping = ',', '.'
		}
	case lastDot >= 0 || lastComma >= 0:
		// One separator: currency convention breaks the tie.
		if code.DecimalComma() {
			decimal, grouping = ',', '.'
		} else {
			decimal, grouping = '.', ','
		}
	default:
		// Plain integer string.
		return s, nil
	}

	if strings.Count(s, string(decimal)) > 1 {
		// More than one occurrence means the "decimal" separator is
		// actually grouping the other way around ("1.234.567" in EUR).
		decimal, grouping = grouping, decimal
	}
	if strings.Count(s, string(decimal)) > 1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	s = strings.ReplaceAll(s, string(grouping), "")
	s = strings.Replace(s, string(decimal), ".", 1)
	return s, nil
}
