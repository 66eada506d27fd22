package money

// Code represents a currency code (e.g., "USD", "EUR").
type Code string

// Common currency codes
const (
	USD Code = "USD" // US Dollar
	EUR Code = "EUR" // Euro
	GBP Code = "GBP" // British Pound
	JPY Code = "JPY" // Japanese Yen
	CHF Code = "CHF" // Swiss Franc
)

// IsValid checks if the currency code is a well-formed ISO 4217 code.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'Z' &&
		c[1] >= 'A' && c[1] <= 'Z' &&
		c[2] >= 'A' && c[2] <= 'Z'
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}

// ToCurrency converts a Code to a Currency with its standard decimals.
func (c Code) ToCurrency() Currency {
	switch c {
	case USD:
		return USDCurrency
	case EUR:
		return EURCurrency
	case GBP:
		return GBPCurrency
	case JPY:
		return JPYCurrency
	case CHF:
		return CHFCurrency
	default:
		return Currency{Code: c, Decimals: 2}
	}
}

// DecimalComma reports whether amounts in this currency are
// conventionally written with a decimal comma (e.g. "12,50 EUR").
// Used to resolve ambiguous separators when parsing amount strings.
func (c Code) DecimalComma() bool {
	switch c {
	case EUR, CHF:
		return true
	default:
		return false
	}
}

// Currency represents a monetary unit with its standard decimal places.
type Currency struct {
	Code     Code // 3-letter ISO 4217 code (e.g., "USD")
	Decimals int  // Number of decimal places (0-8)
}

// IsValid checks if the currency is valid.
func (c Currency) IsValid() bool {
	if c.Decimals < 0 || c.Decimals > 8 {
		return false
	}
	return c.Code.IsValid()
}

// String returns the currency code as a string.
func (c Currency) String() string { return string(c.Code) }

// Common currency instances
var (
	USDCurrency = Currency{Code: USD, Decimals: 2}
	EURCurrency = Currency{Code: EUR, Decimals: 2}
	GBPCurrency = Currency{Code: GBP, Decimals: 2}
	JPYCurrency = Currency{Code: JPY, Decimals: 0} // Japanese Yen has no decimal places
	CHFCurrency = Currency{Code: CHF, Decimals: 2}
)

// DefaultCurrency is the default currency (USD).
var DefaultCurrency = USDCurrency

// DefaultCode is the default currency code (USD).
var DefaultCode = USD
