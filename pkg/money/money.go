package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxTextLen bounds amount text; longer input is not a till amount.
const maxTextLen = 32

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)

	// MaxAmount is the largest amount that can be tendered or recorded. It
	// keeps every journal column well inside int64 cents.
	MaxAmount = decimal.NewFromInt(1_000_000_000)
)

// Zero returns a zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Round2 rounds an amount to two decimal places, halves going up
// (floor(x*100 + 0.5) / 100).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Add(half).Floor().Div(hundred)
}

// NonNegative clamps an amount at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Coerce converts an untyped value read from a remote payload into an amount.
// Numbers and numeric strings are accepted; a comma decimal separator is
// treated as a dot. Anything else yields zero.
func Coerce(v any) decimal.Decimal {
	d, _ := Parse(v)
	return d
}

// Parse is Coerce with an explicit flag telling whether the value was numeric.
func Parse(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return val, true
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero, false
		}
		return *val, true
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat32(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int32:
		return decimal.NewFromInt32(val), true
	case int64:
		return decimal.NewFromInt(val), true
	case uint:
		return decimal.NewFromInt(int64(val)), true
	case json.Number:
		return parseNumber(val)
	case string:
		return ParseString(val)
	default:
		return decimal.Zero, false
	}
}

// ParseString parses user or wire text such as "12.50", "12,50" or " 7 ".
// Exponents ("1e3") and text longer than 32 characters are rejected.
func ParseString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxTextLen || strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseNumber reads a JSON number. Exponent forms go through float64 so a huge
// exponent cannot blow up the decimal scale.
func parseNumber(n json.Number) (decimal.Decimal, bool) {
	if !strings.ContainsAny(n.String(), "eE") {
		return ParseString(n.String())
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// InRange reports whether an amount is within [-MaxAmount, MaxAmount].
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// FromCents converts a minor-unit amount to a decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// ToCents converts an amount to minor units after rounding to two places.
func ToCents(d decimal.Decimal) int64 {
	return Round2(d).Mul(hundred).IntPart()
}

// Format renders an amount with exactly two decimals, e.g. "23.50".
func Format(d decimal.Decimal) string {
	return Round2(d).StringFixed(2)
}

// FormatWithSymbol renders an amount prefixed with a currency symbol.
func FormatWithSymbol(d decimal.Decimal, symbol string) string {
	return fmt.Sprintf("%s%s", symbol, Format(d))
}
