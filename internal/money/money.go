package money

import "github.com/shopspring/decimal"

// Amount is the monetary value type used throughout the pricing core. It is an
// arbitrary-precision decimal; binary floats never touch money.
type Amount = decimal.Decimal

// DefaultPlaces is the number of minor-unit digits amounts are rounded to.
const DefaultPlaces int32 = 2

var half = decimal.New(5, -1)

// Zero returns the zero amount.
func Zero() Amount {
	return decimal.Zero
}

// New builds an amount from an integer value and exponent, e.g. New(1099, -2) is 10.99.
func New(value int64, exp int32) Amount {
	return decimal.New(value, exp)
}

// FromInt builds a whole-unit amount.
func FromInt(v int64) Amount {
	return decimal.NewFromInt(v)
}

// MustParse parses a decimal string and panics on malformed input. Intended for
// fixtures and tests.
func MustParse(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundTo rounds half-up to the given number of decimal places: ties move toward
// positive infinity, so 0.005 becomes 0.01 and -0.005 becomes 0.00. This is the one
// rounding rule of the pricing core; every monetary contribution passes through it
// exactly once before it is accumulated or stored.
func RoundTo(a Amount, places int32) Amount {
	return a.Shift(places).Add(half).Floor().Shift(-places)
}

// Round applies RoundTo with DefaultPlaces.
func Round(a Amount) Amount {
	return RoundTo(a, DefaultPlaces)
}

// Equal reports whether two amounts carry the same numeric value regardless of
// internal exponent.
func Equal(a, b Amount) bool {
	return a.Cmp(b) == 0
}
