package primitive

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"

	"model-mapper/options"
)

// Decimal is an arbitrary-precision number with an explicit not-a-number state.
// The zero value is the number 0.
type Decimal struct {
	value decimal.Decimal
	nan   bool
}

// NaN is the sentinel produced when a numeric string cannot be parsed.
var NaN = Decimal{nan: true}

// NewDecimal wraps d.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{value: d}
}

// MustDecimal parses s and panics on failure. Intended for tests and constants.
func MustDecimal(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}

	return Decimal{value: d}
}

// IsNaN reports whether d is the not-a-number sentinel.
func (d Decimal) IsNaN() bool {
	return d.nan
}

// Decimal returns the underlying value, zero for NaN.
func (d Decimal) Decimal() decimal.Decimal {
	return d.value
}

// Equal compares two decimals numerically; NaN equals only NaN.
func (d Decimal) Equal(other Decimal) bool {
	if d.nan || other.nan {
		return d.nan == other.nan
	}

	return d.value.Equal(other.value)
}

func (d Decimal) String() string {
	if d.nan {
		return "NaN"
	}

	return d.value.String()
}

func buildDecimal(raw any, cats options.CategoryEnum) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)

	if rv.Kind() == reflect.String {
		d, err := decimal.NewFromString(rv.String())
		if err != nil {
			return reflect.ValueOf(NaN), nil
		}

		return reflect.ValueOf(Decimal{value: d}), nil
	}

	if !cats.Has(options.CategoryNumericDecimal) {
		return reflect.Value{}, fmt.Errorf("%w: numeric decimals are disabled", ErrInvalidValue)
	}

	switch {
	case isFloatKind(rv.Kind()):
		return reflect.ValueOf(Decimal{value: decimal.NewFromFloat(rv.Float())}), nil
	case isSignedKind(rv.Kind()):
		return reflect.ValueOf(Decimal{value: decimal.NewFromInt(rv.Int())}), nil
	case isUnsignedKind(rv.Kind()):
		return reflect.ValueOf(Decimal{value: decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0)}), nil
	case rv.Kind() == reflect.Bool:
		if rv.Bool() {
			return reflect.ValueOf(Decimal{value: decimal.NewFromInt(1)}), nil
		}

		return reflect.ValueOf(Decimal{value: decimal.Zero}), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: expected decimal, got %T", ErrInvalidValue, raw)
}
