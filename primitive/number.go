package primitive

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"

	"model-mapper/options"
)

var int64Type = reflect.TypeOf(int64(0))

// decimalText is a plain decimal number with an optional exponent. It keeps out
// the extra forms strconv accepts: NaN, Inf, hex floats and digit separators.
var decimalText = regexp.MustCompile(`^[-+]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

func isSignedKind(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
}

func isUnsignedKind(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// textAllowed reports whether a textual number may be parsed. json.Number is a
// number that only looks like a string, so it is always accepted.
func textAllowed(rv reflect.Value, cats options.CategoryEnum) bool {
	return rv.Type() == jsonNumberType || cats.Has(options.CategoryTextNumber)
}

// buildInt accepts any Go integer, an integral float (JSON numbers decode as float64),
// json.Number, or a string that fully parses as a base-10 integer. The result is
// range-checked against the target width.
func buildInt(raw any, target reflect.Type, cats options.CategoryEnum) (reflect.Value, error) {
	if target == nil {
		target = int64Type
	}

	out := reflect.New(target).Elem()
	unsigned := isUnsignedKind(target.Kind())
	rv := reflect.ValueOf(raw)

	switch {
	case isSignedKind(rv.Kind()):
		return setInt(out, rv.Int(), unsigned)

	case isUnsignedKind(rv.Kind()):
		return setUint(out, rv.Uint(), unsigned)

	case isFloatKind(rv.Kind()):
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, f)
		}

		if unsigned {
			if f < 0 || f >= math.MaxUint64 {
				return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOutOfRange, f, target)
			}

			return setUint(out, uint64(f), unsigned)
		}

		if f < math.MinInt64 || f >= math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOutOfRange, f, target)
		}

		return setInt(out, int64(f), unsigned)

	case rv.Kind() == reflect.String:
		if !textAllowed(rv, cats) {
			return reflect.Value{}, fmt.Errorf("%w: textual numbers are disabled", ErrInvalidValue)
		}

		if unsigned {
			u, err := strconv.ParseUint(rv.String(), 10, 64)
			if err == nil {
				return setUint(out, u, unsigned)
			}

			if rv.Type() != jsonNumberType {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
		} else {
			n, err := strconv.ParseInt(rv.String(), 10, 64)
			if err == nil {
				return setInt(out, n, unsigned)
			}

			if rv.Type() != jsonNumberType {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
		}

		// json.Number such as 3.0 or 1e3 or -1: same rules as the float64 it stands for.
		f, err := strconv.ParseFloat(rv.String(), 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}

		return buildInt(f, target, cats)
	}

	return reflect.Value{}, fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, raw)
}

func setInt(out reflect.Value, n int64, unsigned bool) (reflect.Value, error) {
	if unsigned {
		if n < 0 {
			return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOutOfRange, n, out.Type())
		}

		return setUint(out, uint64(n), unsigned)
	}

	if out.OverflowInt(n) {
		return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOutOfRange, n, out.Type())
	}

	out.SetInt(n)

	return out, nil
}

func setUint(out reflect.Value, u uint64, unsigned bool) (reflect.Value, error) {
	if !unsigned {
		if u > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOutOfRange, u, out.Type())
		}

		return setInt(out, int64(u), unsigned)
	}

	if out.OverflowUint(u) {
		return reflect.Value{}, fmt.Errorf("%w: %d for %s", ErrOutOfRange, u, out.Type())
	}

	out.SetUint(u)

	return out, nil
}

// buildFloat builds a float32 (bits == 32) or float64. Any Go number is accepted,
// float64 input is narrowed for float32 targets.
func buildFloat(raw any, bits int, cats options.CategoryEnum) (reflect.Value, error) {
	var f float64

	rv := reflect.ValueOf(raw)

	switch {
	case isFloatKind(rv.Kind()):
		f = rv.Float()

	case isSignedKind(rv.Kind()):
		f = float64(rv.Int())

	case isUnsignedKind(rv.Kind()):
		f = float64(rv.Uint())

	case rv.Kind() == reflect.String:
		if !textAllowed(rv, cats) {
			return reflect.Value{}, fmt.Errorf("%w: textual numbers are disabled", ErrInvalidValue)
		}

		if !decimalText.MatchString(rv.String()) {
			return reflect.Value{}, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidValue, rv.String())
		}

		parsed, err := strconv.ParseFloat(rv.String(), bits)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}

		f = parsed

	default:
		return reflect.Value{}, fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, raw)
	}

	if bits == 32 {
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return reflect.Value{}, fmt.Errorf("%w: %v for float32", ErrOutOfRange, f)
		}

		return reflect.ValueOf(float32(f)), nil
	}

	return reflect.ValueOf(f), nil
}
