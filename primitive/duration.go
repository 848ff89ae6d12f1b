package primitive

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"model-mapper/options"
)

func buildDuration(raw any, cats options.CategoryEnum) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)

	if rv.Kind() == reflect.String && rv.Type() != jsonNumberType {
		if !cats.Has(options.CategoryDuration) {
			return reflect.Value{}, fmt.Errorf("%w: textual durations are disabled", ErrInvalidValue)
		}

		d, err := time.ParseDuration(rv.String())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}

		return reflect.ValueOf(d), nil
	}

	if cats.Has(options.CategoryNanoseconds) {
		if n, err := buildInt(raw, int64Type, cats); err == nil {
			return reflect.ValueOf(time.Duration(n.Int())), nil
		}
	}

	if cats.Has(options.CategorySeconds) {
		if seconds, ok := asFloat(rv); ok && !math.IsNaN(seconds) && math.Abs(seconds) < math.MaxInt64/float64(time.Second) {
			return reflect.ValueOf(time.Duration(seconds * float64(time.Second))), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("%w: expected duration, got %T", ErrInvalidValue, raw)
}

func buildUUID(raw any) (reflect.Value, error) {
	text, ok := asString(raw)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: expected UUID string, got %T", ErrInvalidValue, raw)
	}

	id, err := uuid.Parse(text)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	return reflect.ValueOf(id), nil
}

// asFloat reads a float64 or a json.Number.
func asFloat(rv reflect.Value) (float64, bool) {
	switch {
	case isFloatKind(rv.Kind()):
		return rv.Float(), true
	case rv.Kind() == reflect.String && rv.Type() == jsonNumberType:
		f, err := strconv.ParseFloat(rv.String(), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
