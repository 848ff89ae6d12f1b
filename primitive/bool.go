package primitive

import (
	"fmt"
	"reflect"
	"strings"

	"model-mapper/options"
)

var (
	truthy = map[string]struct{}{"true": {}, "t": {}, "1": {}}
	falsy  = map[string]struct{}{"false": {}, "f": {}, "0": {}}
)

func buildBool(raw any, cats options.CategoryEnum) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)

	switch {
	case rv.Kind() == reflect.Bool:
		return reflect.ValueOf(rv.Bool()), nil

	case rv.Kind() == reflect.String && rv.Type() != jsonNumberType:
		if !cats.Has(options.CategoryTextualBool) {
			return reflect.Value{}, fmt.Errorf("%w: textual booleans are disabled", ErrInvalidValue)
		}

		text := strings.ToLower(rv.String())
		if _, ok := truthy[text]; ok {
			return reflect.ValueOf(true), nil
		}

		if _, ok := falsy[text]; ok {
			return reflect.ValueOf(false), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, rv.String())
	}

	if !cats.Has(options.CategoryNumericBool) {
		return reflect.Value{}, fmt.Errorf("%w: expected bool, got %T", ErrInvalidValue, raw)
	}

	n, err := buildFloat(raw, 64, cats|options.CategoryTextNumber)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: expected bool, got %T", ErrInvalidValue, raw)
	}

	return reflect.ValueOf(n.Float() != 0), nil
}
