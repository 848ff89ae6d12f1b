package primitive

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"model-mapper/options"
)

var (
	ErrUnsupportedKind = errors.New("unsupported primitive kind")
	ErrInvalidValue    = errors.New("value cannot be built into the declared type")
	ErrOutOfRange      = errors.New("value is out of range for the declared type")
)

var jsonNumberType = reflect.TypeOf(json.Number(""))

// Options controls a single Build call.
type Options struct {
	// Categories gates the lenient coercions, see options.CategoryEnum.
	Categories options.CategoryEnum
	// Layouts are the time layouts tried in order for KindDate. The model path always
	// passes exactly one layout, the response path may pass several candidates.
	Layouts []string
}

// DateError reports a date string that did not parse under any of the layouts.
type DateError struct {
	Value   string
	Layouts []string
	Err     error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("cannot parse %q as date with layout %s: %v", e.Value, strings.Join(e.Layouts, " | "), e.Err)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// Build converts raw into a value of exactly the target type.
// The target must classify as kind (see FromReflectType), named types are converted
// from their underlying primitive.
func Build(kind KindEnum, raw any, target reflect.Type, opts Options) (reflect.Value, error) {
	if raw == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil", ErrInvalidValue)
	}

	var (
		value reflect.Value
		err   error
	)

	switch kind {
	default:
		return reflect.Value{}, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	case KindString:
		value, err = buildString(raw)
	case KindInt:
		return buildInt(raw, target, opts.Categories)
	case KindFloat:
		value, err = buildFloat(raw, 32, opts.Categories)
	case KindDouble:
		value, err = buildFloat(raw, 64, opts.Categories)
	case KindBool:
		value, err = buildBool(raw, opts.Categories)
	case KindDate:
		value, err = buildDate(raw, opts)
	case KindDecimal:
		value, err = buildDecimal(raw, opts.Categories)
	case KindURL:
		value, err = buildURL(raw)
	case KindColor:
		value, err = buildColor(raw)
	case KindDuration:
		value, err = buildDuration(raw, opts.Categories)
	case KindUUID:
		value, err = buildUUID(raw)
	}

	if err != nil {
		return reflect.Value{}, err
	}

	return convertTo(value, target)
}

func convertTo(value reflect.Value, target reflect.Type) (reflect.Value, error) {
	if target == nil || value.Type() == target {
		return value, nil
	}

	if !value.Type().ConvertibleTo(target) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not convertible to %s", ErrInvalidValue, value.Type(), target)
	}

	return value.Convert(target), nil
}

func buildString(raw any) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.String || rv.Type() == jsonNumberType {
		return reflect.Value{}, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, raw)
	}

	return reflect.ValueOf(rv.String()), nil
}

func asString(raw any) (string, bool) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.String {
		return "", false
	}

	return rv.String(), true
}
