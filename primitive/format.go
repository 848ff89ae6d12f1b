package primitive

import (
	"fmt"
	"image/color"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Format renders a value of the given kind as a JSON-safe scalar: string, int64,
// uint64, float32, float64 or bool. Named types lose their name. layout is used for
// KindDate only, empty means DefaultLayout.
func Format(kind KindEnum, v reflect.Value, layout string) (any, error) {
	switch kind {
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	case KindString:
		return v.String(), nil
	case KindInt:
		if isUnsignedKind(v.Kind()) {
			return v.Uint(), nil
		}

		return v.Int(), nil
	case KindFloat:
		return float32(v.Float()), nil
	case KindDouble:
		return v.Float(), nil
	case KindBool:
		return v.Bool(), nil
	case KindDate:
		return FormatDate(v.Convert(timeType).Interface().(time.Time), layout), nil
	case KindDecimal:
		return v.Convert(decimalType).Interface().(Decimal).String(), nil
	case KindURL:
		u := v.Convert(urlType).Interface().(url.URL)

		return u.String(), nil
	case KindColor:
		return FormatColor(v.Convert(colorType).Interface().(color.NRGBA)), nil
	case KindDuration:
		return time.Duration(v.Int()).String(), nil
	case KindUUID:
		return v.Convert(uuidType).Interface().(uuid.UUID).String(), nil
	}
}
