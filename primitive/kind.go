package primitive

import (
	"image/color"
	"net/url"
	"reflect"
	"time"

	"github.com/google/uuid"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum identifies a primitive the matching pipeline knows how to build.
// The declaration order is the pipeline priority order.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (not primitive) value for KindEnum

	KindString
	KindInt
	KindFloat
	KindDouble
	KindBool
	KindDate
	KindDecimal
	KindURL
	KindColor
	KindDuration
	KindUUID

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	decimalType  = reflect.TypeOf(Decimal{})
	urlType      = reflect.TypeOf(url.URL{})
	colorType    = reflect.TypeOf(color.NRGBA{})
	uuidType     = reflect.TypeOf(uuid.UUID{})
)

// Kinds returns every primitive kind in pipeline priority order.
func Kinds() []KindEnum {
	kinds := make([]KindEnum, 0, KindTotal-1)
	for k := KindEnum(1); int(k) < KindTotal; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindFloat, KindDouble:
		return true
	}
}

// IsSafe reports whether a failed build of this kind is classified by the
// declared optionality before the failure policy runs.
func (k KindEnum) IsSafe() bool {
	switch k {
	default:
		return false
	case KindInt, KindFloat, KindDouble, KindBool:
		return true
	}
}

// FromReflectType classifies a Go type as one of the primitive kinds.
// Exact library types are checked first, so uuid.UUID is a scalar and not an array
// and time.Duration is not an Int.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	switch rtype {
	case timeType:
		return KindDate
	case durationType:
		return KindDuration
	case decimalType:
		return KindDecimal
	case urlType:
		return KindURL
	case colorType:
		return KindColor
	case uuidType:
		return KindUUID
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.String:
		return KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32:
		return KindFloat
	case reflect.Float64:
		return KindDouble
	case reflect.Bool:
		return KindBool
	}
}
