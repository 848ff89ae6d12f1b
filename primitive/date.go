package primitive

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"model-mapper/internal/common"
	"model-mapper/options"
)

// DefaultLayout is used when neither the property, the model nor the configuration
// names a date layout.
const DefaultLayout = time.RFC3339

func buildDate(raw any, opts Options) (reflect.Value, error) {
	layouts := opts.Layouts
	if len(layouts) == 0 {
		layouts = []string{DefaultLayout}
	}

	text, ok := asString(raw)
	if !ok || reflect.TypeOf(raw) == jsonNumberType {
		if opts.Categories.Has(options.CategoryTimestamp) {
			seconds, err := buildInt(raw, int64Type, opts.Categories)
			if err == nil {
				return reflect.ValueOf(time.Unix(seconds.Int(), 0).UTC()), nil
			}
		}

		return reflect.Value{}, fmt.Errorf("%w: expected date string, got %T", ErrInvalidValue, raw)
	}

	var errs []error

	for _, layout := range layouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return reflect.ValueOf(t), nil
		}

		errs = append(errs, err)
	}

	return reflect.Value{}, &DateError{Value: text, Layouts: layouts, Err: errors.Join(errs...)}
}

// FormatDate renders t with the first layout (or DefaultLayout).
func FormatDate(t time.Time, layouts ...string) string {
	if layout, ok := common.First(layouts); ok && layout != "" {
		return t.Format(layout)
	}

	return t.Format(DefaultLayout)
}
