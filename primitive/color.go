package primitive

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"reflect"
	"strings"
)

// ParseColor parses RRGGBB or RRGGBBAA hex, with an optional leading '#'.
// Six digits produce an opaque color.
func ParseColor(text string) (color.NRGBA, error) {
	digits := strings.TrimPrefix(text, "#")
	if len(digits) != 6 && len(digits) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q is not a RRGGBB or RRGGBBAA color", ErrInvalidValue, text)
	}

	channels, err := hex.DecodeString(digits)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q is not a hex color", ErrInvalidValue, text)
	}

	c := color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 0xFF}
	if len(channels) == 4 {
		c.A = channels[3]
	}

	return c, nil
}

// FormatColor renders c as RRGGBB when opaque, RRGGBBAA otherwise.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
	}

	return fmt.Sprintf("%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func buildColor(raw any) (reflect.Value, error) {
	text, ok := asString(raw)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: expected color string, got %T", ErrInvalidValue, raw)
	}

	c, err := ParseColor(text)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(c), nil
}
