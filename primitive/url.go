package primitive

import (
	"fmt"
	"net/url"
	"reflect"
)

// ParseURL accepts only absolute URLs: a scheme plus a host or an opaque part.
func ParseURL(text string) (*url.URL, error) {
	u, err := url.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	if u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidValue, text)
	}

	return u, nil
}

func buildURL(raw any) (reflect.Value, error) {
	text, ok := asString(raw)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: expected URL string, got %T", ErrInvalidValue, raw)
	}

	u, err := ParseURL(text)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(*u), nil
}
