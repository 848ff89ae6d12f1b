package mapper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var (
	ErrSourceValue        = errors.New("source value cannot be mapped")
	ErrDate               = errors.New("date cannot be parsed")
	ErrSerialization      = errors.New("property holds no value")
	ErrValidation         = errors.New("model validation failed")
	ErrUndefinedTypeName  = errors.New("dynamic type name is not registered")
	ErrDynamicTypeInfo    = errors.New("dynamic type name is missing")
	ErrInvalidProperty    = errors.New("model does not declare property")
	ErrUnassignedInstance = errors.New("value cannot be assigned to property")
	ErrInvalidDestination = errors.New("destination must be a non-nil pointer to a struct")
)

var errMissing = errors.New("value is missing")

// Error is a mapping failure pinned to one property of one model.
// Match the kind with errors.Is(err, ErrSourceValue) and friends.
type Error struct {
	Kind error
	// Model is the qualified name of the model declaring the property.
	Model string
	// Property is the external key of the property.
	Property string
	// Field is the Go field name of the property.
	Field string
	// Path locates the property from the decoded root, e.g. "songs[1].id".
	Path string
	// Value is the offending raw value; Missing is set when there was none.
	Value       any
	Missing     bool
	Format      string
	Suggestions []string
	Err         error
}

func (e *Error) Error() string {
	var b strings.Builder

	if loc := e.location(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}

	b.WriteString(e.Kind.Error())

	if e.Model != "" {
		b.WriteString(" (model ")
		b.WriteString(e.Model)

		switch {
		case e.Missing:
			b.WriteString(", value missing")
		case e.Value != nil:
			b.WriteString(", value ")
			b.WriteString(spew.Sprintf("%#v", e.Value))
		}

		b.WriteString(")")
	}

	if e.Format != "" {
		fmt.Fprintf(&b, " with format %q", e.Format)
	}

	if e.Err != nil && !errors.Is(e.Err, errMissing) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("; did you mean ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
		b.WriteString("?")
	}

	return b.String()
}

func (e *Error) location() string {
	if e.Path != "" {
		return e.Path
	}

	return e.Property
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
