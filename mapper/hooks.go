package mapper

import (
	"model-mapper/node"
	"model-mapper/resolver"
)

// The hooks below are optional. A model opts in by implementing them on its pointer
// receiver. Static hooks (keys, dates, ignore list, resolver) are read once per model
// type from a zero instance and cached.

// KeyMapper maps property (Go field) names to external keys.
type KeyMapper interface {
	KeyMap() map[string]string
}

// DateFormatter gives per-property date layouts.
type DateFormatter interface {
	DateFormats() map[string]string
}

// DefaultDateFormatter gives the model default date layout.
type DefaultDateFormatter interface {
	DefaultDateFormat() string
}

// Ignorer lists properties that are never decoded nor serialized.
type Ignorer interface {
	IgnoredProperties() []string
}

// ResolverProvider supplies a model specific resolver, consulted before the mapper's.
type ResolverProvider interface {
	Resolver() resolver.TypeResolver
}

// FailurePolicy overrides the optionality of a property. value is nil when the key is
// absent. Returning decided == false falls back to the declared optionality.
type FailurePolicy interface {
	ShouldFail(property string, value any, d node.Descriptor) (fail, decided bool)
}

// Assigner stores values the mapper cannot assign to the field directly.
type Assigner interface {
	Assign(property string, value any) error
}

// Validator runs business rules after every property was decoded.
type Validator interface {
	Validate() error
}

// Defaulter fills defaults on instances the mapper creates itself: From results,
// nested models and slice elements.
type Defaulter interface {
	Defaults()
}

// RawRepresentable values serialize and archive as their raw form. Pair it with
// ValueBuilder to get the raw form back when decoding.
type RawRepresentable interface {
	RawValue() any
}

// ValueBuilder builds a value from an arbitrary decoded scalar, array or map.
type ValueBuilder = node.ValueBuilder
