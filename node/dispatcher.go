package node

import (
	"reflect"

	"model-mapper/primitive"
)

// ValueBuilder is implemented (on the pointer receiver) by types that build themselves
// from an arbitrary decoded value: a scalar, a slice or a map.
type ValueBuilder interface {
	BuildFrom(raw any) error
}

var valueBuilderType = reflect.TypeOf((*ValueBuilder)(nil)).Elem()

// Descriptor is the declared type of one property: primitive kind × container shape ×
// optionality, plus the base element type every rule matches against.
type Descriptor struct {
	// Type is the declared Go type of the property.
	Type reflect.Type
	// Base is the element type with the container and pointers stripped.
	Base reflect.Type
	// Kind is the primitive kind of Base, zero when Base is not a primitive.
	Kind        primitive.KindEnum
	Shape       Shape
	Optionality Optionality
	// Pointer is set when the scalar property itself is a pointer.
	Pointer bool
	// ElemPointer is set when array or map elements are pointers.
	ElemPointer bool
	// Buildable is set when *Base implements ValueBuilder.
	Buildable bool
}

// Describe derives the descriptor of a declared type. A pointer property is optional,
// anything else is required until a `model` tag says otherwise (see WithOptionality).
func Describe(t reflect.Type) Descriptor {
	d := Descriptor{Type: t, Optionality: OptionalityRequired}

	if t.Kind() == reflect.Ptr {
		d.Pointer = true
		d.Optionality = OptionalityOptional
	}

	_, base := ptrDepthAndBase(t)

	if primitive.FromReflectType(base) == 0 {
		switch {
		case base.Kind() == reflect.Slice || base.Kind() == reflect.Array:
			d.Shape = ShapeArray
			d.ElemPointer = base.Elem().Kind() == reflect.Ptr
			_, base = ptrDepthAndBase(base.Elem())
		case base.Kind() == reflect.Map && base.Key().Kind() == reflect.String:
			d.Shape = ShapeMap
			d.ElemPointer = base.Elem().Kind() == reflect.Ptr
			_, base = ptrDepthAndBase(base.Elem())
		}
	}

	d.Base = base
	d.Buildable = base.Kind() != reflect.Interface && reflect.PointerTo(base).Implements(valueBuilderType)

	if !d.Buildable {
		d.Kind = primitive.FromReflectType(base)
	}

	return d
}

// WithOptionality returns a copy of d with the optionality replaced.
func (d Descriptor) WithOptionality(o Optionality) Descriptor {
	d.Optionality = o
	return d
}

// IsOptional reports whether absence and failure of this property are tolerated.
func (d Descriptor) IsOptional() bool {
	return d.Optionality == OptionalityOptional
}

// Identity is the printable base type identity, e.g. "catalog.Song".
func (d Descriptor) Identity() string {
	if d.Base == nil {
		return "<nil>"
	}

	return typeStr(d.Base)
}

func (d Descriptor) String() string {
	if d.Type == nil {
		return "<nil>"
	}

	return typeStr(d.Type) + " (" + d.Shape.String() + ", " + d.Optionality.String() + ")"
}

// Dispatch picks the family of rules that owns the descriptor.
func Dispatch(d Descriptor) DispatcherEnum {
	if d.Base == nil {
		return DispatcherUnknown
	}

	if d.Buildable {
		return DispatcherBuildable
	}

	if d.Kind != 0 {
		return DispatcherPrimitive
	}

	switch d.Base.Kind() {
	case reflect.Interface:
		return DispatcherInterface
	case reflect.Struct:
		return DispatcherStruct
	}

	return DispatcherUnknown
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for t != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}
