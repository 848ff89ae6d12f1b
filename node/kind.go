package node

// DispatcherEnum tells the matching pipeline which family of rules owns a descriptor.
type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherInterface
	DispatcherStruct
	DispatcherBuildable

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)

func (e DispatcherEnum) String() string {
	switch e {
	case DispatcherPrimitive:
		return "primitive"
	case DispatcherInterface:
		return "interface"
	case DispatcherStruct:
		return "struct"
	case DispatcherBuildable:
		return "buildable"
	default:
		return "unknown"
	}
}

// Shape is the container facet of a declared type.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeArray
	ShapeMap
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Optionality decides what an absent or unbuildable value means for a property.
type Optionality int

const (
	// OptionalityRequired fails on absence and on an invalid value.
	OptionalityRequired Optionality = iota
	// OptionalityOptional leaves the property unset instead of failing.
	OptionalityOptional
	// OptionalityImplicitDefault fails on absence only when the property holds no default.
	OptionalityImplicitDefault
)

func (o Optionality) String() string {
	switch o {
	case OptionalityRequired:
		return "required"
	case OptionalityOptional:
		return "optional"
	case OptionalityImplicitDefault:
		return "default"
	default:
		return "unknown"
	}
}

// ParseOptionality accepts the values of the `model` struct tag.
func ParseOptionality(s string) (Optionality, bool) {
	switch s {
	case "required":
		return OptionalityRequired, true
	case "optional":
		return OptionalityOptional, true
	case "default":
		return OptionalityImplicitDefault, true
	default:
		return OptionalityRequired, false
	}
}
