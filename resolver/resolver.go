package resolver

import (
	"reflect"

	"model-mapper/node"
)

// TypeResolver maps declared property types to concrete buildable types.
// The matching pipeline asks, in order, Resolve, ResolveArray, ResolveDictionary,
// and falls back to the tag registry for dynamic types.
type TypeResolver interface {
	// Resolve returns the concrete type for a scalar property.
	Resolve(d node.Descriptor) (reflect.Type, bool)
	// ResolveArray returns the concrete element type for an array property.
	ResolveArray(d node.Descriptor) (reflect.Type, bool)
	// ResolveDictionary returns the concrete element type for a string-keyed map property.
	ResolveDictionary(d node.Descriptor) (reflect.Type, bool)
	// ResolveByTag returns the concrete type registered for a dynamic type tag.
	ResolveByTag(tag string) (reflect.Type, bool)
	// TypeNameProperty returns the discriminator key of a dynamic base type.
	TypeNameProperty(base reflect.Type) (string, bool)
}

// TagLister is implemented by resolvers that can enumerate their dynamic type tags.
type TagLister interface {
	Tags() []string
}

type chain []TypeResolver

// Chain composes resolvers; the first one that resolves wins.
// Nil resolvers are skipped.
func Chain(resolvers ...TypeResolver) TypeResolver {
	c := make(chain, 0, len(resolvers))

	for _, r := range resolvers {
		if r != nil {
			c = append(c, r)
		}
	}

	if len(c) == 1 {
		return c[0]
	}

	return c
}

func (c chain) Resolve(d node.Descriptor) (reflect.Type, bool) {
	return first(c, func(r TypeResolver) (reflect.Type, bool) { return r.Resolve(d) })
}

func (c chain) ResolveArray(d node.Descriptor) (reflect.Type, bool) {
	return first(c, func(r TypeResolver) (reflect.Type, bool) { return r.ResolveArray(d) })
}

func (c chain) ResolveDictionary(d node.Descriptor) (reflect.Type, bool) {
	return first(c, func(r TypeResolver) (reflect.Type, bool) { return r.ResolveDictionary(d) })
}

func (c chain) ResolveByTag(tag string) (reflect.Type, bool) {
	return first(c, func(r TypeResolver) (reflect.Type, bool) { return r.ResolveByTag(tag) })
}

func (c chain) TypeNameProperty(base reflect.Type) (string, bool) {
	for _, r := range c {
		if name, ok := r.TypeNameProperty(base); ok {
			return name, true
		}
	}

	return "", false
}

func first(c chain, fn func(TypeResolver) (reflect.Type, bool)) (reflect.Type, bool) {
	for _, r := range c {
		if t, ok := fn(r); ok {
			return t, true
		}
	}

	return nil, false
}

// Tags merges the tags of every resolver in the chain that can list them.
func (c chain) Tags() []string {
	var out []string

	for _, r := range c {
		if lister, ok := r.(TagLister); ok {
			out = append(out, lister.Tags()...)
		}
	}

	return out
}
