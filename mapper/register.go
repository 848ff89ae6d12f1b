package mapper

import (
	"fmt"
	"reflect"

	"model-mapper/internal/schema"
	"model-mapper/node"
	"model-mapper/resolver"
)

// RegisterType registers the struct type t in r, together with every struct type
// reachable through its properties.
func RegisterType(r *resolver.Registry, t reflect.Type) error {
	t = deref(t)
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", schema.ErrNotStruct, node.TypeName(t))
	}

	var dealer node.Dealer

	dealer.Needs(t)

	for {
		next, ok := dealer.NextNeeds()
		if !ok {
			return nil
		}

		if err := r.RegisterModel(next); err != nil {
			return err
		}

		model, err := schema.Of(next)
		if err != nil {
			return err
		}

		for _, f := range model.Fields {
			if node.Dispatch(f.Descriptor) == node.DispatcherStruct {
				dealer.Needs(f.Descriptor.Base)
			}
		}
	}
}

// Register registers T and its nested models in the default registry.
func Register[T any]() error {
	return RegisterType(resolver.Default(), reflect.TypeFor[T]())
}

// RegisterDynamic declares the interface I as a dynamic type in the default registry;
// its concrete type is chosen by the tag stored under property.
func RegisterDynamic[I any](property string) error {
	return resolver.Default().RegisterDynamic(reflect.TypeFor[I](), property)
}

// RegisterTag binds tag to T in the default registry and registers T's models.
func RegisterTag[T any](tag string) error {
	return RegisterTagIn(resolver.Default(), tag, reflect.TypeFor[T]())
}

// RegisterTagIn binds tag to t in r and registers t's models.
func RegisterTagIn(r *resolver.Registry, tag string, t reflect.Type) error {
	if err := r.RegisterTag(tag, t); err != nil {
		return err
	}

	return RegisterType(r, t)
}
