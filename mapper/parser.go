package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"model-mapper/config"
	"model-mapper/internal/match"
	"model-mapper/internal/schema"
	"model-mapper/node"
	"model-mapper/primitive"
	"model-mapper/resolver"
)

// Parser is the cached, per-model-type part of decoding: the field table and the
// static hooks of the model.
type Parser struct {
	model      *schema.Model
	keys       map[string]string
	dates      map[string]string
	dateFormat string
	ignored    map[string]struct{}
	resolver   resolver.TypeResolver
}

var parsers sync.Map

// parserFor returns the cached parser of t. Concurrent first use may build the parser
// twice; the copies are equivalent and the last store wins.
func parserFor(t reflect.Type) (*Parser, error) {
	if p, ok := parsers.Load(t); ok {
		return p.(*Parser), nil
	}

	model, err := schema.Of(t)
	if err != nil {
		return nil, err
	}

	p := &Parser{model: model, ignored: map[string]struct{}{}}
	zero := reflect.New(t).Interface()

	if h, ok := zero.(KeyMapper); ok {
		p.keys = h.KeyMap()
	}

	if h, ok := zero.(DateFormatter); ok {
		p.dates = h.DateFormats()
	}

	if h, ok := zero.(DefaultDateFormatter); ok {
		p.dateFormat = h.DefaultDateFormat()
	}

	if h, ok := zero.(Ignorer); ok {
		for _, name := range h.IgnoredProperties() {
			p.ignored[name] = struct{}{}
		}
	}

	if h, ok := zero.(ResolverProvider); ok {
		p.resolver = h.Resolver()
	}

	parsers.Store(t, p)

	return p, nil
}

func (p *Parser) isIgnored(f *schema.Field, overlay *config.Model) bool {
	if f.Ignored {
		return true
	}

	if _, ok := p.ignored[f.Name]; ok {
		return true
	}

	return overlay != nil && overlay.Ignore.Contains(f.Name)
}

func (p *Parser) descriptor(f *schema.Field, overlay *config.Model) node.Descriptor {
	if overlay != nil && overlay.Optional.Contains(f.Name) {
		return f.Descriptor.WithOptionality(node.OptionalityOptional)
	}

	return f.Descriptor
}

// prop is one property being decoded.
type prop struct {
	parser  *Parser
	field   *schema.Field
	d       node.Descriptor
	key     string
	path    string
	layouts []string
	res     resolver.TypeResolver
}

func (p prop) fail(kind error, value any, err error) *Error {
	e := &Error{
		Kind:     kind,
		Model:    p.parser.model.Name,
		Property: p.key,
		Field:    p.field.Name,
		Path:     p.path,
		Value:    value,
		Err:      err,
	}

	if errors.Is(err, errMissing) {
		e.Missing = true
	}

	return e
}

func (p prop) at(path string) prop {
	p.path = path
	return p
}

// outcome is the tri-state result of one rule: not matched, matched with a value,
// or matched with an error.
type outcome struct {
	matched bool
	value   reflect.Value
	err     error
}

var notMatched = outcome{}

func matched(v reflect.Value, err error) outcome {
	return outcome{matched: true, value: v, err: err}
}

type rule struct {
	name string
	try  func(s *state, p prop, raw any) outcome
}

// pipeline is the fixed priority order; the first rule that matches owns the property.
// Assigned in init because the rules recurse back into run.
var pipeline []rule

func init() {
	pipeline = newPipeline()
}

func newPipeline() []rule {
	var rules []rule

	for _, kind := range primitive.Kinds() {
		rules = append(rules,
			rule{name: kind.String() + " scalar", try: primitiveScalar(kind)},
			rule{name: kind.String() + " array", try: primitiveArray(kind)},
		)
	}

	return append(rules,
		rule{name: "string map", try: stringMap},
		rule{name: "model scalar", try: modelScalar},
		rule{name: "model array", try: modelArray},
		rule{name: "model map", try: modelMap},
		rule{name: "buildable scalar", try: buildableScalar},
		rule{name: "buildable array", try: buildableArray},
	)
}

func (s *state) run(p prop, raw any) outcome {
	for _, r := range pipeline {
		out := r.try(s, p, raw)
		if out.matched {
			s.logger.Debug("property matched", "model", p.parser.model.Name, "property", p.path, "rule", r.name)

			return out
		}
	}

	return notMatched
}

func primitiveScalar(kind primitive.KindEnum) func(*state, prop, any) outcome {
	return func(s *state, p prop, raw any) outcome {
		if p.d.Kind != kind || p.d.Shape != node.ShapeScalar {
			return notMatched
		}

		v, err := s.primitive(p, kind, raw)
		if err != nil {
			return matched(v, err)
		}

		return matched(toDeclared(v, p.d.Type), nil)
	}
}

func primitiveArray(kind primitive.KindEnum) func(*state, prop, any) outcome {
	return func(s *state, p prop, raw any) outcome {
		if p.d.Kind != kind || p.d.Shape != node.ShapeArray {
			return notMatched
		}

		return matched(s.array(p, raw, func(item any, at prop) (reflect.Value, error) {
			return s.primitive(at, kind, item)
		}))
	}
}

func (s *state) primitive(p prop, kind primitive.KindEnum, raw any) (reflect.Value, error) {
	v, err := primitive.Build(kind, raw, p.d.Base, primitive.Options{
		Categories: s.m.opts.Categories,
		Layouts:    p.layouts,
	})
	if err == nil {
		return v, nil
	}

	var dateErr *primitive.DateError
	if errors.As(err, &dateErr) {
		e := p.fail(ErrDate, raw, err)
		e.Format = dateErr.Layouts[0]

		if len(dateErr.Layouts) > 1 {
			e.Format = fmt.Sprint(dateErr.Layouts)
		}

		return reflect.Value{}, e
	}

	return reflect.Value{}, p.fail(ErrSourceValue, raw, err)
}

// stringMap only accepts map[string]string whose input values are already strings.
func stringMap(s *state, p prop, raw any) outcome {
	if p.d.Shape != node.ShapeMap || p.d.Base != stringType || p.d.ElemPointer {
		return notMatched
	}

	return matched(s.dictionary(p, raw, func(item any, at prop) (reflect.Value, error) {
		if str, ok := item.(string); ok {
			return reflect.ValueOf(str), nil
		}

		return reflect.Value{}, at.fail(ErrSourceValue, item, fmt.Errorf("expected string, got %T", item))
	}))
}

func modelScalar(s *state, p prop, raw any) outcome {
	if p.d.Shape != node.ShapeScalar || p.d.Kind != 0 || p.d.Buildable {
		return notMatched
	}

	t, ok := p.res.Resolve(p.d)
	if !ok || isBuildable(t) {
		return notMatched
	}

	v, err := s.model(p, t, raw)
	if err != nil {
		return matched(v, err)
	}

	return matched(toDeclared(v, p.d.Type), nil)
}

func modelArray(s *state, p prop, raw any) outcome {
	if p.d.Shape != node.ShapeArray || p.d.Kind != 0 || p.d.Buildable {
		return notMatched
	}

	t, ok := p.res.ResolveArray(p.d)
	if !ok || isBuildable(t) {
		return notMatched
	}

	return matched(s.array(p, raw, func(item any, at prop) (reflect.Value, error) {
		return s.model(at, t, item)
	}))
}

func modelMap(s *state, p prop, raw any) outcome {
	if p.d.Shape != node.ShapeMap || p.d.Kind != 0 || p.d.Buildable {
		return notMatched
	}

	t, ok := p.res.ResolveDictionary(p.d)
	if !ok || isBuildable(t) {
		return notMatched
	}

	return matched(s.dictionary(p, raw, func(item any, at prop) (reflect.Value, error) {
		return s.model(at, t, item)
	}))
}

func buildableScalar(s *state, p prop, raw any) outcome {
	if p.d.Shape != node.ShapeScalar {
		return notMatched
	}

	t, ok := buildableType(p, p.res.Resolve)
	if !ok {
		return notMatched
	}

	v, err := s.buildable(p, t, raw)
	if err != nil {
		return matched(v, err)
	}

	return matched(toDeclared(v, p.d.Type), nil)
}

func buildableArray(s *state, p prop, raw any) outcome {
	if p.d.Shape != node.ShapeArray {
		return notMatched
	}

	t, ok := buildableType(p, p.res.ResolveArray)
	if !ok {
		return notMatched
	}

	return matched(s.array(p, raw, func(item any, at prop) (reflect.Value, error) {
		return s.buildable(at, t, item)
	}))
}

func buildableType(p prop, resolve func(node.Descriptor) (reflect.Type, bool)) (reflect.Type, bool) {
	if p.d.Buildable {
		return p.d.Base, true
	}

	if p.d.Kind != 0 {
		return nil, false
	}

	t, ok := resolve(p.d)
	if !ok || !isBuildable(t) {
		return nil, false
	}

	return t, true
}

func (s *state) buildable(p prop, t reflect.Type, raw any) (reflect.Value, error) {
	ptr := reflect.New(t)

	if err := ptr.Interface().(ValueBuilder).BuildFrom(raw); err != nil {
		return reflect.Value{}, p.fail(ErrSourceValue, raw, err)
	}

	return s.asBase(p, ptr)
}

// model builds a nested model of the resolved type t, or of the tag-selected type
// when the declared base is dynamic.
func (s *state) model(p prop, t reflect.Type, raw any) (reflect.Value, error) {
	m, ok := asMap(raw)
	if !ok {
		return reflect.Value{}, p.fail(ErrSourceValue, raw, fmt.Errorf("expected object, got %T", raw))
	}

	if name, dynamic := p.res.TypeNameProperty(p.d.Base); dynamic {
		tag, ok := m[name].(string)
		if !ok || tag == "" {
			return reflect.Value{}, p.fail(ErrDynamicTypeInfo, raw, fmt.Errorf("key %q holds no type name", name))
		}

		concrete, ok := p.res.ResolveByTag(tag)
		if !ok {
			e := p.fail(ErrUndefinedTypeName, tag, nil)
			if lister, ok := p.res.(resolver.TagLister); ok {
				e.Suggestions = match.Suggest(tag, lister.Tags(), match.DefaultThreshold, 3)
			}

			return reflect.Value{}, e
		}

		t = concrete
	}

	if t.Kind() != reflect.Struct {
		return reflect.Value{}, p.fail(ErrSourceValue, raw, fmt.Errorf("%s is not a model", node.TypeName(t)))
	}

	ptr, err := s.decodeStruct(t, m, p.path)
	if err != nil {
		return reflect.Value{}, err
	}

	return s.asBase(p, ptr)
}

// asBase turns a freshly built *T into a value of the declared base type: T itself,
// or an interface holding T or *T. A value of an unrelated type is returned as is,
// for the Assigner hook to store.
func (s *state) asBase(p prop, ptr reflect.Value) (reflect.Value, error) {
	base := p.d.Base

	if base.Kind() != reflect.Interface {
		return ptr.Elem(), nil
	}

	impl, ok := resolver.Implementer(ptr.Type().Elem(), base)
	if !ok {
		return reflect.Value{}, p.fail(ErrUndefinedTypeName, node.TypeName(ptr.Type().Elem()),
			fmt.Errorf("%s does not implement %s", node.TypeName(ptr.Type().Elem()), node.TypeName(base)))
	}

	v := ptr
	if impl.Kind() != reflect.Ptr {
		v = ptr.Elem()
	}

	iface := reflect.New(base).Elem()
	iface.Set(v)

	return iface, nil
}

// array builds the declared slice or array all-or-nothing.
func (s *state) array(p prop, raw any, build func(item any, at prop) (reflect.Value, error)) (reflect.Value, error) {
	items, ok := asSlice(raw)
	if !ok {
		return reflect.Value{}, p.fail(ErrSourceValue, raw, fmt.Errorf("expected array, got %T", raw))
	}

	container := deref(p.d.Type)

	var out reflect.Value

	switch container.Kind() {
	case reflect.Array:
		if len(items) != container.Len() {
			return reflect.Value{}, p.fail(ErrSourceValue, raw, fmt.Errorf("expected %d items, got %d", container.Len(), len(items)))
		}

		out = reflect.New(container).Elem()
	default:
		out = reflect.MakeSlice(container, len(items), len(items))
	}

	for i, item := range items {
		at := p.at(fmt.Sprintf("%s[%d]", p.path, i))

		if item == nil {
			if p.d.ElemPointer || p.d.Base.Kind() == reflect.Interface {
				continue
			}

			return reflect.Value{}, at.fail(ErrSourceValue, nil, errMissing)
		}

		v, err := build(item, at)
		if err != nil {
			return reflect.Value{}, err
		}

		elem := toDeclared(v, container.Elem())
		if !elem.Type().AssignableTo(container.Elem()) {
			return reflect.Value{}, at.fail(ErrUnassignedInstance, item, fmt.Errorf("%s into %s", elem.Type(), container.Elem()))
		}

		out.Index(i).Set(elem)
	}

	return toDeclared(out, p.d.Type), nil
}

// dictionary builds the declared string-keyed map all-or-nothing.
func (s *state) dictionary(p prop, raw any, build func(item any, at prop) (reflect.Value, error)) (reflect.Value, error) {
	m, ok := asMap(raw)
	if !ok {
		return reflect.Value{}, p.fail(ErrSourceValue, raw, fmt.Errorf("expected object, got %T", raw))
	}

	container := deref(p.d.Type)
	out := reflect.MakeMapWithSize(container, len(m))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		at := p.at(p.path + "." + k)

		item := m[k]
		if item == nil {
			return reflect.Value{}, at.fail(ErrSourceValue, nil, errMissing)
		}

		v, err := build(item, at)
		if err != nil {
			return reflect.Value{}, err
		}

		elem := toDeclared(v, container.Elem())
		if !elem.Type().AssignableTo(container.Elem()) {
			return reflect.Value{}, at.fail(ErrUnassignedInstance, item, fmt.Errorf("%s into %s", elem.Type(), container.Elem()))
		}

		out.SetMapIndex(reflect.ValueOf(k).Convert(container.Key()), elem)
	}

	return toDeclared(out, p.d.Type), nil
}
