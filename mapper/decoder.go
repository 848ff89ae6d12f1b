package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sync"

	"model-mapper/config"
	"model-mapper/internal/ctxlog"
	"model-mapper/internal/diagnostic"
	"model-mapper/internal/match"
	"model-mapper/internal/schema"
	"model-mapper/node"
	"model-mapper/primitive"
	"model-mapper/resolver"
)

// Mapper decodes documents into models and serializes models back.
// A Mapper is safe for concurrent use.
type Mapper struct {
	opts       Options
	registered sync.Map
}

var (
	defaultMapper     *Mapper
	defaultMapperOnce sync.Once
)

// Default returns the process-wide mapper built from DefaultOptions.
func Default() *Mapper {
	defaultMapperOnce.Do(func() {
		defaultMapper = New(DefaultOptions())
	})

	return defaultMapper
}

// New creates a mapper. A nil Registry means resolver.Default(), an empty DateFormat
// means primitive.DefaultLayout.
func New(opts Options) *Mapper {
	if opts.Registry == nil {
		opts.Registry = resolver.Default()
	}

	if opts.DateFormat == "" {
		opts.DateFormat = primitive.DefaultLayout
	}

	return &Mapper{opts: opts}
}

// NewFromConfig creates a mapper with DefaultOptions adjusted by c.
func NewFromConfig(c *config.Config) (*Mapper, error) {
	opts, err := DefaultOptions().WithConfig(c)
	if err != nil {
		return nil, err
	}

	if c != nil {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Level()}))
	}

	return New(opts), nil
}

// Options returns a copy of the mapper options.
func (m *Mapper) Options() Options {
	return m.opts
}

// Resolver returns the resolver every model falls back to.
func (m *Mapper) Resolver() resolver.TypeResolver {
	return resolver.Chain(m.opts.Resolver, m.opts.Registry)
}

// state is one decode call.
type state struct {
	m      *Mapper
	ctx    context.Context
	logger *slog.Logger
	diag   *diagnostic.Diagnostics
}

func (m *Mapper) newState(ctx context.Context) *state {
	if ctx == nil {
		ctx = context.Background()
	}

	return &state{
		m:      m,
		ctx:    ctx,
		logger: ctxlog.FromContext(ctx, m.opts.Logger),
		diag:   &diagnostic.Diagnostics{},
	}
}

// prepare registers the model graph of a root type once.
func (m *Mapper) prepare(t reflect.Type) error {
	if !m.opts.AutoRegister || m.opts.Registry == nil {
		return nil
	}

	if _, done := m.registered.Load(t); done {
		return nil
	}

	if err := RegisterType(m.opts.Registry, t); err != nil {
		return err
	}

	m.registered.Store(t, struct{}{})

	return nil
}

// Decode populates the struct dest points to from raw. dest is written only when
// decoding succeeds; its current field values act as defaults.
func (m *Mapper) Decode(ctx context.Context, raw map[string]any, dest any) error {
	_, err := m.DecodeWithReport(ctx, raw, dest)
	return err
}

// DecodeWithReport is Decode that also returns the tolerated failures.
func (m *Mapper) DecodeWithReport(ctx context.Context, raw map[string]any, dest any) (*diagnostic.Diagnostics, error) {
	rv, err := structPointer(dest)
	if err != nil {
		return nil, err
	}

	t := rv.Type().Elem()
	if err := m.prepare(t); err != nil {
		return nil, err
	}

	work := reflect.New(t)
	work.Elem().Set(rv.Elem())

	s := m.newState(ctx)
	if err := s.populate(work, raw, ""); err != nil {
		return s.diag, err
	}

	rv.Elem().Set(work.Elem())

	return s.diag, nil
}

// DecodeSlice populates the slice dest points to ([]T or []*T) from a list of
// objects, all-or-nothing.
func (m *Mapper) DecodeSlice(ctx context.Context, raw []any, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: got %T", ErrInvalidDestination, dest)
	}

	sliceType := rv.Elem().Type()
	elemType := sliceType.Elem()
	model := deref(elemType)

	if model.Kind() != reflect.Struct {
		return fmt.Errorf("%w: element %s", ErrInvalidDestination, elemType)
	}

	if err := m.prepare(model); err != nil {
		return err
	}

	s := m.newState(ctx)
	out := reflect.MakeSlice(sliceType, len(raw), len(raw))

	for i, item := range raw {
		path := fmt.Sprintf("[%d]", i)

		obj, ok := asMap(item)
		if !ok {
			return &Error{Kind: ErrSourceValue, Model: node.TypeName(model), Path: path, Value: item,
				Err: fmt.Errorf("expected object, got %T", item)}
		}

		ptr, err := s.decodeStruct(model, obj, path)
		if err != nil {
			return err
		}

		out.Index(i).Set(toDeclared(ptr.Elem(), elemType))
	}

	rv.Elem().Set(out)

	return nil
}

// Set decodes one property, addressed by Go name or external key, into model.
// A nil raw value clears an optional property.
func (m *Mapper) Set(ctx context.Context, model any, property string, raw any) error {
	rv, err := structPointer(model)
	if err != nil {
		return err
	}

	t := rv.Type().Elem()
	if err := m.prepare(t); err != nil {
		return err
	}

	p, err := parserFor(t)
	if err != nil {
		return err
	}

	overlay := m.overlay(p)
	s := m.newState(ctx)

	f, key, ok := m.lookup(p, overlay, property)
	if !ok {
		return &Error{
			Kind:        ErrInvalidProperty,
			Model:       p.model.Name,
			Property:    property,
			Suggestions: match.Suggest(property, m.knownNames(p, overlay), match.DefaultThreshold, 3),
		}
	}

	pr := s.property(p, f, overlay, key, key)
	base := rv.UnsafePointer()

	if raw == nil {
		if !pr.d.IsOptional() {
			return pr.fail(ErrSourceValue, nil, errMissing)
		}

		f.Set(base, reflect.Zero(f.Descriptor.Type))

		return nil
	}

	return s.set(pr, rv.Interface(), rv, raw)
}

// From decodes raw into a fresh T with the default mapper.
func From[T any](raw map[string]any) (*T, error) {
	return FromContext[T](context.Background(), Default(), raw)
}

// FromContext decodes raw into a fresh T. Defaults() runs before decoding when T
// implements Defaulter.
func FromContext[T any](ctx context.Context, m *Mapper, raw map[string]any) (*T, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDestination, t)
	}

	if err := m.prepare(t); err != nil {
		return nil, err
	}

	ptr, err := m.newState(ctx).decodeStruct(t, raw, "")
	if err != nil {
		return nil, err
	}

	return ptr.Interface().(*T), nil
}

func structPointer(dest any) (reflect.Value, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: got %T", ErrInvalidDestination, dest)
	}

	return rv, nil
}

func (s *state) decodeStruct(t reflect.Type, raw map[string]any, path string) (reflect.Value, error) {
	ptr := reflect.New(t)

	if d, ok := ptr.Interface().(Defaulter); ok {
		d.Defaults()
	}

	if err := s.populate(ptr, raw, path); err != nil {
		return reflect.Value{}, err
	}

	return ptr, nil
}

// populate walks the field table of the struct ptr points to.
func (s *state) populate(ptr reflect.Value, raw map[string]any, path string) error {
	p, err := parserFor(ptr.Type().Elem())
	if err != nil {
		return err
	}

	inst := ptr.Interface()
	overlay := s.m.overlay(p)
	policy, _ := inst.(FailurePolicy)
	seen := make(map[string]struct{}, len(p.model.Fields))

	for _, f := range p.model.Fields {
		if p.isIgnored(f, overlay) {
			continue
		}

		key := s.m.key(p, f, overlay)
		seen[key] = struct{}{}
		pr := s.property(p, f, overlay, key, join(path, key))

		value, present := raw[key]
		if present && value == nil {
			present = false
		}

		if !present {
			if s.shouldFail(policy, pr, nil, false, ptr) {
				return pr.fail(ErrSourceValue, nil, errMissing)
			}

			continue
		}

		err := s.set(pr, inst, ptr, value)
		if err == nil {
			continue
		}

		if s.shouldFail(policy, pr, value, true, ptr) {
			return err
		}

		s.logger.Warn("optional property ignored", "model", p.model.Name, "property", pr.path, "error", err)
		s.diag.AddWarning("optional_invalid", err.Error(), p.model.Name, pr.path)
	}

	for key := range raw {
		if _, ok := seen[key]; !ok {
			s.diag.AddInfo("unknown_key", "key is not declared", p.model.Name, join(path, key))
		}
	}

	return s.validate(p, inst, path)
}

func (s *state) property(p *Parser, f *schema.Field, overlay *config.Model, key, path string) prop {
	pr := prop{
		parser: p,
		field:  f,
		d:      p.descriptor(f, overlay),
		key:    key,
		path:   path,
		res:    s.m.resolverFor(p),
	}

	if pr.d.Kind == primitive.KindDate {
		pr.layouts = s.m.layouts(p, f, overlay)
	}

	return pr
}

// set runs the pipeline and stores the result.
func (s *state) set(p prop, inst any, ptr reflect.Value, raw any) error {
	out := s.run(p, raw)
	if !out.matched {
		return p.fail(ErrSourceValue, raw, fmt.Errorf("no rule matches %s", p.d))
	}

	if out.err != nil {
		return out.err
	}

	field := p.field.Addr(ptr.UnsafePointer())
	if out.value.Type().AssignableTo(field.Type()) {
		field.Set(out.value)
		return nil
	}

	if a, ok := inst.(Assigner); ok {
		if err := a.Assign(p.field.Name, out.value.Interface()); err != nil {
			return p.fail(ErrUnassignedInstance, raw, err)
		}

		return nil
	}

	return p.fail(ErrUnassignedInstance, raw, fmt.Errorf("%s into %s", out.value.Type(), field.Type()))
}

// shouldFail decides whether a missing or invalid value aborts decoding: the
// FailurePolicy hook first, then the declared optionality.
func (s *state) shouldFail(policy FailurePolicy, p prop, value any, present bool, ptr reflect.Value) bool {
	if policy != nil {
		if fail, decided := policy.ShouldFail(p.field.Name, value, p.d); decided {
			return fail
		}
	}

	switch p.d.Optionality {
	case node.OptionalityOptional:
		return false
	case node.OptionalityImplicitDefault:
		return present || p.field.IsZero(ptr.UnsafePointer())
	default:
		return true
	}
}

func (s *state) validate(p *Parser, inst any, path string) error {
	if s.m.opts.ValidateTags {
		if err := validateTags(s.ctx, inst); err != nil {
			return &Error{Kind: ErrValidation, Model: p.model.Name, Path: path, Err: err}
		}
	}

	if v, ok := inst.(Validator); ok {
		if err := v.Validate(); err != nil {
			return &Error{Kind: ErrValidation, Model: p.model.Name, Path: path, Err: err}
		}
	}

	return nil
}

func (m *Mapper) overlay(p *Parser) *config.Model {
	if m.opts.Overlay == nil {
		return nil
	}

	o, _ := m.opts.Overlay(p.model.Name)

	return o
}

func (m *Mapper) resolverFor(p *Parser) resolver.TypeResolver {
	return resolver.Chain(p.resolver, m.opts.Resolver, m.opts.Registry)
}

// key resolves the external key: KeyMapper hook, config overlay, json tag,
// KeyFormatter, Go name.
func (m *Mapper) key(p *Parser, f *schema.Field, overlay *config.Model) string {
	if k, ok := p.keys[f.Name]; ok {
		return k
	}

	if overlay != nil {
		if k, ok := overlay.Keys[f.Name]; ok {
			return k
		}
	}

	if f.Tagged {
		return f.Key
	}

	if m.opts.KeyFormatter != nil {
		return m.opts.KeyFormatter(f.Name)
	}

	return f.Name
}

// layouts resolves the date layouts of a property: format tag, DateFormatter hook,
// overlay dates, model default (hook, then overlay), then the mapper default.
func (m *Mapper) layouts(p *Parser, f *schema.Field, overlay *config.Model) []string {
	candidates := []string{f.Layout, p.dates[f.Name]}

	if overlay != nil {
		candidates = append(candidates, overlay.Dates[f.Name])
	}

	candidates = append(candidates, p.dateFormat)

	if overlay != nil {
		candidates = append(candidates, overlay.DateFormat)
	}

	for _, layout := range candidates {
		if layout != "" {
			return []string{layout}
		}
	}

	if len(m.opts.DateFormats) > 0 {
		return m.opts.DateFormats
	}

	return []string{m.opts.DateFormat}
}

func (m *Mapper) lookup(p *Parser, overlay *config.Model, property string) (*schema.Field, string, bool) {
	for _, f := range p.model.Fields {
		if p.isIgnored(f, overlay) {
			continue
		}

		key := m.key(p, f, overlay)
		if f.Name == property || key == property {
			return f, key, true
		}
	}

	return nil, "", false
}

func (m *Mapper) knownNames(p *Parser, overlay *config.Model) []string {
	var names []string

	for _, f := range p.model.Fields {
		if !p.isIgnored(f, overlay) {
			names = append(names, m.key(p, f, overlay))
		}
	}

	return names
}

func join(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
