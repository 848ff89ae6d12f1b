package mapper

import (
	"fmt"
	"log/slog"

	"github.com/viant/tagly/format/text"

	"model-mapper/config"
	"model-mapper/options"
	"model-mapper/primitive"
	"model-mapper/resolver"
)

// OverlayFunc returns the configured overlay of a model by qualified name.
type OverlayFunc func(model string) (*config.Model, bool)

// Options controls a Mapper.
type Options struct {
	// Categories gates the lenient coercions.
	Categories options.CategoryEnum
	// DateFormat is the global default date layout.
	DateFormat string
	// DateFormats, when set, replaces DateFormat with candidates tried in order.
	DateFormats []string
	// KeyFormatter derives the external key of untagged properties from the Go name.
	KeyFormatter func(name string) string
	Overlay      OverlayFunc
	// Resolver is consulted after a model's own resolver and before Registry.
	Resolver resolver.TypeResolver
	Registry *resolver.Registry
	// AutoRegister registers every decoded root model, and the models it nests,
	// in Registry on first use.
	AutoRegister bool
	// ValidateTags runs `validate` struct tag checks after each model is decoded.
	ValidateTags bool
	Logger       *slog.Logger
}

// DefaultOptions returns the options of Default().
func DefaultOptions() Options {
	return Options{
		Categories:   options.CategoryDefault,
		DateFormat:   primitive.DefaultLayout,
		Registry:     resolver.Default(),
		AutoRegister: true,
	}
}

// WithConfig applies the date layout, key case format and model overlays of c.
func (o Options) WithConfig(c *config.Config) (Options, error) {
	if c == nil {
		return o, nil
	}

	if c.DateFormat != "" {
		o.DateFormat = c.DateFormat
	}

	cf, ok, err := c.KeyCase()
	if err != nil {
		return o, fmt.Errorf("key case: %w", err)
	}

	if ok {
		o.KeyFormatter = func(name string) string {
			return text.CaseFormatUpperCamel.Format(name, cf)
		}
	}

	o.Overlay = c.Model

	return o, nil
}

// WithDateCandidates switches date parsing to the configured candidate list.
func (o Options) WithDateCandidates(c *config.Config) Options {
	if c != nil && len(c.DateFormats) > 0 {
		o.DateFormats = append([]string(nil), c.DateFormats...)
	}

	return o
}
