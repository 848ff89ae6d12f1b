package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/viant/tagly/format/text"

	"model-mapper/internal/ctxlog"
)

var (
	ErrInvalidCaseFormat = errors.New("invalid case format")
	ErrEmptyKey          = errors.New("envelope key must not be empty")
)

// Config is the mapper configuration: default date layouts, key naming, logging and
// the response envelope keys, plus per-model overlays.
type Config struct {
	// DateFormat is the global default layout for date properties.
	DateFormat string `yaml:"dateFormat,omitempty"`
	// DateFormats are the candidate layouts tried in order when parsing responses.
	DateFormats StringOrArray `yaml:"dateFormats,omitempty"`
	// CaseFormat converts untagged property names to external keys, e.g. "lowerCamel".
	CaseFormat string `yaml:"caseFormat,omitempty"`
	LogLevel   string `yaml:"logLevel,omitempty"`
	Keys       Keys   `yaml:"keys,omitempty"`
	// SuccessStatuses are the textual envelope statuses meaning success.
	SuccessStatuses StringOrArray     `yaml:"successStatuses,omitempty"`
	Models          map[string]*Model `yaml:"models,omitempty"`
}

// Keys names the fields of the response envelope.
type Keys struct {
	Status  string `yaml:"status,omitempty"`
	Object  string `yaml:"object,omitempty"`
	Objects string `yaml:"objects,omitempty"`
	Error   string `yaml:"error,omitempty"`
	Message string `yaml:"message,omitempty"`
	Code    string `yaml:"code,omitempty"`
}

// Model overlays the declaration of one model type. Every map and list is keyed by
// Go property (field) name.
type Model struct {
	// Keys maps a property to its external key.
	Keys     map[string]string `yaml:"keys,omitempty"`
	Ignore   StringOrArray     `yaml:"ignore,omitempty"`
	Optional StringOrArray     `yaml:"optional,omitempty"`
	// Dates maps a property to its date layout.
	Dates map[string]string `yaml:"dates,omitempty"`
	// DateFormat is the model default date layout.
	DateFormat string `yaml:"dateFormat,omitempty"`
}

var caseFormats = map[string]text.CaseFormat{
	"lowercamel":      text.CaseFormatLowerCamel,
	"uppercamel":      text.CaseFormatUpperCamel,
	"lowerunderscore": text.CaseFormatLowerUnderscore,
	"upperunderscore": text.CaseFormatUpperUnderscore,
	"lower":           text.CaseFormatLower,
	"upper":           text.CaseFormatUpper,
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// Model returns the overlay for a model, looked up by its qualified name
// ("catalog.Album") and then by its short name ("Album").
func (c *Config) Model(name string) (*Model, bool) {
	if c == nil || len(c.Models) == 0 {
		return nil, false
	}

	if m, ok := c.Models[name]; ok && m != nil {
		return m, true
	}

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		if m, ok := c.Models[name[i+1:]]; ok && m != nil {
			return m, true
		}
	}

	return nil, false
}

// KeyCase returns the configured key case format; ok is false when none is set.
func (c *Config) KeyCase() (text.CaseFormat, bool, error) {
	var undefined text.CaseFormat

	if c.CaseFormat == "" {
		return undefined, false, nil
	}

	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(c.CaseFormat))

	cf, ok := caseFormats[norm]
	if !ok {
		return undefined, false, fmt.Errorf("%w: %q", ErrInvalidCaseFormat, c.CaseFormat)
	}

	return cf, true, nil
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	return ctxlog.ParseLevel(c.LogLevel)
}

// IsSuccess reports whether an envelope status value means success: a true bool or
// one of SuccessStatuses (case-insensitive).
func (c *Config) IsSuccess(status any) bool {
	switch s := status.(type) {
	case bool:
		return s
	case string:
		for _, ok := range c.SuccessStatuses {
			if strings.EqualFold(ok, s) {
				return true
			}
		}
	}

	return false
}

// Validate checks the values applyDefaults cannot fix.
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := c.KeyCase(); err != nil {
		errs = append(errs, err)
	}

	for name, key := range map[string]string{
		"status": c.Keys.Status, "object": c.Keys.Object, "objects": c.Keys.Objects,
		"error": c.Keys.Error, "message": c.Keys.Message, "code": c.Keys.Code,
	} {
		if key == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrEmptyKey, name))
		}
	}

	return errors.Join(errs...)
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.DateFormat == "" {
		c.DateFormat = time.RFC3339
	}

	if len(c.DateFormats) == 0 {
		c.DateFormats = StringOrArray{c.DateFormat}
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	setDefault(&c.Keys.Status, "status")
	setDefault(&c.Keys.Object, "object")
	setDefault(&c.Keys.Objects, "objects")
	setDefault(&c.Keys.Error, "error")
	setDefault(&c.Keys.Message, "message")
	setDefault(&c.Keys.Code, "code")

	if len(c.SuccessStatuses) == 0 {
		c.SuccessStatuses = StringOrArray{"ok", "success"}
	}
}

func setDefault(s *string, value string) {
	if *s == "" {
		*s = value
	}
}
