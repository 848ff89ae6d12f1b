package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"model-mapper/config"
	"model-mapper/examples/catalog"
	"model-mapper/internal/diagnostic"
	"model-mapper/mapper"
	"model-mapper/resolver"
)

type command struct {
	fs       afs.Service
	registry *resolver.Registry
	models   map[string]reflect.Type
	stdout   io.Writer
	stderr   io.Writer
}

func newCommand() (*command, error) {
	registry := resolver.New()
	if err := catalog.Register(registry); err != nil {
		return nil, fmt.Errorf("register catalog: %w", err)
	}

	return &command{
		fs:       afs.New(),
		registry: registry,
		models:   catalog.Models(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}, nil
}

func (c *command) mapper(ctx context.Context, opts *Decode) (*mapper.Mapper, error) {
	cfg := config.Default()

	if opts.ConfigURL != "" {
		loaded, err := config.Load(ctx, opts.ConfigURL)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	m, err := mapper.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	options := m.Options()
	options.Registry = c.registry
	options.ValidateTags = opts.ValidateTags

	return mapper.New(options), nil
}

func (c *command) decode(ctx context.Context, opts *Decode) error {
	t, ok := c.models[opts.Model]
	if !ok {
		return fmt.Errorf("unknown model %q, known: %s", opts.Model, strings.Join(c.modelNames(), ", "))
	}

	m, err := c.mapper(ctx, opts)
	if err != nil {
		return err
	}

	data, err := c.fs.DownloadWithURL(ctx, opts.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.Input, err)
	}

	doc, err := mapper.DecodeJSON(data)
	if err != nil {
		return err
	}

	var (
		models []reflect.Value
		report = &diagnostic.Diagnostics{}
	)

	switch v := doc.(type) {
	case map[string]any:
		ptr := reflect.New(t)

		diag, err := m.DecodeWithReport(ctx, v, ptr.Interface())
		if err != nil {
			return err
		}

		report = diag
		models = append(models, ptr)
	case []any:
		ptr := reflect.New(reflect.SliceOf(t))
		if err := m.DecodeSlice(ctx, v, ptr.Interface()); err != nil {
			return err
		}

		for i := 0; i < ptr.Elem().Len(); i++ {
			models = append(models, ptr.Elem().Index(i).Addr())
		}
	default:
		return fmt.Errorf("%w: %s holds %T, expected an object or an array", mapper.ErrSourceValue, opts.Input, doc)
	}

	out := make([]any, 0, len(models))

	for _, model := range models {
		serialized, err := c.serialize(m, model.Interface(), opts.Strict)
		if err != nil {
			return err
		}

		out = append(out, serialized)
	}

	if opts.Report {
		c.report(report)
	}

	if opts.Archive != "" {
		if err := c.archive(ctx, m, models, opts.Archive); err != nil {
			return err
		}
	}

	if _, isObject := doc.(map[string]any); isObject {
		return c.print(out[0])
	}

	return c.print(out)
}

func (c *command) serialize(m *mapper.Mapper, model any, strict bool) (map[string]any, error) {
	if strict {
		return m.SerializeStrict(model)
	}

	return m.Serialize(model)
}

func (c *command) archive(ctx context.Context, m *mapper.Mapper, models []reflect.Value, URL string) error {
	var buf bytes.Buffer

	for _, model := range models {
		data, err := m.Archive(model.Interface())
		if err != nil {
			return err
		}

		buf.Write(data)
	}

	if err := c.fs.Upload(ctx, URL, file.DefaultFileOsMode, &buf); err != nil {
		return fmt.Errorf("write archive %s: %w", URL, err)
	}

	return nil
}

func (c *command) report(diag *diagnostic.Diagnostics) {
	for _, d := range diag.Warnings {
		fmt.Fprintf(c.stderr, "warning: %s\n", d)
	}

	for _, d := range diag.Infos {
		fmt.Fprintf(c.stderr, "info: %s\n", d)
	}
}

func (c *command) print(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (c *command) listModels(opts *Models) error {
	m := mapper.New(mapper.Options{Registry: c.registry})

	for _, name := range c.modelNames() {
		fmt.Fprintln(c.stdout, name)

		if !opts.Properties {
			continue
		}

		props, err := m.Properties(c.models[name])
		if err != nil {
			return err
		}

		for _, p := range props {
			fmt.Fprintf(c.stdout, "  %-10s %s\n", p.Key, p.Descriptor)
		}
	}

	tags := c.registry.Tags()
	if len(tags) > 0 {
		fmt.Fprintf(c.stdout, "tags: %s\n", strings.Join(tags, ", "))
	}

	return nil
}

func (c *command) modelNames() []string {
	names := make([]string, 0, len(c.models))
	for name := range c.models {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
