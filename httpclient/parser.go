package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"model-mapper/config"
	"model-mapper/internal/ctxlog"
	"model-mapper/mapper"
)

// ResponseParser turns raw responses into envelopes and envelopes into models.
type ResponseParser struct {
	cfg        *config.Config
	mapper     *mapper.Mapper
	errorModel reflect.Type
	logger     *slog.Logger
}

// NewResponseParser creates a parser for the envelope described by cfg. Dates in
// responses are tried against every configured candidate layout. A nil m means
// mapper.Default().
func NewResponseParser(cfg *config.Config, m *mapper.Mapper) *ResponseParser {
	if cfg == nil {
		cfg = config.Default()
	}

	if m == nil {
		m = mapper.Default()
	}

	return &ResponseParser{
		cfg:        cfg,
		mapper:     mapper.New(m.Options().WithDateCandidates(cfg)),
		errorModel: reflect.TypeFor[APIError](),
		logger:     m.Options().Logger,
	}
}

// WithErrorModel returns a copy of p decoding structured error payloads into the
// struct type t.
func (p *ResponseParser) WithErrorModel(t reflect.Type) *ResponseParser {
	cp := *p
	cp.errorModel = t

	return &cp
}

// Mapper returns the mapper used for response models.
func (p *ResponseParser) Mapper() *mapper.Mapper {
	return p.mapper
}

// Parse checks a completed exchange and returns its envelope. An empty body is an
// empty envelope; an envelope without a status field is a success.
func (p *ResponseParser) Parse(ctx context.Context, body []byte, resp *http.Response, transportErr error) (map[string]any, error) {
	if transportErr != nil {
		return nil, transportError(transportErr)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: no response", ErrNetworkConnection)
	}

	envelope, decodeErr := p.envelope(body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &HTTPError{StatusCode: resp.StatusCode}

		if decodeErr == nil {
			e.Message = p.message(envelope)
		}

		if e.Message == "" && decodeErr != nil {
			e.Message = strings.TrimSpace(string(body))
		}

		return nil, e
	}

	if decodeErr != nil {
		return nil, decodeErr
	}

	if status, ok := envelope[p.cfg.Keys.Status]; ok && !p.cfg.IsSuccess(status) {
		return nil, p.failure(ctx, envelope)
	}

	return envelope, nil
}

func (p *ResponseParser) envelope(body []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return map[string]any{}, nil
	}

	doc, err := mapper.DecodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	envelope, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object, got %T", ErrEncoding, doc)
	}

	return envelope, nil
}

func (p *ResponseParser) message(envelope map[string]any) string {
	if msg, ok := envelope[p.cfg.Keys.Message].(string); ok {
		return msg
	}

	if payload, ok := envelope[p.cfg.Keys.Error].(map[string]any); ok {
		if msg, ok := payload[p.cfg.Keys.Message].(string); ok {
			return msg
		}
	}

	return ""
}

// failure builds the error of an envelope whose status is not a success.
func (p *ResponseParser) failure(ctx context.Context, envelope map[string]any) error {
	e := &StatusError{
		Message: p.message(envelope),
		Code:    text(envelope[p.cfg.Keys.Code]),
	}

	payload, ok := envelope[p.cfg.Keys.Error].(map[string]any)
	if !ok || p.errorModel == nil {
		return e
	}

	model := reflect.New(p.errorModel)
	if err := p.mapper.Decode(ctx, payload, model.Interface()); err != nil {
		ctxlog.FromContext(ctx, p.logger).Warn("error payload ignored", "model", p.errorModel.String(), "error", err)
		return e
	}

	e.Payload = model.Interface()

	if e.Code == "" {
		e.Code = text(payload[p.cfg.Keys.Code])
	}

	return e
}

// Object decodes the object field of envelope into dest.
func (p *ResponseParser) Object(ctx context.Context, envelope map[string]any, dest any) error {
	raw, ok := envelope[p.cfg.Keys.Object].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: no %q object", ErrEncoding, p.cfg.Keys.Object)
	}

	return p.mapper.Decode(ctx, raw, dest)
}

// Objects decodes the objects field of envelope into the slice dest points to.
func (p *ResponseParser) Objects(ctx context.Context, envelope map[string]any, dest any) error {
	raw, ok := envelope[p.cfg.Keys.Objects].([]any)
	if !ok {
		return fmt.Errorf("%w: no %q array", ErrEncoding, p.cfg.Keys.Objects)
	}

	return p.mapper.DecodeSlice(ctx, raw, dest)
}

// Success reports the status of an envelope; an envelope without one succeeded.
func (p *ResponseParser) Success(envelope map[string]any) bool {
	status, ok := envelope[p.cfg.Keys.Status]
	if !ok {
		return true
	}

	return p.cfg.IsSuccess(status)
}

func transportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return ErrCanceled
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	return fmt.Errorf("%w: %w", ErrNetworkConnection, err)
}

func text(v any) string {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}
