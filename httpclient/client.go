// Package httpclient calls JSON APIs that wrap their payload in a status envelope
// and decodes the payload with the model mapper.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"model-mapper/config"
	"model-mapper/internal/ctxlog"
	"model-mapper/mapper"
)

// Options configures a Client. Zero values fall back to http.DefaultClient,
// config.Default(), mapper.Default(), GoExecutor and slog.Default().
type Options struct {
	HTTPClient *http.Client
	Config     *config.Config
	Mapper     *mapper.Mapper
	Executor   Executor
	Logger     *slog.Logger
}

// Client sends requests relative to a base URL.
type Client struct {
	base     *url.URL
	http     *http.Client
	parser   *ResponseParser
	executor Executor
	logger   *slog.Logger
}

// Request is one API call. Body is sent as JSON: a struct model is serialized with
// the mapper first, []byte and string are sent as is.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Header  http.Header
	Body    any
	Timeout time.Duration
}

// Response is a checked response: a 2xx status with a success envelope.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Envelope   map[string]any
}

// New creates a client. baseURL must be absolute.
func New(baseURL string, opts Options) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base %q", ErrInvalidURL, baseURL)
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	if opts.Executor == nil {
		opts.Executor = GoExecutor
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		base:     base,
		http:     opts.HTTPClient,
		parser:   NewResponseParser(opts.Config, opts.Mapper),
		executor: opts.Executor,
		logger:   opts.Logger,
	}, nil
}

// Parser returns the response parser of the client.
func (c *Client) Parser() *ResponseParser {
	return c.parser
}

// WithErrorModel returns a copy of c decoding error payloads into t.
func (c *Client) WithErrorModel(t reflect.Type) *Client {
	cp := *c
	cp.parser = c.parser.WithErrorModel(t)

	return &cp
}

// Do sends req and waits for the checked response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	logger := ctxlog.FromContext(ctx, c.logger)

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Debug("http request", "method", httpReq.Method, "url", httpReq.URL.String())

	httpResp, err := c.http.Do(httpReq)

	var body []byte

	if err == nil {
		defer httpResp.Body.Close()

		body, err = io.ReadAll(httpResp.Body)
	}

	envelope, err := c.parser.Parse(ctx, body, httpResp, err)
	if err != nil {
		logger.Debug("http request failed", "method", httpReq.Method, "url", httpReq.URL.String(), "error", err)
		return nil, err
	}

	logger.Debug("http response", "status", httpResp.Status)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		Envelope:   envelope,
	}, nil
}

// Go sends req asynchronously. callback runs exactly once through the executor.
func (c *Client) Go(ctx context.Context, req Request, callback Callback) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := newTask(cancel, c.executor, callback)

	go func() {
		defer cancel()

		resp, err := c.Do(ctx, req)
		task.complete(resp, err)
	}()

	return task
}

// Object sends req and decodes the envelope object into dest.
func (c *Client) Object(ctx context.Context, req Request, dest any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}

	return c.parser.Object(ctx, resp.Envelope, dest)
}

// Objects sends req and decodes the envelope objects into the slice dest points to.
func (c *Client) Objects(ctx context.Context, req Request, dest any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}

	return c.parser.Objects(ctx, resp.Envelope, dest)
}

// Success sends req and reports whether it succeeded; a failed status is an error.
func (c *Client) Success(ctx context.Context, req Request) (bool, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return false, err
	}

	return c.parser.Success(resp.Envelope), nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	ref, err := url.Parse(req.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: path %q: %v", ErrInvalidURL, req.Path, err)
	}

	target := c.base.ResolveReference(ref)

	if len(req.Query) > 0 {
		query := target.Query()
		for k, values := range req.Query {
			for _, v := range values {
				query.Add(k, v)
			}
		}

		target.RawQuery = query.Encode()
	}

	body, err := c.body(req.Body)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	httpReq.Header.Set("Accept", "application/json")

	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return httpReq, nil
}

func (c *Client) body(v any) (io.Reader, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case io.Reader:
		return b, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Struct {
		doc, err := c.parser.Mapper().Serialize(v)
		if err != nil {
			return nil, err
		}

		v = doc
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: request body: %v", ErrEncoding, err)
	}

	return bytes.NewReader(data), nil
}
