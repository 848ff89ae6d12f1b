package httpclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-mapper/config"
	"model-mapper/examples/catalog"
	"model-mapper/httpclient"
	"model-mapper/mapper"
	"model-mapper/resolver"
)

func newClient(t *testing.T, handler http.HandlerFunc, adjust ...func(*httpclient.Options)) *httpclient.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	registry := resolver.New()
	require.NoError(t, catalog.Register(registry))

	opts := mapper.DefaultOptions()
	opts.Registry = registry

	clientOpts := httpclient.Options{
		HTTPClient: srv.Client(),
		Mapper:     mapper.New(opts),
	}

	for _, fn := range adjust {
		fn(&clientOpts)
	}

	c, err := httpclient.New(srv.URL+"/api/", clientOpts)
	require.NoError(t, err)

	return c
}

func respond(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestClient_Object(t *testing.T) {
	var gotPath, gotQuery string

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		respond(`{"status":"ok","object":{"id":"1","name":"x","songs":[{"id":"1","name":"a"}]}}`, http.StatusOK)(w, r)
	})

	var album catalog.Album
	err := c.Object(context.Background(), httpclient.Request{Path: "albums/1", Query: map[string][]string{"full": {"true"}}}, &album)
	require.NoError(t, err)

	assert.Equal(t, "/api/albums/1", gotPath)
	assert.Equal(t, "full=true", gotQuery)
	assert.Equal(t, catalog.Album{ID: "1", Name: "x", Songs: []catalog.Song{{ID: "1", Name: "a"}}}, album)
}

func TestClient_Objects(t *testing.T) {
	c := newClient(t, respond(`{"status":true,"objects":[{"id":"1","name":"a"},{"id":"2","name":"b"}]}`, http.StatusOK))

	var songs []catalog.Song
	require.NoError(t, c.Objects(context.Background(), httpclient.Request{Path: "songs"}, &songs))
	assert.Len(t, songs, 2)

	var album catalog.Album
	assert.ErrorIs(t, c.Object(context.Background(), httpclient.Request{Path: "songs"}, &album), httpclient.ErrEncoding)
}

func TestClient_Success(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    bool
		wantErr bool
	}{
		{name: "bool status", body: `{"status":true}`, want: true},
		{name: "text status", body: `{"status":"Success"}`, want: true},
		{name: "no status", body: `{}`, want: true},
		{name: "empty body", body: ``, want: true},
		{name: "failed status", body: `{"status":false,"message":"nope"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, respond(tt.body, http.StatusOK))

			got, err := c.Success(context.Background(), httpclient.Request{Method: http.MethodDelete, Path: "albums/1"})
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_StatusErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("message and code", func(t *testing.T) {
		c := newClient(t, respond(`{"status":"fail","message":"album is locked","code":423}`, http.StatusOK))

		_, err := c.Do(ctx, httpclient.Request{Path: "albums/1"})

		var statusErr *httpclient.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "album is locked", statusErr.Message)
		assert.Equal(t, "423", statusErr.Code)
		assert.Nil(t, statusErr.Payload)
	})

	t.Run("structured payload", func(t *testing.T) {
		c := newClient(t, respond(`{"status":"fail","error":{"message":"bad id","code":"E42","details":{"id":"not a number"}}}`, http.StatusOK))

		_, err := c.Do(ctx, httpclient.Request{Path: "albums/x"})

		var apiErr *httpclient.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "E42", apiErr.Code)
		assert.Equal(t, map[string]string{"id": "not a number"}, apiErr.Details)

		var statusErr *httpclient.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "bad id", statusErr.Message)
		assert.Equal(t, "E42", statusErr.Code)
	})

	t.Run("custom error model", func(t *testing.T) {
		type problem struct {
			Title string `json:"title"`
		}

		c := newClient(t, respond(`{"status":"fail","error":{"title":"conflict"}}`, http.StatusOK)).
			WithErrorModel(reflect.TypeFor[problem]())

		_, err := c.Do(ctx, httpclient.Request{Path: "albums/1"})

		var statusErr *httpclient.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, &problem{Title: "conflict"}, statusErr.Payload)
	})
}

func TestClient_TransportErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("http status", func(t *testing.T) {
		c := newClient(t, respond(`{"message":"no such album"}`, http.StatusNotFound))

		_, err := c.Do(ctx, httpclient.Request{Path: "albums/9"})

		var httpErr *httpclient.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
		assert.Equal(t, "no such album", httpErr.Message)
	})

	t.Run("plain text error", func(t *testing.T) {
		c := newClient(t, respond("upstream down\n", http.StatusBadGateway))

		_, err := c.Do(ctx, httpclient.Request{Path: "albums"})

		var httpErr *httpclient.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "upstream down", httpErr.Message)
	})

	t.Run("encoding", func(t *testing.T) {
		c := newClient(t, respond(`{"status":`, http.StatusOK))

		_, err := c.Do(ctx, httpclient.Request{Path: "albums"})
		assert.ErrorIs(t, err, httpclient.ErrEncoding)

		c = newClient(t, respond(`[1,2]`, http.StatusOK))

		_, err = c.Do(ctx, httpclient.Request{Path: "albums"})
		assert.ErrorIs(t, err, httpclient.ErrEncoding)
	})

	t.Run("network", func(t *testing.T) {
		srv := httptest.NewServer(respond(`{}`, http.StatusOK))
		url := srv.URL
		srv.Close()

		c, err := httpclient.New(url, httpclient.Options{})
		require.NoError(t, err)

		_, err = c.Do(ctx, httpclient.Request{Path: "albums"})
		assert.ErrorIs(t, err, httpclient.ErrNetworkConnection)
	})

	t.Run("timeout", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		})

		_, err := c.Do(ctx, httpclient.Request{Path: "albums", Timeout: 20 * time.Millisecond})
		assert.ErrorIs(t, err, httpclient.ErrNetworkConnection)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := httpclient.New("not a url", httpclient.Options{})
		assert.ErrorIs(t, err, httpclient.ErrInvalidURL)

		c := newClient(t, respond(`{}`, http.StatusOK))
		_, err = c.Do(ctx, httpclient.Request{Path: "%zz"})
		assert.ErrorIs(t, err, httpclient.ErrInvalidURL)
	})
}

func TestClient_RequestBody(t *testing.T) {
	var received map[string]any

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		respond(`{"status":"ok"}`, http.StatusOK)(w, r)
	})

	movie := catalog.Movie{Title: "Heat", Year: 1995, Genre: catalog.GenreDrama}

	_, err := c.Do(context.Background(), httpclient.Request{
		Method: http.MethodPost,
		Path:   "movies",
		Header: http.Header{"X-Token": {"secret"}},
		Body:   &movie,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Heat", "year": float64(1995), "genre": "drama"}, received)
}

type concert struct {
	Venue string    `json:"venue"`
	Date  time.Time `json:"date"`
}

func TestClient_DateCandidates(t *testing.T) {
	cfg, err := config.Parse([]byte(`
dateFormats:
  - "2006-01-02"
  - "2006-01-02T15:04:05Z07:00"
`))
	require.NoError(t, err)

	c := newClient(t, respond(`{"status":"ok","objects":[{"venue":"a","date":"2024-05-01"},{"venue":"b","date":"2024-05-02T20:00:00Z"}]}`, http.StatusOK),
		func(o *httpclient.Options) { o.Config = cfg })

	var concerts []concert
	require.NoError(t, c.Objects(context.Background(), httpclient.Request{Path: "concerts"}, &concerts))
	require.Len(t, concerts, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), concerts[0].Date)
	assert.Equal(t, time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC), concerts[1].Date)
}

func TestClient_Go(t *testing.T) {
	c := newClient(t, respond(`{"status":"ok","object":{"id":"1","name":"x"}}`, http.StatusOK))

	var calls atomic.Int32

	task := c.Go(context.Background(), httpclient.Request{Path: "albums/1"}, func(resp *httpclient.Response, err error) {
		calls.Add(1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	resp, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Envelope["status"])

	task.Cancel()
	assert.Equal(t, int32(1), calls.Load())
}

func TestTask_Cancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	var parentCalls, subCalls atomic.Int32

	parent := c.Go(context.Background(), httpclient.Request{Path: "slow"}, func(_ *httpclient.Response, err error) {
		parentCalls.Add(1)
		assert.ErrorIs(t, err, httpclient.ErrCanceled)
	})

	sub := c.Go(context.Background(), httpclient.Request{Path: "slow"}, func(_ *httpclient.Response, err error) {
		subCalls.Add(1)
		assert.ErrorIs(t, err, httpclient.ErrCanceled)
	})
	parent.Sub(sub)

	parent.Cancel()
	parent.Cancel()

	_, err := parent.Wait()
	assert.ErrorIs(t, err, httpclient.ErrCanceled)

	_, err = sub.Wait()
	assert.ErrorIs(t, err, httpclient.ErrCanceled)

	late := c.Go(context.Background(), httpclient.Request{Path: "slow"}, nil)
	parent.Sub(late)

	_, err = late.Wait()
	assert.ErrorIs(t, err, httpclient.ErrCanceled)

	assert.Equal(t, int32(1), parentCalls.Load())
	assert.Equal(t, int32(1), subCalls.Load())
}

func TestQueueExecutor(t *testing.T) {
	q := httpclient.NewQueueExecutor(4)

	var order []int

	for i := range 3 {
		q.Execute(func() { order = append(order, i) })
	}

	q.Close()
	assert.Equal(t, []int{0, 1, 2}, order)
}
