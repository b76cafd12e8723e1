package client_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammy-project/sammy-client-go/api"
	"github.com/sammy-project/sammy-client-go/client"
	"github.com/sammy-project/sammy-client-go/config"
	"github.com/sammy-project/sammy-client-go/registry"
)

func newRegistryClient(t *testing.T) (*client.Client, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	server := httptest.NewServer(reg.Handler())
	t.Cleanup(server.Close)

	c, err := client.New(config.Config{APIBaseURL: server.URL}, client.WithLogger(testr.New(t)))
	require.NoError(t, err)
	return c, reg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := client.New(config.Config{APIBaseURL: "localhost:8000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid client config")
}

func TestSystemScenario(t *testing.T) {
	c, _ := newRegistryClient(t)
	ctx := context.Background()

	created, err := c.Systems().Create(ctx, api.SystemBase{Name: "Server A"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, api.System{ID: created.ID, SystemBase: api.SystemBase{Name: "Server A"}}, *created)

	updated, err := c.Systems().Update(ctx, created.ID, api.SystemBase{Name: "Server A2"})
	require.NoError(t, err)
	assert.Equal(t, api.System{ID: created.ID, SystemBase: api.SystemBase{Name: "Server A2"}}, *updated)
}

func TestCreateThenGet(t *testing.T) {
	c, _ := newRegistryClient(t)
	ctx := context.Background()

	sysPayload := api.SystemBase{Name: "billing", Properties: []api.Property{{Key: "owner", Value: "finance"}}}
	sys, err := c.Systems().Create(ctx, sysPayload)
	require.NoError(t, err)
	gotSys, err := c.Systems().Get(ctx, sys.ID)
	require.NoError(t, err)
	assert.Equal(t, api.System{ID: sys.ID, SystemBase: sysPayload}, *gotSys)

	compPayload := api.ComponentBase{Name: "postgres", Type: api.ComponentTypeDatabase, Properties: []api.Property{{Key: "version", Value: "16"}}}
	comp, err := c.Components().Create(ctx, compPayload)
	require.NoError(t, err)
	gotComp, err := c.Components().Get(ctx, comp.ID)
	require.NoError(t, err)
	assert.Equal(t, api.ComponentItem{ID: comp.ID, ComponentBase: compPayload}, *gotComp)
}

func TestDeleteThenGetFails(t *testing.T) {
	c, _ := newRegistryClient(t)
	ctx := context.Background()

	comp, err := c.Components().Create(ctx, api.ComponentBase{Name: "ops team", Type: api.ComponentTypePeople})
	require.NoError(t, err)

	deleted, err := c.Components().Delete(ctx, comp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = c.Components().Get(ctx, comp.ID)
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("Component with ID %s not found", comp.ID), err.Error())

	deleted, err = c.Components().Delete(ctx, comp.ID)
	require.Error(t, err)
	assert.False(t, deleted)
}

func TestListEmptyCollection(t *testing.T) {
	c, _ := newRegistryClient(t)

	systems, err := c.Systems().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, systems)
	assert.Empty(t, systems)

	components, err := c.Components().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, components)
	assert.Empty(t, components)
}

func TestListReturnsServerOrder(t *testing.T) {
	c, reg := newRegistryClient(t)
	reg.MustUpsertSystem(api.System{ID: "00000000-0000-4000-8000-000000000002", SystemBase: api.SystemBase{Name: "b"}})
	reg.MustUpsertSystem(api.System{ID: "00000000-0000-4000-8000-000000000001", SystemBase: api.SystemBase{Name: "a"}})

	systems, err := c.Systems().List(context.Background())
	require.NoError(t, err)
	require.Len(t, systems, 2)
	assert.Equal(t, "a", systems[0].Name)
	assert.Equal(t, "b", systems[1].Name)
}

func TestListNullBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	c, err := client.New(config.Config{APIBaseURL: server.URL})
	require.NoError(t, err)

	items, err := c.Components().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestValidationDetailIsPassedThrough(t *testing.T) {
	c, _ := newRegistryClient(t)

	_, err := c.Components().Create(context.Background(), api.ComponentBase{Name: "x", Type: "firmware"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), `[{"type":"enum","loc":["body","type"]`), err.Error())
}

type capturedRequest struct {
	method      string
	requestURI  string
	contentType string
	userAgent   string
	extra       string
	body        string
}

type recorder struct {
	mu   sync.Mutex
	last capturedRequest
}

func (r *recorder) get() capturedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func recordingServer(t *testing.T, status int, response string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.last = capturedRequest{
			method:      r.Method,
			requestURI:  r.RequestURI,
			contentType: r.Header.Get("Content-Type"),
			userAgent:   r.Header.Get("User-Agent"),
			extra:       r.Header.Get("X-Request-Source"),
			body:        string(body),
		}
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestWireFormat(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name       string
		call       func(c *client.Client) error
		wantMethod string
		wantURI    string
		wantBody   string
		response   string
	}{
		{
			name:       "list systems",
			call:       func(c *client.Client) error { _, err := c.Systems().List(ctx); return err },
			wantMethod: http.MethodGet, wantURI: "/api/systems/", response: `[]`,
		},
		{
			name:       "get component",
			call:       func(c *client.Client) error { _, err := c.Components().Get(ctx, "c1"); return err },
			wantMethod: http.MethodGet, wantURI: "/api/components/c1", response: `{"id":"c1"}`,
		},
		{
			name: "create system",
			call: func(c *client.Client) error {
				_, err := c.Systems().Create(ctx, api.SystemBase{Name: "Server A"})
				return err
			},
			wantMethod: http.MethodPost, wantURI: "/api/systems/", wantBody: `{"name":"Server A"}`, response: `{"id":"s1","name":"Server A"}`,
		},
		{
			name: "update component",
			call: func(c *client.Client) error {
				_, err := c.Components().Update(ctx, "c1", api.ComponentBase{Name: "web", Type: api.ComponentTypeSoftware})
				return err
			},
			wantMethod: http.MethodPut, wantURI: "/api/components/c1", wantBody: `{"name":"web","type":"software"}`, response: `{"id":"c1"}`,
		},
		{
			name:       "delete system",
			call:       func(c *client.Client) error { _, err := c.Systems().Delete(ctx, "s1"); return err },
			wantMethod: http.MethodDelete, wantURI: "/api/systems/s1", response: `this body is ignored`,
		},
		{
			name:       "id is path escaped",
			call:       func(c *client.Client) error { _, err := c.Systems().Get(ctx, "a/b c"); return err },
			wantMethod: http.MethodGet, wantURI: "/api/systems/a%2Fb%20c", response: `{}`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			server, rec := recordingServer(t, http.StatusOK, tc.response)
			c, err := client.New(config.Config{APIBaseURL: server.URL + "/api/"})
			require.NoError(t, err)

			require.NoError(t, tc.call(c))
			captured := rec.get()
			assert.Equal(t, tc.wantMethod, captured.method)
			assert.Equal(t, tc.wantURI, captured.requestURI)
			assert.Equal(t, "application/json", captured.contentType)
			assert.True(t, strings.HasPrefix(captured.userAgent, "sammy-client-go/"), captured.userAgent)
			if tc.wantBody == "" {
				assert.Empty(t, captured.body)
			} else {
				assert.JSONEq(t, tc.wantBody, captured.body)
			}
		})
	}
}

func TestHeaderOptions(t *testing.T) {
	server, rec := recordingServer(t, http.StatusOK, `{}`)
	c, err := client.New(config.Config{APIBaseURL: server.URL},
		client.WithHeader("X-Request-Source", "cli"),
		client.WithHeader("Content-Type", "text/plain"))
	require.NoError(t, err)

	require.NoError(t, c.Do(context.Background(), "/systems/", client.RequestOptions{}, nil))
	captured := rec.get()
	assert.Equal(t, http.MethodGet, captured.method)
	assert.Equal(t, "application/json", captured.contentType)
	assert.Equal(t, "cli", captured.extra)

	var out map[string]interface{}
	err = c.Do(context.Background(), "/systems/", client.RequestOptions{
		Method:  http.MethodPost,
		Body:    map[string]string{"name": "x"},
		Headers: http.Header{"x-request-source": {"override"}, "User-Agent": {"custom/1.0"}},
	}, &out)
	require.NoError(t, err)
	captured = rec.get()
	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "override", captured.extra)
	assert.Equal(t, "custom/1.0", captured.userAgent)
	assert.JSONEq(t, `{"name":"x"}`, captured.body)
}

func TestStatusWithoutDetail(t *testing.T) {
	server, _ := recordingServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	c, err := client.New(config.Config{APIBaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Systems().List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Server error: 502", err.Error())

	var httpErr *client.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, `<html>bad gateway</html>`, string(httpErr.Body))
}

func TestFailureIsLoggedOnceAndNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"database unavailable"}`))
	}))
	defer server.Close()

	var lines []string
	logger := funcr.New(func(_, args string) { lines = append(lines, args) }, funcr.Options{})
	c, err := client.New(config.Config{APIBaseURL: server.URL}, client.WithLogger(logger))
	require.NoError(t, err)

	_, err = c.Systems().Get(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, "database unavailable", err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg"="API Error"`)
	assert.Contains(t, lines[0], `"path"="/systems/s1"`)
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := client.New(config.Config{APIBaseURL: url})
	require.NoError(t, err)

	_, err = c.Components().List(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Server error")
	assert.Contains(t, err.Error(), "connect")

	var netErr *client.NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestDecodeFailure(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `not json`)
	c, err := client.New(config.Config{APIBaseURL: server.URL})
	require.NoError(t, err)

	_, err = c.Systems().Get(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "decode response: "), err.Error())

	var decodeErr *client.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestRequestEncodingFailure(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `{}`)
	c, err := client.New(config.Config{APIBaseURL: server.URL})
	require.NoError(t, err)

	err = c.Do(context.Background(), "/systems/", client.RequestOptions{Method: http.MethodPost, Body: make(chan int)}, nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "build request: "), err.Error())

	var reqErr *client.RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestConcurrentCreates(t *testing.T) {
	c, reg := newRegistryClient(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Systems().Create(context.Background(), api.SystemBase{Name: fmt.Sprintf("system-%d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, reg.Systems(), 20)
}
