package actuator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/actuator/", 2*time.Second)
}

func TestClient_Health(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actuator/health", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"UP","components":{"ping":{"status":"UP"},"db":{"status":"UP","details":{"database":"H2"}},"custom":{}}}`))
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "UP", h.Status)
	assert.Equal(t, []string{"custom", "db", "ping"}, h.ComponentNames())
	assert.Equal(t, "H2", h.Components["db"].Details["database"])
	assert.Empty(t, h.Components["custom"].Status)
}

func TestClient_MetricWithTags(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actuator/metrics/jvm.memory.used", r.URL.Path)
		assert.Equal(t, []string{"area:heap", "id:G1 Eden Space"}, r.URL.Query()["tag"])
		_, _ = w.Write([]byte(`{"name":"jvm.memory.used","baseUnit":"bytes","measurements":[{"statistic":"VALUE","value":5.24288E8}],"availableTags":[{"tag":"id","values":["G1 Eden Space"]}]}`))
	})

	m, err := c.Metric(context.Background(), "jvm.memory.used", T("area", "heap"), T("id", "G1 Eden Space"))
	require.NoError(t, err)

	assert.Equal(t, "jvm.memory.used", m.Name)
	assert.Equal(t, 524288000.0, m.First())
	assert.Equal(t, []string{"G1 Eden Space"}, m.TagValues("id"))
	assert.Nil(t, m.TagValues("status"))
}

func TestClient_MetricWithoutTagsHasNoQuery(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"name":"process.uptime","measurements":[]}`))
	})

	m, err := c.Metric(context.Background(), "process.uptime")
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.First(), "no measurements reads as zero")
}

func TestClient_Catalog(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actuator/metrics", r.URL.Path)
		_, _ = w.Write([]byte(`{"names":["jvm.gc.pause","jvm.memory.used","jvm.gc.memory.allocated"]}`))
	})

	cat, err := c.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"jvm.gc.pause", "jvm.gc.memory.allocated"}, cat.Filter("jvm.gc."))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    string
		msg     string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			code: errors.ErrHTTP,
			msg:  "returned status 404",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"DOWN"}`))
			},
			code: errors.ErrHTTP,
			msg:  "returned status 503",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>login</html>`))
			},
			code: errors.ErrDecode,
			msg:  "isn't actuator JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, tt.handler)
			_, err := c.Health(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := c.Catalog(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrHTTP))
}

func TestClient_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Health(ctx)
	require.Error(t, err)
}

func TestIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	down := NewClient(srv.URL+"/actuator", 2*time.Second)

	_, notFound := down.Health(context.Background())
	require.Error(t, notFound)
	assert.False(t, IsUnreachable(notFound), "an error status is a response")

	srv.Close()
	_, refused := down.Health(context.Background())
	require.Error(t, refused)
	assert.True(t, IsUnreachable(refused))
	assert.True(t, errors.IsCode(refused, errors.ErrHTTP))

	assert.False(t, IsUnreachable(nil))
	assert.False(t, IsUnreachable(errors.New(errors.ErrDecode, "bad json", "")))
}

func TestNewClient_TrimsBaseURL(t *testing.T) {
	c := NewClient("http://localhost:8080/actuator///", 0)
	assert.Equal(t, "http://localhost:8080/actuator", c.BaseURL())
}

func TestMetric_TagValuesJoinsRepeatedTags(t *testing.T) {
	m := &Metric{AvailableTags: []AvailableTag{
		{Tag: "status", Values: []string{"200", "404"}},
		{Tag: "method", Values: []string{"GET"}},
		{Tag: "status", Values: []string{"500"}},
	}}

	assert.Equal(t, []string{"200", "404", "500"}, m.TagValues("status"))
	assert.Equal(t, []string{"GET"}, m.TagValues("method"))
	assert.Nil(t, m.TagValues("uri"))
}

func TestMetric_NilSafe(t *testing.T) {
	var m *Metric
	assert.Equal(t, 0.0, m.First())
	assert.Nil(t, m.TagValues("status"))

	var c *Catalog
	assert.Nil(t, c.Filter("jvm"))
}
