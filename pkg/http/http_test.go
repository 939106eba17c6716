package http

import (
	"context"
	gohttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_URL(t *testing.T) {
	c := NewClient("http://localhost:3000/api/")

	assert.Equal(t, "http://localhost:3000/api", c.BaseURL())
	assert.Equal(t, "http://localhost:3000/api/users", c.URL("/users"))
	assert.Equal(t, "http://localhost:3000/api/users", c.URL("users"))
	assert.Equal(t, "http://localhost:3000/api", c.URL(""))
	assert.Equal(t, "https://example.com/x", c.URL("https://example.com/x"))
}

func TestRequest_URLWithQuery(t *testing.T) {
	r := Get("http://h/api/users").Query("region", "eu")
	assert.Equal(t, "http://h/api/users?region=eu", r.URL())

	r = Get("http://h/api/users?a=1").Query("region", "asia")
	assert.Equal(t, "http://h/api/users?a=1&region=asia", r.URL())
}

func TestSend_JSONBodyAndHeaders(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(gohttp.StatusCreated, gohttp.Header{"Content-Type": {"application/json"}}, []byte(`{"id":4}`)),
	)

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewClient(server.URL+"/api", WithHeader("X-Suite", "app2-api"))

		resp, err := c.Post("/users").Bearer("tok").Body(map[string]string{"username": "alice_us"}).Send()
		require.NoError(t, err)

		assert.Equal(t, gohttp.StatusCreated, resp.StatusCode)
		assert.True(t, resp.OK())
		assert.Equal(t, gohttp.MethodPost, resp.Method)

		var out struct {
			ID int `json:"id"`
		}
		require.NoError(t, resp.JSON(&out))
		assert.Equal(t, 4, out.ID)

		info := <-requests
		assert.Equal(t, "/api/users", info.Request.URL.Path)
		assert.Equal(t, "application/json", info.Request.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", info.Request.Header.Get("Authorization"))
		assert.Equal(t, "app2-api", info.Request.Header.Get("X-Suite"))
		assert.JSONEq(t, `{"username":"alice_us"}`, string(info.Body))
	})
}

func TestSend_NonSuccessIsAResult(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(gohttp.StatusNotFound), func(server *httptest.Server) {
		resp, err := Get(server.URL).Send()
		require.NoError(t, err)

		assert.False(t, resp.OK())
		assert.Error(t, resp.Throw())
	})
}

func TestSend_RetriesTransportErrors(t *testing.T) {
	handler := httphelpers.SequentialHandler(
		httphelpers.BrokenConnectionHandler(),
		httphelpers.HandlerWithJSONResponse(map[string]string{"status": "healthy"}, nil),
	)

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := Get(server.URL + "/api/health").Retry(3, time.Millisecond).Send()
		require.NoError(t, err)
		assert.Equal(t, gohttp.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Text(), "healthy")
	})
}

func TestSend_GivesUpAfterRetries(t *testing.T) {
	httphelpers.WithServer(httphelpers.BrokenConnectionHandler(), func(server *httptest.Server) {
		_, err := Get(server.URL).Retry(2, time.Millisecond).Send()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "all 2 attempts failed")
	})
}

func TestSend_ContextCancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	httphelpers.WithServer(httphelpers.BrokenConnectionHandler(), func(server *httptest.Server) {
		_, err := Get(server.URL).WithContext(ctx).Retry(5, time.Hour).Send()
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResponse_JSONError(t *testing.T) {
	resp := &Response{StatusCode: 200, Raw: []byte("<html>"), Method: "GET", URL: "http://h/"}
	err := resp.JSON(&map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET http://h/")
}
