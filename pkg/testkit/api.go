// Package testkit holds the assertion helpers the API and combined suites are
// written with: an HTTP helper that checks status codes as it goes, a polling
// wait, and a runner for request/response scenarios stored as region
// fixtures.
//
//	api := testkit.NewAPIHelper(t, env.BaseURL)
//	resp := api.Post("/api/users", newUser)         // asserts 201
//	body := api.ValidateSchema(resp, "id", "username")
//	api.Delete(fmt.Sprintf("/api/users/%v", body["id"]))
package testkit

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kashvihttp "github.com/shashiranjanraj/e2esuite/pkg/http"
)

// APIHelper issues requests against a base URL and asserts the status of
// every response. Failed transport calls stop the test.
type APIHelper struct {
	t      testing.TB
	client *kashvihttp.Client
	token  string
}

func NewAPIHelper(t testing.TB, baseURL string, opts ...kashvihttp.ClientOption) *APIHelper {
	return &APIHelper{t: t, client: kashvihttp.NewClient(baseURL, opts...)}
}

// Client exposes the underlying fluent client for requests the helper does
// not cover.
func (h *APIHelper) Client() *kashvihttp.Client { return h.client }

// WithToken returns a copy of h that sends Authorization: Bearer token.
func (h *APIHelper) WithToken(token string) *APIHelper {
	c := *h
	c.token = token
	return &c
}

// Get expects 200 unless a status is given.
func (h *APIHelper) Get(endpoint string, expected ...int) *kashvihttp.Response {
	h.t.Helper()
	return h.send(h.client.Get(endpoint), status(expected, http.StatusOK))
}

// Post expects 201 unless a status is given.
func (h *APIHelper) Post(endpoint string, body any, expected ...int) *kashvihttp.Response {
	h.t.Helper()
	return h.send(h.client.Post(endpoint).Body(body), status(expected, http.StatusCreated))
}

// Put expects 200 unless a status is given.
func (h *APIHelper) Put(endpoint string, body any, expected ...int) *kashvihttp.Response {
	h.t.Helper()
	return h.send(h.client.Put(endpoint).Body(body), status(expected, http.StatusOK))
}

// Delete expects 200 unless a status is given.
func (h *APIHelper) Delete(endpoint string, expected ...int) *kashvihttp.Response {
	h.t.Helper()
	return h.send(h.client.Delete(endpoint), status(expected, http.StatusOK))
}

// ValidateSchema decodes a JSON object body and asserts each field is present.
func (h *APIHelper) ValidateSchema(resp *kashvihttp.Response, fields ...string) map[string]any {
	h.t.Helper()

	var body map[string]any
	h.JSON(resp, &body)
	for _, f := range fields {
		assert.Contains(h.t, body, f, "%s %s: response is missing field %q", resp.Method, resp.URL, f)
	}
	return body
}

// JSON decodes the body into dest or stops the test.
func (h *APIHelper) JSON(resp *kashvihttp.Response, dest any) {
	h.t.Helper()
	require.NoError(h.t, resp.JSON(dest))
}

// ValidateResponseData asserts that every key of expected has an equal value
// in actual. Extra keys in actual are ignored. Both sides are compared in
// their JSON form, so 2 and 2.0 are equal.
func (h *APIHelper) ValidateResponseData(actual, expected map[string]any) {
	h.t.Helper()
	ValidateResponseData(h.t, actual, expected)
}

// ValidateResponseData is the free-function form of APIHelper.ValidateResponseData.
func ValidateResponseData(t testing.TB, actual, expected map[string]any) {
	t.Helper()

	act := normalise(t, actual)
	for key, want := range normalise(t, expected) {
		got, ok := act[key]
		if !assert.True(t, ok, "response is missing key %q", key) {
			continue
		}
		assert.Equal(t, want, got, "response key %q", key)
	}
}

func (h *APIHelper) send(r *kashvihttp.Request, want int) *kashvihttp.Response {
	h.t.Helper()

	if h.token != "" {
		r.Bearer(h.token)
	}
	resp, err := r.Send()
	require.NoError(h.t, err, "%s %s", r.Method(), r.URL())
	assert.Equal(h.t, want, resp.StatusCode, "%s %s: unexpected status\nbody: %s", resp.Method, resp.URL, resp.Text())
	return resp
}

func status(given []int, fallback int) int {
	if len(given) > 0 && given[0] != 0 {
		return given[0]
	}
	return fallback
}

func normalise(t testing.TB, m map[string]any) map[string]any {
	t.Helper()

	b, err := json.Marshal(m)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}
