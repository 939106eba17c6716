package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(body)) }
}

func tag(value string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Tag", value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsJoinPrefixesAndMiddleware(t *testing.T) {
	r := New()
	api := r.Group("/api", tag("api"))
	users := api.Group("users", tag("users"))
	users.Get("/{id}", "users.show", ok("show"), tag("route"))
	users.Delete("/{id}", "users.destroy", ok("gone"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/7", nil))
	assert.Equal(t, "show", rec.Body.String())
	assert.Equal(t, []string{"api", "users", "route"}, rec.Header().Values("X-Tag"))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/users/7", nil))
	assert.Equal(t, "gone", rec.Body.String())
}

func TestURL(t *testing.T) {
	r := New()
	r.Group("api").Put("users/{id}", "users.update", ok(""))

	url, err := r.URL("users.update", map[string]string{"id": "3"})
	require.NoError(t, err)
	assert.Equal(t, "/api/users/3", url)

	_, err = r.URL("users.update", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesAreSorted(t *testing.T) {
	r := New()
	r.Post("/b", "", ok(""))
	r.Get("/b", "b", ok(""))
	r.Get("/a", "a", ok(""))

	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/a", Name: "a"},
		{Method: http.MethodGet, Path: "/b", Name: "b"},
		{Method: http.MethodPost, Path: "/b"},
	}, r.Routes())
}

func TestNotFound(t *testing.T) {
	r := New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath())
	assert.Equal(t, "/", joinPath("", "/"))
	assert.Equal(t, "/api/users", joinPath("/api/", "/users/"))
}
