package kernel_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/e2esuite/internal/kernel"
	"github.com/shashiranjanraj/e2esuite/pkg/fixtures"
	"github.com/shashiranjanraj/e2esuite/pkg/testkit"
)

func newServer(t *testing.T) (*kernel.HTTPKernel, *testkit.APIHelper) {
	t.Helper()
	k := kernel.NewHTTPKernel()
	srv := httptest.NewServer(k.Handler())
	t.Cleanup(srv.Close)
	return k, testkit.NewAPIHelper(t, srv.URL)
}

func quietResolver() *fixtures.Resolver {
	return fixtures.New(
		fixtures.WithWorkDir("../.."),
		fixtures.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestRegionScenarios(t *testing.T) {
	k := kernel.NewHTTPKernel()
	testkit.RunRegionScenarios(t, testkit.HandlerTarget(k.Handler()), quietResolver(), "app2-api", "scenarios.json",
		testkit.BeforeRegion(func(fixtures.Region) { k.Store().Reset() }),
	)
}

func TestHealth(t *testing.T) {
	_, api := newServer(t)

	body := api.ValidateSchema(api.Get("/api/health"), "status", "timestamp")
	assert.Equal(t, "healthy", body["status"])

	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
}

func TestUsers_CRUD(t *testing.T) {
	_, api := newServer(t)

	list := api.ValidateSchema(api.Get("/api/users"), "users", "count")
	assert.EqualValues(t, 3, list["count"])

	created := api.ValidateSchema(api.Post("/api/users", map[string]string{
		"username": "alice_us", "email": "alice@example.com", "region": "us",
	}), "id", "username", "email", "region")
	api.ValidateResponseData(created, map[string]any{"id": 4, "username": "alice_us", "region": "us"})
	assert.NotContains(t, created, "password")

	updated := api.ValidateSchema(api.Put("/api/users/4", map[string]string{"username": "alice_updated"}))
	api.ValidateResponseData(updated, map[string]any{"id": 4, "username": "alice_updated", "email": "alice@example.com"})

	deleted := api.ValidateSchema(api.Delete("/api/users/4"), "message", "user")
	assert.Equal(t, "User deleted", deleted["message"])

	gone := api.ValidateSchema(api.Get("/api/users/4", http.StatusNotFound), "error")
	assert.Equal(t, "User not found", gone["error"])
}

func TestUsers_FilterByRegion(t *testing.T) {
	_, api := newServer(t)

	for _, region := range fixtures.Regions() {
		var out struct {
			Users []struct {
				Region string `json:"region"`
			} `json:"users"`
			Count int `json:"count"`
		}
		api.JSON(api.Get("/api/users?region="+string(region)), &out)

		assert.Equal(t, 1, out.Count, region)
		for _, u := range out.Users {
			assert.Equal(t, string(region), u.Region)
		}
	}
}

func TestUsers_Errors(t *testing.T) {
	_, api := newServer(t)

	api.Get("/api/users/99999", http.StatusNotFound)
	api.Get("/api/users/abc", http.StatusNotFound)
	api.Put("/api/users/99999", map[string]string{"username": "x"}, http.StatusNotFound)
	api.Delete("/api/users/99999", http.StatusNotFound)

	resp := api.Post("/api/users", map[string]string{"username": "x", "email": "not-an-email"}, http.StatusUnprocessableEntity)
	api.ValidateSchema(resp, "error", "fields")

	resp, err := api.Client().Post("/api/users").Body("{not json").Header("Content-Type", "application/json").Send()
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts(t *testing.T) {
	_, api := newServer(t)

	all := api.ValidateSchema(api.Get("/api/products"), "products", "count")
	assert.EqualValues(t, 6, all["count"])

	currencies := map[fixtures.Region]string{fixtures.US: "USD", fixtures.EU: "EUR", fixtures.Asia: "JPY"}
	for region, currency := range currencies {
		var out struct {
			Products []struct {
				Currency string `json:"currency"`
			} `json:"products"`
		}
		api.JSON(api.Get("/api/products?region="+string(region)), &out)
		require.Len(t, out.Products, 2)
		for _, p := range out.Products {
			assert.Equal(t, currency, p.Currency)
		}
	}

	laptop := api.ValidateSchema(api.Get("/api/products/5"))
	api.ValidateResponseData(laptop, map[string]any{"name": "Laptop", "price": 110000, "currency": "JPY"})

	created := api.ValidateSchema(api.Post("/api/products", map[string]any{
		"id": 42, "name": "Test Headphones", "price": 149, "currency": "USD", "region": "us",
	}))
	api.ValidateResponseData(created, map[string]any{"id": 7, "name": "Test Headphones"})

	missing := api.ValidateSchema(api.Get("/api/products/99999", http.StatusNotFound), "error")
	assert.Equal(t, "Product not found", missing["error"])
}

func TestLogin(t *testing.T) {
	_, api := newServer(t)

	for i, username := range []string{"john_us", "jane_eu", "bob_asia"} {
		body := api.ValidateSchema(api.Post("/api/login", map[string]string{
			"username": username, "password": "password123",
		}, http.StatusOK), "success", "token", "accessToken", "user")

		assert.Equal(t, true, body["success"])
		assert.Equal(t, fmt.Sprintf("mock-jwt-token-%d", i+1), body["token"])
		assert.Equal(t, username, body["user"].(map[string]any)["username"])
	}

	for _, creds := range []map[string]string{
		{"username": "john_us", "password": "wrongpassword"},
		{"username": "nonexistent_user", "password": "password123"},
		{},
	} {
		body := api.ValidateSchema(api.Post("/api/login", creds, http.StatusUnauthorized), "success", "error")
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Invalid credentials", body["error"])
	}
}

func TestProfile(t *testing.T) {
	_, api := newServer(t)

	api.Get("/api/profile", http.StatusUnauthorized)
	api.WithToken("garbage").Get("/api/profile", http.StatusUnauthorized)

	login := api.ValidateSchema(api.Post("/api/login", map[string]string{
		"username": "jane_eu", "password": "password123",
	}, http.StatusOK), "accessToken")

	authed := api.WithToken(login["accessToken"].(string))
	profile := authed.ValidateSchema(authed.Get("/api/profile"), "id", "username")
	api.ValidateResponseData(profile, map[string]any{"id": 2, "username": "jane_eu", "region": "eu"})
}

func TestPages(t *testing.T) {
	_, api := newServer(t)

	for path, marker := range map[string]string{
		"/":         `id="app-title"`,
		"/login":    `id="login-btn"`,
		"/products": `id="products-container"`,
		"/users":    `id="users-container"`,
	} {
		resp := api.Get(path)
		assert.Contains(t, resp.Header("Content-Type"), "text/html", path)
		assert.Contains(t, resp.Text(), marker, path)
	}
}

func TestUnknownRoutes(t *testing.T) {
	_, api := newServer(t)

	body := api.ValidateSchema(api.Get("/api/nope", http.StatusNotFound), "error")
	assert.Equal(t, "Not found", body["error"])

	resp := api.Get("/nope", http.StatusNotFound)
	assert.NotContains(t, resp.Header("Content-Type"), "application/json")
}

func TestCORSPreflight(t *testing.T) {
	k := kernel.NewHTTPKernel()

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRequestIDAndMetrics(t *testing.T) {
	_, api := newServer(t)

	resp := api.Get("/api/users/1")
	assert.NotEmpty(t, resp.Header("X-Request-ID"))

	api.Post("/api/login", map[string]string{"username": "john_us", "password": "nope"}, http.StatusUnauthorized)

	text := api.Get("/metrics").Text()
	assert.Contains(t, text, `e2esuite_http_requests_total{method="GET",route="/api/users/{id}",status="200"}`)
	assert.Contains(t, text, `e2esuite_mock_login_attempts_total{outcome="invalid"}`)
	assert.True(t, strings.Contains(text, `e2esuite_mock_store_records{collection="users"}`))
}

func TestRoutes(t *testing.T) {
	k := kernel.NewHTTPKernel()

	names := map[string]bool{}
	for _, r := range k.Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{"health", "auth.login", "auth.profile", "users.index", "users.destroy", "products.store", "metrics", "web.login"} {
		assert.True(t, names[want], want)
	}
}
