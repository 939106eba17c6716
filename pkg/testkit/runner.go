package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/e2esuite/pkg/fixtures"
	kashvihttp "github.com/shashiranjanraj/e2esuite/pkg/http"
)

// Target executes a scenario's request and returns status and body.
type Target func(t testing.TB, s Scenario) (int, []byte)

// HandlerTarget serves scenarios in-process through httptest.
func HandlerTarget(h http.Handler) Target {
	return func(t testing.TB, s Scenario) (int, []byte) {
		t.Helper()

		var body io.Reader
		if len(s.Body) > 0 {
			body = bytes.NewReader(s.Body)
		}
		req := httptest.NewRequest(s.Method, s.URL, body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		for k, v := range s.Headers {
			req.Header.Set(k, v)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code, rec.Body.Bytes()
	}
}

// ClientTarget sends scenarios over the network through c. Scenario URLs are
// joined to c's base URL.
func ClientTarget(c *kashvihttp.Client) Target {
	return func(t testing.TB, s Scenario) (int, []byte) {
		t.Helper()

		var r *kashvihttp.Request
		switch s.Method {
		case http.MethodPost:
			r = c.Post(s.URL)
		case http.MethodPut:
			r = c.Put(s.URL)
		case http.MethodPatch:
			r = c.Patch(s.URL)
		case http.MethodDelete:
			r = c.Delete(s.URL)
		default:
			r = c.Get(s.URL)
		}
		if len(s.Body) > 0 {
			r.Body([]byte(s.Body)).Header("Content-Type", "application/json")
		}
		r.Headers(s.Headers)

		resp, err := r.Send()
		require.NoError(t, err, "[%s] %s %s", s.Name, s.Method, s.URL)
		return resp.StatusCode, resp.Raw
	}
}

// RunOption tunes RunRegionScenarios.
type RunOption func(*runConfig)

type runConfig struct {
	before  func(region fixtures.Region)
	regions []fixtures.Region
}

// BeforeRegion runs fn before each region's scenarios, typically to reset
// server state.
func BeforeRegion(fn func(region fixtures.Region)) RunOption {
	return func(c *runConfig) { c.before = fn }
}

// OnlyRegions restricts the run to the given regions.
func OnlyRegions(regions ...fixtures.Region) RunOption {
	return func(c *runConfig) { c.regions = regions }
}

// Run executes one scenario as a subtest.
func Run(t *testing.T, target Target, s Scenario, region string) {
	t.Helper()
	s = s.forRegion(region)

	t.Run(s.Name, func(t *testing.T) {
		code, body := target(t, s)
		AssertStatusCode(t, &s, code)
		AssertJSONBody(t, &s, s.ExpectedResponse, body)
		AssertSubset(t, &s, body)
	})
}

// RunRegionScenarios loads app/file for every region and runs its scenarios
// in order, one subtest per region. A missing or invalid fixture fails that
// region's subtest.
func RunRegionScenarios(t *testing.T, target Target, r *fixtures.Resolver, app, file string, opts ...RunOption) {
	t.Helper()

	cfg := runConfig{regions: fixtures.Regions()}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, region := range cfg.regions {
		t.Run(string(region), func(t *testing.T) {
			sf, err := LoadScenarios(r, app, file, string(region))
			require.NoError(t, err)

			if cfg.before != nil {
				cfg.before(region)
			}
			for _, s := range sf.Scenarios {
				Run(t, target, s, string(region))
			}
		})
	}
}
