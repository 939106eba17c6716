package testkit_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/e2esuite/pkg/fixtures"
	kashvihttp "github.com/shashiranjanraj/e2esuite/pkg/http"
	"github.com/shashiranjanraj/e2esuite/pkg/testkit"
)

// echoHandler answers GET /api/whoami?region=X with {"region":X} and echoes
// POST bodies back with 201.
var echoHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/whoami":
		_ = json.NewEncoder(w).Encode(map[string]any{"region": r.URL.Query().Get("region"), "count": 1})
	case r.Method == http.MethodPost && r.URL.Path == "/api/echo":
		w.WriteHeader(http.StatusCreated)
		_, _ = io.Copy(w, r.Body)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}
})

const scenarioTemplate = `{
  "region": "{region}",
  "scenarios": [
    {
      "name": "whoami",
      "url": "/api/whoami?region={region}",
      "expectedCode": 200,
      "expectedResponse": {"region": "{region}", "count": 1}
    },
    {
      "name": "echo",
      "method": "POST",
      "url": "/api/echo",
      "body": {"region": "{region}", "n": 2},
      "expectedCode": 201,
      "expectedFields": ["n"],
      "expectedSubset": {"region": "{region}"}
    },
    {
      "name": "missing",
      "url": "/api/nope",
      "expectedCode": 404,
      "expectedResponse": {"error": "not found"}
    }
  ]
}`

func scenarioResolver(t *testing.T) *fixtures.Resolver {
	t.Helper()
	dir := t.TempDir()
	for _, region := range fixtures.Regions() {
		p := filepath.Join(dir, fixtures.Root, "app2-api", string(region), "scenarios.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		body := strings.ReplaceAll(scenarioTemplate, "{region}", string(region))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return fixtures.New(
		fixtures.WithWorkDir(dir),
		fixtures.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestRunRegionScenarios_InProcess(t *testing.T) {
	var regions []fixtures.Region
	testkit.RunRegionScenarios(t, testkit.HandlerTarget(echoHandler), scenarioResolver(t), "app2-api", "scenarios.json",
		testkit.BeforeRegion(func(r fixtures.Region) { regions = append(regions, r) }),
	)

	assert.Equal(t, fixtures.Regions(), regions)
}

func TestRunRegionScenarios_OverNetwork(t *testing.T) {
	httphelpers.WithServer(echoHandler, func(server *httptest.Server) {
		target := testkit.ClientTarget(kashvihttp.NewClient(server.URL))
		testkit.RunRegionScenarios(t, target, scenarioResolver(t), "app2-api", "scenarios.json",
			testkit.OnlyRegions(fixtures.EU),
		)
	})
}

func TestLoadScenarios_RejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(region, body string) {
		p := filepath.Join(dir, fixtures.Root, "app", region, "scenarios.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write("us", `{"region":"us","scenarios":[{"name":"a","url":"api/no-slash","expectedCode":200}]}`)
	write("eu", `{"region":"eu","scenarios":[{"name":"a","url":"/x","expectedCode":200},{"name":"a","url":"/y","expectedCode":200}]}`)
	write("asia", `{"region":"asia","scenarios":[]}`)

	r := fixtures.New(fixtures.WithWorkDir(dir), fixtures.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	for _, region := range []string{"us", "eu", "asia"} {
		_, err := testkit.LoadScenarios(r, "app", "scenarios.json", region)
		assert.ErrorIs(t, err, fixtures.ErrSchema, region)
	}
}

func TestDiffJSON(t *testing.T) {
	var exp, act any
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":[1,2],"c":{"d":"x"}}`), &exp))
	require.NoError(t, json.Unmarshal([]byte(`{"a":2,"b":[1],"c":{"d":"x"},"extra":true}`), &act))

	diffs := testkit.DiffJSON("", exp, act)
	assert.Len(t, diffs, 2)
	joined := strings.Join(diffs, "\n")
	assert.Contains(t, joined, "root.a")
	assert.Contains(t, joined, "array length expected=2 actual=1")
}
