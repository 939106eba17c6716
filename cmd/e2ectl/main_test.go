package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/e2esuite/pkg/runner"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, dir, app, region, file, body string) {
	t.Helper()
	p := filepath.Join(dir, "test-data", app, region, file)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestRoutes(t *testing.T) {
	out, err := execute(t, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "/api/health")
	assert.Contains(t, out, "/api/users/{id}")
}

func TestFixturesCheck_RepositoryData(t *testing.T) {
	out, err := execute(t, "fixtures", "check", "-C", "../..")
	require.NoError(t, err)
	assert.Contains(t, out, "ok   app2-api/users.json")
	assert.Contains(t, out, "ok   app3-combined/e2e-scenarios.json")
}

func TestFixturesCheck_ReportsMissingRegion(t *testing.T) {
	dir := t.TempDir()
	for _, r := range []string{"us", "eu", "asia"} {
		writeFixture(t, dir, "app9", r, "a.json", `{"region":"`+r+`"}`)
	}
	writeFixture(t, dir, "app9", "eu", "only-eu.json", `{}`)

	out, err := execute(t, "fixtures", "check", "-C", dir)
	require.Error(t, err)
	assert.Contains(t, out, "ok   app9/a.json")
	assert.Contains(t, out, "FAIL app9/only-eu.json")
	assert.Contains(t, err.Error(), "1 fixture(s) failed")
}

func TestFixturesShowAndPath(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "app9", "asia", "a.json", `{"region":"asia"}`)

	out, err := execute(t, "fixtures", "show", "app9", "a.json", "-C", dir, "--region", "asia")
	require.NoError(t, err)
	assert.JSONEq(t, `{"region":"asia"}`, out)

	out, err = execute(t, "fixtures", "path", "app9", "a.json", "-C", dir, "--region", "eu")
	require.Error(t, err)
	assert.Contains(t, out, filepath.Join("test-data", "app9", "eu", "a.json"))

	_, err = execute(t, "fixtures", "show", "app9", "a.json", "-C", dir, "--region", "mars", "--strict")
	assert.Error(t, err)
}

func TestTestDryRun(t *testing.T) {
	out, err := execute(t, "test", "--dry-run", "--project", "app2-api", "--region", "eu", "--overlay", filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Contains(t, out, "# app2-api")
	assert.Contains(t, out, "REGION=eu")
	assert.Contains(t, out, "go test -tags e2e -count=1")
	assert.Contains(t, out, "./e2e/app2api/...")
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, []runner.Result{
		{Project: "app1-ui", Attempts: 1, Duration: time.Second},
		{Project: "app2-api", Attempts: 3, Err: errors.New("exit status 1")},
	})
	assert.Contains(t, out.String(), "app1-ui")
	assert.Contains(t, out.String(), "PASS")
	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "1/2 projects passed")
}
