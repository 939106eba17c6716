package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code.
func AssertStatusCode(t testing.TB, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch", s.Name)
}

// AssertJSONBody compares both documents after decoding, so key order and
// whitespace never matter. An empty expected document skips the check.
func AssertJSONBody(t testing.TB, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal any
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected response is not valid JSON", s.Name)

	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", s.Name, string(actual)) {
		return
	}

	if !assert.Equal(t, expVal, actVal, "[%s] response body mismatch", s.Name) {
		t.Logf("[%s] differences:\n%s", s.Name, strings.Join(DiffJSON("", expVal, actVal), "\n"))
	}
}

// AssertSubset checks ExpectedFields and ExpectedSubset against a JSON
// object body.
func AssertSubset(t testing.TB, s *Scenario, actual []byte) {
	t.Helper()
	if len(s.ExpectedSubset) == 0 && len(s.ExpectedFields) == 0 {
		return
	}

	var body map[string]any
	if !assert.NoError(t, json.Unmarshal(actual, &body),
		"[%s] response is not a JSON object\nbody: %s", s.Name, string(actual)) {
		return
	}

	for _, f := range s.ExpectedFields {
		assert.Contains(t, body, f, "[%s] response is missing field %q", s.Name, f)
	}
	if len(s.ExpectedSubset) > 0 {
		ValidateResponseData(t, body, s.ExpectedSubset)
	}
}

// DiffJSON lists human-readable differences between two decoded JSON values.
// Keys present only in actual are not reported.
func DiffJSON(path string, expected, actual any) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
