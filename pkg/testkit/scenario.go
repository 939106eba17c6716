package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/e2esuite/pkg/fixtures"
)

// Scenario is one request and the response it must produce. Scenarios are
// stored as region fixtures, for example
// test-data/app2-api/eu/scenarios.json:
//
//	{
//	  "region": "eu",
//	  "scenarios": [
//	    {
//	      "name": "list eu users",
//	      "method": "GET",
//	      "url": "/api/users?region={region}",
//	      "expectedCode": 200,
//	      "expectedSubset": {"count": 1}
//	    }
//	  ]
//	}
//
// "{region}" in url, body and headers is replaced with the region being run.
type Scenario struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description,omitempty"`
	Method      string            `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	URL         string            `json:"url" validate:"required,startswith=/"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        json.RawMessage   `json:"body,omitempty"`

	ExpectedCode int `json:"expectedCode" validate:"required,min=100,max=599"`

	// ExpectedResponse must equal the body exactly (as JSON).
	ExpectedResponse json.RawMessage `json:"expectedResponse,omitempty"`
	// ExpectedSubset lists keys the body object must contain with these values.
	ExpectedSubset map[string]any `json:"expectedSubset,omitempty"`
	// ExpectedFields lists keys the body object must contain.
	ExpectedFields []string `json:"expectedFields,omitempty"`
}

// ScenarioFile is the fixture document holding a region's scenarios.
type ScenarioFile struct {
	Region    string     `json:"region" validate:"required"`
	Scenarios []Scenario `json:"scenarios" validate:"min=1,dive"`
}

// Validate rejects duplicate scenario names, which would collide as subtests.
func (f ScenarioFile) Validate() error {
	seen := make(map[string]bool, len(f.Scenarios))
	for _, s := range f.Scenarios {
		if seen[s.Name] {
			return fmt.Errorf("duplicate scenario name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// LoadScenarios resolves a scenario fixture for one region.
func LoadScenarios(r *fixtures.Resolver, app, file string, region ...string) (ScenarioFile, error) {
	return fixtures.Load[ScenarioFile](r, app, file, region...)
}

// forRegion returns a copy with "{region}" expanded and defaults applied.
func (s Scenario) forRegion(region string) Scenario {
	expand := func(v string) string { return strings.ReplaceAll(v, "{region}", region) }

	out := s
	out.Method = strings.ToUpper(s.Method)
	if out.Method == "" {
		out.Method = http.MethodGet
	}
	out.URL = expand(s.URL)
	if len(s.Body) > 0 {
		out.Body = json.RawMessage(expand(string(s.Body)))
	}
	if len(s.Headers) > 0 {
		out.Headers = make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			out.Headers[k] = expand(v)
		}
	}
	return out
}
