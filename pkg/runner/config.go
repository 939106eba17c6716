// Package runner describes how the e2e suites are run: which projects exist,
// which browser each gets, where the mock server lives, and how many
// projects run at once. It then runs them as `go test` invocations.
//
//	cfg := runner.Local(config.Current())
//	if err := runner.Overlay(&cfg, "e2e.toml"); err != nil { ... }
//	results, err := runner.Run(ctx, cfg, cfg.Projects, runner.Options{}, runner.ExecGoTest(os.Stdout, os.Stderr))
package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shashiranjanraj/e2esuite/config"
)

const (
	Chromium = "chromium"
	Firefox  = "firefox"
	WebKit   = "webkit"
)

// GridEndpoint is the BrowserStack Playwright hub.
const GridEndpoint = "wss://cdp.browserstack.com/playwright"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Duration reads "30s" style values from TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type Viewport struct {
	Width  int `toml:"width" validate:"min=1"`
	Height int `toml:"height" validate:"min=1"`
}

// Use holds browser and request settings. Project values override the
// config-wide ones field by field.
type Use struct {
	BaseURL          string            `toml:"base_url"`
	Headless         bool              `toml:"headless"`
	Trace            string            `toml:"trace"`
	Screenshot       string            `toml:"screenshot"`
	Video            string            `toml:"video"`
	Device           string            `toml:"device"`
	Viewport         *Viewport         `toml:"viewport"`
	ExtraHTTPHeaders map[string]string `toml:"extra_http_headers"`
	// WSEndpoint connects to a remote browser instead of launching one.
	WSEndpoint string `toml:"ws_endpoint"`
}

// Project is one suite package run under one browser setup.
type Project struct {
	Name string `toml:"name" validate:"required"`
	// App is the fixture app the suite reads, e.g. "app1-ui".
	App string `toml:"app" validate:"required"`
	// TestDir is the suite package, e.g. "./e2e/app1ui".
	TestDir string `toml:"test_dir" validate:"required,startswith=./"`
	// Browser is empty for API-only suites.
	Browser string `toml:"browser" validate:"omitempty,oneof=chromium firefox webkit"`
	Use     Use    `toml:"use"`
}

// UsesBrowser reports whether the project needs playwright.
func (p Project) UsesBrowser() bool { return p.Browser != "" }

type Reporter struct {
	// Name is "list" (verbose output) or "json" (go test -json to Output).
	Name   string `toml:"name" validate:"oneof=list json"`
	Output string `toml:"output" validate:"required_if=Name json"`
}

// WebServer describes the mock server the suites talk to.
type WebServer struct {
	Command       string   `toml:"command"`
	Port          string   `toml:"port" validate:"required,numeric"`
	Timeout       Duration `toml:"timeout"`
	ReuseExisting bool     `toml:"reuse_existing"`
}

type Config struct {
	Timeout       Duration   `toml:"timeout"`
	FullyParallel bool       `toml:"fully_parallel"`
	ForbidOnly    bool       `toml:"forbid_only"`
	Retries       int        `toml:"retries" validate:"min=0"`
	Workers       int        `toml:"workers" validate:"min=1"`
	Reporters     []Reporter `toml:"reporters" validate:"dive"`
	Use           Use        `toml:"use"`
	Projects      []Project  `toml:"projects" validate:"min=1,dive"`
	WebServer     *WebServer `toml:"web_server"`
}

// Local is the developer and CI setup: the three suites against the mock
// server, with a local Chromium for the browser suites.
func Local(env config.Environment) Config {
	cfg := base(env)
	cfg.Reporters = []Reporter{
		{Name: "list"},
		{Name: "json", Output: "test-results/results.json"},
	}
	if env.CI {
		cfg.Workers = 1
	}

	desktop := Use{Device: "Desktop Chrome", Viewport: &Viewport{Width: 1920, Height: 1080}}
	cfg.Projects = []Project{
		{Name: "app1-ui", App: "app1-ui", TestDir: "./e2e/app1ui", Browser: Chromium, Use: desktop},
		{Name: "app2-api", App: "app2-api", TestDir: "./e2e/app2api", Use: Use{ExtraHTTPHeaders: jsonHeaders()}},
		{Name: "app3-combined", App: "app3-combined", TestDir: "./e2e/app3combined", Browser: Chromium, Use: desktop},
	}
	cfg.WebServer = &WebServer{
		Command:       "go run ./cmd/e2ectl serve",
		Port:          env.Port,
		Timeout:       Duration(2 * time.Minute),
		ReuseExisting: !env.CI,
	}
	return cfg
}

// Grid runs the suites on BrowserStack. Credentials come from
// BROWSERSTACK_USERNAME and BROWSERSTACK_ACCESS_KEY.
func Grid(env config.Environment) Config {
	return gridAt(env, time.Now())
}

func gridAt(env config.Environment, now time.Time) Config {
	cfg := base(env)
	cfg.Workers = 5
	cfg.Reporters = []Reporter{
		{Name: "list"},
		{Name: "json", Output: "test-results/browserstack-results.json"},
	}

	shared := map[string]any{
		"browserstack.username":    env.BrowserStackUsername,
		"browserstack.accessKey":   env.BrowserStackAccessKey,
		"project":                  "E2E Suite",
		"build":                    "Build " + now.UTC().Format(time.RFC3339),
		"name":                     "E2E Test Run",
		"browserstack.debug":       true,
		"browserstack.console":     "verbose",
		"browserstack.networkLogs": true,
	}
	windows := map[string]any{"browser_version": "latest", "os": "Windows", "os_version": "11"}

	remote := func(device string, caps ...map[string]any) Use {
		return Use{Device: device, WSEndpoint: CapsEndpoint(merge(append([]map[string]any{shared}, caps...)...))}
	}

	cfg.Projects = []Project{
		{Name: "chrome-win-app1-ui", App: "app1-ui", TestDir: "./e2e/app1ui", Browser: Chromium,
			Use: remote("Desktop Chrome", windows, map[string]any{"browser": "chrome", "name": "App1 UI - Chrome Windows"})},
		{Name: "edge-win-app1-ui", App: "app1-ui", TestDir: "./e2e/app1ui", Browser: Chromium,
			Use: remote("Desktop Edge", windows, map[string]any{"browser": "edge", "name": "App1 UI - Edge Windows"})},
		{Name: "safari-mac-app1-ui", App: "app1-ui", TestDir: "./e2e/app1ui", Browser: WebKit,
			Use: remote("Desktop Safari", map[string]any{
				"browser": "webkit", "browser_version": "latest", "os": "OS X", "os_version": "Ventura",
				"name": "App1 UI - Safari macOS",
			})},
		{Name: "chrome-android-app1-ui", App: "app1-ui", TestDir: "./e2e/app1ui", Browser: Chromium,
			Use: remote("Pixel 5", map[string]any{
				"browser": "chrome", "device": "Google Pixel 7", "os_version": "13.0", "real_mobile": "true",
				"name": "App1 UI - Chrome Android",
			})},
		{Name: "safari-ios-app1-ui", App: "app1-ui", TestDir: "./e2e/app1ui", Browser: WebKit,
			Use: remote("iPhone 13", map[string]any{
				"browser": "webkit", "device": "iPhone 14", "os_version": "16", "real_mobile": "true",
				"name": "App1 UI - Safari iOS",
			})},
		{Name: "app2-api-browserstack", App: "app2-api", TestDir: "./e2e/app2api",
			Use: Use{ExtraHTTPHeaders: jsonHeaders()}},
		{Name: "app3-combined-browserstack", App: "app3-combined", TestDir: "./e2e/app3combined", Browser: Chromium,
			Use: remote("Desktop Chrome", windows, map[string]any{"browser": "chrome", "name": "App3 Combined Tests"})},
	}
	return cfg
}

func base(env config.Environment) Config {
	cfg := Config{
		Timeout:       Duration(env.Timeout),
		FullyParallel: true,
		ForbidOnly:    env.CI,
		Workers:       runtime.GOMAXPROCS(0),
		Use: Use{
			BaseURL:          env.BaseURL,
			Headless:         env.Headless,
			Trace:            "on-first-retry",
			Screenshot:       "only-on-failure",
			Video:            "retain-on-failure",
			ExtraHTTPHeaders: jsonHeaders(),
		},
	}
	if env.CI {
		cfg.Retries = 2
	}
	return cfg
}

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json", "Content-Type": "application/json"}
}

// CapsEndpoint encodes BrowserStack capabilities into a hub URL.
func CapsEndpoint(caps map[string]any) string {
	b, _ := json.Marshal(caps)
	return GridEndpoint + "?caps=" + strings.ReplaceAll(url.QueryEscape(string(b)), "+", "%20")
}

func merge(maps ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Validate checks field constraints and that project names are unique.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("runner: invalid config: %w", err)
	}
	seen := map[string]bool{}
	for _, p := range c.Projects {
		if seen[p.Name] {
			return fmt.Errorf("runner: duplicate project %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// ErrUnknownProject is returned by Project for names not in the config.
var ErrUnknownProject = errors.New("runner: unknown project")

// Project returns the named project with the config-wide Use merged under
// its own settings.
func (c Config) Project(name string) (Project, error) {
	for _, p := range c.Projects {
		if p.Name == name {
			p.Use = mergeUse(c.Use, p.Use)
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w %q (have %s)", ErrUnknownProject, name, strings.Join(c.ProjectNames(), ", "))
}

func (c Config) ProjectNames() []string {
	names := make([]string, len(c.Projects))
	for i, p := range c.Projects {
		names[i] = p.Name
	}
	return names
}

// Select resolves names, or every project when names is empty.
func (c Config) Select(names ...string) ([]Project, error) {
	if len(names) == 0 {
		names = c.ProjectNames()
	}
	out := make([]Project, 0, len(names))
	for _, n := range names {
		p, err := c.Project(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func mergeUse(global, own Use) Use {
	out := global
	if own.BaseURL != "" {
		out.BaseURL = own.BaseURL
	}
	if own.Headless {
		out.Headless = true
	}
	setIf(&out.Trace, own.Trace)
	setIf(&out.Screenshot, own.Screenshot)
	setIf(&out.Video, own.Video)
	setIf(&out.Device, own.Device)
	setIf(&out.WSEndpoint, own.WSEndpoint)
	if own.Viewport != nil {
		out.Viewport = own.Viewport
	}
	if len(own.ExtraHTTPHeaders) > 0 {
		headers := make(map[string]string, len(global.ExtraHTTPHeaders)+len(own.ExtraHTTPHeaders))
		for k, v := range global.ExtraHTTPHeaders {
			headers[k] = v
		}
		for k, v := range own.ExtraHTTPHeaders {
			headers[k] = v
		}
		out.ExtraHTTPHeaders = headers
	}
	return out
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
