// Package harness is the glue the e2e suites share: it finds the runner
// project the suite was started for, the fixture resolver rooted at the
// repository, an API helper against the mock server and, for browser
// projects, one playwright session per test binary.
//
//	var suite = harness.New("app1-ui")
//
//	func TestMain(m *testing.M) { os.Exit(suite.Main(m)) }
//
//	func TestLogin(t *testing.T) {
//		page := suite.Page(t)
//		...
//	}
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/shashiranjanraj/e2esuite/config"
	"github.com/shashiranjanraj/e2esuite/pkg/fixtures"
	"github.com/shashiranjanraj/e2esuite/pkg/logger"
	"github.com/shashiranjanraj/e2esuite/pkg/runner"
	"github.com/shashiranjanraj/e2esuite/pkg/testkit"
)

// Suite is the per-package state of an e2e suite.
type Suite struct {
	fallback string

	once    sync.Once
	root    string
	env     config.Environment
	project runner.Project
	err     error

	browserOnce sync.Once
	session     *runner.Session
	browserErr  error
}

// New returns a suite that runs as fallback unless E2E_PROJECT names another
// project.
func New(fallback string) *Suite {
	return &Suite{fallback: fallback}
}

// Main runs the tests and closes the browser afterwards.
func (s *Suite) Main(m *testing.M) int {
	code := m.Run()
	if s.session != nil {
		if err := s.session.Close(); err != nil {
			logger.Warn("closing browser session", "error", err)
		}
	}
	return code
}

func (s *Suite) load() error {
	s.once.Do(func() {
		s.root, s.err = RepoRoot()
		if s.err != nil {
			return
		}
		s.env = config.Current()

		cfg := runner.Local(s.env)
		if os.Getenv(runner.EnvGrid) != "" {
			cfg = runner.Grid(s.env)
		}
		if s.err = runner.Overlay(&cfg, filepath.Join(s.root, runner.DefaultOverlay)); s.err != nil {
			return
		}

		name := os.Getenv(runner.EnvProject)
		if name == "" {
			name = s.fallback
		}
		s.project, s.err = cfg.Project(name)
	})
	return s.err
}

// Project returns the runner project with shared settings merged in.
func (s *Suite) Project(t testing.TB) runner.Project {
	t.Helper()
	if err := s.load(); err != nil {
		t.Fatalf("harness: %v", err)
	}
	return s.project
}

// Env returns the environment the suite was started with.
func (s *Suite) Env(t testing.TB) config.Environment {
	t.Helper()
	s.Project(t)
	return s.env
}

// Fixtures returns a resolver rooted at the repository that follows REGION.
func (s *Suite) Fixtures(t testing.TB) *fixtures.Resolver {
	t.Helper()
	s.Project(t)
	return fixtures.FromEnv(fixtures.WithWorkDir(s.root))
}

// API returns an assertion helper against the project's base URL. Paths are
// written as "/api/...".
func (s *Suite) API(t testing.TB) *testkit.APIHelper {
	t.Helper()
	return testkit.NewAPIHelper(t, s.Project(t).Use.BaseURL)
}

// Page opens a page in a fresh browser context. The context is closed when
// the test ends; a failing test leaves a screenshot under test-results/ when
// the project asks for one.
func (s *Suite) Page(t testing.TB) playwright.Page {
	t.Helper()
	p := s.Project(t)

	s.browserOnce.Do(func() {
		s.session, s.browserErr = runner.Launch(context.Background(), p)
	})
	if s.browserErr != nil {
		t.Fatalf("harness: %v", s.browserErr)
	}

	page, err := s.session.NewPage()
	if err != nil {
		t.Fatalf("harness: %v", err)
	}
	t.Cleanup(func() {
		if t.Failed() && p.Use.Screenshot != "" && p.Use.Screenshot != "off" {
			path := filepath.Join(s.root, "test-results", p.Name, ScreenshotName(t.Name()))
			if _, err := page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path), FullPage: playwright.Bool(true)}); err != nil {
				t.Logf("screenshot: %v", err)
			}
		}
		_ = page.Context().Close()
	})
	return page
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScreenshotName turns a test name into a file name.
func ScreenshotName(testName string) string {
	return unsafeName.ReplaceAllString(testName, "_") + ".png"
}

// RepoRoot walks up from the working directory to the directory holding
// go.mod. go test runs each suite in its package directory, while fixtures
// live at the repository root.
func RepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("harness: no go.mod above the working directory")
		}
		dir = parent
	}
}
