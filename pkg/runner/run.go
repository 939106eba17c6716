package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/shashiranjanraj/e2esuite/pkg/logger"
	"github.com/shashiranjanraj/e2esuite/pkg/workerpool"
)

// Environment variables the suites read to find their project.
const (
	EnvProject = "E2E_PROJECT"
	EnvGrid    = "E2E_GRID"
)

// ErrFocusedRun is returned when ForbidOnly is set and a test filter was
// given, so a CI run cannot silently skip tests.
var ErrFocusedRun = errors.New("runner: test filter not allowed when forbid_only is set")

// Options tune one Run.
type Options struct {
	// Region sets REGION for the suites. Empty keeps the environment's.
	Region string
	// Run is passed to go test -run.
	Run string
	// Grid marks the projects as BrowserStack projects.
	Grid bool
}

// Invocation is one go test command for one project.
type Invocation struct {
	Project Project
	Args    []string
	Env     []string
	// JSONOut receives go test -json output when set.
	JSONOut string
}

// CommandLine is the shell-quoted command, for logs and dry runs.
func (inv Invocation) CommandLine() string {
	env := make([]string, len(inv.Env))
	for i, kv := range inv.Env {
		k, v, _ := strings.Cut(kv, "=")
		env[i] = k + "=" + shellescape.Quote(v)
	}
	return strings.TrimSpace(strings.Join(env, " ") + " " + shellescape.QuoteCommand(inv.Args))
}

// Executor runs an invocation.
type Executor func(ctx context.Context, inv Invocation) error

type Result struct {
	Project  string
	Command  string
	Attempts int
	Duration time.Duration
	Err      error
}

func (r Result) Passed() bool { return r.Err == nil }

// Invocation builds the go test command for p.
func (c Config) Invocation(p Project, opts Options) (Invocation, error) {
	if c.ForbidOnly && opts.Run != "" {
		return Invocation{}, ErrFocusedRun
	}

	args := []string{"go", "test", "-tags", "e2e", "-count=1"}
	var jsonOut string
	for _, r := range c.Reporters {
		switch r.Name {
		case "list":
			args = append(args, "-v")
		case "json":
			args = append(args, "-json")
			jsonOut = projectOutput(r.Output, p.Name)
		}
	}
	if opts.Run != "" {
		args = append(args, "-run", opts.Run)
	}
	args = append(args, strings.TrimSuffix(p.TestDir, "/")+"/...")

	env := []string{
		EnvProject + "=" + p.Name,
		"BASE_URL=" + p.Use.BaseURL,
		"TIMEOUT=" + strconv.FormatInt(time.Duration(c.Timeout).Milliseconds(), 10),
		"HEADLESS=" + strconv.FormatBool(p.Use.Headless),
	}
	if opts.Region != "" {
		env = append(env, "REGION="+opts.Region)
	}
	if opts.Grid {
		env = append(env, EnvGrid+"=1")
	}

	return Invocation{Project: p, Args: args, Env: env, JSONOut: jsonOut}, nil
}

// projectOutput turns test-results/results.json into
// test-results/results-<project>.json so parallel projects do not collide.
func projectOutput(path, project string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + project + ext
}

// Run executes projects on the worker pool. Projects run concurrently when
// FullyParallel is set, up to Workers at a time; a failed project is retried
// up to Retries times. The returned error is non-nil if any project failed.
func Run(ctx context.Context, cfg Config, projects []Project, opts Options, execute Executor) ([]Result, error) {
	invs := make([]Invocation, len(projects))
	for i, p := range projects {
		inv, err := cfg.Invocation(p, opts)
		if err != nil {
			return nil, err
		}
		invs[i] = inv
	}

	results := make([]Result, len(projects))
	tasks := make([]workerpool.Task, len(invs))
	for i, inv := range invs {
		tasks[i] = func(ctx context.Context) error {
			results[i] = runWithRetries(ctx, inv, cfg.Retries, execute)
			return results[i].Err
		}
	}

	workers := cfg.Workers
	if !cfg.FullyParallel {
		workers = 1
	}

	var failed []string
	for i, err := range workerpool.Run(ctx, workers, tasks) {
		if err == nil {
			continue
		}
		if results[i].Project == "" {
			results[i] = Result{Project: invs[i].Project.Name, Command: invs[i].CommandLine(), Err: err}
		}
		failed = append(failed, invs[i].Project.Name)
	}
	if len(failed) > 0 {
		return results, fmt.Errorf("runner: %d project(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return results, nil
}

func runWithRetries(ctx context.Context, inv Invocation, retries int, execute Executor) Result {
	res := Result{Project: inv.Project.Name, Command: inv.CommandLine()}
	start := time.Now()

	for attempt := 1; attempt <= retries+1; attempt++ {
		res.Attempts = attempt
		logger.Info("running project", "project", inv.Project.Name, "attempt", attempt, "command", res.Command)

		res.Err = execute(ctx, inv)
		if res.Err == nil || ctx.Err() != nil {
			break
		}
		logger.Warn("project failed", "project", inv.Project.Name, "attempt", attempt, "error", res.Err)
	}

	res.Duration = time.Since(start)
	return res
}

// ExecGoTest runs invocations with os/exec from the working directory.
// Output is written to stdout and stderr, and also to the JSON report file
// when the invocation has one.
func ExecGoTest(stdout, stderr io.Writer) Executor {
	return func(ctx context.Context, inv Invocation) error {
		cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
		cmd.Env = append(os.Environ(), inv.Env...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr

		if inv.JSONOut != "" {
			if err := os.MkdirAll(filepath.Dir(inv.JSONOut), 0o755); err != nil {
				return err
			}
			f, err := os.Create(inv.JSONOut)
			if err != nil {
				return err
			}
			defer f.Close()
			cmd.Stdout = io.MultiWriter(stdout, f)
		}

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", inv.Project.Name, err)
		}
		return nil
	}
}
