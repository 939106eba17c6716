package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/e2esuite/config"
	"github.com/shashiranjanraj/e2esuite/internal/kernel"
	"github.com/shashiranjanraj/e2esuite/pkg/runner"
)

// e2ectl test: run projects as go test invocations.
func newTestCmd() *cobra.Command {
	var (
		cfgFlags configFlags
		projects []string
		region   string
		run      string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the e2e projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Current()
			cfg, err := cfgFlags.load(env)
			if err != nil {
				return err
			}
			selected, err := cfg.Select(projects...)
			if err != nil {
				return err
			}
			opts := runner.Options{Region: region, Run: run, Grid: cfgFlags.grid}

			if dryRun {
				return printPlan(cmd.OutOrStdout(), cfg, selected, opts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.WebServer != nil && !cfgFlags.grid {
				stopServer, err := runner.EnsureServer(ctx, *cfg.WebServer, kernel.NewHTTPKernel().Handler())
				if err != nil {
					return err
				}
				defer stopServer() //nolint:errcheck
			}

			results, runErr := runner.Run(ctx, cfg, selected, opts, runner.ExecGoTest(os.Stdout, os.Stderr))
			printSummary(cmd.OutOrStdout(), results)
			return runErr
		},
	}
	cfgFlags.bind(cmd)
	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "project(s) to run (default all)")
	cmd.Flags().StringVar(&region, "region", "", "REGION for the suites")
	cmd.Flags().StringVar(&run, "run", "", "go test -run filter")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands without running them")
	return cmd
}

func printPlan(w io.Writer, cfg runner.Config, projects []runner.Project, opts runner.Options) error {
	var errs []error
	for _, p := range projects {
		inv, err := cfg.Invocation(p, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		fmt.Fprintf(w, "# %s\n%s\n", p.Name, inv.CommandLine())
	}
	return errors.Join(errs...)
}

func printSummary(w io.Writer, results []runner.Result) {
	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PROJECT\tRESULT\tATTEMPTS\tDURATION")
	passed := 0
	for _, r := range results {
		status := pass("PASS")
		if r.Passed() {
			passed++
		} else {
			status = fail("FAIL")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Project, status, r.Attempts, r.Duration.Round(time.Millisecond))
	}
	tw.Flush() //nolint:errcheck

	summary := pass
	if passed != len(results) {
		summary = fail
	}
	fmt.Fprintln(w, summary(fmt.Sprintf("%d/%d projects passed", passed, len(results))))
}
