package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/e2esuite/pkg/fixtures"
)

type fixtureFlags struct {
	dir    string
	region string
	strict bool
}

func (f *fixtureFlags) resolver() *fixtures.Resolver {
	opts := []fixtures.Option{fixtures.WithWorkDir(f.dir)}
	if f.strict {
		opts = append(opts, fixtures.WithStrictRegions())
	}
	return fixtures.FromEnv(opts...)
}

// e2ectl fixtures path|show|check
func newFixturesCmd() *cobra.Command {
	flags := &fixtureFlags{}
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Inspect region-scoped test data",
	}
	cmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", ".", "directory containing "+fixtures.Root)
	cmd.PersistentFlags().StringVarP(&flags.region, "region", "r", "", "region (default $REGION, $DEFAULT_REGION or us)")
	cmd.PersistentFlags().BoolVar(&flags.strict, "strict", false, "reject regions other than us, eu and asia")

	cmd.AddCommand(&cobra.Command{
		Use:   "path <app> <file>",
		Short: "Print the file a lookup would read",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := flags.resolver()
			path := r.Path(args[0], args[1], flags.region)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if !r.Exists(args[0], args[1], flags.region) {
				return fmt.Errorf("%s does not exist", path)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <app> <file>",
		Short: "Print a resolved fixture as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := flags.resolver().Resolve(args[0], args[1], flags.region)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check [app...]",
		Short: "Check that every fixture resolves in every region",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkFixtures(cmd, flags, args)
		},
	})
	return cmd
}

// checkFixtures resolves every file found under any region of each app in all
// three regions, so a fixture added for one region only is reported.
func checkFixtures(cmd *cobra.Command, flags *fixtureFlags, apps []string) error {
	root := filepath.Join(flags.dir, fixtures.Root)
	if len(apps) == 0 {
		entries, err := os.ReadDir(root)
		if err != nil {
			return fmt.Errorf("read %s: %w", root, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				apps = append(apps, e.Name())
			}
		}
	}

	out := cmd.OutOrStdout()
	ok, bad := color.New(color.FgGreen), color.New(color.FgRed)
	r := flags.resolver()
	failed := 0

	for _, app := range apps {
		files, err := fixtureFiles(filepath.Join(root, app))
		if err != nil {
			return err
		}
		for _, file := range files {
			if _, err := r.ResolveAllRegions(app, file); err != nil {
				failed++
				bad.Fprintf(out, "FAIL %s/%s: %v\n", app, file, err)
				continue
			}
			ok.Fprintf(out, "ok   %s/%s\n", app, file)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d fixture(s) failed", failed)
	}
	return nil
}

func fixtureFiles(appDir string) ([]string, error) {
	seen := map[string]bool{}
	for _, region := range fixtures.Regions() {
		entries, err := os.ReadDir(filepath.Join(appDir, string(region)))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
				seen[e.Name()] = true
			}
		}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}
