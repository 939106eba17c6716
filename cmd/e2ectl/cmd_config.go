package main

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/e2esuite/config"
	"github.com/shashiranjanraj/e2esuite/pkg/runner"
)

type configFlags struct {
	grid    bool
	overlay string
}

func (f *configFlags) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.grid, "grid", false, "use the BrowserStack projects")
	cmd.Flags().StringVar(&f.overlay, "overlay", runner.DefaultOverlay, "TOML file applied over the defaults")
}

func (f *configFlags) load(env config.Environment) (runner.Config, error) {
	cfg := runner.Local(env)
	if f.grid {
		cfg = runner.Grid(env)
	}
	if err := runner.Overlay(&cfg, f.overlay); err != nil {
		return runner.Config{}, err
	}
	return cfg, nil
}

// e2ectl config: print the effective runner config as TOML.
func newConfigCmd() *cobra.Command {
	flags := &configFlags{}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective runner configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(config.Current())
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).SetIndentTables(true).Encode(cfg)
		},
	}
	flags.bind(cmd)
	return cmd
}
