// Command e2ectl runs the mock server and the region-aware e2e suites.
//
//	e2ectl serve                      # mock server on $PORT
//	e2ectl routes                     # list named routes
//	e2ectl fixtures check             # every fixture resolves in us, eu and asia
//	e2ectl fixtures show app2-api users.json --region eu
//	e2ectl config --grid              # print the effective runner config
//	e2ectl test --project app2-api    # run one project against the mock server
//	e2ectl test --grid                # run on BrowserStack
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "e2ectl",
		Short:         "Region-aware e2e suite runner and mock server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newRoutesCmd())
	root.AddCommand(newFixturesCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newTestCmd())
	return root
}
