package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/e2esuite/config"
	"github.com/shashiranjanraj/e2esuite/internal/kernel"
	"github.com/shashiranjanraj/e2esuite/internal/server"
)

// e2ectl serve: run the mock server until SIGINT or SIGTERM.
func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock REST server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = config.Current().Port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Start(ctx, ":"+port, kernel.NewHTTPKernel().Handler())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT or 3000)")
	return cmd
}

// e2ectl routes: print every named route of the mock server.
func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the mock server's named routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := kernel.NewHTTPKernel().Routes()
			sort.Slice(infos, func(i, j int) bool {
				if infos[i].Path != infos[j].Path {
					return infos[i].Path < infos[j].Path
				}
				return infos[i].Method < infos[j].Method
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}
