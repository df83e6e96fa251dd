// Package cmd is the command-line entry point: the HTTP server and the
// maintenance commands that share its configuration.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

// Execute runs the command tree. With no subcommand the server starts.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio CMS backend",
		Long: `Portfolio CMS backend: serves the public portfolio document and contact form,
and the authenticated admin API used to edit them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(serve)
	cmd.AddCommand(newInitDBCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newAdminCmd())
	return cmd
}
