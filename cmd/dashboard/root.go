package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the dashboard CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Acme invoice dashboard",
		Long: `Acme is a server-rendered invoice dashboard with a credential login,
a session gate and a route guard protecting /dashboard.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newLoginCmd())

	return cmd
}
