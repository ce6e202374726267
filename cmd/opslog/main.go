package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/cli/migrate"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/cli/server"
)

// @title PEP Ops Log API
// @version 1.0
// @description Staff observation logging for PEP centers
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:   "opslog",
		Short: "Ops Log - staff observation logging",
		Long:  `Ops Log is the staff observation logging service: managers record observations about staff at their centers, admins manage the roster and review analytics.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
