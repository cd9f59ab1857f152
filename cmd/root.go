package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dDS/cmd/ds"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dds",
		Short: "hierarchical datastore",
		Long: fmt.Sprintf(`dDS (v%s)

A backend-agnostic hierarchical datastore library written in Go.
Values live under path-like keys and can be stored on the filesystem,
in SQLite or in memory, behind a configurable chain of shims.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dDS",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dDS v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(ds.DatastoreCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
