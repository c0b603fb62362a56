package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for spiderling.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spiderling",
		Short: "Fetch web pages in order and report their decoded length",
		Long: `spiderling issues an HTTP GET for each address in an ordered list, one at a
time, and logs every step with a task id and wall-clock time.

The first failure stops the run. Running spiderling with no subcommand is
the same as "spiderling fetch": the configured targets, or a single built-in
address, are fetched with default settings.`,
		Args:          cobra.NoArgs,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	fetchCmd := NewFetchCmd()
	cmd.AddCommand(fetchCmd)
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		fetchCmd.SetContext(cmd.Context())
		return runFetchCmd(fetchCmd, nil)
	}

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
