package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "classlift",
	Short:   "Lift JVM-bytecode methods into a static-single-assignment IR",
	Version: version,
	Long: `classlift abstractly interprets a stack-machine instruction stream one
method at a time and produces a static-single-assignment intermediate
representation: one expression DAG node per distinct value, Phi nodes at
join points, and an ordered operation list for the side-effecting
instructions (field/array writes, returns, branches, invocations).

Methods are supplied as an internal/envelope fixture document (YAML or
JSON); see "classlift describe" to inspect one.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("classlift version {{.Version}} (%s)\n", commit))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostics detail beyond the top-level failure kind")
}

func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
