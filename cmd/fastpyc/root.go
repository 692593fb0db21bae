package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// rootCmd is the base command; every subcommand hangs off it the way
// root.go wires server/table/item subcommands in the example this CLI's
// structure is grounded on.
var rootCmd = &cobra.Command{
	Use:   "fastpyc",
	Short: "Compile and run a single accelerated function",
	Long: `fastpyc parses one function written in the supported numeric
subset, lowers and infers it, specializes it for the argument types it is
called with, and runs the resulting native code once.`,
}

// Execute runs the root command, handling the whole CLI's lifecycle
// errors at the top.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fastpyc: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug lines, including the inferred signature")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(signatureCmd)
}
