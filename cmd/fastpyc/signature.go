package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tartavull/fastpy/src/jit"
	"github.com/tartavull/fastpy/src/util"
)

var signatureCmd = &cobra.Command{
	Use:   "signature [source-file]",
	Short: "Print a function's inferred signature without specializing or running it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSignature,
}

func runSignature(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}
	src, err := util.ReadSource(path)
	if err != nil {
		return fmt.Errorf("could not read source: %w", err)
	}

	engine := jit.NewEngine()
	fn, err := engine.CompileSource(src)
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}
	fmt.Println(fn.Signature())
	return nil
}
