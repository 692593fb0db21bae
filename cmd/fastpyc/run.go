package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tartavull/fastpy/src/jit"
	"github.com/tartavull/fastpy/src/util"
)

var intArgs string

var runCmd = &cobra.Command{
	Use:   "run [source-file]",
	Short: "Compile a function and call it once with integer arguments",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&intArgs, "args", "", "comma-separated int64 arguments to call the function with")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := util.NewLogger(os.Stdout, verbose || cfg.Verbose, cfg.Color)

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		path = cfg.Src
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
	log.Debug("lowered and inferred signature %s", fn.Signature())

	callArgs, err := parseIntArgs(intArgs)
	if err != nil {
		return err
	}

	result, err := fn.Call(callArgs...)
	if err != nil {
		return fmt.Errorf("call error: %w", err)
	}
	log.Info("specialization cache now holds %d entr(y/ies)", engine.CacheSize())
	fmt.Println(result)
	return nil
}

func parseIntArgs(s string) ([]interface{}, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]interface{}, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --args entry %q: %w", p, err)
		}
		out[i] = n
	}
	return out, nil
}

func loadConfig() (util.Config, error) {
	if configPath == "" {
		return util.DefaultConfig(), nil
	}
	return util.LoadConfig(configPath)
}
