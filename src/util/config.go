// Package util carries the ambient concerns every command-line tool in
// this family needs: config loading, source reading, and leveled,
// terminal-aware logging, layered under a cobra/pflag CLI with a
// colorized, trace-id-correlated logger.
package util

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings the fastpyc CLI and, indirectly, the jit
// Engine it drives, need to run. Flags set on the command line take
// precedence over a loaded file; see cmd/fastpyc for the merge order.
type Config struct {
	// Src is the path to the host-language source file to compile and
	// run; empty means read from stdin.
	Src string `yaml:"src"`
	// Verbose turns on debug-level log lines (the run command logs the
	// function's inferred signature); info-level lines are written either
	// way. No line is logged per specialization.
	Verbose bool `yaml:"verbose"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
	// Color forces colorized log output on or off; nil defers to
	// terminal detection.
	Color *bool `yaml:"color,omitempty"`
}

// DefaultConfig returns the configuration used when no file is loaded and
// no flags override it.
func DefaultConfig() Config {
	return Config{LogLevel: "info"}
}

// LoadConfig reads a YAML configuration file. A missing file is not an
// error — callers get DefaultConfig() back — since a config file is
// always optional for this tool; any other read or parse failure is
// reported.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("util: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("util: parsing config %q: %w", path, err)
	}
	return cfg, nil
}
