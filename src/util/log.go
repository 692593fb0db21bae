package util

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// Logger is a small leveled logger: colorized when writing to a
// terminal, plain otherwise, with every line tagged by a short trace id
// so a run's specializations can be correlated in output even when
// several functions compile concurrently.
type Logger struct {
	out      io.Writer
	verbose  bool
	colorize bool
	trace    string
}

// NewLogger returns a Logger writing to w. Color is auto-detected from
// w when w is an *os.File and forced off otherwise; force may override
// that detection either way.
func NewLogger(w io.Writer, verbose bool, force *bool) *Logger {
	colorize := false
	if force != nil {
		colorize = *force
	} else if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{out: w, verbose: verbose, colorize: colorize, trace: uuid.NewString()[:8]}
}

// WithTrace returns a copy of l scoped to a fresh trace id, for a single
// compile-and-call sequence whose log lines should be grouped together.
func (l *Logger) WithTrace() *Logger {
	cp := *l
	cp.trace = uuid.NewString()[:8]
	return &cp
}

func (l *Logger) line(prefix string, paint *color.Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	tag := fmt.Sprintf("[%s] %s", l.trace, prefix)
	if l.colorize && paint != nil {
		tag = paint.Sprint(tag)
	}
	fmt.Fprintf(l.out, "%s %s\n", tag, msg)
}

// Debug logs only when the Logger was built with verbose set.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", color.New(color.FgCyan), format, args...)
}

// Info logs an informational line, e.g. "specialization compiled".
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", color.New(color.FgGreen), format, args...)
}

// Warn logs a recoverable anomaly.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", color.New(color.FgYellow), format, args...)
}

// Error logs a failure. It does not exit the process; callers decide
// whether the error is fatal.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", color.New(color.FgRed, color.Bold), format, args...)
}
