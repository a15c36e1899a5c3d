package compiler

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const logPrefix = "[regnfa] "

// Logger writes verbose compilation traces: the pattern, its postfix form
// and the automaton listing. A disabled or nil Logger is silent.
type Logger struct {
	enabled bool
	out     io.Writer
}

// NewLogger creates a logger writing to stderr.
func NewLogger(enabled bool) *Logger {
	return &Logger{enabled: enabled, out: os.Stderr}
}

// SetOutput redirects the logger. A nil writer keeps the current one.
func (l *Logger) SetOutput(w io.Writer) {
	if w != nil {
		l.out = w
	}
}

// Log prints one formatted line.
func (l *Logger) Log(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	fmt.Fprintf(l.out, logPrefix+format+"\n", args...)
}

// Section starts a named block of output.
func (l *Logger) Section(name string) {
	if !l.Enabled() {
		return
	}
	fmt.Fprintf(l.out, "\n%s=== %s ===\n", logPrefix, name)
}

// Lines prints a multi-line block such as a Program dump, one prefixed
// line per input line. Trailing newlines are dropped.
func (l *Logger) Lines(text string) {
	if !l.Enabled() {
		return
	}
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(l.out, "%s%s\n", logPrefix, line)
	}
}

// Enabled reports whether anything will be written.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}
