// Package regnfa compiles regular expressions into Thompson NFAs and matches
// them in time linear in the input, without backtracking.
//
// The grammar is deliberately small: literals, concatenation, alternation (|),
// grouping with parentheses, and the repetitions *, + and ?. Every other
// character, including '.', '[' and '\', is a literal. Matching is always
// against the whole input.
//
// A compiled *Regexp is immutable and safe for concurrent use. Matching costs
// O(len(input) * NumStates()); hosts that accept patterns from untrusted
// sources should bound the pattern length with Options.MaxPatternLength.
package regnfa

import (
	"fmt"
	"io"
	"strconv"

	"github.com/KromDaniel/regnfa/internal/compiler"
	"github.com/KromDaniel/regnfa/internal/machine"
	"github.com/KromDaniel/regnfa/internal/nfa"
	"github.com/KromDaniel/regnfa/internal/postfix"
)

// SyntaxError describes a rejected pattern. Pos is the offset, in
// characters, of the offending character.
type SyntaxError = postfix.Error

// ErrorCode classifies a SyntaxError.
type ErrorCode = postfix.ErrorCode

const (
	ErrEmptyAlternate        = postfix.ErrEmptyAlternate
	ErrEmptyGroup            = postfix.ErrEmptyGroup
	ErrMissingRepeatArgument = postfix.ErrMissingRepeatArgument
	ErrUnexpectedParen       = postfix.ErrUnexpectedParen
	ErrMissingParen          = postfix.ErrMissingParen
)

// ErrPatternTooLong is returned when a pattern exceeds Options.MaxPatternLength.
var ErrPatternTooLong = compiler.ErrPatternTooLong

// Options configures compilation.
type Options struct {
	// MaxPatternLength rejects patterns longer than this many characters. Zero means no limit.
	MaxPatternLength int

	// Verbose logs the postfix form and the automaton while compiling.
	Verbose bool

	// LogOutput receives verbose logs. Defaults to stderr.
	LogOutput io.Writer
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.MaxPatternLength < 0 {
		return fmt.Errorf("max pattern length cannot be negative")
	}
	return nil
}

// Regexp is a compiled pattern.
type Regexp struct {
	expr    string
	postfix string
	prog    *nfa.Program
	machine *machine.Machine
}

// Compile parses a pattern and returns a Regexp that matches it. A rejected
// pattern yields a *SyntaxError.
func Compile(expr string) (*Regexp, error) {
	return CompileWithOptions(expr, Options{})
}

// CompileWithOptions is Compile with explicit options.
func CompileWithOptions(expr string, opts Options) (*Regexp, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	c := compiler.New(compiler.Config{
		Pattern:          expr,
		MaxPatternLength: opts.MaxPatternLength,
		Verbose:          opts.Verbose,
		LogOutput:        opts.LogOutput,
	})
	prog, err := c.Compile()
	if err != nil {
		return nil, err
	}

	return &Regexp{
		expr:    expr,
		postfix: postfix.String(c.Tokens()),
		prog:    prog,
		machine: machine.New(prog),
	}, nil
}

// MustCompile is like Compile but panics if the pattern is rejected.
func MustCompile(expr string) *Regexp {
	re, err := Compile(expr)
	if err != nil {
		panic(`regnfa: Compile(` + strconv.Quote(expr) + `): ` + err.Error())
	}
	return re
}

// MatchString reports whether s matches pattern in full.
func MatchString(pattern, s string) (bool, error) {
	re, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// MatchString reports whether the whole of s matches re.
func (re *Regexp) MatchString(s string) bool {
	return re.machine.MatchString(s)
}

// Match reports whether the whole of b, decoded as UTF-8, matches re.
func (re *Regexp) Match(b []byte) bool {
	return re.machine.Match(b)
}

// String returns the source text of the pattern.
func (re *Regexp) String() string {
	return re.expr
}

// Postfix returns the postfix form of the pattern, with . as concatenation.
func (re *Regexp) Postfix() string {
	return re.postfix
}

// NumStates returns the number of automaton states, including the reserved
// placeholder and match states.
func (re *Regexp) NumStates() int {
	return re.prog.Arena.Len()
}

// Dump returns a listing of the automaton, one state per line.
func (re *Regexp) Dump() string {
	return re.prog.String()
}
