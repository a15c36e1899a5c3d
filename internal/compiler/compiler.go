// Package compiler implements the pattern pipeline: postfix conversion,
// Thompson construction and Go code generation for compiled automata.
package compiler

import (
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"unicode/utf8"

	"github.com/KromDaniel/regnfa/internal/codegen"
	"github.com/KromDaniel/regnfa/internal/nfa"
	"github.com/KromDaniel/regnfa/internal/postfix"
	"github.com/dave/jennifer/jen"
)

// ErrPatternTooLong is returned when a pattern exceeds Config.MaxPatternLength.
var ErrPatternTooLong = errors.New("pattern too long")

// Config holds the configuration for compilation and code generation.
type Config struct {
	Pattern          string
	Name             string    // Type name of the generated matcher
	Package          string    // Package of the generated file
	OutputFile       string    // Path of the generated file
	MaxPatternLength int       // Max pattern length in characters (0 = unlimited)
	GenerateTestFile bool      // Generate a _test.go next to OutputFile
	TestFileInputs   []string  // Inputs checked by the generated test file
	Verbose          bool      // Enable verbose logging
	LogOutput        io.Writer // Destination of verbose logs (default stderr)
}

// Compiler turns a pattern into an automaton and, on request, into Go code.
type Compiler struct {
	config  Config
	logger  *Logger
	tokens  []postfix.Token
	program *nfa.Program
	file    *jen.File
}

// New creates a new compiler instance.
func New(config Config) *Compiler {
	logger := NewLogger(config.Verbose)
	logger.SetOutput(config.LogOutput)
	return &Compiler{
		config: config,
		logger: logger,
	}
}

// Logger returns the compiler's logger.
func (c *Compiler) Logger() *Logger {
	return c.logger
}

// Tokens returns the postfix form of the pattern, or nil before Compile.
func (c *Compiler) Tokens() []postfix.Token {
	return c.tokens
}

// Compile converts the pattern and builds its automaton. A rejected pattern
// yields a *postfix.Error. The result is cached.
func (c *Compiler) Compile() (*nfa.Program, error) {
	if c.program != nil {
		return c.program, nil
	}

	c.logger.Section("Pattern Analysis")
	c.logger.Log("Pattern: %s", c.config.Pattern)

	if limit := c.config.MaxPatternLength; limit > 0 {
		if n := utf8.RuneCountInString(c.config.Pattern); n > limit {
			return nil, fmt.Errorf("%w: %d characters, limit is %d", ErrPatternTooLong, n, limit)
		}
	}

	tokens, err := postfix.Convert(c.config.Pattern)
	if err != nil {
		c.logger.Log("Rejected: %v", err)
		return nil, err
	}
	c.tokens = tokens
	c.logger.Log("Postfix: %s", postfix.String(tokens))

	c.logger.Section("Thompson Construction")
	c.program = Build(tokens)
	c.logger.Log("NFA states: %d", c.program.Arena.Len())
	c.logger.Lines(c.program.String())

	return c.program, nil
}

// Generate writes the matcher source to Config.OutputFile and, if requested,
// its test file.
func (c *Compiler) Generate() error {
	if c.config.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if err := c.buildFile(); err != nil {
		return err
	}

	if err := c.file.Save(c.config.OutputFile); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	if err := formatFile(c.config.OutputFile); err != nil {
		return fmt.Errorf("failed to format file: %w", err)
	}
	c.logger.Log("Wrote %s", c.config.OutputFile)

	if c.config.GenerateTestFile {
		if err := c.generateTestFile(); err != nil {
			return fmt.Errorf("failed to generate test file: %w", err)
		}
	}
	return nil
}

// Render writes the matcher source to w.
func (c *Compiler) Render(w io.Writer) error {
	if err := c.buildFile(); err != nil {
		return err
	}
	return c.file.Render(w)
}

func (c *Compiler) buildFile() error {
	if err := c.validateNames(); err != nil {
		return err
	}
	prog, err := c.Compile()
	if err != nil {
		return err
	}

	c.file = jen.NewFile(c.config.Package)
	c.file.Comment(fmt.Sprintf("Code generated by regnfa for pattern: %q", c.config.Pattern))
	c.file.Comment("DO NOT EDIT.")
	c.file.Line()

	NewThompsonGenerator(c, prog).Generate()
	return nil
}

func (c *Compiler) validateNames() error {
	if c.config.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	if !token.IsIdentifier(c.config.Package) {
		return fmt.Errorf("package %q is not a valid identifier", c.config.Package)
	}
	name := c.config.Name
	if !token.IsIdentifier(name) || !isASCIILetter(name[0]) {
		return fmt.Errorf("name %q must be an identifier starting with an ASCII letter", name)
	}
	return nil
}

// typeName is the exported type of the generated matcher.
func (c *Compiler) typeName() string {
	return codegen.UpperFirst(c.config.Name)
}

// method returns a jen.Statement for declaring a method on the generated struct.
func (c *Compiler) method(name string) *jen.Statement {
	return c.file.Func().
		Params(jen.Id(c.typeName())).
		Id(name)
}

func isASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// formatFile formats a Go source file using gofmt.
func formatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	formatted, err := format.Source(src)
	if err != nil {
		return err
	}

	return os.WriteFile(path, formatted, 0644)
}
