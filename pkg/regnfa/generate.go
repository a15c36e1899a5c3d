package regnfa

import (
	"fmt"
	"io"

	"github.com/KromDaniel/regnfa/internal/compiler"
)

// GenerateOptions configures Go code generation for a pattern.
type GenerateOptions struct {
	// Pattern is the regular expression to compile
	Pattern string

	// Name is the type name of the generated matcher (e.g., "Email" generates type Email with MatchString)
	Name string

	// OutputFile is the path where generated code will be written
	OutputFile string

	// Package is the Go package name for the generated code
	Package string

	// GenerateTestFile generates a test file checking the generated matcher against this package (default: true if TestFileInputs provided)
	GenerateTestFile bool

	// TestFileInputs is a list of inputs for the generated test file. If empty and GenerateTestFile is true, defaults to []string{""}
	TestFileInputs []string

	// Verbose logs analysis and generation steps
	Verbose bool

	// LogOutput receives verbose logs. Defaults to stderr.
	LogOutput io.Writer
}

// Validate checks if the options are valid. The empty pattern is valid.
func (o GenerateOptions) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if o.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if o.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	return nil
}

// Generate writes a dependency-free Go matcher for the pattern to
// OutputFile. The generated type has MatchString and MatchBytes methods with
// the same semantics as (*Regexp).MatchString and (*Regexp).Match.
func Generate(opts GenerateOptions) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	c := compiler.New(compiler.Config{
		Pattern:          opts.Pattern,
		Name:             opts.Name,
		Package:          opts.Package,
		OutputFile:       opts.OutputFile,
		GenerateTestFile: opts.GenerateTestFile || len(opts.TestFileInputs) > 0,
		TestFileInputs:   opts.TestFileInputs,
		Verbose:          opts.Verbose,
		LogOutput:        opts.LogOutput,
	})

	if err := c.Generate(); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}
