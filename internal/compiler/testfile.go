package compiler

import (
	"fmt"
	"strings"

	"github.com/KromDaniel/regnfa/internal/codegen"
	"github.com/KromDaniel/regnfa/internal/machine"
	"github.com/dave/jennifer/jen"
)

// testFilePath returns the path of the test file generated next to OutputFile.
func (c *Compiler) testFilePath() string {
	return strings.TrimSuffix(c.config.OutputFile, ".go") + "_test.go"
}

// generateTestFile writes a test and a benchmark for the generated matcher.
// Expected results come from simulating the same program in-process.
func (c *Compiler) generateTestFile() error {
	prog, err := c.Compile()
	if err != nil {
		return err
	}
	m := machine.New(prog)

	inputs := c.config.TestFileInputs
	if len(inputs) == 0 {
		inputs = []string{""}
	}

	cases := make([]jen.Code, len(inputs))
	for i, in := range inputs {
		cases[i] = jen.Values(jen.Lit(in), jen.Lit(m.MatchString(in)))
	}

	typeName := c.typeName()
	casesName := codegen.Ident(c.config.Name, "TestCases")

	f := jen.NewFile(c.config.Package)
	f.Comment(fmt.Sprintf("Code generated by regnfa for pattern: %q", c.config.Pattern))
	f.Comment("DO NOT EDIT.")
	f.Line()

	f.Var().Id(casesName).Op("=").Index().Struct(
		jen.Id(codegen.InputName).String(),
		jen.Id("want").Bool(),
	).Values(cases...)
	f.Line()

	f.Func().Id("Test"+typeName+"MatchString").Params(jen.Id("t").Op("*").Qual("testing", "T")).Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("tt")).Op(":=").Range().Id(casesName)).Block(
			jen.If(
				jen.Id("got").Op(":=").Id("Compiled"+typeName).Dot("MatchString").Call(jen.Id("tt").Dot(codegen.InputName)),
				jen.Id("got").Op("!=").Id("tt").Dot("want"),
			).Block(
				jen.Id("t").Dot("Errorf").Call(jen.Lit("MatchString(%q) = %v, want %v"), jen.Id("tt").Dot(codegen.InputName), jen.Id("got"), jen.Id("tt").Dot("want")),
			),
			jen.If(
				jen.Id("got").Op(":=").Id("Compiled"+typeName).Dot("MatchBytes").Call(jen.Index().Byte().Parens(jen.Id("tt").Dot(codegen.InputName))),
				jen.Id("got").Op("!=").Id("tt").Dot("want"),
			).Block(
				jen.Id("t").Dot("Errorf").Call(jen.Lit("MatchBytes(%q) = %v, want %v"), jen.Id("tt").Dot(codegen.InputName), jen.Id("got"), jen.Id("tt").Dot("want")),
			),
		),
	)
	f.Line()

	f.Func().Id("Benchmark"+typeName+"MatchString").Params(jen.Id("b").Op("*").Qual("testing", "B")).Block(
		jen.For(jen.Id("i").Op(":=").Lit(0), jen.Id("i").Op("<").Id("b").Dot("N"), jen.Id("i").Op("++")).Block(
			jen.For(jen.List(jen.Id("_"), jen.Id("tt")).Op(":=").Range().Id(casesName)).Block(
				jen.Id("Compiled"+typeName).Dot("MatchString").Call(jen.Id("tt").Dot(codegen.InputName)),
			),
		),
	)

	path := c.testFilePath()
	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save test file: %w", err)
	}
	if err := formatFile(path); err != nil {
		return fmt.Errorf("failed to format test file: %w", err)
	}
	c.logger.Log("Wrote %s (%d cases)", path, len(inputs))
	return nil
}
