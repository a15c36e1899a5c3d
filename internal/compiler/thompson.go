package compiler

import (
	"github.com/KromDaniel/regnfa/internal/codegen"
	"github.com/KromDaniel/regnfa/internal/machine"
	"github.com/KromDaniel/regnfa/internal/nfa"
	"github.com/dave/jennifer/jen"
)

// ThompsonGenerator emits a table-driven Thompson simulation of a program.
// Epsilon closures are precomputed, so the generated matcher only has
// literal and match states in its live sets.
type ThompsonGenerator struct {
	compiler     *Compiler
	prog         *nfa.Program
	stateCount   int
	startClosure []nfa.Ref
	chars        []rune      // Symbol consumed by each state, codegen.NoChar if none
	next         [][]nfa.Ref // Closure of the successor of each literal state
	literals     []nfa.Ref
}

// NewThompsonGenerator precomputes the tables for prog.
func NewThompsonGenerator(c *Compiler, prog *nfa.Program) *ThompsonGenerator {
	n := prog.Arena.Len()
	m := machine.New(prog)
	g := &ThompsonGenerator{
		compiler:     c,
		prog:         prog,
		stateCount:   n,
		startClosure: m.Closure(prog.Start),
		chars:        make([]rune, n),
		next:         make([][]nfa.Ref, n),
	}

	for i := 0; i < n; i++ {
		ref := nfa.Ref(i)
		s := prog.Arena.At(ref)
		if s.Op != nfa.OpLiteral {
			g.chars[i] = codegen.NoChar
			continue
		}
		g.chars[i] = s.Char
		g.next[i] = m.Closure(s.Out)
		g.literals = append(g.literals, ref)
	}
	return g
}

// Generate appends the matcher declarations to the compiler's file.
func (g *ThompsonGenerator) Generate() {
	c := g.compiler
	c.logger.Section("Code Generation")
	c.logger.Log("Generating Thompson NFA matcher (states: %d, literals: %d)", g.stateCount, len(g.literals))

	f := c.file
	typeName := c.typeName()
	name := c.config.Name

	f.Type().Id(typeName).Struct()
	f.Line()

	f.Var().Id("Compiled" + typeName).Op("=").Id(typeName).Values()
	f.Line()

	f.Const().Defs(
		jen.Id(codegen.Ident(name, codegen.StateCountSuffix)).Op("=").Lit(g.stateCount),
		jen.Id(codegen.Ident(name, codegen.MatchStateSuffix)).Op("=").Lit(int(nfa.Match)),
	)
	f.Line()

	g.generateTables()
	g.generateStep()
	g.generateAccepts()
	g.generateMatchString()
	g.generateMatchBytes()
}

// generateTables emits the start closure, the symbol of every state and the
// closure reached after each literal.
func (g *ThompsonGenerator) generateTables() {
	f := g.compiler.file
	name := g.compiler.config.Name
	count := jen.Id(codegen.Ident(name, codegen.StateCountSuffix))

	f.Comment("Epsilon closure of the start state")
	f.Var().Id(codegen.Ident(name, codegen.StartSuffix)).Op("=").Index().Int().Values(refLits(g.startClosure)...)
	f.Line()

	chars := make([]jen.Code, len(g.chars))
	for i, ch := range g.chars {
		if ch == codegen.NoChar {
			chars[i] = jen.Lit(codegen.NoChar)
		} else {
			chars[i] = jen.LitRune(ch)
		}
	}
	f.Comment("Symbol consumed by each state, -1 for states that consume nothing")
	f.Var().Id(codegen.Ident(name, codegen.CharsSuffix)).Op("=").Index(count.Clone()).Rune().Values(chars...)
	f.Line()

	entries := make([]jen.Code, 0, len(g.literals))
	for _, ref := range g.literals {
		entries = append(entries, jen.Lit(int(ref)).Op(":").Values(refLits(g.next[ref])...))
	}
	f.Comment("Epsilon closure entered after each literal state consumes its symbol")
	f.Var().Id(codegen.Ident(name, codegen.NextSuffix)).Op("=").Index(count.Clone()).Index().Int().Values(entries...)
	f.Line()
}

// generateStep emits the function advancing a live set past one symbol.
func (g *ThompsonGenerator) generateStep() {
	f := g.compiler.file
	name := g.compiler.config.Name

	f.Func().Id(codegen.Ident(name, codegen.StepSuffix)).Params(
		jen.List(jen.Id(codegen.CurrentName), jen.Id(codegen.NextName)).Index().Int(),
		jen.Id(codegen.MarkName).Op("*").Index(jen.Id(codegen.Ident(name, codegen.StateCountSuffix))).Int(),
		jen.Id(codegen.GenName).Int(),
		jen.Id(codegen.CharName).Rune(),
	).Index().Int().Block(
		jen.Id(codegen.NextName).Op("=").Id(codegen.NextName).Index(jen.Empty(), jen.Lit(0)),
		jen.For(jen.List(jen.Id("_"), jen.Id(codegen.StateName)).Op(":=").Range().Id(codegen.CurrentName)).Block(
			jen.If(jen.Id(codegen.Ident(name, codegen.CharsSuffix)).Index(jen.Id(codegen.StateName)).Op("!=").Id(codegen.CharName)).Block(
				jen.Continue(),
			),
			jen.For(jen.List(jen.Id("_"), jen.Id(codegen.TargetName)).Op(":=").Range().Id(codegen.Ident(name, codegen.NextSuffix)).Index(jen.Id(codegen.StateName))).Block(
				jen.If(jen.Id(codegen.MarkName).Index(jen.Id(codegen.TargetName)).Op("!=").Id(codegen.GenName)).Block(
					jen.Id(codegen.MarkName).Index(jen.Id(codegen.TargetName)).Op("=").Id(codegen.GenName),
					jen.Id(codegen.NextName).Op("=").Append(jen.Id(codegen.NextName), jen.Id(codegen.TargetName)),
				),
			),
		),
		jen.Return(jen.Id(codegen.NextName)),
	)
	f.Line()
}

func (g *ThompsonGenerator) generateAccepts() {
	f := g.compiler.file
	name := g.compiler.config.Name

	f.Func().Id(codegen.Ident(name, codegen.AcceptsSuffix)).Params(
		jen.Id(codegen.CurrentName).Index().Int(),
	).Bool().Block(
		jen.For(jen.List(jen.Id("_"), jen.Id(codegen.StateName)).Op(":=").Range().Id(codegen.CurrentName)).Block(
			jen.If(jen.Id(codegen.StateName).Op("==").Id(codegen.Ident(name, codegen.MatchStateSuffix))).Block(
				jen.Return(jen.True()),
			),
		),
		jen.Return(jen.False()),
	)
	f.Line()
}

func (g *ThompsonGenerator) generateMatchString() {
	c := g.compiler
	c.file.Comment("MatchString reports whether the whole of input matches the pattern.")
	c.method("MatchString").
		Params(jen.Id(codegen.InputName).String()).
		Params(jen.Bool()).
		Block(g.matchBody(
			jen.For(jen.List(jen.Id("_"), jen.Id(codegen.CharName)).Op(":=").Range().Id(codegen.InputName)),
			nil,
		)...)
	c.file.Line()
}

func (g *ThompsonGenerator) generateMatchBytes() {
	c := g.compiler
	c.file.Comment("MatchBytes reports whether the whole of input, decoded as UTF-8, matches the pattern.")
	c.method("MatchBytes").
		Params(jen.Id(codegen.InputName).Index().Byte()).
		Params(jen.Bool()).
		Block(g.matchBody(
			jen.For(jen.Len(jen.Id(codegen.InputName)).Op(">").Lit(0)),
			[]jen.Code{
				jen.List(jen.Id(codegen.CharName), jen.Id(codegen.SizeName)).Op(":=").Qual("unicode/utf8", "DecodeRune").Call(jen.Id(codegen.InputName)),
				jen.Id(codegen.InputName).Op("=").Id(codegen.InputName).Index(jen.Id(codegen.SizeName), jen.Empty()),
			},
		)...)
	c.file.Line()
}

// matchBody builds the simulation loop. loop is the loop header and decode
// the statements binding the next symbol to c.
func (g *ThompsonGenerator) matchBody(loop *jen.Statement, decode []jen.Code) []jen.Code {
	name := g.compiler.config.Name
	count := codegen.Ident(name, codegen.StateCountSuffix)

	body := append(decode,
		jen.Id(codegen.GenName).Op("++"),
		jen.Id(codegen.NextName).Op("=").Id(codegen.Ident(name, codegen.StepSuffix)).Call(
			jen.Id(codegen.CurrentName),
			jen.Id(codegen.NextName),
			jen.Op("&").Id(codegen.MarkName),
			jen.Id(codegen.GenName),
			jen.Id(codegen.CharName),
		),
		jen.If(jen.Len(jen.Id(codegen.NextName)).Op("==").Lit(0)).Block(
			jen.Return(jen.False()),
		),
		jen.List(jen.Id(codegen.CurrentName), jen.Id(codegen.NextName)).Op("=").List(jen.Id(codegen.NextName), jen.Id(codegen.CurrentName)),
	)

	return []jen.Code{
		jen.Id(codegen.CurrentName).Op(":=").Append(
			jen.Make(jen.Index().Int(), jen.Lit(0), jen.Id(count)),
			jen.Id(codegen.Ident(name, codegen.StartSuffix)).Op("..."),
		),
		jen.Id(codegen.NextName).Op(":=").Make(jen.Index().Int(), jen.Lit(0), jen.Id(count)),
		jen.Var().Id(codegen.MarkName).Index(jen.Id(count)).Int(),
		jen.Id(codegen.GenName).Op(":=").Lit(0),
		jen.Line(),
		loop.Block(body...),
		jen.Line(),
		jen.Return(jen.Id(codegen.Ident(name, codegen.AcceptsSuffix)).Call(jen.Id(codegen.CurrentName))),
	}
}

func refLits(refs []nfa.Ref) []jen.Code {
	lits := make([]jen.Code, len(refs))
	for i, ref := range refs {
		lits[i] = jen.Lit(int(ref))
	}
	return lits
}
