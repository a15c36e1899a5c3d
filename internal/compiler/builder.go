package compiler

import (
	"fmt"

	"github.com/KromDaniel/regnfa/internal/nfa"
	"github.com/KromDaniel/regnfa/internal/postfix"
)

// StructureError reports a postfix stream that does not reduce to exactly one
// fragment. It is raised with panic: the converter never produces such a
// stream, so seeing one is a bug in the caller.
type StructureError struct {
	Index  int // token index, or -1 at the end of the stream
	Op     postfix.Op
	Reason string
}

func (e *StructureError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed postfix: %s", e.Reason)
	}
	return fmt.Sprintf("malformed postfix at token %d (%s): %s", e.Index, postfix.Token{Op: e.Op}, e.Reason)
}

// frag is a partially built automaton: one entry state and the slots that
// still have to be wired to whatever follows.
type frag struct {
	start nfa.Ref
	out   []nfa.SlotRef
}

// builder performs Thompson construction over a fragment stack.
type builder struct {
	arena *nfa.Arena
	stack []frag
	index int
	op    postfix.Op
}

// Build runs Thompson construction over tokens and returns the finished
// automaton. The arena is frozen before Build returns.
//
// Build panics with *StructureError if tokens is not a well-formed postfix
// stream, and with a plain message if the result breaks an automaton
// invariant.
func Build(tokens []postfix.Token) *nfa.Program {
	b := &builder{arena: nfa.NewArena(len(tokens) + 2)}
	for i, tok := range tokens {
		b.index, b.op = i, tok.Op
		b.apply(tok)
	}

	var e frag
	switch len(b.stack) {
	case 0:
		// Empty pattern: the match state is the whole automaton.
		e = frag{start: nfa.Match}
	case 1:
		e = b.stack[0]
	default:
		panic(&StructureError{Index: -1, Reason: fmt.Sprintf("%d fragments left on the stack", len(b.stack))})
	}
	b.patch(e.out, nfa.Match)
	b.arena.Freeze()

	prog := &nfa.Program{Start: e.start, Arena: b.arena}
	if err := prog.Check(); err != nil {
		panic(fmt.Sprintf("compiler: invalid automaton: %v", err))
	}
	return prog
}

func (b *builder) apply(tok postfix.Token) {
	switch tok.Op {
	case postfix.Literal:
		s := b.arena.Add(nfa.State{Op: nfa.OpLiteral, Char: tok.Char})
		b.push(frag{start: s, out: []nfa.SlotRef{nfa.PrimaryOf(s)}})

	case postfix.Concat:
		e2 := b.pop()
		e1 := b.pop()
		b.patch(e1.out, e2.start)
		b.push(frag{start: e1.start, out: e2.out})

	case postfix.Alternate:
		e2 := b.pop()
		e1 := b.pop()
		s := b.arena.Add(nfa.State{Op: nfa.OpSplit, Out: e1.start, Out1: e2.start})
		b.push(frag{start: s, out: append(e1.out, e2.out...)})

	case postfix.Star:
		e := b.pop()
		s := b.arena.Add(nfa.State{Op: nfa.OpSplit, Out: e.start})
		b.patch(e.out, s)
		b.push(frag{start: s, out: []nfa.SlotRef{nfa.SecondaryOf(s)}})

	case postfix.Plus:
		// Entry bypasses the split so the body runs at least once.
		e := b.pop()
		s := b.arena.Add(nfa.State{Op: nfa.OpSplit, Out: e.start})
		b.patch(e.out, s)
		b.push(frag{start: e.start, out: []nfa.SlotRef{nfa.SecondaryOf(s)}})

	case postfix.Quest:
		e := b.pop()
		s := b.arena.Add(nfa.State{Op: nfa.OpSplit, Out: e.start})
		b.push(frag{start: s, out: append(e.out, nfa.SecondaryOf(s))})

	default:
		panic(&StructureError{Index: b.index, Op: tok.Op, Reason: "unknown operator"})
	}
}

func (b *builder) patch(out []nfa.SlotRef, target nfa.Ref) {
	for _, slot := range out {
		b.arena.Patch(slot, target)
	}
}

func (b *builder) push(f frag) {
	b.stack = append(b.stack, f)
}

func (b *builder) pop() frag {
	if len(b.stack) == 0 {
		panic(&StructureError{Index: b.index, Op: b.op, Reason: "fragment stack underflow"})
	}
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return f
}
