// Package nfa holds the automaton produced by Thompson construction: an
// append-only arena of states addressed by stable integer references.
package nfa

import (
	"fmt"
	"strings"
)

// Ref identifies a state inside the arena that allocated it.
type Ref uint32

// Reserved references. Every arena allocates these two states first.
const (
	// Null is the placeholder target of a transition that has not been wired yet.
	Null Ref = 0
	// Match is the accepting state.
	Match Ref = 1
)

// Op is the kind of a state.
type Op uint8

const (
	OpPlaceholder Op = iota
	OpMatch
	OpLiteral
	OpSplit
)

func (op Op) String() string {
	switch op {
	case OpPlaceholder:
		return "null"
	case OpMatch:
		return "match"
	case OpLiteral:
		return "lit"
	case OpSplit:
		return "split"
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// State is a single NFA state with up to two outgoing transitions.
//
// A literal state consumes Char and moves to Out. A split state moves to both
// Out and Out1 without consuming input. Match and placeholder states have no
// transitions.
type State struct {
	Op   Op
	Char rune
	Out  Ref // primary
	Out1 Ref // secondary
}

// Field selects one of the two transition slots of a state.
type Field uint8

const (
	Primary Field = iota
	Secondary
)

func (f Field) String() string {
	if f == Secondary {
		return "out1"
	}
	return "out"
}

// SlotRef names a transition slot that is still open during construction.
type SlotRef struct {
	State Ref
	Field Field
}

// PrimaryOf returns the primary slot of ref.
func PrimaryOf(ref Ref) SlotRef {
	return SlotRef{State: ref, Field: Primary}
}

// SecondaryOf returns the secondary slot of ref.
func SecondaryOf(ref Ref) SlotRef {
	return SlotRef{State: ref, Field: Secondary}
}

func (s SlotRef) String() string {
	return fmt.Sprintf("%d.%s", s.State, s.Field)
}

// Arena owns every state of one automaton.
type Arena struct {
	states []State
	frozen bool
}

// NewArena returns an arena holding only the two reserved states.
func NewArena(capacity int) *Arena {
	if capacity < 2 {
		capacity = 2
	}
	a := &Arena{states: make([]State, 0, capacity)}
	a.states = append(a.states,
		State{Op: OpPlaceholder},
		State{Op: OpMatch},
	)
	return a
}

// Add appends s and returns its reference.
func (a *Arena) Add(s State) Ref {
	if a.frozen {
		panic("nfa: add to frozen arena")
	}
	a.states = append(a.states, s)
	return Ref(len(a.states) - 1)
}

// Patch points the slot at target.
func (a *Arena) Patch(slot SlotRef, target Ref) {
	if a.frozen {
		panic("nfa: patch of frozen arena")
	}
	s := a.mustState(slot.State)
	switch slot.Field {
	case Primary:
		s.Out = target
	case Secondary:
		s.Out1 = target
	default:
		panic(fmt.Sprintf("nfa: invalid slot field %d", slot.Field))
	}
}

// At returns the state stored at ref.
func (a *Arena) At(ref Ref) State {
	return *a.mustState(ref)
}

func (a *Arena) mustState(ref Ref) *State {
	if int(ref) >= len(a.states) {
		panic(fmt.Sprintf("nfa: state %d outside arena of %d states", ref, len(a.states)))
	}
	return &a.states[ref]
}

// Len returns the number of states, including the reserved ones.
func (a *Arena) Len() int {
	return len(a.states)
}

// Freeze makes the arena read-only.
func (a *Arena) Freeze() {
	a.frozen = true
}

// Frozen reports whether Freeze has been called.
func (a *Arena) Frozen() bool {
	return a.frozen
}

// Program is a finished automaton: a start state and the arena it lives in.
type Program struct {
	Start Ref
	Arena *Arena
}

// Check verifies the invariants of a finished automaton: no reachable
// transition still targets Null and every reference is inside the arena.
func (p *Program) Check() error {
	n := p.Arena.Len()
	if int(p.Start) >= n {
		return fmt.Errorf("start state %d outside arena of %d states", p.Start, n)
	}
	if p.Start == Null {
		return fmt.Errorf("start state is the placeholder")
	}

	seen := make([]bool, n)
	stack := []Ref{p.Start}
	seen[p.Start] = true
	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := p.Arena.states[ref]
		var targets []Ref
		switch s.Op {
		case OpPlaceholder:
			return fmt.Errorf("placeholder state is reachable")
		case OpLiteral:
			targets = []Ref{s.Out}
		case OpSplit:
			targets = []Ref{s.Out, s.Out1}
		}
		for i, t := range targets {
			if t == Null {
				return fmt.Errorf("state %d: %s is unresolved", ref, Field(i))
			}
			if int(t) >= n {
				return fmt.Errorf("state %d: %s targets %d outside arena", ref, Field(i), t)
			}
			if !seen[t] {
				seen[t] = true
				stack = append(stack, t)
			}
		}
	}
	return nil
}

// String dumps the automaton, one state per line.
func (p *Program) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "start: %d\n", p.Start)
	for i, s := range p.Arena.states {
		switch s.Op {
		case OpLiteral:
			fmt.Fprintf(&b, "%4d: lit %q -> %d\n", i, s.Char, s.Out)
		case OpSplit:
			fmt.Fprintf(&b, "%4d: split -> %d, %d\n", i, s.Out, s.Out1)
		default:
			fmt.Fprintf(&b, "%4d: %s\n", i, s.Op)
		}
	}
	return b.String()
}
