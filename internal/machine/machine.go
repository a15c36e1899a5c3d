// Package machine runs a compiled automaton against input by simulating all
// of its live states at once. Matching is whole-string and takes
// O(len(input) * states) time; there is no backtracking.
package machine

import (
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/KromDaniel/regnfa/internal/nfa"
)

// Stats describes the work done by one run.
type Stats struct {
	Steps      int // symbols consumed
	MaxLive    int // largest live-state set
	MaxVisited int // most states visited while closing a single step
}

// Machine simulates a program. It never mutates the program and is safe for
// concurrent use; every run takes its own scratch space from a pool.
type Machine struct {
	prog *nfa.Program
	pool sync.Pool
}

// scratch is the per-run state: the current and next live sets, the states
// visited by the closure of the current step, and the closure work-list.
type scratch struct {
	current *stateSet
	next    *stateSet
	visited *stateSet
	stack   []nfa.Ref
	stats   Stats
}

// New returns a machine for p. The program's arena must be frozen.
func New(p *nfa.Program) *Machine {
	if !p.Arena.Frozen() {
		panic("machine: program arena is not frozen")
	}
	n := p.Arena.Len()
	m := &Machine{prog: p}
	m.pool.New = func() any {
		return &scratch{
			current: newStateSet(n),
			next:    newStateSet(n),
			visited: newStateSet(n),
			stack:   make([]nfa.Ref, 0, 16),
		}
	}
	return m
}

// Program returns the program the machine runs.
func (m *Machine) Program() *nfa.Program {
	return m.prog
}

// MatchString reports whether the whole of s is accepted.
func (m *Machine) MatchString(s string) bool {
	ok, _ := m.MatchStringStats(s)
	return ok
}

// MatchStringStats is MatchString that also returns run statistics.
func (m *Machine) MatchStringStats(s string) (bool, Stats) {
	sc := m.get()
	defer m.put(sc)

	m.start(sc)
	for _, c := range s {
		if !m.step(sc, c) {
			return false, sc.stats
		}
	}
	return sc.current.contains(nfa.Match), sc.stats
}

// Match reports whether the whole of b, decoded as UTF-8, is accepted.
// Invalid bytes decode to utf8.RuneError, as when ranging over a string.
func (m *Machine) Match(b []byte) bool {
	sc := m.get()
	defer m.put(sc)

	m.start(sc)
	for len(b) > 0 {
		c, size := utf8.DecodeRune(b)
		b = b[size:]
		if !m.step(sc, c) {
			return false
		}
	}
	return sc.current.contains(nfa.Match)
}

func (m *Machine) start(sc *scratch) {
	sc.visited.clear()
	m.addClosure(sc, sc.current, m.prog.Start)
	sc.stats.MaxLive = sc.current.len()
	sc.stats.MaxVisited = sc.visited.len()
}

// step advances the live set past c and reports whether any state survived.
func (m *Machine) step(sc *scratch, c rune) bool {
	sc.next.clear()
	sc.visited.clear()
	for _, ref := range sc.current.dense {
		s := m.prog.Arena.At(ref)
		if s.Op == nfa.OpLiteral && s.Char == c {
			m.addClosure(sc, sc.next, s.Out)
		}
	}
	sc.current, sc.next = sc.next, sc.current

	sc.stats.Steps++
	sc.stats.MaxLive = max(sc.stats.MaxLive, sc.current.len())
	sc.stats.MaxVisited = max(sc.stats.MaxVisited, sc.visited.len())
	return sc.current.len() > 0
}

// addClosure adds ref to set, following split states without adding them.
// Nested loops such as (a*)* produce cycles of splits, so every state is
// visited at most once per step.
func (m *Machine) addClosure(sc *scratch, set *stateSet, ref nfa.Ref) {
	stack := append(sc.stack[:0], ref)
	for len(stack) > 0 {
		ref = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !sc.visited.insert(ref) {
			continue
		}

		s := m.prog.Arena.At(ref)
		if s.Op == nfa.OpSplit {
			stack = append(stack, s.Out1, s.Out)
			continue
		}
		set.insert(ref)
	}
	sc.stack = stack[:0]
}

func (m *Machine) get() *scratch {
	return m.pool.Get().(*scratch)
}

func (m *Machine) put(sc *scratch) {
	sc.current.clear()
	sc.next.clear()
	sc.visited.clear()
	sc.stats = Stats{}
	m.pool.Put(sc)
}

// Closure returns the sorted epsilon closure of refs in p.
func Closure(p *nfa.Program, refs ...nfa.Ref) []nfa.Ref {
	return New(p).Closure(refs...)
}

// Closure returns the sorted epsilon closure of refs. Repeated calls share
// the machine's pooled scratch, so only the result is allocated.
func (m *Machine) Closure(refs ...nfa.Ref) []nfa.Ref {
	sc := m.get()
	defer m.put(sc)

	for _, ref := range refs {
		m.addClosure(sc, sc.current, ref)
	}
	out := slices.Clone(sc.current.dense)
	slices.Sort(out)
	return out
}
