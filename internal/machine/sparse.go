package machine

import "github.com/KromDaniel/regnfa/internal/nfa"

// stateSet is a sparse set of state references with O(1) insert, lookup and
// clear. Iteration order is insertion order.
type stateSet struct {
	dense  []nfa.Ref
	sparse []uint32
}

func newStateSet(size int) *stateSet {
	return &stateSet{
		dense:  make([]nfa.Ref, 0, size),
		sparse: make([]uint32, size),
	}
}

func (s *stateSet) contains(ref nfa.Ref) bool {
	i := s.sparse[ref]
	return int(i) < len(s.dense) && s.dense[i] == ref
}

// insert adds ref and reports whether it was absent.
func (s *stateSet) insert(ref nfa.Ref) bool {
	if s.contains(ref) {
		return false
	}
	s.sparse[ref] = uint32(len(s.dense))
	s.dense = append(s.dense, ref)
	return true
}

func (s *stateSet) clear() {
	s.dense = s.dense[:0]
}

func (s *stateSet) len() int {
	return len(s.dense)
}
