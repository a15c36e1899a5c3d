package regnfa

import (
	"math/rand"
	"strings"
	"testing"
)

// The oracle is an independent matcher over the same grammar: a
// recursive-descent parser builds a tree, and matching computes the set of
// end positions of each subtree directly from the tree.

type nodeKind int

const (
	nodeEmpty nodeKind = iota
	nodeLit
	nodeCat
	nodeAlt
	nodeStar
	nodePlus
	nodeQuest
)

type node struct {
	kind nodeKind
	c    rune
	subs []*node
}

type oracleParser struct {
	s   []rune
	pos int
}

// parseOracle parses a pattern already accepted by Compile.
func parseOracle(pattern string) *node {
	p := &oracleParser{s: []rune(pattern)}
	return p.alternate()
}

func (p *oracleParser) peek() rune {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return -1
}

func (p *oracleParser) alternate() *node {
	left := p.concat()
	for p.peek() == '|' {
		p.pos++
		left = &node{kind: nodeAlt, subs: []*node{left, p.concat()}}
	}
	return left
}

func (p *oracleParser) concat() *node {
	n := &node{kind: nodeCat}
	for c := p.peek(); c != -1 && c != '|' && c != ')'; c = p.peek() {
		n.subs = append(n.subs, p.repeat())
	}
	if len(n.subs) == 0 {
		return &node{kind: nodeEmpty}
	}
	return n
}

func (p *oracleParser) repeat() *node {
	n := p.atom()
	for {
		switch p.peek() {
		case '*':
			n = &node{kind: nodeStar, subs: []*node{n}}
		case '+':
			n = &node{kind: nodePlus, subs: []*node{n}}
		case '?':
			n = &node{kind: nodeQuest, subs: []*node{n}}
		default:
			return n
		}
		p.pos++
	}
}

func (p *oracleParser) atom() *node {
	c := p.s[p.pos]
	p.pos++
	if c == '(' {
		n := p.alternate()
		p.pos++ // )
		return n
	}
	return &node{kind: nodeLit, c: c}
}

// oracle computes, for a node and a start position, every position at which
// the node can finish. Results are memoized per (node, start), so stacked
// repetitions such as (a*)+++ stay polynomial.
type oracle struct {
	s    []rune
	memo map[oracleKey][]bool
}

type oracleKey struct {
	n *node
	i int
}

func (o *oracle) ends(n *node, i int) []bool {
	key := oracleKey{n, i}
	if r, ok := o.memo[key]; ok {
		return r
	}
	r := make([]bool, len(o.s)+1)
	switch n.kind {
	case nodeEmpty:
		r[i] = true
	case nodeLit:
		if i < len(o.s) && o.s[i] == n.c {
			r[i+1] = true
		}
	case nodeCat:
		r[i] = true
		for _, sub := range n.subs {
			r = o.advance(sub, r)
		}
	case nodeAlt:
		union(r, o.ends(n.subs[0], i))
		union(r, o.ends(n.subs[1], i))
	case nodeQuest:
		union(r, o.ends(n.subs[0], i))
		r[i] = true
	case nodeStar:
		r[i] = true
		o.repeat(n.subs[0], r)
	case nodePlus:
		union(r, o.ends(n.subs[0], i))
		o.repeat(n.subs[0], r)
	default:
		panic("unknown node")
	}
	o.memo[key] = r
	return r
}

// advance returns the positions reached by running n from any position in from.
func (o *oracle) advance(n *node, from []bool) []bool {
	r := make([]bool, len(o.s)+1)
	for j, ok := range from {
		if ok {
			union(r, o.ends(n, j))
		}
	}
	return r
}

// repeat extends r with every position reachable by further runs of body.
// Positions only grow and are bounded by the input, so it terminates.
func (o *oracle) repeat(body *node, r []bool) {
	for changed := true; changed; {
		changed = false
		for j, ok := range r {
			if !ok {
				continue
			}
			for k, end := range o.ends(body, j) {
				if end && !r[k] {
					r[k] = true
					changed = true
				}
			}
		}
	}
}

func union(dst, src []bool) {
	for i, ok := range src {
		if ok {
			dst[i] = true
		}
	}
}

func oracleMatch(pattern, input string) bool {
	o := &oracle{s: []rune(input), memo: make(map[oracleKey][]bool)}
	return o.ends(parseOracle(pattern), 0)[len(o.s)]
}

// allStrings returns every string over alphabet of length at most n.
func allStrings(alphabet string, n int) []string {
	out := []string{""}
	frontier := []string{""}
	for l := 0; l < n; l++ {
		var next []string
		for _, prefix := range frontier {
			for _, c := range alphabet {
				next = append(next, prefix+string(c))
			}
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}

func checkAgainstOracle(t *testing.T, pattern string, inputs []string) {
	t.Helper()
	re, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	for _, in := range inputs {
		if got, want := re.MatchString(in), oracleMatch(pattern, in); got != want {
			t.Errorf("%q.MatchString(%q) = %v, reference matcher says %v", pattern, in, got, want)
		}
	}
}

func TestAgreesWithReference(t *testing.T) {
	patterns := []string{
		"",
		"a",
		"abc",
		"a|b|c",
		"ab|cd",
		"(a*|b)cd?",
		"a?b?c*",
		"(ab)+",
		"(a|b)*abb",
		"(a*)*",
		"(a*)*b",
		"(a?)+",
		"(a|b*)+c",
		"((a|b)?b)*a",
		"(ab|a)(bc|c)?",
		"a+b+c+",
		"(a+|b+)*c?",
		"((a))",
		"a**",
		"(c|(a|b)*)+",
		"(a*)++",
		"(a*)+++++++*",
		"((a?)*)+?b",
	}
	inputs := allStrings("abc", 5)

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			checkAgainstOracle(t, pattern, inputs)
		})
	}
}

func randomPattern(r *rand.Rand, depth int) string {
	if depth == 0 || r.Intn(4) == 0 {
		return string("abc"[r.Intn(3)])
	}
	switch r.Intn(6) {
	case 0, 1:
		return randomPattern(r, depth-1) + randomPattern(r, depth-1)
	case 2:
		return randomPattern(r, depth-1) + "|" + randomPattern(r, depth-1)
	case 3:
		return "(" + randomPattern(r, depth-1) + "|" + randomPattern(r, depth-1) + ")"
	default:
		return "(" + randomPattern(r, depth-1) + ")" + string("*+?"[r.Intn(3)])
	}
}

func TestAgreesWithReferenceRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	inputs := allStrings("abc", 4)

	for i := 0; i < 150; i++ {
		pattern := randomPattern(r, 4)
		checkAgainstOracle(t, pattern, inputs)
	}
}

func FuzzMatchString(f *testing.F) {
	f.Add("(a*|b)cd?", "aaaaacd")
	f.Add("a?b?c*d+(e|f)", "abccdf")
	f.Add("(a*)*b", "aaab")
	f.Add("x(y|z)+", "xyz")
	f.Add("", "")
	f.Add("a|", "a")
	f.Add("(a*)+++++++*", "aaaaaaaa0")

	f.Fuzz(func(t *testing.T, pattern, input string) {
		if len([]rune(pattern)) > 16 || len([]rune(input)) > 10 {
			t.Skip()
		}
		re, err := Compile(pattern)
		if err != nil {
			return
		}
		if got, want := re.MatchString(input), oracleMatch(pattern, input); got != want {
			t.Errorf("%q.MatchString(%q) = %v, reference matcher says %v", pattern, input, got, want)
		}
		if got := re.Match([]byte(input)); got != re.MatchString(input) {
			t.Errorf("Match and MatchString disagree on %q", input)
		}
	})
}

func TestReferenceStackedRepeats(t *testing.T) {
	long := strings.Repeat("a", 200)
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"(a*)+++++++*", "aaaaaaaa0", false},
		{"(a*)+++++++*", long, true},
		{"((a*)*)*b", long, false},
		{"(a?)+++a", long, true},
	}

	for _, tt := range tests {
		if got := oracleMatch(tt.pattern, tt.input); got != tt.want {
			t.Errorf("oracleMatch(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
		if got := MustCompile(tt.pattern).MatchString(tt.input); got != tt.want {
			t.Errorf("%q.MatchString(%q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
	}
}

func TestAllStrings(t *testing.T) {
	got := allStrings("ab", 2)
	want := []string{"", "a", "b", "aa", "ab", "ba", "bb"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("allStrings = %q, want %q", got, want)
	}
}
