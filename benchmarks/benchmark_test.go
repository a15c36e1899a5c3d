package benchmarks_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/KromDaniel/regnfa/pkg/regnfa"
)

type benchCase struct {
	name    string
	pattern string
	inputs  []string
}

// Patterns here use only letters and operators, so wrapping them in ^(?:...)$
// gives the same language under regexp.
var benchCases = []benchCase{
	{
		name:    "Literal",
		pattern: "abcdefg",
		inputs:  []string{"abcdefg", "abcdefX", "", "abc"},
	},
	{
		name:    "Alternation",
		pattern: "(get|put|post|delete|head)(s|ed)?",
		inputs:  []string{"get", "posted", "heads", "patch", "deleted"},
	},
	{
		name:    "Nested",
		pattern: "a?b?c*d+(e|f)",
		inputs:  []string{"abccdf", "de", "dddddddddde", "abcabc", "d"},
	},
	{
		name:    "Pathological",
		pattern: strings.Repeat("a?", 30) + strings.Repeat("a", 30),
		inputs:  []string{strings.Repeat("a", 30), strings.Repeat("a", 45), strings.Repeat("a", 29)},
	},
	{
		name:    "LongInput",
		pattern: "(a|b)*abb",
		inputs:  []string{strings.Repeat("ab", 500) + "b", strings.Repeat("ba", 500)},
	},
}

func stdlib(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + pattern + `)$`)
}

func TestAgreesWithStdlib(t *testing.T) {
	for _, bc := range benchCases {
		t.Run(bc.name, func(t *testing.T) {
			re := regnfa.MustCompile(bc.pattern)
			std := stdlib(bc.pattern)
			for _, in := range bc.inputs {
				if got, want := re.MatchString(in), std.MatchString(in); got != want {
					t.Errorf("MatchString(%q) = %v, regexp says %v", in, got, want)
				}
			}
		})
	}
}

func BenchmarkMatchString(b *testing.B) {
	for _, bc := range benchCases {
		re := regnfa.MustCompile(bc.pattern)
		b.Run(bc.name+"/regnfa", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				for _, in := range bc.inputs {
					re.MatchString(in)
				}
			}
		})

		std := stdlib(bc.pattern)
		b.Run(bc.name+"/stdlib", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				for _, in := range bc.inputs {
					std.MatchString(in)
				}
			}
		})
	}
}

func BenchmarkCompile(b *testing.B) {
	for _, bc := range benchCases {
		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := regnfa.Compile(bc.pattern); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMatchParallel(b *testing.B) {
	re := regnfa.MustCompile("(a|b)*abb")
	input := strings.Repeat("ab", 64) + "b"
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			re.MatchString(input)
		}
	})
}
