// Package postfix rewrites an infix pattern into a postfix token stream with
// explicit concatenation.
//
// The grammar is literals, concatenation by adjacency, alternation (|),
// grouping with parentheses and the postfix repetitions *, + and ?. Every
// other character is a literal.
package postfix

import (
	"fmt"
	"strings"
)

// Op is the kind of a postfix token.
type Op uint8

const (
	Literal Op = iota
	Concat
	Alternate
	Star
	Plus
	Quest
)

// Token is one element of the postfix stream. Char is only set for literals.
type Token struct {
	Op   Op
	Char rune
}

func (t Token) String() string {
	switch t.Op {
	case Literal:
		return string(t.Char)
	case Concat:
		return "."
	case Alternate:
		return "|"
	case Star:
		return "*"
	case Plus:
		return "+"
	case Quest:
		return "?"
	}
	return fmt.Sprintf("op(%d)", uint8(t.Op))
}

// String renders tokens in the classic notation, with . for concatenation.
// The rendering is ambiguous when the pattern itself contains operator
// characters as literals; it is meant for diagnostics only.
func String(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
	}
	return b.String()
}

// An ErrorCode describes why a pattern was rejected.
type ErrorCode string

const (
	ErrEmptyAlternate        ErrorCode = "empty alternation branch"
	ErrEmptyGroup            ErrorCode = "empty group"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrMissingParen          ErrorCode = "missing closing )"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is a syntax error. Pos is the rune offset of the offending character.
type Error struct {
	Code ErrorCode
	Pos  int
	Expr string
}

func (e *Error) Error() string {
	return fmt.Sprintf("error parsing regexp: %s at position %d: `%s`", e.Code, e.Pos, e.Expr)
}

// group is the converter state saved when entering a parenthesis.
type group struct {
	nalt  int
	natom int
	pos   int
}

// converter tracks the atoms and alternation branches pending at the
// current nesting level.
type converter struct {
	expr   string
	out    []Token
	natom  int
	nalt   int
	altPos int // position of the last |, for a trailing empty branch
	groups []group
}

// Convert turns pattern into postfix tokens. An empty pattern yields no tokens.
func Convert(pattern string) ([]Token, error) {
	c := &converter{
		expr: pattern,
		out:  make([]Token, 0, 2*len(pattern)),
	}

	pos := 0
	for _, ch := range pattern {
		if err := c.step(ch, pos); err != nil {
			return nil, err
		}
		pos++
	}
	return c.finish()
}

func (c *converter) step(ch rune, pos int) error {
	switch ch {
	case '(':
		if c.natom > 1 {
			c.natom--
			c.emit(Concat)
		}
		c.groups = append(c.groups, group{nalt: c.nalt, natom: c.natom, pos: pos})
		c.nalt = 0
		c.natom = 0

	case '|':
		if c.natom == 0 {
			return c.errorf(ErrEmptyAlternate, pos)
		}
		c.flushConcat()
		c.natom = 0
		c.nalt++
		c.altPos = pos

	case ')':
		if c.natom == 0 {
			if c.nalt > 0 {
				return c.errorf(ErrEmptyAlternate, pos)
			}
			if len(c.groups) == 0 {
				return c.errorf(ErrUnexpectedParen, pos)
			}
			return c.errorf(ErrEmptyGroup, pos)
		}
		c.flushConcat()
		c.flushAlternate()
		if len(c.groups) == 0 {
			return c.errorf(ErrUnexpectedParen, pos)
		}
		g := c.groups[len(c.groups)-1]
		c.groups = c.groups[:len(c.groups)-1]
		c.nalt = g.nalt
		c.natom = g.natom + 1

	case '*', '+', '?':
		if c.natom == 0 {
			return c.errorf(ErrMissingRepeatArgument, pos)
		}
		c.emit(repeatOp(ch))

	default:
		if c.natom > 1 {
			c.natom--
			c.emit(Concat)
		}
		c.out = append(c.out, Token{Op: Literal, Char: ch})
		c.natom++
	}
	return nil
}

func (c *converter) finish() ([]Token, error) {
	if len(c.groups) > 0 {
		return nil, c.errorf(ErrMissingParen, c.groups[len(c.groups)-1].pos)
	}
	if c.natom == 0 && c.nalt > 0 {
		return nil, c.errorf(ErrEmptyAlternate, c.altPos)
	}
	c.flushConcat()
	c.flushAlternate()
	return c.out, nil
}

// flushConcat joins the pending atoms of the current branch.
func (c *converter) flushConcat() {
	for ; c.natom > 1; c.natom-- {
		c.emit(Concat)
	}
}

func (c *converter) flushAlternate() {
	for ; c.nalt > 0; c.nalt-- {
		c.emit(Alternate)
	}
}

func (c *converter) emit(op Op) {
	c.out = append(c.out, Token{Op: op})
}

func (c *converter) errorf(code ErrorCode, pos int) *Error {
	return &Error{Code: code, Pos: pos, Expr: c.expr}
}

func repeatOp(ch rune) Op {
	switch ch {
	case '*':
		return Star
	case '+':
		return Plus
	}
	return Quest
}
