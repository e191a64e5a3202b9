package ebnf

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/earley/grammar"
)

var (
	// ErrLexicalStart is returned when the start production is lexical.
	ErrLexicalStart = errors.New("start production is lexical")
	// ErrRangeTooWide is returned when a character range in a syntactic
	// production spans more than MaxRangeWidth characters.
	ErrRangeTooWide = errors.New("character range too wide")
)

// MaxRangeWidth is the widest character range a syntactic production may use.
// Each character of such a range becomes its own terminal.
const MaxRangeWidth = 256

// Converted is an EBNF grammar lowered to a grammar.Grammar.
type Converted struct {
	Grammar *grammar.Grammar
	Source  ebnf.Grammar
	Start   string

	kinds    map[string]grammar.Symbol // lexical production name → terminal
	literals map[string]grammar.Symbol // literal text → terminal
}

// Convert verifies src and lowers every production reachable from start.
//
// Token literals become terminals named by their quoted text; references to
// lexical productions become terminals named after the production. Groups,
// options, repetitions and character ranges become helper nonterminals named
// after the production they occur in.
func Convert(src ebnf.Grammar, start string) (*Converted, error) {
	if err := ebnf.Verify(src, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	if isLexical(start) {
		return nil, fmt.Errorf("convert %q: %w", start, ErrLexicalStart)
	}

	c := &converter{
		src:      src,
		builder:  grammar.NewBuilder(start),
		done:     make(map[string]bool),
		kinds:    make(map[string]bool),
		literals: make(map[string]bool),
	}
	c.enqueue(start)
	for len(c.queue) > 0 {
		name := c.queue[0]
		c.queue = c.queue[1:]
		c.production(name, c.src[name].Expr)
	}
	if c.err != nil {
		return nil, fmt.Errorf("convert %q: %w", start, c.err)
	}

	g, err := c.builder.Build()
	if err != nil {
		return nil, fmt.Errorf("convert %q: %w", start, err)
	}

	out := &Converted{
		Grammar:  g,
		Source:   src,
		Start:    start,
		kinds:    make(map[string]grammar.Symbol, len(c.kinds)),
		literals: make(map[string]grammar.Symbol, len(c.literals)),
	}
	for name := range c.kinds {
		if sym, ok := g.Terminal(name); ok {
			out.kinds[name] = sym
		}
	}
	for lit := range c.literals {
		if sym, ok := g.Terminal(strconv.Quote(lit)); ok {
			out.literals[lit] = sym
		}
	}
	return out, nil
}

// Kinds returns the lexical productions used as token kinds, sorted.
func (c *Converted) Kinds() []string {
	kinds := make([]string, 0, len(c.kinds))
	for name := range c.kinds {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}

// Literals returns the literal terminals, longest first.
func (c *Converted) Literals() []string {
	lits := make([]string, 0, len(c.literals))
	for lit := range c.literals {
		lits = append(lits, lit)
	}
	sort.Slice(lits, func(i, j int) bool {
		if len(lits[i]) != len(lits[j]) {
			return len(lits[i]) > len(lits[j])
		}
		return lits[i] < lits[j]
	})
	return lits
}

// Symbol maps a token to a terminal. A literal terminal equal to the token
// text wins over the token kind. Tokens matching neither map to a symbol no
// alternative contains.
func (c *Converted) Symbol(tok Token) grammar.Symbol {
	if sym, ok := c.literals[tok.Literal]; ok {
		return sym
	}
	if sym, ok := c.kinds[tok.Kind]; ok {
		return sym
	}
	return grammar.Symbol(c.Grammar.NumRules() + c.Grammar.NumTerminals())
}

// Symbols maps tokens to terminals with Symbol.
func (c *Converted) Symbols(tokens []Token) []grammar.Symbol {
	out := make([]grammar.Symbol, len(tokens))
	for i, tok := range tokens {
		out[i] = c.Symbol(tok)
	}
	return out
}

type converter struct {
	src     ebnf.Grammar
	builder *grammar.Builder
	queue   []string
	done    map[string]bool
	helpers int
	err     error

	kinds    map[string]bool
	literals map[string]bool
}

func (c *converter) enqueue(name string) {
	if c.done[name] {
		return
	}
	c.done[name] = true
	c.queue = append(c.queue, name)
}

func (c *converter) helper(lhs, kind string) string {
	c.helpers++
	return fmt.Sprintf("%s.%s%d", lhs, kind, c.helpers)
}

// production adds one alternative of lhs per top-level choice of expr.
func (c *converter) production(lhs string, expr ebnf.Expression) {
	if alts, ok := expr.(ebnf.Alternative); ok {
		for _, alt := range alts {
			c.builder.Add(lhs, c.sequence(lhs, alt)...)
		}
		return
	}
	c.builder.Add(lhs, c.sequence(lhs, expr)...)
}

func (c *converter) sequence(lhs string, expr ebnf.Expression) []string {
	if seq, ok := expr.(ebnf.Sequence); ok {
		var out []string
		for _, e := range seq {
			out = append(out, c.term(lhs, e)...)
		}
		return out
	}
	return c.term(lhs, expr)
}

func (c *converter) term(lhs string, expr ebnf.Expression) []string {
	switch e := expr.(type) {
	case nil:
		return nil

	case *ebnf.Name:
		if isLexical(e.String) {
			c.kinds[e.String] = true
		} else {
			c.enqueue(e.String)
		}
		return []string{e.String}

	case *ebnf.Token:
		if e.String == "" {
			return nil
		}
		return []string{c.literal(e.String)}

	case *ebnf.Group:
		name := c.helper(lhs, "group")
		c.production(name, e.Body)
		return []string{name}

	case *ebnf.Option:
		name := c.helper(lhs, "opt")
		c.builder.Add(name)
		c.production(name, e.Body)
		return []string{name}

	case *ebnf.Repetition:
		name := c.helper(lhs, "rep")
		c.builder.Add(name)
		body := e.Body
		alts, ok := body.(ebnf.Alternative)
		if !ok {
			alts = ebnf.Alternative{body}
		}
		for _, alt := range alts {
			c.builder.Add(name, append([]string{name}, c.sequence(name, alt)...)...)
		}
		return []string{name}

	case *ebnf.Range:
		name := c.helper(lhs, "range")
		begin, _ := utf8.DecodeRuneInString(e.Begin.String)
		end, _ := utf8.DecodeRuneInString(e.End.String)
		if end-begin >= MaxRangeWidth {
			if c.err == nil {
				c.err = fmt.Errorf("%s: %q … %q in %s: %w",
					e.Pos(), e.Begin.String, e.End.String, lhs, ErrRangeTooWide)
			}
			return []string{name}
		}
		for ch := begin; ch <= end; ch++ {
			c.builder.Add(name, c.literal(string(ch)))
		}
		return []string{name}

	case ebnf.Alternative:
		name := c.helper(lhs, "group")
		c.production(name, e)
		return []string{name}

	case ebnf.Sequence:
		return c.sequence(lhs, e)
	}
	return nil
}

func (c *converter) literal(text string) string {
	c.literals[text] = true
	return strconv.Quote(text)
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
