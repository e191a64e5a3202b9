package grammar

import (
	"errors"
	"fmt"
)

// ErrUndefinedEntry is returned by Build when the entry name has no rule.
var ErrUndefinedEntry = errors.New("entry nonterminal has no alternatives")

// Builder constructs a Grammar from named productions.
//
// Every name that appears on a left-hand side becomes a nonterminal, the entry
// first and the others in order of first definition. Every other name becomes
// a terminal in order of first use.
type Builder struct {
	entry string
	order []string
	alts  map[string][][]string
}

// NewBuilder returns a Builder whose entry nonterminal is entry.
func NewBuilder(entry string) *Builder {
	return &Builder{
		entry: entry,
		alts:  make(map[string][][]string),
	}
}

// Add appends the alternative lhs ::= rhs. An empty rhs adds an empty
// alternative.
func (b *Builder) Add(lhs string, rhs ...string) *Builder {
	if _, ok := b.alts[lhs]; !ok {
		b.order = append(b.order, lhs)
	}
	b.alts[lhs] = append(b.alts[lhs], append([]string(nil), rhs...))
	return b
}

// Has reports whether lhs has been given at least one alternative.
func (b *Builder) Has(lhs string) bool {
	_, ok := b.alts[lhs]
	return ok
}

// Build assigns symbols and validates the result.
func (b *Builder) Build() (*Grammar, error) {
	if !b.Has(b.entry) {
		return nil, fmt.Errorf("build %q: %w", b.entry, ErrUndefinedEntry)
	}

	names := make([]string, 0, len(b.order))
	names = append(names, b.entry)
	for _, name := range b.order {
		if name != b.entry {
			names = append(names, name)
		}
	}

	symbols := make(map[string]Symbol, len(names))
	for i, name := range names {
		symbols[name] = Symbol(i)
	}

	var terminals []string
	for _, name := range names {
		for _, alt := range b.alts[name] {
			for _, sym := range alt {
				if _, ok := symbols[sym]; ok {
					continue
				}
				symbols[sym] = Symbol(len(names) + len(terminals))
				terminals = append(terminals, sym)
			}
		}
	}

	rules := make([]Rule, len(names))
	for i, name := range names {
		rule := Rule{Name: name}
		for _, alt := range b.alts[name] {
			seq := make(Alternative, len(alt))
			for j, sym := range alt {
				seq[j] = symbols[sym]
			}
			rule.Alternatives = append(rule.Alternatives, seq)
		}
		rules[i] = rule
	}

	return New(rules, terminals)
}
