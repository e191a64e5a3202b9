// Package nullable computes which nonterminals of a grammar derive the empty
// string.
package nullable

import (
	"errors"
	"fmt"

	"github.com/dhamidi/earley/grammar"
)

// ErrMismatch is returned when a Set is paired with a grammar it was not
// computed from.
var ErrMismatch = errors.New("nullable set does not match grammar")

// Set records, for every nonterminal, whether it can derive the empty string.
// A Set is read-only and safe for concurrent use.
type Set struct {
	g        *grammar.Grammar
	nullable []bool
}

// Compute returns the least set of nonterminals X such that X has an
// alternative made only of nullable nonterminals. Empty alternatives satisfy
// this trivially; an alternative containing a terminal never does.
func Compute(g *grammar.Grammar) *Set {
	nullable := make([]bool, g.NumRules())

	changed := true
	for changed {
		changed = false
		for r := range nullable {
			if nullable[r] {
				continue
			}
			for _, alt := range g.Alternatives(grammar.Symbol(r)) {
				if allNullable(g, nullable, alt) {
					nullable[r] = true
					changed = true
					break
				}
			}
		}
	}

	return &Set{g: g, nullable: nullable}
}

func allNullable(g *grammar.Grammar, nullable []bool, alt grammar.Alternative) bool {
	for _, sym := range alt {
		if !g.IsNonterminal(sym) || !nullable[sym] {
			return false
		}
	}
	return true
}

// Nullable reports whether s derives the empty string. Terminals never do.
func (s *Set) Nullable(sym grammar.Symbol) bool {
	return sym >= 0 && int(sym) < len(s.nullable) && s.nullable[sym]
}

// Len returns the number of nonterminals covered by the set.
func (s *Set) Len() int {
	return len(s.nullable)
}

// Symbols returns the nullable nonterminals in ascending order.
func (s *Set) Symbols() []grammar.Symbol {
	var out []grammar.Symbol
	for r, ok := range s.nullable {
		if ok {
			out = append(out, grammar.Symbol(r))
		}
	}
	return out
}

// Grammar returns the grammar the set was computed from.
func (s *Set) Grammar() *grammar.Grammar {
	return s.g
}

// Matches returns an error wrapping ErrMismatch unless s was computed from g.
func (s *Set) Matches(g *grammar.Grammar) error {
	if s == nil {
		return fmt.Errorf("nil set: %w", ErrMismatch)
	}
	if len(s.nullable) != g.NumRules() {
		return fmt.Errorf("set covers %d nonterminals, grammar has %d: %w",
			len(s.nullable), g.NumRules(), ErrMismatch)
	}
	if s.g != g {
		return fmt.Errorf("set computed from a different grammar: %w", ErrMismatch)
	}
	return nil
}
