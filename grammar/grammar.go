// Package grammar holds the static representation of a context-free grammar
// as consumed by the nullability analysis and the Earley recognizer.
//
// Symbols are small integers. Identifiers in [0, R) name nonterminals, where R
// is the number of rules; identifiers in [R, R+T) name terminals and are
// compared directly against input tokens.
package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRules is returned when a grammar has no entry nonterminal.
	ErrNoRules = errors.New("grammar has no rules")

	// ErrInvalidSymbol is returned when an alternative references a symbol
	// that is neither a nonterminal nor a declared terminal.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Symbol identifies a nonterminal or a terminal.
type Symbol int

// Alternative is one ordered choice of symbols a nonterminal may expand to.
// An empty alternative derives the empty string.
type Alternative []Symbol

// Rule is a nonterminal together with its alternatives.
type Rule struct {
	Name         string
	Alternatives []Alternative
}

// SymbolError reports the location of an invalid symbol reference.
type SymbolError struct {
	Rule   int
	Alt    int
	Pos    int
	Symbol Symbol
	Limit  int
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("rule %d alternative %d position %d: symbol %d outside [0, %d)",
		e.Rule, e.Alt, e.Pos, e.Symbol, e.Limit)
}

func (e *SymbolError) Unwrap() error {
	return ErrInvalidSymbol
}

// Grammar is an immutable context-free grammar. Rule 0 is the entry.
type Grammar struct {
	rules     []Rule
	terminals []string
	index     map[string]Symbol
}

// New validates rules and terminals and returns a Grammar.
// The slices are copied; later changes by the caller are not observed.
func New(rules []Rule, terminals []string) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	limit := len(rules) + len(terminals)
	g := &Grammar{
		rules:     make([]Rule, len(rules)),
		terminals: append([]string(nil), terminals...),
		index:     make(map[string]Symbol, limit),
	}

	for r, rule := range rules {
		name := rule.Name
		if name == "" {
			name = fmt.Sprintf("N%d", r)
		}
		alts := make([]Alternative, len(rule.Alternatives))
		for a, alt := range rule.Alternatives {
			for pos, sym := range alt {
				if sym < 0 || int(sym) >= limit {
					return nil, &SymbolError{Rule: r, Alt: a, Pos: pos, Symbol: sym, Limit: limit}
				}
			}
			alts[a] = append(Alternative{}, alt...)
		}
		g.rules[r] = Rule{Name: name, Alternatives: alts}
	}

	// Walk backwards so the first occurrence of a name wins.
	for i := len(g.terminals) - 1; i >= 0; i-- {
		g.index[g.terminals[i]] = Symbol(len(g.rules) + i)
	}
	for i := len(g.rules) - 1; i >= 0; i-- {
		g.index[g.rules[i].Name] = Symbol(i)
	}

	return g, nil
}

// NumRules returns R, the number of nonterminals.
func (g *Grammar) NumRules() int {
	return len(g.rules)
}

// NumTerminals returns the number of declared terminals.
func (g *Grammar) NumTerminals() int {
	return len(g.terminals)
}

// Entry returns the distinguished entry nonterminal.
func (g *Grammar) Entry() Symbol {
	return 0
}

// Rule returns the rule for nonterminal s.
func (g *Grammar) Rule(s Symbol) Rule {
	return g.rules[s]
}

// Alternatives returns the alternatives of nonterminal s.
// The returned slice must not be modified.
func (g *Grammar) Alternatives(s Symbol) []Alternative {
	return g.rules[s].Alternatives
}

// Alternative returns alternative alt of nonterminal s.
func (g *Grammar) Alternative(s Symbol, alt int) Alternative {
	return g.rules[s].Alternatives[alt]
}

// IsNonterminal reports whether s names a rule of g.
func (g *Grammar) IsNonterminal(s Symbol) bool {
	return s >= 0 && int(s) < len(g.rules)
}

// IsTerminal reports whether s lies in the terminal range of g.
// Terminals need not be declared to be compared against input.
func (g *Grammar) IsTerminal(s Symbol) bool {
	return int(s) >= len(g.rules)
}

// Name returns a printable name for s.
func (g *Grammar) Name(s Symbol) string {
	switch {
	case g.IsNonterminal(s):
		return g.rules[s].Name
	case s < 0:
		return fmt.Sprintf("#%d", int(s))
	case int(s)-len(g.rules) < len(g.terminals):
		return g.terminals[int(s)-len(g.rules)]
	default:
		return fmt.Sprintf("#%d", int(s))
	}
}

// Lookup returns the symbol with the given name.
// Nonterminals shadow terminals of the same name.
func (g *Grammar) Lookup(name string) (Symbol, bool) {
	s, ok := g.index[name]
	return s, ok
}

// Terminal returns the terminal with the given name.
func (g *Grammar) Terminal(name string) (Symbol, bool) {
	for i, t := range g.terminals {
		if t == name {
			return Symbol(len(g.rules) + i), true
		}
	}
	return 0, false
}

// Terminals returns the names of the declared terminals in symbol order.
func (g *Grammar) Terminals() []string {
	return append([]string(nil), g.terminals...)
}
