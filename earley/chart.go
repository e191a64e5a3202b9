package earley

import (
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/nullable"
)

// Chart is the result of one parse: n+1 item sets for an input of n tokens.
// A Chart is never modified after Parse returns.
type Chart struct {
	grammar  *grammar.Grammar
	nullable *nullable.Set
	input    []grammar.Symbol
	states   []*ItemSet
}

// States returns the item sets indexed by chart position.
func (c *Chart) States() []*ItemSet {
	return c.states
}

// State returns the item set at position k, or nil if k is out of range.
func (c *Chart) State(k int) *ItemSet {
	if k < 0 || k >= len(c.states) {
		return nil
	}
	return c.states[k]
}

// Input returns the token sequence the chart was built for.
func (c *Chart) Input() []grammar.Symbol {
	return c.input
}

// Grammar returns the grammar the chart was built with.
func (c *Chart) Grammar() *grammar.Grammar {
	return c.grammar
}

// Nullable returns the nullable set the chart was built with.
func (c *Chart) Nullable() *nullable.Set {
	return c.nullable
}

// Accepted reports whether the last state holds a complete item for the entry
// nonterminal that started at position 0.
func (c *Chart) Accepted() bool {
	last := c.states[len(c.states)-1]
	entry := c.grammar.Entry()
	for _, item := range last.Items() {
		if item.Rule == entry && item.Origin == 0 && item.Complete(c.grammar) {
			return true
		}
	}
	return false
}
