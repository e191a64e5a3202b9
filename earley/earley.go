// Package earley recognizes token sequences with the Earley chart-parsing
// algorithm.
package earley

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/nullable"
)

// Parser recognizes inputs against a fixed grammar. It holds no mutable
// state, so one Parser may serve concurrent calls.
type Parser struct {
	grammar  *grammar.Grammar
	nullable *nullable.Set
}

// NewParser returns a Parser for g. ns must have been computed from g.
func NewParser(g *grammar.Grammar, ns *nullable.Set) (*Parser, error) {
	if g == nil {
		return nil, fmt.Errorf("new parser: nil grammar")
	}
	if err := ns.Matches(g); err != nil {
		return nil, fmt.Errorf("new parser: %w", err)
	}
	return &Parser{grammar: g, nullable: ns}, nil
}

// Recognize is a convenience wrapper around NewParser and Parser.Recognize.
func Recognize(g *grammar.Grammar, ns *nullable.Set, input []grammar.Symbol) (bool, error) {
	p, err := NewParser(g, ns)
	if err != nil {
		return false, err
	}
	return p.Recognize(input), nil
}

// Recognize reports whether input is in the language of the grammar.
func (p *Parser) Recognize(input []grammar.Symbol) bool {
	return p.Parse(input).Accepted()
}

// Parse builds the chart for input. Tokens that match no terminal of the
// grammar are not an error; they stop the parse from advancing.
func (p *Parser) Parse(input []grammar.Symbol) *Chart {
	n := len(input)
	chart := &Chart{
		grammar:  p.grammar,
		nullable: p.nullable,
		input:    append([]grammar.Symbol(nil), input...),
		states:   make([]*ItemSet, n+1),
	}
	for i := range chart.states {
		chart.states[i] = newItemSet(i)
	}

	chart.states[0].Add(Item{Rule: p.grammar.Entry()})

	log := commonlog.GetLogger("earley")

	for k := 0; k <= n; k++ {
		p.close(chart, k)
		log.Debugf("state %d closed with %d items", k, chart.states[k].Len())
		if k < n {
			p.scan(chart, k, input[k])
		}
	}

	return chart
}

// close applies predict and complete to every item of state k, including
// items added while processing, until no new item appears.
func (p *Parser) close(chart *Chart, k int) {
	state := chart.states[k]
	for j := 0; j < len(state.items); j++ {
		item := state.items[j]

		next, ok := item.Next(p.grammar)
		switch {
		case !ok:
			p.complete(chart, k, item)
		case p.grammar.IsNonterminal(next):
			p.predict(chart, k, item, next)
		}
	}
}

// predict adds (next → •γ, k) for every alternative γ of next. When next is
// nullable the caller's dot also moves past it, since a completion of next at
// k may already have been processed.
func (p *Parser) predict(chart *Chart, k int, item Item, next grammar.Symbol) {
	state := chart.states[k]
	for alt := range p.grammar.Alternatives(next) {
		state.Add(Item{Rule: next, Alt: alt, Dot: 0, Origin: k})
	}
	if p.nullable.Nullable(next) {
		state.Add(item.advance())
	}
}

// complete advances every item at the completed item's origin that was
// waiting for its rule.
func (p *Parser) complete(chart *Chart, k int, completed Item) {
	state := chart.states[k]
	origin := chart.states[completed.Origin]
	// origin may be state itself; index so that appended items are seen.
	for j := 0; j < len(origin.items); j++ {
		waiting := origin.items[j]
		if next, ok := waiting.Next(p.grammar); ok && next == completed.Rule {
			state.Add(waiting.advance())
		}
	}
}

// scan seeds state k+1 with every item of state k whose next symbol is tok.
func (p *Parser) scan(chart *Chart, k int, tok grammar.Symbol) {
	if !p.grammar.IsTerminal(tok) {
		return
	}
	next := chart.states[k+1]
	for _, item := range chart.states[k].items {
		if sym, ok := item.Next(p.grammar); ok && sym == tok {
			next.Add(item.advance())
		}
	}
}
