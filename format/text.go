package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/earley/earley"
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/nullable"
)

// altWidth is the column the origin of an item is printed at.
const altWidth = 35

type TextEncoder struct {
	w     io.Writer
	chart *earley.Chart
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(chart *earley.Chart) error {
	e.chart = chart
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

// MarshalText renders every state as a "=== k ===" header followed by its
// items, with "*" marking the dot and the origin in parentheses.
func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	g := e.chart.Grammar()
	for k, state := range e.chart.States() {
		fmt.Fprintf(&sb, "%*s === %d ===\n", 10, "", k)
		for _, item := range state.Items() {
			sb.WriteString("    ")
			writeAlt(&sb, g, item.Rule, item.Alt, item.Dot, item.Origin)
		}
	}
	return []byte(sb.String()), nil
}

// Grammar returns one line per alternative of every rule, followed by a
// blank line.
func Grammar(g *grammar.Grammar) string {
	var sb strings.Builder
	for r := 0; r < g.NumRules(); r++ {
		for a := range g.Alternatives(grammar.Symbol(r)) {
			writeAlt(&sb, g, grammar.Symbol(r), a, -1, -1)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// NullSet lists the nullable nonterminals of ns.
func NullSet(ns *nullable.Set) string {
	var sb strings.Builder
	g := ns.Grammar()
	sb.WriteString("Null Set\n")
	for _, sym := range ns.Symbols() {
		fmt.Fprintf(&sb, "    %s is null.\n", g.Name(sym))
	}
	sb.WriteString("\n")
	return sb.String()
}

// Item renders a single item without padding.
func Item(g *grammar.Grammar, item earley.Item) string {
	var sb strings.Builder
	writeSymbols(&sb, g, g.Alternative(item.Rule, item.Alt), item.Dot)
	return fmt.Sprintf("%s ::=%s (%d)", g.Name(item.Rule), sb.String(), item.Origin)
}

// writeAlt writes rule ::= symbols. dot and origin are omitted when negative.
func writeAlt(sb *strings.Builder, g *grammar.Grammar, rule grammar.Symbol, alt, dot, origin int) {
	fmt.Fprintf(sb, "%12s ::=", g.Name(rule))
	length := writeSymbols(sb, g, g.Alternative(rule, alt), dot)
	if origin >= 0 {
		for ; length < altWidth; length++ {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "(%d)", origin)
	}
	sb.WriteString("\n")
}

func writeSymbols(sb *strings.Builder, g *grammar.Grammar, alt grammar.Alternative, dot int) int {
	length := 0
	for i, sym := range alt {
		if dot == i {
			length += writeString(sb, " *")
		}
		length += writeString(sb, " "+g.Name(sym))
	}
	if dot >= len(alt) {
		length += writeString(sb, " *")
	}
	return length
}

func writeString(sb *strings.Builder, s string) int {
	sb.WriteString(s)
	return len(s)
}
