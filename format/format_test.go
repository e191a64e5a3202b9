package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/earley/earley"
	"github.com/dhamidi/earley/examples"
	"github.com/dhamidi/earley/grammar"
	"github.com/dhamidi/earley/nullable"
)

func parse(t *testing.T, ex examples.Example) *earley.Chart {
	t.Helper()
	p, err := earley.NewParser(ex.Grammar, nullable.Compute(ex.Grammar))
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	return p.Parse(ex.Input)
}

func TestGrammar(t *testing.T) {
	got := Grammar(examples.NullableGrammar())
	want := "       ENTRY ::= A\n" +
		"           A ::=\n" +
		"           A ::= B\n" +
		"           B ::= A\n" +
		"\n"
	if got != want {
		t.Errorf("unexpected grammar rendering:\n%s\nwant:\n%s", got, want)
	}
}

func TestNullSet(t *testing.T) {
	got := NullSet(nullable.Compute(examples.NullableGrammar()))
	want := "Null Set\n" +
		"    ENTRY is null.\n" +
		"    A is null.\n" +
		"    B is null.\n" +
		"\n"
	if got != want {
		t.Errorf("unexpected null set rendering:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextEncoder(t *testing.T) {
	chart := parse(t, examples.Nullable())

	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(chart); err != nil {
		t.Fatalf("encode: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "           === 0 ===" {
		t.Errorf("unexpected header %q", lines[0])
	}
	first := "           ENTRY ::= * A" + strings.Repeat(" ", 31) + "(0)"
	if lines[1] != first {
		t.Errorf("unexpected first item\n got %q\nwant %q", lines[1], first)
	}
	if len(lines) != 1+chart.State(0).Len() {
		t.Errorf("expected %d lines, got %d", 1+chart.State(0).Len(), len(lines))
	}
}

func TestItem(t *testing.T) {
	ex := examples.Math()
	item := earley.Item{Rule: examples.MathSum, Alt: 0, Dot: 3, Origin: 2}
	got := Item(ex.Grammar, item)
	if got != "SUM ::= SUM PLUS-MINUS PRODUCT * (2)" {
		t.Errorf("unexpected item %q", got)
	}
}

func TestJSONEncoder(t *testing.T) {
	chart := parse(t, examples.Math())

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(chart); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var data jsonChart
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !data.Accepted {
		t.Error("expected accepted chart")
	}
	if len(data.States) != len(chart.States()) {
		t.Errorf("expected %d states, got %d", len(chart.States()), len(data.States))
	}
	if data.Input[0] != "DIGIT" || data.Input[2] != "(" {
		t.Errorf("unexpected input names %v", data.Input)
	}
	if data.States[0].Items[0].Text != "ENTRY ::= * SUM (0)" {
		t.Errorf("unexpected first item %q", data.States[0].Items[0].Text)
	}
}

func TestJSONEncoder_UnknownTokens(t *testing.T) {
	ex := examples.Math()
	ex.Input = []grammar.Symbol{-1, 42}
	chart := parse(t, ex)
	if chart.Accepted() {
		t.Fatal("expected unknown tokens to be rejected")
	}

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(chart); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var data jsonChart
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Input) != 2 || data.Input[0] != "#-1" || data.Input[1] != "#42" {
		t.Errorf("unexpected input names %v", data.Input)
	}
}
