// Package ebnf turns EBNF grammar files into grammars for the Earley
// recognizer and tokenizes input text against them.
//
// Grammar files use the notation of golang.org/x/exp/ebnf. Productions whose
// names start with an uppercase letter are syntactic and become nonterminals;
// all other productions are lexical and describe token kinds.
package ebnf

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/ebnf"
)

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(filename, f)
}

// Parse reads an EBNF grammar from r. filename is used in error positions.
func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Load loads a grammar file and converts it with start as entry.
func Load(filename, start string) (*Converted, error) {
	src, err := LoadGrammar(filename)
	if err != nil {
		return nil, err
	}
	return Convert(src, start)
}
