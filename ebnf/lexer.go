package ebnf

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/earley/grammar"
)

// DefaultSkip matches the trivia skipped between tokens.
const DefaultSkip = `\s+`

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with its position.
// Kind is the lexical production that matched, the quoted literal for
// literal terminals, or "ERROR" for input no token matches.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// noMatch is the match length of an expression that does not match. A length
// of 0 is an empty match.
const noMatch = -1

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input into the terminals of a converted grammar.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	literals []string
	skip     *regexp2.Regexp

	input    []byte
	runes    []rune
	offsets  []int // byte offset of each rune in input, then len(input)
	filename string
	pos      int
	line     int
	column   int
	memo     map[memoKey]int  // memoization cache: key -> match length or noMatch
	visiting map[memoKey]bool // cycle detection
}

// NewLexer creates a lexer for the token kinds and literals of c.
func (c *Converted) NewLexer(input []byte, filename string) *Lexer {
	runes := make([]rune, 0, len(input))
	offsets := make([]int, 0, len(input)+1)
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRune(input[i:])
		runes = append(runes, r)
		offsets = append(offsets, i)
		i += size
	}
	offsets = append(offsets, len(input))

	return &Lexer{
		grammar:  c.Source,
		kinds:    c.Kinds(),
		literals: c.Literals(),
		skip:     compileSkip(DefaultSkip),
		input:    input,
		runes:    runes,
		offsets:  offsets,
		filename: filename,
		pos:      0,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// SetSkip sets the pattern of trivia skipped before each token. An empty
// pattern disables skipping.
func (l *Lexer) SetSkip(pattern string) error {
	if pattern == "" {
		l.skip = nil
		return nil
	}
	re, err := regexp2.Compile(anchor(pattern), regexp2.RE2)
	if err != nil {
		return fmt.Errorf("compile skip pattern: %w", err)
	}
	l.skip = re
	return nil
}

// anchor makes pattern match only at the position a search starts from.
func anchor(pattern string) string {
	return `\G(?:` + pattern + `)`
}

func compileSkip(pattern string) *regexp2.Regexp {
	return regexp2.MustCompile(anchor(pattern), regexp2.RE2)
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) skipTrivia() error {
	if l.skip == nil || l.pos >= len(l.input) {
		return nil
	}
	start := sort.SearchInts(l.offsets, l.pos)
	m, err := l.skip.FindRunesMatchStartingAt(l.runes, start)
	if err != nil {
		return fmt.Errorf("skip trivia at %s: %w", l.Position(), err)
	}
	if m == nil {
		return nil
	}
	for end := l.offsets[m.Index+m.Length]; l.pos < end; {
		l.advance()
	}
	return nil
}

// NextToken returns the next token from the input, or io.EOF at the end.
// The longest match wins; on a tie literals win over token kinds, and kinds
// are tried in sorted order.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.input) {
		return Token{Kind: "EOF", Position: l.Position()}, io.EOF
	}

	startPos := l.Position()
	startOffset := l.pos

	// Clear memoization cache for each new token (positions change)
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int

	for _, lit := range l.literals {
		if n := l.tryMatchToken(lit, startOffset); n > bestLen {
			bestLen = n
			bestKind = fmt.Sprintf("%q", lit)
		}
	}

	for _, name := range l.kinds {
		l.visiting = make(map[memoKey]bool)
		if n := l.tryMatchName(name, startOffset); n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		// No match - emit one character as error token
		_, size := utf8.DecodeRune(l.input[l.pos:])
		for i := 0; i < size; i++ {
			l.advance()
		}
		return Token{
			Kind:     "ERROR",
			Literal:  string(l.input[startOffset:l.pos]),
			Position: startPos,
		}, nil
	}

	for i := 0; i < bestLen; i++ {
		l.advance()
	}

	return Token{
		Kind:     bestKind,
		Literal:  string(l.input[startOffset : startOffset+bestLen]),
		Position: startPos,
	}, nil
}

// tryMatch attempts to match an expression at the given offset.
// Returns the length of the match, or noMatch.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := l.tryMatch(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := l.tryMatch(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.tryMatch(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		return max(l.tryMatch(e.Body, offset), 0)

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	default:
		return noMatch
	}
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if result, ok := l.memo[key]; ok {
		return result
	}

	// Already visiting this production at this offset: break the cycle
	// (left recursion).
	if l.visiting[key] {
		return noMatch
	}

	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = noMatch
		return noMatch
	}

	l.visiting[key] = true
	result := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = result
	return result
}

// tryMatchToken matches a literal string.
func (l *Lexer) tryMatchToken(s string, offset int) int {
	if offset+len(s) > len(l.input) {
		return noMatch
	}
	if string(l.input[offset:offset+len(s)]) == s {
		return len(s)
	}
	return noMatch
}

// tryMatchRange matches one character in [begin, end].
func (l *Lexer) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return noMatch
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	ch, size := utf8.DecodeRune(l.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return noMatch
}

// Tokenize reads all tokens from input.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Tokenize lexes input with the default skip pattern and maps the tokens to
// terminals.
func (c *Converted) Tokenize(input []byte, filename string) ([]grammar.Symbol, []Token, error) {
	tokens, err := c.NewLexer(input, filename).Tokenize()
	if err != nil {
		return nil, tokens, fmt.Errorf("tokenize: %w", err)
	}
	return c.Symbols(tokens), tokens, nil
}
