package earley

import (
	"fmt"

	"github.com/dhamidi/earley/grammar"
)

// Item represents an Earley item: an alternative of a rule with a dot
// position and the chart position where matching began.
type Item struct {
	Rule   grammar.Symbol // Nonterminal being matched
	Alt    int            // Index into the rule's alternatives
	Dot    int            // Number of leading symbols matched
	Origin int            // Chart position where this item started
}

func (item Item) String() string {
	return fmt.Sprintf("[%d/%d •%d, %d]", item.Rule, item.Alt, item.Dot, item.Origin)
}

// Complete reports whether the dot is at the end of the alternative.
func (item Item) Complete(g *grammar.Grammar) bool {
	return item.Dot >= len(g.Alternative(item.Rule, item.Alt))
}

// Next returns the symbol after the dot. ok is false for complete items.
func (item Item) Next(g *grammar.Grammar) (sym grammar.Symbol, ok bool) {
	alt := g.Alternative(item.Rule, item.Alt)
	if item.Dot >= len(alt) {
		return 0, false
	}
	return alt[item.Dot], true
}

func (item Item) advance() Item {
	item.Dot++
	return item
}

// ItemSet is the set of Earley items at a particular chart position.
// Items keep their insertion order.
type ItemSet struct {
	items    []Item
	itemSet  map[Item]struct{}
	position int
}

func newItemSet(pos int) *ItemSet {
	return &ItemSet{
		items:    make([]Item, 0),
		itemSet:  make(map[Item]struct{}),
		position: pos,
	}
}

// Add inserts item unless an equal item is present and reports whether it
// was inserted.
func (s *ItemSet) Add(item Item) bool {
	if _, ok := s.itemSet[item]; ok {
		return false
	}
	s.itemSet[item] = struct{}{}
	s.items = append(s.items, item)
	return true
}

// Contains reports whether an equal item is present.
func (s *ItemSet) Contains(item Item) bool {
	_, ok := s.itemSet[item]
	return ok
}

// Items returns the items in insertion order. The slice must not be modified.
func (s *ItemSet) Items() []Item {
	return s.items
}

// Len returns the number of items.
func (s *ItemSet) Len() int {
	return len(s.items)
}

// Position returns the chart position of the set.
func (s *ItemSet) Position() int {
	return s.position
}
