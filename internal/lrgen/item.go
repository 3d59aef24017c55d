// Package lrgen builds the canonical LR(1) viable-prefix automaton and its
// ACTION/GOTO tables from a grammar.Grammar (already augmented via
// Grammar.Augmented), applying the spec's fixed shift/reduce and
// reduce/reduce conflict policy and recording every conflict it resolves.
//
// Grounded on internal/ictiobus/automaton/automaton.go's
// NewLR1ViablePrefixDFA (worklist-based canonical collection) and
// internal/ictiobus/grammar/item.go's LR0Item/LR1Item shape, generalized
// from the teacher's reject-on-conflict grammar validator into a resolver
// that always produces a usable table.
package lrgen

import (
	"fmt"
	"sort"
	"strings"
)

// EndMarker is the synthetic end-of-input terminal appended to every
// token stream before parsing (spec section 4.5).
const EndMarker = "$end"

// LR0Item is a dotted production: Left holds the symbols already shifted
// past the dot, Right holds the symbols still to come (Right[0], if any,
// is the symbol immediately after the dot). Prod is the index of the
// production this item was built from, used both for reduce actions and
// for the reduce/reduce tie-break (lowest index wins).
type LR0Item struct {
	Prod  int
	LHS   string
	Left  []string
	Right []string
}

// NextSymbol returns the symbol immediately after the dot, or "" if the
// dot is at the end (a reduce item).
func (i LR0Item) NextSymbol() string {
	if len(i.Right) == 0 {
		return ""
	}
	return i.Right[0]
}

// Advance moves the dot one symbol to the right.
func (i LR0Item) Advance() LR0Item {
	out := LR0Item{Prod: i.Prod, LHS: i.LHS}
	out.Left = make([]string, len(i.Left)+1)
	copy(out.Left, i.Left)
	out.Left[len(i.Left)] = i.Right[0]
	out.Right = append([]string{}, i.Right[1:]...)
	return out
}

func (i LR0Item) String() string {
	left := strings.Join(i.Left, " ")
	right := strings.Join(i.Right, " ")
	if left != "" {
		left += " "
	}
	if right != "" {
		right = " " + right
	}
	return fmt.Sprintf("%s -> %s.%s", i.LHS, left, right)
}

// LR1Item pairs an LR0Item with a single terminal lookahead. Canonical
// LR(1) item sets hold one LR1Item per (core, lookahead) pair, so a set
// keyed by LR1Item.String() gives set semantics for free.
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (i LR1Item) String() string {
	return fmt.Sprintf("%s, %s", i.LR0Item.String(), i.Lookahead)
}

// Advance moves the dot one symbol to the right, keeping the lookahead.
func (i LR1Item) Advance() LR1Item {
	return LR1Item{LR0Item: i.LR0Item.Advance(), Lookahead: i.Lookahead}
}

// ItemSet is a canonical LR(1) item set, keyed by item string so that
// distinct-lookahead copies of the same core coexist as separate entries.
type ItemSet map[string]LR1Item

func newItemSet(items ...LR1Item) ItemSet {
	s := ItemSet{}
	for _, it := range items {
		s[it.String()] = it
	}
	return s
}

func (s ItemSet) add(it LR1Item) bool {
	key := it.String()
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = it
	return true
}

// key renders a canonical string for the whole set (sorted item strings
// joined), used to dedupe states by full item-set equality.
func (s ItemSet) key() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\n")
}
