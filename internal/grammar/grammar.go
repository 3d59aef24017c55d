// Package grammar models a context-free grammar over string symbols: the
// declared terminal/nonterminal/synchronizing vocabularies, the ordered
// production list, and FIRST-set computation. internal/lrgen builds the
// canonical LR(1) automaton and ACTION/GOTO tables on top of it.
//
// Grounded on internal/ictiobus/grammar/item.go's LR0Item/LR1Item shape
// (NonTerminal/Left/Right, dot-position split into two slices) — this
// package provides the Grammar/Production container that item.go's own
// teacher file assumes exists elsewhere in the non-retrieved tree.
package grammar

import (
	"fmt"
	"strings"

	"github.com/KarloKnezevic/ppjc/internal/util"
)

// Epsilon is the empty symbol used as the sentinel member of a FIRST set
// when a symbol (or symbol sequence) can derive the empty string.
const Epsilon = ""

// Production is one grammar rule LHS -> RHS. An empty RHS is an epsilon
// production (the file format's lone "$" line, spec section 4.3).
type Production struct {
	LHS string
	RHS []string
}

func (p Production) String() string {
	if len(p.RHS) == 0 {
		return fmt.Sprintf("%s -> %s", p.LHS, "$")
	}
	return fmt.Sprintf("%s -> %s", p.LHS, strings.Join(p.RHS, " "))
}

// Grammar is a declared vocabulary plus an ordered production list.
// Productions retain encounter (declaration) order, which both FIRST-set
// computation and the LR(1) reduce/reduce tie-break (lowest production
// index wins) depend on.
type Grammar struct {
	Terminals     []string
	NonTerminals  []string
	Synchronizing []string
	Productions   []Production

	termSet map[string]bool
	ntSet   map[string]bool
	syncSet map[string]bool

	first map[string]util.StringSet
}

// New returns an empty grammar ready for AddTerm/AddNonTerm/AddRule calls.
func New() *Grammar {
	return &Grammar{
		termSet: map[string]bool{},
		ntSet:   map[string]bool{},
		syncSet: map[string]bool{},
	}
}

// AddTerm declares a terminal symbol. No-op if already declared.
func (g *Grammar) AddTerm(name string) {
	if g.termSet[name] {
		return
	}
	g.termSet[name] = true
	g.Terminals = append(g.Terminals, name)
}

// AddNonTerm declares a nonterminal symbol. The first nonterminal ever
// declared is the grammar's start symbol (spec section 4.3's "S is the
// first %V symbol"). No-op if already declared.
func (g *Grammar) AddNonTerm(name string) {
	if g.ntSet[name] {
		return
	}
	g.ntSet[name] = true
	g.NonTerminals = append(g.NonTerminals, name)
}

// AddSync declares a synchronizing terminal (the %Syn set panic-mode
// recovery scans forward for).
func (g *Grammar) AddSync(name string) {
	if g.syncSet[name] {
		return
	}
	g.syncSet[name] = true
	g.Synchronizing = append(g.Synchronizing, name)
}

// AddRule appends a production in declaration order and returns its index.
func (g *Grammar) AddRule(lhs string, rhs []string) int {
	idx := len(g.Productions)
	g.Productions = append(g.Productions, Production{LHS: lhs, RHS: append([]string{}, rhs...)})
	g.first = nil // invalidate memoized FIRST sets
	return idx
}

// IsTerminal reports whether sym was declared with AddTerm.
func (g *Grammar) IsTerminal(sym string) bool { return g.termSet[sym] }

// IsNonTerminal reports whether sym was declared with AddNonTerm.
func (g *Grammar) IsNonTerminal(sym string) bool { return g.ntSet[sym] }

// IsSync reports whether sym is a declared synchronizing terminal.
func (g *Grammar) IsSync(sym string) bool { return g.syncSet[sym] }

// StartSymbol is the first declared nonterminal.
func (g *Grammar) StartSymbol() string {
	if len(g.NonTerminals) == 0 {
		return ""
	}
	return g.NonTerminals[0]
}

// ProductionsFor returns the indices, in declaration order, of every
// production whose LHS is nt.
func (g *Grammar) ProductionsFor(nt string) []int {
	var out []int
	for i, p := range g.Productions {
		if p.LHS == nt {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks that every symbol referenced by a production's RHS was
// declared as a terminal or nonterminal, that every LHS is a declared
// nonterminal, and that a start symbol exists.
func (g *Grammar) Validate() error {
	if g.StartSymbol() == "" {
		return fmt.Errorf("grammar: no nonterminals declared")
	}
	for i, p := range g.Productions {
		if !g.IsNonTerminal(p.LHS) {
			return fmt.Errorf("grammar: production %d: LHS %q was not declared as a nonterminal", i, p.LHS)
		}
		for _, sym := range p.RHS {
			if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
				return fmt.Errorf("grammar: production %d (%s): symbol %q was never declared", i, p, sym)
			}
		}
	}
	return nil
}

// Augmented returns a new grammar with a synthetic start production
// S' -> S prepended at index 0 (spec section 4.4). The augmented
// grammar's start symbol is the fresh nonterminal S'.
func (g *Grammar) Augmented() *Grammar {
	s := g.StartSymbol()
	augStart := s + "'"
	for g.ntSet[augStart] {
		augStart += "'"
	}

	out := New()
	out.AddNonTerm(augStart)
	for _, nt := range g.NonTerminals {
		out.AddNonTerm(nt)
	}
	for _, t := range g.Terminals {
		out.AddTerm(t)
	}
	for _, sy := range g.Synchronizing {
		out.AddSync(sy)
	}
	out.AddRule(augStart, []string{s})
	for _, p := range g.Productions {
		out.AddRule(p.LHS, p.RHS)
	}
	return out
}

// FIRST returns the FIRST set of a single symbol (terminal or
// nonterminal), memoized across calls until the grammar is mutated again.
func (g *Grammar) FIRST(symbol string) util.StringSet {
	g.ensureFirst()
	if s, ok := g.first[symbol]; ok {
		return s.Copy()
	}
	// an undeclared symbol (shouldn't happen post-Validate) has empty FIRST.
	return util.NewStringSet()
}

// FIRSTSeq computes FIRST of a symbol sequence per spec section 4.3: the
// union of each prefix symbol's FIRST (minus epsilon) up to and including
// the first symbol that cannot derive epsilon; epsilon is included in the
// result only if every symbol in seq can derive epsilon (including the
// empty sequence itself).
func (g *Grammar) FIRSTSeq(seq []string) util.StringSet {
	g.ensureFirst()
	result := util.NewStringSet()
	if len(seq) == 0 {
		result.Add(Epsilon)
		return result
	}
	allEpsilon := true
	for _, sym := range seq {
		s := g.first[sym]
		for v := range s {
			if v != Epsilon {
				result.Add(v)
			}
		}
		if !s.Has(Epsilon) {
			allEpsilon = false
			break
		}
	}
	if allEpsilon {
		result.Add(Epsilon)
	}
	return result
}

func (g *Grammar) ensureFirst() {
	if g.first != nil {
		return
	}
	first := map[string]util.StringSet{}
	for _, t := range g.Terminals {
		first[t] = util.NewStringSet(t)
	}
	for _, nt := range g.NonTerminals {
		first[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			add := firstOfSequence(first, p.RHS)
			before := first[p.LHS].Len()
			first[p.LHS].AddAll(add)
			if first[p.LHS].Len() != before {
				changed = true
			}
		}
	}
	g.first = first
}

func firstOfSequence(first map[string]util.StringSet, seq []string) util.StringSet {
	result := util.NewStringSet()
	if len(seq) == 0 {
		result.Add(Epsilon)
		return result
	}
	allEpsilon := true
	for _, sym := range seq {
		s := first[sym]
		for v := range s {
			if v != Epsilon {
				result.Add(v)
			}
		}
		if !s.Has(Epsilon) {
			allEpsilon = false
			break
		}
	}
	if allEpsilon {
		result.Add(Epsilon)
	}
	return result
}
