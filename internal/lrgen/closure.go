package lrgen

import (
	"sort"

	"github.com/KarloKnezevic/ppjc/internal/grammar"
)

// closure computes CLOSURE(items) per spec section 4.4: for every item
// [A -> a . B b, L] with B a nonterminal, and every production B -> y, add
// [B -> . y, FIRST(b L)] for every terminal in that FIRST set, to fixpoint.
func closure(g *grammar.Grammar, items ItemSet) ItemSet {
	result := ItemSet{}
	for k, v := range items {
		result[k] = v
	}

	changed := true
	for changed {
		changed = false
		for _, it := range result {
			next := it.NextSymbol()
			if next == "" || !g.IsNonTerminal(next) {
				continue
			}

			beta := it.Right[1:]
			seq := make([]string, 0, len(beta)+1)
			seq = append(seq, beta...)
			seq = append(seq, it.Lookahead)
			lookaheads := g.FIRSTSeq(seq)

			for _, prodIdx := range g.ProductionsFor(next) {
				p := g.Productions[prodIdx]
				for a := range lookaheads {
					if a == grammar.Epsilon {
						continue
					}
					ni := LR1Item{
						LR0Item:   LR0Item{Prod: prodIdx, LHS: p.LHS, Right: append([]string{}, p.RHS...)},
						Lookahead: a,
					}
					if result.add(ni) {
						changed = true
					}
				}
			}
		}
	}

	return result
}

// gotoSet computes GOTO(items, X) per spec section 4.4: advance every item
// whose next symbol is X, then close the result. Returns nil if no item in
// items has X as its next symbol.
func gotoSet(g *grammar.Grammar, items ItemSet, x string) ItemSet {
	moved := ItemSet{}
	any := false
	for _, it := range items {
		if it.NextSymbol() == x {
			moved.add(it.Advance())
			any = true
		}
	}
	if !any {
		return nil
	}
	return closure(g, moved)
}

// outgoingSymbols returns every distinct symbol that appears immediately
// after some item's dot in items, in a fixed (sorted) order.
func outgoingSymbols(items ItemSet) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		sym := it.NextSymbol()
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
