package lrgen

import "github.com/KarloKnezevic/ppjc/internal/grammar"

// Automaton is the canonical LR(1) viable-prefix automaton: one item set
// per state plus the GOTO transition function, both indexed by state
// number. State 0 is always CLOSURE({[S' -> . S, $end]}).
type Automaton struct {
	Grammar *grammar.Grammar // the augmented grammar this was built from
	States  []ItemSet
	Trans   map[int]map[string]int
}

// BuildAutomaton runs the canonical LR(1) collection algorithm (spec
// section 4.4): starting from CLOSURE of the augmented start item, compute
// GOTO on every symbol appearing after a dot in each unprocessed state,
// deduping new states against existing ones by full item-set equality.
//
// g must already be augmented (grammar.Grammar.Augmented()); its
// production 0 is assumed to be the synthetic S' -> S rule.
func BuildAutomaton(g *grammar.Grammar) *Automaton {
	start := g.Productions[0]
	startItem := LR1Item{
		LR0Item:   LR0Item{Prod: 0, LHS: start.LHS, Right: append([]string{}, start.RHS...)},
		Lookahead: EndMarker,
	}
	startSet := closure(g, newItemSet(startItem))

	a := &Automaton{Grammar: g, Trans: map[int]map[string]int{}}
	a.States = append(a.States, startSet)
	indexOf := map[string]int{startSet.key(): 0}

	queue := []int{0}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		for _, x := range outgoingSymbols(a.States[idx]) {
			next := gotoSet(g, a.States[idx], x)
			if len(next) == 0 {
				continue
			}
			key := next.key()
			ni, ok := indexOf[key]
			if !ok {
				ni = len(a.States)
				a.States = append(a.States, next)
				indexOf[key] = ni
				queue = append(queue, ni)
			}
			if a.Trans[idx] == nil {
				a.Trans[idx] = map[string]int{}
			}
			a.Trans[idx][x] = ni
		}
	}

	return a
}
