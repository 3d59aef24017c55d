// Package lexer compiles a parsed lexspec.Spec into per-state DFAs (one
// combined DFA per lexer state, built by alternating every active rule's
// pattern and tagging each accept state with the winning rule) and drives
// those DFAs at scan time with maximal munch and the spec's rule-priority
// tie-break.
//
// Grounded on internal/ictiobus/lex/lexerfftable.go and lexerdfa.go's
// frontier of a table-driven lexer assembled from a grammar-described rule
// set, generalized here to ride the hand-rolled internal/regex engine
// instead of the teacher's nil-pointer-prone construction helpers.
package lexer

import (
	"fmt"

	"github.com/KarloKnezevic/ppjc/internal/automaton"
	"github.com/KarloKnezevic/ppjc/internal/lexspec"
	"github.com/KarloKnezevic/ppjc/internal/regex"
	"github.com/KarloKnezevic/ppjc/internal/util"
)

// compiledState is one lexer state's combined-rule DFA, plus, for every
// accepting DFA state, the single rule whose match wins there (spec
// section 4.2 step 2: lowest declaration-order rule among all rules that
// could accept at that point).
type compiledState struct {
	dfa    automaton.DFA[util.StringSet]
	accept map[string]lexspec.Rule
}

// Table is a fully compiled lexer: one DFA per declared state.
type Table struct {
	spec   *lexspec.Spec
	states map[string]compiledState
}

// Build compiles every declared state of sp.
func Build(sp *lexspec.Spec) (*Table, error) {
	t := &Table{spec: sp, states: map[string]compiledState{}}
	for _, state := range sp.States {
		cs, err := buildState(sp, state)
		if err != nil {
			return nil, fmt.Errorf("lexer: building state %q: %w", state, err)
		}
		t.states[state] = cs
	}
	return t, nil
}

// buildState alternates every rule active in state into one NFA (each
// rule's fragment kept state-disjoint via an "rN_" prefix, since
// regex.CompilePattern numbers states independently per call) and runs
// subset construction once over the result.
func buildState(sp *lexspec.Spec, state string) (compiledState, error) {
	rules := sp.StateRules(state)
	if len(rules) == 0 {
		return compiledState{}, fmt.Errorf("no rules declared for state %q", state)
	}

	var merged automaton.NFA[struct{}]
	const start = "start"
	merged.AddState(start, false)
	merged.Start = start

	ruleOfAcceptState := map[string]int{}

	for i, r := range rules {
		expanded, err := regex.Expand(r.Pattern, sp.Macros)
		if err != nil {
			return compiledState{}, fmt.Errorf("rule at line %d: %w", r.Line, err)
		}
		nfa, err := regex.CompilePattern(expanded)
		if err != nil {
			return compiledState{}, fmt.Errorf("rule at line %d: %w", r.Line, err)
		}

		prefix := fmt.Sprintf("r%d_", i)
		for _, name := range nfa.States().Elements() {
			renamed := prefix + name
			merged.AddState(renamed, nfa.IsAccepting(name))
			if nfa.IsAccepting(name) {
				ruleOfAcceptState[renamed] = i
			}
		}
		for _, tr := range nfa.Transitions() {
			merged.AddTransition(prefix+tr.From, tr.Input, prefix+tr.To)
		}
		merged.AddTransition(start, automaton.Epsilon, prefix+nfa.Start)
	}

	dfa := merged.ToDFA()

	accept := map[string]lexspec.Rule{}
	for _, dName := range dfa.States().Elements() {
		if !dfa.IsAccepting(dName) {
			continue
		}
		winner := -1
		for _, nfaState := range dfa.GetValue(dName).Elements() {
			if idx, ok := ruleOfAcceptState[nfaState]; ok {
				if winner == -1 || rules[idx].Priority < rules[winner].Priority {
					winner = idx
				}
			}
		}
		if winner >= 0 {
			accept[dName] = rules[winner]
		}
	}

	return compiledState{dfa: dfa, accept: accept}, nil
}
