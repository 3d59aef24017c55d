package lrgen

import (
	"log/slog"

	"github.com/KarloKnezevic/ppjc/internal/grammar"
)

// ActionKind is the ACTION table's closed set of cell kinds.
type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one ACTION table cell. Target is the shift destination state
// for ActionShift, or the production index for ActionReduce; unused for
// ActionAccept/ActionError.
type Action struct {
	Kind   ActionKind
	Target int
}

// ConflictRecord documents one conflict the fixed resolution policy
// settled (spec section 4.4): which action was kept, which was discarded,
// and why.
type ConflictRecord struct {
	State    int
	Symbol   string
	Kind     string // "shift/reduce" or "reduce/reduce"
	Kept     Action
	Rejected Action
}

// Table is the compiled ACTION/GOTO table plus the log of every conflict
// the construction resolved.
type Table struct {
	// Grammar is the augmented grammar this table was built from (see
	// Dump, which needs the augmented terminal/nonterminal vocabulary for
	// its column headers).
	Grammar   *grammar.Grammar
	NumStates int
	Action    map[int]map[string]Action
	Goto      map[int]map[string]int
	Conflicts []ConflictRecord
}

// BuildTable emits ACTION/GOTO entries from the canonical automaton (spec
// section 4.4's "Table emission"), resolving shift/reduce in favor of
// shift and reduce/reduce in favor of the lowest production index,
// logging every resolved conflict to logger at WARN (logger may be nil to
// suppress logging, e.g. in tests).
func BuildTable(aut *Automaton, logger *slog.Logger) *Table {
	g := aut.Grammar
	t := &Table{
		Grammar:   g,
		NumStates: len(aut.States),
		Action:    map[int]map[string]Action{},
		Goto:      map[int]map[string]int{},
	}

	for idx, items := range aut.States {
		for _, it := range items {
			if it.NextSymbol() == "" {
				if it.Prod == 0 && it.Lookahead == EndMarker {
					t.set(idx, EndMarker, Action{Kind: ActionAccept}, logger)
				} else {
					t.set(idx, it.Lookahead, Action{Kind: ActionReduce, Target: it.Prod}, logger)
				}
				continue
			}
			next := it.NextSymbol()
			if g.IsTerminal(next) {
				if target, ok := aut.Trans[idx][next]; ok {
					t.set(idx, next, Action{Kind: ActionShift, Target: target}, logger)
				}
			}
		}

		for sym, target := range aut.Trans[idx] {
			if g.IsNonTerminal(sym) {
				if t.Goto[idx] == nil {
					t.Goto[idx] = map[string]int{}
				}
				t.Goto[idx][sym] = target
			}
		}
	}

	return t
}

func (t *Table) set(state int, sym string, proposed Action, logger *slog.Logger) {
	if t.Action[state] == nil {
		t.Action[state] = map[string]Action{}
	}
	existing, ok := t.Action[state][sym]
	if !ok {
		t.Action[state][sym] = proposed
		return
	}
	if existing == proposed {
		return
	}

	winner, rejected, kind := resolveConflict(existing, proposed)
	t.Action[state][sym] = winner
	rec := ConflictRecord{State: state, Symbol: sym, Kind: kind, Kept: winner, Rejected: rejected}
	t.Conflicts = append(t.Conflicts, rec)
	if logger != nil {
		logger.Warn("parser conflict resolved",
			"state", state, "symbol", sym, "kind", kind,
			"kept", actionString(winner), "rejected", actionString(rejected))
	}
}

// resolveConflict applies spec section 4.4's fixed policy: shift beats
// reduce, and between two reduces the lowest production index wins.
func resolveConflict(a, b Action) (winner, rejected Action, kind string) {
	if a.Kind == ActionShift || b.Kind == ActionShift {
		if a.Kind == ActionShift {
			return a, b, "shift/reduce"
		}
		return b, a, "shift/reduce"
	}
	if a.Target <= b.Target {
		return a, b, "reduce/reduce"
	}
	return b, a, "reduce/reduce"
}

func actionString(a Action) string {
	switch a.Kind {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// Compile runs the full pipeline (augment, build the canonical automaton,
// emit the table) over a not-yet-augmented grammar.
func Compile(g *grammar.Grammar, logger *slog.Logger) *Table {
	aug := g.Augmented()
	aut := BuildAutomaton(aug)
	return BuildTable(aut, logger)
}
