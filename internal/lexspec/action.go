// Package lexspec parses the lexer generator's declarative specification
// file (spec section 6's config/lexer_definition.txt: macros, states,
// declared token kinds, and per-state rules) into a Spec the lexer
// generator (internal/lexer) can compile into per-state DFAs.
//
// Grounded on internal/ictiobus/lex/action.go's Action tagged variant
// (ActionScan/ActionState/ActionScanAndState) and on the section-header
// convention (%X/%L/...) the teacher's own grammar file format uses (see
// internal/grammar/loader.go, which parses %V/%T/%Syn the same way).
package lexspec

import "fmt"

// ActionKind is the closed set of lexer actions spec section 3 names:
// EnterState, PutBack, NewLine, and Skip (the absence of a token kind).
type ActionKind int

const (
	// ActionEnterState switches the lexer's current state.
	ActionEnterState ActionKind = iota
	// ActionPutBack returns match_length-N characters to the front of the
	// buffer before the token is emitted.
	ActionPutBack
	// ActionNewLine increments the line counter (idempotent if the matched
	// text already contained a newline).
	ActionNewLine
	// ActionSkip marks the rule as producing no token at all.
	ActionSkip
)

// Action is one instruction attached to an accepting rule, executed in
// declaration order when that rule's match wins (spec section 4.2, steps
// 1-4).
type Action struct {
	Kind  ActionKind
	State string // for ActionEnterState
	N     int    // for ActionPutBack
}

func (a Action) String() string {
	switch a.Kind {
	case ActionEnterState:
		return fmt.Sprintf("UDJI_U_STANJE %s", a.State)
	case ActionPutBack:
		return fmt.Sprintf("VRATI_SE %d", a.N)
	case ActionNewLine:
		return "NOVI_REDAK"
	case ActionSkip:
		return "-"
	default:
		return "?"
	}
}
