// Package parser drives an lrgen.Table over a token stream with the
// canonical two-stack shift/reduce algorithm (spec section 4.5),
// producing a full derivation tree and, via a second pass, a pruned
// abstract syntax tree.
//
// Grounded on internal/ictiobus/types/tree.go's ParseTree
// (Terminal/Value/Source/Children shape) for the tree representation, and
// on the general state-machine shape internal/ictiobus/parse/lr.go and
// lraction.go imply for a table-driven LR driver (neither file was fully
// retrieved, so the two-stack loop itself is written from spec section
// 4.5's own step-by-step description).
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Tree is one node of either the full derivation tree or the collapsed
// AST. A terminal node carries Symbol (the token kind), Lexeme, and Line;
// a nonterminal node carries Symbol (its name) and Children.
type Tree struct {
	Terminal bool
	Symbol   string
	Lexeme   string
	Line     int
	Children []*Tree
}

func newTerminal(kind, lexeme string, line int) *Tree {
	return &Tree{Terminal: true, Symbol: kind, Lexeme: lexeme, Line: line}
}

func newNonTerminal(name string, children []*Tree) *Tree {
	return &Tree{Terminal: false, Symbol: name, Children: children}
}

// Render writes the tree preorder, indented 2 spaces per depth level,
// nonterminals as "<name>" and terminals as "KIND LINE LEXEME" — the
// format spec section 6 mandates for both generativno_stablo.txt and
// sintaksno_stablo.txt.
func (t *Tree) Render() string {
	var sb strings.Builder
	t.render(&sb, 0)
	return sb.String()
}

func (t *Tree) render(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.Terminal {
		sb.WriteString(t.Symbol)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(t.Line))
		sb.WriteByte(' ')
		sb.WriteString(t.Lexeme)
	} else {
		sb.WriteString(fmt.Sprintf("<%s>", t.Symbol))
	}
	sb.WriteByte('\n')
	for _, c := range t.Children {
		c.render(sb, depth+1)
	}
}

// Collapse produces the abstract syntax tree: any nonterminal node having
// exactly one nonterminal child is replaced by that child (spec section
// 4.5). names restricts collapsing to a known-safe set of "wrapper"
// nonterminals that add no semantic attribute of their own; passing a nil
// set collapses every single-nonterminal-child node unconditionally.
func (t *Tree) Collapse(names map[string]bool) *Tree {
	if t.Terminal {
		return t
	}

	children := make([]*Tree, len(t.Children))
	for i, c := range t.Children {
		children[i] = c.Collapse(names)
	}

	if len(children) == 1 && !children[0].Terminal {
		if names == nil || names[t.Symbol] {
			return children[0]
		}
	}

	return newNonTerminal(t.Symbol, children)
}

// Production renders the canonical "<lhs> ::= sym1 sym2 ..." line spec
// section 4.6 mandates for semantic-error reporting: each terminal child
// as "KIND(line,lexeme)", each nonterminal child as "<name>".
func (t *Tree) Production() string {
	var parts []string
	for _, c := range t.Children {
		if c.Terminal {
			parts = append(parts, fmt.Sprintf("%s(%d,%s)", c.Symbol, c.Line, c.Lexeme))
		} else {
			parts = append(parts, fmt.Sprintf("<%s>", c.Symbol))
		}
	}
	rhs := strings.Join(parts, " ")
	if rhs == "" {
		rhs = "$"
	}
	return fmt.Sprintf("<%s> ::= %s", t.Symbol, rhs)
}
