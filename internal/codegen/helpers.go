package codegen

import "github.com/KarloKnezevic/ppjc/internal/parser"

// flattenList, childNonTerminals, termLexeme and hasTerm mirror
// internal/semantics/dispatch.go's helpers of the same name. Codegen is a
// second, independent pass over the tree semantics already validated, with
// its own notion of attributes (stack slots, not types), so it keeps its
// own small copies rather than reaching into semantics internals.
func flattenList(n *parser.Tree) []*parser.Tree {
	nts := childNonTerminals(n)
	if len(nts) == 1 {
		return []*parser.Tree{nts[0]}
	}
	return append(flattenList(nts[0]), nts[1])
}

func childNonTerminals(n *parser.Tree) []*parser.Tree {
	var out []*parser.Tree
	for _, c := range n.Children {
		if !c.Terminal {
			out = append(out, c)
		}
	}
	return out
}

func termLexeme(n *parser.Tree, kind string) string {
	for _, c := range n.Children {
		if c.Terminal && c.Symbol == kind {
			return c.Lexeme
		}
	}
	return ""
}

func hasTerm(n *parser.Tree, kind, lexeme string) bool {
	for _, c := range n.Children {
		if c.Terminal && c.Symbol == kind && (lexeme == "" || c.Lexeme == lexeme) {
			return true
		}
	}
	return false
}
