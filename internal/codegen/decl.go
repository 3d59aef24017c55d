package codegen

import (
	"strconv"
	"strings"

	"github.com/KarloKnezevic/ppjc/internal/parser"
)

// countLocalWords sums the activation-record words every local declaration
// reachable from body needs (a scalar takes one word, an array its
// declared element count), regardless of which nested block declares it
// (spec section 4.7: "walking the function body to enumerate locals in
// declaration order"). Declarations inside nested blocks still get a slot
// in the one flat frame the function's prologue allocates; shadowed names
// in sibling or nested scopes each get their own slot, so this is a sum
// over every var_decl node, not a per-scope count.
func countLocalWords(body *parser.Tree) int {
	total := 0
	var walk func(n *parser.Tree)
	walk = func(n *parser.Tree) {
		if n == nil || n.Terminal {
			return
		}
		if n.Symbol == "var_decl" {
			total += varDeclWordCount(n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(body)
	return total
}

func varDeclWordCount(n *parser.Tree) int {
	nts := childNonTerminals(n)
	total := 0
	for _, initDecl := range flattenList(nts[1]) {
		total += declaratorWordCount(childNonTerminals(initDecl)[0])
	}
	return total
}

func declaratorWordCount(decl *parser.Tree) int {
	if hasTerm(decl, "[", "") {
		n, _ := strconv.Atoi(termLexeme(decl, "NUM"))
		return n
	}
	return 1
}

// emitGlobalVarDecl lowers a top-level var_decl into data-section entries:
// one DW line per word, the first carrying the G_<NAME> label (spec
// section 4.7: "G_<NAME>: DW %D <init-or-0>; missing initializer defaults
// to 0").
func (g *Generator) emitGlobalVarDecl(n *parser.Tree) {
	nts := childNonTerminals(n)
	for _, initDecl := range flattenList(nts[1]) {
		g.emitGlobalInitDeclarator(initDecl)
	}
}

func (g *Generator) emitGlobalInitDeclarator(n *parser.Tree) {
	ints := childNonTerminals(n)
	decl := ints[0]
	name := termLexeme(decl, "IDENT")
	isArray := hasTerm(decl, "[", "")
	words := 1
	if isArray {
		words, _ = strconv.Atoi(termLexeme(decl, "NUM"))
	}

	values := make([]int, words)
	if len(ints) == 2 {
		values = extractInitValues(ints[1], words)
	}

	label := "G_" + strings.ToUpper(name)
	g.globals[name] = globalSlot{label: label, words: words, isArray: isArray}
	for i, v := range values {
		l := ""
		if i == 0 {
			l = label
		}
		g.data = append(g.data, dataWord{label: l, value: v})
	}
}

// extractInitValues resolves an initializer node (STRLIT, a brace-enclosed
// initializer_list, or a bare scalar expression) to exactly words constant
// values, zero-padded or truncated to fit.
func extractInitValues(initNode *parser.Tree, words int) []int {
	if hasTerm(initNode, "STRLIT", "") {
		return padTo(decodeStringLiteral(termLexeme(initNode, "STRLIT")), words)
	}
	nts := childNonTerminals(initNode)
	if nts[0].Symbol == "initializer_list" {
		var vals []int
		for _, item := range flattenList(nts[0]) {
			vals = append(vals, extractOneInitValue(item))
		}
		return padTo(vals, words)
	}
	return padTo([]int{extractScalarLiteral(nts[0])}, words)
}

func extractOneInitValue(item *parser.Tree) int {
	if hasTerm(item, "STRLIT", "") {
		codes := decodeStringLiteral(termLexeme(item, "STRLIT"))
		if len(codes) > 0 {
			return codes[0]
		}
		return 0
	}
	nts := childNonTerminals(item)
	if nts[0].Symbol == "initializer_list" {
		// nested brace lists don't occur in this subset's flat arrays.
		return 0
	}
	return extractScalarLiteral(nts[0])
}

// emitLocalVarDecl lowers a local var_decl into slot assignment plus, for
// each initialized declarator, the STORE instructions that populate it at
// the point of declaration.
func (g *Generator) emitLocalVarDecl(n *parser.Tree) {
	nts := childNonTerminals(n)
	for _, initDecl := range flattenList(nts[1]) {
		g.emitLocalInitDeclarator(initDecl)
	}
}

func (g *Generator) emitLocalInitDeclarator(n *parser.Tree) {
	ints := childNonTerminals(n)
	decl := ints[0]
	name := termLexeme(decl, "IDENT")
	isArray := hasTerm(decl, "[", "")
	words := 1
	if isArray {
		words, _ = strconv.Atoi(termLexeme(decl, "NUM"))
	}

	slot := g.fs.declareLocal(name, isArray, words)
	if len(ints) == 2 {
		g.emitLocalInitializer(slot, words, ints[1])
	}
}

func (g *Generator) emitLocalInitializer(slot, words int, initNode *parser.Tree) {
	if hasTerm(initNode, "STRLIT", "") {
		codes := padTo(decodeStringLiteral(termLexeme(initNode, "STRLIT")), words)
		for i, v := range codes {
			g.storeImmediateToSlot(slot+i, v)
		}
		return
	}
	nts := childNonTerminals(initNode)
	if nts[0].Symbol == "initializer_list" {
		items := flattenList(nts[0])
		for i, item := range items {
			if i >= words {
				break
			}
			g.emitLocalInitializerElement(item, slot+i)
		}
		return
	}
	g.emitExpr(nts[0])
	g.storeRegToSlot(slot, "R0")
}

func (g *Generator) emitLocalInitializerElement(item *parser.Tree, slot int) {
	if hasTerm(item, "STRLIT", "") {
		codes := decodeStringLiteral(termLexeme(item, "STRLIT"))
		v := 0
		if len(codes) > 0 {
			v = codes[0]
		}
		g.storeImmediateToSlot(slot, v)
		return
	}
	nts := childNonTerminals(item)
	if nts[0].Symbol == "initializer_list" {
		g.storeImmediateToSlot(slot, 0)
		return
	}
	g.emitExpr(nts[0])
	g.storeRegToSlot(slot, "R0")
}
