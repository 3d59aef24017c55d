// Package codegen lowers an annotated PPJ-C derivation tree into FRISC
// assembly text (spec section 4.7). It walks the same uncollapsed tree
// shape internal/semantics consumes, in the same declaration order the
// tree was built in, and assumes the tree already passed
// internal/semantics.Analyze — no further validation is attempted here.
//
// Grounded in idiom, not algorithm, on
// internal/ictiobus/translation/translation.go's attribute-driven dispatch
// and on tunascript/syntax/operators.go's operator-to-handler table shape,
// applied instead to emitting FRISC mnemonics. Label allocation is a
// monotonic-counter pattern grounded on internal/util's ID-generation
// helpers.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KarloKnezevic/ppjc/internal/parser"
)

// DefaultStackStart seeds R7 at the top of the simulator's default memory
// when nothing more specific is configured, per spec section 4.7's "fixed
// high address (documented constant)". internal/config carries the same
// default for ppjc.toml's stack_start key.
const DefaultStackStart = 40000

type dataWord struct {
	label string
	value int
}

type stringLitEntry struct {
	label string
	codes []int
}

type globalSlot struct {
	label   string
	words   int
	isArray bool
}

// Generator accumulates FRISC assembly text for one program. Globals and
// string literal data are buffered and flushed at the very end (spec
// section 4.7: "emit a data section at end of output"); everything else is
// written directly to sb as it's visited, which is what gives codegen its
// mandated determinism (spec section 8, property 9).
type Generator struct {
	sb         strings.Builder
	data       []dataWord
	stringLits []stringLitEntry
	funcParams map[string]int
	globals    map[string]globalSlot
	counters   map[string]int
	fs         *funcState
}

func newGenerator() *Generator {
	return &Generator{
		funcParams: map[string]int{},
		globals:    map[string]globalSlot{},
		counters:   map[string]int{},
	}
}

// Generate lowers tree (rooted at the grammar's start symbol) into FRISC
// assembly text. stackStart seeds R7; pass DefaultStackStart absent a
// configured value.
func Generate(tree *parser.Tree, stackStart int) (string, error) {
	g := newGenerator()
	g.emitPrologue(stackStart)
	g.processProgram(tree)
	g.emitRuntimeHelpers()
	g.emitDataSection()
	return g.sb.String(), nil
}

func (g *Generator) emitPrologue(stackStart int) {
	g.instr2("MOVE", immediate(stackStart), "R7")
	g.instr1("CALL", "F_MAIN")
	g.instr0("HALT")
}

func (g *Generator) processProgram(tree *parser.Tree) {
	nts := childNonTerminals(tree)
	if len(nts) != 1 {
		return
	}
	for _, extDecl := range flattenList(nts[0]) {
		inner := childNonTerminals(extDecl)
		if len(inner) != 1 {
			continue
		}
		switch inner[0].Symbol {
		case "func_def":
			g.processFuncDef(inner[0])
		case "var_decl":
			g.emitGlobalVarDecl(inner[0])
		}
	}
}

type paramInfo struct {
	name    string
	isArray bool
}

func (g *Generator) processFuncDef(def *parser.Tree) {
	nts := childNonTerminals(def)
	name := termLexeme(def, "IDENT")

	var paramList, body *parser.Tree
	for _, c := range nts[1:] {
		switch c.Symbol {
		case "param_list":
			paramList = c
		case "compound_stmt":
			body = c
		}
	}

	var params []paramInfo
	if paramList != nil {
		params = collectParams(paramList)
	}
	g.funcParams[name] = len(params)

	if body == nil {
		return
	}
	g.emitFunctionBody(name, params, body)
}

func collectParams(paramList *parser.Tree) []paramInfo {
	var out []paramInfo
	for _, p := range flattenList(paramList) {
		out = append(out, paramInfo{name: termLexeme(p, "IDENT"), isArray: hasTerm(p, "[", "")})
	}
	return out
}

// emitFunctionBody implements spec section 4.7's "Function codegen" steps:
// label, activation record allocation, body, exit label and deallocation.
// Statements run directly in the scope opened for the parameters, the same
// way internal/semantics.visitCompoundBody avoids a redundant nested scope
// for the outermost block.
func (g *Generator) emitFunctionBody(name string, params []paramInfo, body *parser.Tree) {
	upper := strings.ToUpper(name)
	locals := countLocalWords(body)

	fs := newFuncState("F_"+upper+"_END", locals)
	fs.pushScope()
	for i, p := range params {
		fs.declareParam(p.name, i+1, p.isArray)
	}
	g.fs = fs

	g.label("F_" + upper)
	if locals > 0 {
		g.instr3("SUB", "R7", immediate(4*locals), "R7")
	}

	bnts := childNonTerminals(body)
	if len(bnts) == 1 {
		for _, s := range flattenList(bnts[0]) {
			g.emitStmt(s)
		}
	}

	g.label(fs.returnLabel)
	if locals > 0 {
		g.instr3("ADD", "R7", immediate(4*locals), "R7")
	}
	g.instr0("RET")

	fs.popScope()
	g.fs = nil
}

func (g *Generator) slotByteOffset(sl slotInfo) int {
	if sl.isParam {
		return 4 * (g.fs.localWords + sl.index)
	}
	return 4 * sl.index
}

func (g *Generator) emitDataSection() {
	for _, w := range g.data {
		g.emitDataLine(w.label, w.value)
	}
	for _, sl := range g.stringLits {
		for i, v := range sl.codes {
			label := ""
			if i == 0 {
				label = sl.label
			}
			g.emitDataLine(label, v)
		}
	}
}

func (g *Generator) internString(lex string) string {
	codes := decodeStringLiteral(lex)
	label := fmt.Sprintf("G_0_STR%d", len(g.stringLits))
	g.stringLits = append(g.stringLits, stringLitEntry{label: label, codes: codes})
	return label
}

func (g *Generator) isArrayValue(n *parser.Tree) bool {
	name := termLexeme(n, "IDENT")
	if g.fs != nil {
		if sl, ok := g.fs.lookup(name); ok {
			return sl.isArray
		}
	}
	if gl, ok := g.globals[name]; ok {
		return gl.isArray
	}
	return false
}

func parseIntLiteral(lex string) int {
	v, _ := strconv.ParseInt(lex, 10, 64)
	return int(v)
}
