package semantics

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rosed"
)

// SymbolKind distinguishes the two Symbol variants named in spec section 3.
type SymbolKind int

const (
	VariableSymbol SymbolKind = iota
	FunctionSymbol
)

// Symbol is one entry in a scope: a variable binding or a function
// declaration/definition.
type Symbol struct {
	Kind     SymbolKind
	Name     string
	Type     Type
	IsConst  bool // VariableSymbol only
	Defined  bool // FunctionSymbol only: has a body been seen
	DeclLine int
}

// scopeNode is one arena slot. Grounded on
// internal/ictiobus/translation/graph.go's index-addressed node storage:
// scopes are referenced by slice index rather than pointer so ScopeTree can
// be copied/inspected cheaply (e.g. by the symbol table dump in the
// driver).
type scopeNode struct {
	parent  int // -1 for the root (global) scope
	symbols map[string]*Symbol
	order   []string // insertion order, for table dumps
}

// ScopeTree is the hierarchical symbol table: root scope is global,
// entering a compound statement or function body pushes a child scope.
type ScopeTree struct {
	nodes   []scopeNode
	current int
}

// NewScopeTree returns a tree with only the global scope open.
func NewScopeTree() *ScopeTree {
	return &ScopeTree{
		nodes:   []scopeNode{{parent: -1, symbols: map[string]*Symbol{}}},
		current: 0,
	}
}

// Enter opens a child of the current scope and makes it current, returning
// its index.
func (t *ScopeTree) Enter() int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, scopeNode{parent: t.current, symbols: map[string]*Symbol{}})
	t.current = idx
	return idx
}

// Exit restores the parent of the current scope.
func (t *ScopeTree) Exit() {
	t.current = t.nodes[t.current].parent
}

// Current returns the index of the currently open scope.
func (t *ScopeTree) Current() int { return t.current }

// InGlobalScope reports whether the current scope is the root.
func (t *ScopeTree) InGlobalScope() bool { return t.current == 0 }

// Declare inserts sym into the current scope. Refuses a duplicate name in
// the same scope (spec section 4.6's "declarations are refused on
// duplicate in the current scope"); shadowing an outer scope's binding is
// allowed.
func (t *ScopeTree) Declare(sym *Symbol) error {
	n := &t.nodes[t.current]
	if _, ok := n.symbols[sym.Name]; ok {
		return fmt.Errorf("%q already declared in this scope", sym.Name)
	}
	n.symbols[sym.Name] = sym
	n.order = append(n.order, sym.Name)
	return nil
}

// Lookup walks the parent chain from the current scope outward.
func (t *ScopeTree) Lookup(name string) (*Symbol, bool) {
	idx := t.current
	for idx != -1 {
		if sym, ok := t.nodes[idx].symbols[name]; ok {
			return sym, true
		}
		idx = t.nodes[idx].parent
	}
	return nil, false
}

// LookupLocal looks up name only in the current scope, without walking
// parents — used by declaration rules that must check the current scope
// alone.
func (t *ScopeTree) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := t.nodes[t.current].symbols[name]
	return sym, ok
}

// Global returns the global-scope symbol table, for final-pass checks
// (main presence, undefined functions).
func (t *ScopeTree) Global() map[string]*Symbol {
	return t.nodes[0].symbols
}

// Dump renders every scope depth-first from the root as a bordered text
// table, one row per symbol, in the same rosed.InsertTableOpts shape
// internal/lrgen.Dump uses for the ACTION/GOTO table — used to produce
// tablica_simbola.txt.
func (t *ScopeTree) Dump() string {
	data := [][]string{{"scope", "kind", "name", "type"}}
	t.dumpNode(0, 0, &data)

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func (t *ScopeTree) dumpNode(idx, depth int, data *[][]string) {
	n := &t.nodes[idx]
	for _, name := range n.order {
		sym := n.symbols[name]
		switch sym.Kind {
		case FunctionSymbol:
			*data = append(*data, []string{strconv.Itoa(depth), "function", sym.Name, sym.Type.String()})
		default:
			kind := "variable"
			if sym.IsConst {
				kind = "const"
			}
			*data = append(*data, []string{strconv.Itoa(depth), kind, sym.Name, sym.Type.String()})
		}
	}
	for i := range t.nodes {
		if t.nodes[i].parent == idx {
			t.dumpNode(i, depth+1, data)
		}
	}
}
