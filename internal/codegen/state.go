package codegen

// slotInfo records where one name lives in the current function's
// activation record: a local's own slot, or a parameter accessed through
// the caller's frame (spec section 4.7's argument-offset formula).
type slotInfo struct {
	isParam bool
	index   int // local slot number (0-based), or 1-based argument position
	isArray bool
}

type loopLabels struct {
	breakLabel    string
	continueLabel string
}

// funcState tracks one function's codegen-time environment: its exit
// label, its activation record size, the scope stack used to resolve names
// (and assign fresh local slots as declarations are encountered, in the
// same depth-first order countLocalWords summed them in), and the
// enclosing loop's break/continue targets.
type funcState struct {
	returnLabel   string
	localWords    int
	nextLocalSlot int
	scopes        []map[string]slotInfo
	loops         []loopLabels
}

func newFuncState(returnLabel string, localWords int) *funcState {
	return &funcState{returnLabel: returnLabel, localWords: localWords}
}

func (fs *funcState) pushScope() {
	fs.scopes = append(fs.scopes, map[string]slotInfo{})
}

func (fs *funcState) popScope() {
	fs.scopes = fs.scopes[:len(fs.scopes)-1]
}

func (fs *funcState) declareParam(name string, index int, isArray bool) {
	fs.scopes[len(fs.scopes)-1][name] = slotInfo{isParam: true, index: index, isArray: isArray}
}

// declareLocal assigns the next free slot(s) to name and returns the
// assigned slot number. words is 1 for a scalar, the declared element
// count for an array.
func (fs *funcState) declareLocal(name string, isArray bool, words int) int {
	slot := fs.nextLocalSlot
	fs.nextLocalSlot += words
	fs.scopes[len(fs.scopes)-1][name] = slotInfo{isParam: false, index: slot, isArray: isArray}
	return slot
}

func (fs *funcState) lookup(name string) (slotInfo, bool) {
	for i := len(fs.scopes) - 1; i >= 0; i-- {
		if s, ok := fs.scopes[i][name]; ok {
			return s, true
		}
	}
	return slotInfo{}, false
}

func (fs *funcState) pushLoop(breakLabel, continueLabel string) {
	fs.loops = append(fs.loops, loopLabels{breakLabel: breakLabel, continueLabel: continueLabel})
}

func (fs *funcState) popLoop() {
	fs.loops = fs.loops[:len(fs.loops)-1]
}

func (fs *funcState) currentLoop() loopLabels {
	return fs.loops[len(fs.loops)-1]
}
