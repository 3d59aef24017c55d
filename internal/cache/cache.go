// Package cache persists a compiled lrgen.Table to a flat binary file
// keyed by a hash of the grammar source, so that repeated compiles against
// an unchanged grammar skip re-running the LR(1) table generator (spec
// section 4.4's "serialize to a versioned cache file keyed by a hash of
// the grammar source" and section 5's "the LR-table cache file is the
// only persistent resource").
//
// Grounded on server/dao/sqlite/sqlite.go's rezi.EncBinary/rezi.DecBinary
// round-trip of a game.State to a byte slice; this package writes that
// byte slice straight to a file instead of a SQLite column, since spec §1
// excludes any persistence layer beyond the four output files plus this
// one cache file.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/KarloKnezevic/ppjc/internal/ccerrors"
	"github.com/KarloKnezevic/ppjc/internal/lrgen"
)

// fileVersion guards against loading a cache file written by an
// incompatible build of this tool.
const fileVersion = 1

// actionEntry and gotoEntry flatten lrgen.Table's nested maps into slices,
// which round-trip through rezi's reflective encoding far more simply
// than int-keyed maps of maps would.
type actionEntry struct {
	State  int
	Symbol string
	Kind   int
	Target int
}

type gotoEntry struct {
	State  int
	Symbol string
	Target int
}

// file is the on-disk cache payload.
type file struct {
	Version   int
	Hash      string
	NumStates int
	Actions   []actionEntry
	Gotos     []gotoEntry
}

// Hash returns the hex-encoded SHA-256 digest of grammar source bytes,
// the cache key spec section 4.4 mandates.
func Hash(grammarSource []byte) string {
	sum := sha256.Sum256(grammarSource)
	return hex.EncodeToString(sum[:])
}

// Load reads path and returns the cached table if its embedded hash
// matches want. A missing file, a file that does not decode, or a
// version/hash mismatch is reported via ok=false with no error, since each
// is the expected "rebuild" case, not a failure; only an existing file that
// cannot be read is a real error.
func Load(path string, want string) (table *lrgen.Table, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &ccerrors.IOError{Op: "read cache", Path: path, Err: err}
	}

	var f file
	n, err := rezi.DecBinary(data, &f)
	if err != nil || n != len(data) {
		// corrupt cache: treat as a cold cache rather than a hard failure,
		// since a fresh build will simply overwrite it.
		return nil, false, nil
	}
	if f.Version != fileVersion || f.Hash != want {
		return nil, false, nil
	}

	return f.toTable(), true, nil
}

// Save atomically writes table to path, tagged with hash. Atomicity is
// write-to-temp-then-rename, matching spec section 5's "read-checked-then-
// replaced with file-level atomicity."
func Save(path string, hash string, table *lrgen.Table) error {
	f := fromTable(hash, table)
	data := rezi.EncBinary(&f)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return &ccerrors.IOError{Op: "create cache temp file", Path: dir, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &ccerrors.IOError{Op: "write cache", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ccerrors.IOError{Op: "write cache", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &ccerrors.IOError{Op: "replace cache", Path: path, Err: err}
	}
	return nil
}

func fromTable(hash string, t *lrgen.Table) file {
	f := file{Version: fileVersion, Hash: hash, NumStates: t.NumStates}
	for state, row := range t.Action {
		for sym, action := range row {
			f.Actions = append(f.Actions, actionEntry{State: state, Symbol: sym, Kind: int(action.Kind), Target: action.Target})
		}
	}
	for state, row := range t.Goto {
		for sym, target := range row {
			f.Gotos = append(f.Gotos, gotoEntry{State: state, Symbol: sym, Target: target})
		}
	}
	return f
}

func (f file) toTable() *lrgen.Table {
	t := &lrgen.Table{
		NumStates: f.NumStates,
		Action:    map[int]map[string]lrgen.Action{},
		Goto:      map[int]map[string]int{},
	}
	for _, e := range f.Actions {
		if t.Action[e.State] == nil {
			t.Action[e.State] = map[string]lrgen.Action{}
		}
		t.Action[e.State][e.Symbol] = lrgen.Action{Kind: lrgen.ActionKind(e.Kind), Target: e.Target}
	}
	for _, e := range f.Gotos {
		if t.Goto[e.State] == nil {
			t.Goto[e.State] = map[string]int{}
		}
		t.Goto[e.State][e.Symbol] = e.Target
	}
	return t
}
