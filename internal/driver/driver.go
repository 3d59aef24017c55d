// Package driver sequences the four compiler phases (lexer, parser,
// semantic analyzer, code generator) against one source file and writes
// the five output artifacts section 6 names, routing each diagnostic to
// the stream its class mandates.
//
// Grounded on engine.go's New/RunUntilQuit phase-composition shape
// (load resources, then drive a fixed sequence of steps, bailing out on
// the first hard error) and cmd/tqi/main.go's exit-code-by-error-kind
// idiom, which cmd/ppjc's thin wrapper reuses.
package driver

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/KarloKnezevic/ppjc/internal/cache"
	"github.com/KarloKnezevic/ppjc/internal/ccerrors"
	"github.com/KarloKnezevic/ppjc/internal/codegen"
	"github.com/KarloKnezevic/ppjc/internal/config"
	"github.com/KarloKnezevic/ppjc/internal/grammar"
	"github.com/KarloKnezevic/ppjc/internal/lexer"
	"github.com/KarloKnezevic/ppjc/internal/lexspec"
	"github.com/KarloKnezevic/ppjc/internal/lrgen"
	"github.com/KarloKnezevic/ppjc/internal/parser"
	"github.com/KarloKnezevic/ppjc/internal/semantics"
)

// Phase selects how far Run advances through the pipeline, mirroring
// section 6's lexer/syntax/semantic/default subcommands.
type Phase int

const (
	PhaseLexer Phase = iota
	PhaseSyntax
	PhaseSemantic
	PhaseCodegen
)

// Options configures one compile run. Stdout/Stderr default to os.Stdout
// and os.Stderr; tests supply buffers instead so diagnostic routing can
// be asserted on directly.
type Options struct {
	SourcePath string
	Phase      Phase
	Config     config.Config
	NoCache    bool
	Logger     *slog.Logger
	Stdout     io.Writer
	Stderr     io.Writer
}

// Result carries every artifact Run produced before it stopped, win or
// lose, so that artifacts from phases that did complete survive a
// later-phase failure (section 7's "report more of the program in later
// phases" recovery philosophy, extended to whole-phase granularity).
type Result struct {
	Tokens     []lexer.Token
	Symbols    *lexer.SymbolTable
	Derivation *parser.Tree
	Syntax     *parser.Tree
	Scopes     *semantics.ScopeTree
	Assembly   string
	Conflicts  []lrgen.ConflictRecord
}

// Run executes the pipeline up to opts.Phase against opts.SourcePath,
// writing each artifact it completes to opts.Config.OutputDir as it goes.
// The returned error, if it implements ccerrors.Diagnostic, has already
// had its Diagnostic() text written to the stream its class mandates;
// callers only need it to choose a process exit code.
func Run(opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	runID := uuid.New().String()
	log = log.With("run", runID)

	cfg := opts.Config.FillDefaults()
	res := &Result{}

	// printDiagnostic writes err's diagnostic to the stream its class
	// mandates: a *ccerrors.SemanticError to stdout followed by the
	// mandated blank line, everything else recognized by
	// ccerrors.Diagnostic to stderr, any other error generically to
	// stderr.
	printDiagnostic := func(err error) {
		switch e := err.(type) {
		case *ccerrors.SemanticError:
			fmt.Fprintln(stdout, e.Diagnostic())
			fmt.Fprintln(stdout)
		case ccerrors.Diagnostic:
			fmt.Fprintln(stderr, e.Diagnostic())
		default:
			fmt.Fprintln(stderr, err)
		}
	}

	// report prints err via printDiagnostic and returns it unchanged, so
	// every return site that halts the pipeline outright reads
	// "return report(err)" and never has to re-derive where a message
	// belongs.
	report := func(err error) (*Result, error) {
		printDiagnostic(err)
		return res, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return report(&ccerrors.IOError{Op: "create output directory", Path: cfg.OutputDir, Err: err})
	}

	src, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return report(&ccerrors.IOError{Op: "read source", Path: opts.SourcePath, Err: err})
	}

	// --- lexer phase ---

	lexTable, err := loadLexTable(cfg.LexerSpec)
	if err != nil {
		return report(err)
	}

	log.Info("lexer phase starting", "source", opts.SourcePath)
	tokens, symbols, lexErr := lexer.ScanAll(lexTable, string(src))
	res.Tokens = tokens
	res.Symbols = symbols

	if err := writeOutput(cfg, config.DefaultTokenFile, renderTokenFile(tokens, symbols)); err != nil {
		return report(err)
	}
	log.Info("lexer phase complete", "tokens", len(tokens), "symbols", len(symbols.Entries()))

	if lexErr != nil {
		// A recovered lexical error doesn't halt the pipeline: section 7's
		// propagation policy recovers lexer errors precisely so later
		// phases can run and report more of the program. Print it now and
		// carry it forward as what Run ultimately returns, unless a later
		// phase fails outright first.
		printDiagnostic(lexErr)
	}
	if opts.Phase == PhaseLexer {
		return res, lexErr
	}

	// --- parser phase ---

	table, aug, err := buildTable(cfg, opts.NoCache, log)
	if err != nil {
		return report(err)
	}
	res.Conflicts = table.Conflicts
	for _, c := range table.Conflicts {
		log.Warn("grammar conflict resolved",
			"state", c.State, "terminal", c.Symbol,
			"chosen", actionRepr(c.Kept), "discarded", actionRepr(c.Rejected))
	}

	inputs := parser.ToInput(tokens)
	tree, syntaxErrs := parser.Parse(table, aug, inputs)
	for _, e := range syntaxErrs {
		fmt.Fprintln(stderr, e.Diagnostic())
	}
	if tree == nil {
		if len(syntaxErrs) == 0 {
			syntaxErrs = append(syntaxErrs, &ccerrors.SyntaxError{Got: "end of input"})
			fmt.Fprintln(stderr, syntaxErrs[0].Diagnostic())
		}
		return res, syntaxErrs[len(syntaxErrs)-1]
	}
	res.Derivation = tree

	if err := writeOutput(cfg, config.DefaultDerivFile, tree.Render()); err != nil {
		return report(err)
	}

	ast := tree.Collapse(nil)
	res.Syntax = ast
	if err := writeOutput(cfg, config.DefaultSyntaxFile, ast.Render()); err != nil {
		return report(err)
	}
	log.Info("syntax phase complete", "errors", len(syntaxErrs))

	if len(syntaxErrs) > 0 {
		// Recovery resynchronized far enough to finish the derivation, but
		// section 1's "diagnostics beyond the first error" stays out of
		// scope: don't hand a patched-up tree to the analyzer. Already
		// printed above, one line per error, so no report() call here.
		return res, syntaxErrs[0]
	}
	if opts.Phase == PhaseSyntax {
		return res, lexErr
	}

	// --- semantic phase ---

	scopes, semErr := semantics.Analyze(tree)
	res.Scopes = scopes
	if err := writeOutput(cfg, config.DefaultSymtabFile, scopes.Dump()); err != nil {
		return report(err)
	}
	if semErr != nil {
		return report(semErr)
	}
	log.Info("semantic phase complete")

	if opts.Phase == PhaseSemantic {
		return res, lexErr
	}

	// --- code generation phase ---

	asm, err := codegen.Generate(tree, cfg.StackStart)
	if err != nil {
		return report(err)
	}
	res.Assembly = asm
	if err := writeOutput(cfg, config.DefaultAssemblyOut, asm); err != nil {
		return report(err)
	}
	log.Info("codegen phase complete", "bytes", len(asm))

	return res, lexErr
}

func loadLexTable(path string) (*lexer.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ccerrors.IOError{Op: "read lexer spec", Path: path, Err: err}
	}
	defer f.Close()

	spec, err := lexspec.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("lexer spec %s: %w", path, err)
	}
	table, err := lexer.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("lexer spec %s: %w", path, err)
	}
	return table, nil
}

// buildTable loads the grammar, resolves aug (always needed by Parse
// regardless of cache hit, since the cached table never carries its
// Grammar field across a save/load round trip), and returns a compiled
// table from cache when the grammar hash matches and noCache is false.
func buildTable(cfg config.Config, noCache bool, log *slog.Logger) (*lrgen.Table, *grammar.Grammar, error) {
	grammarSrc, err := os.ReadFile(cfg.ParserSpec)
	if err != nil {
		return nil, nil, &ccerrors.IOError{Op: "read parser spec", Path: cfg.ParserSpec, Err: err}
	}

	g, err := grammar.Load(bytes.NewReader(grammarSrc))
	if err != nil {
		return nil, nil, fmt.Errorf("parser spec %s: %w", cfg.ParserSpec, err)
	}
	aug := g.Augmented()
	hash := cache.Hash(grammarSrc)

	if !noCache {
		if t, ok, err := cache.Load(cfg.CachePath, hash); err != nil {
			return nil, nil, err
		} else if ok {
			t.Grammar = aug
			log.Debug("lr table cache hit", "path", cfg.CachePath)
			return t, aug, nil
		}
	}

	table := lrgen.Compile(g, log)
	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0o755); err != nil {
		return nil, nil, &ccerrors.IOError{Op: "create cache directory", Path: filepath.Dir(cfg.CachePath), Err: err}
	}
	if err := cache.Save(cfg.CachePath, hash, table); err != nil {
		return nil, nil, err
	}
	log.Debug("lr table cache miss, rebuilt", "states", table.NumStates)
	return table, aug, nil
}

func actionRepr(a lrgen.Action) string {
	switch a.Kind {
	case lrgen.ActionShift:
		return fmt.Sprintf("shift %d", a.Target)
	case lrgen.ActionReduce:
		return fmt.Sprintf("reduce %d", a.Target)
	case lrgen.ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

func writeOutput(cfg config.Config, filename, contents string) error {
	path := filepath.Join(cfg.OutputDir, filename)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return &ccerrors.IOError{Op: "write " + filename, Path: path, Err: err}
	}
	return nil
}

// renderTokenFile produces leksicke_jedinke.txt's two-section format
// (section 6): the symbol table in first-seen order, a blank line, then
// the token stream with each token's kind, line, and interned symbol
// index.
func renderTokenFile(tokens []lexer.Token, symbols *lexer.SymbolTable) string {
	var buf bytes.Buffer

	buf.WriteString("tablica znakova:\n")
	for i, e := range symbols.Entries() {
		fmt.Fprintf(&buf, "%d %s %s\n", i, e.Kind, e.Lexeme)
	}

	buf.WriteString("\nniz uniformnih znakova:\n")
	for _, t := range tokens {
		idx, _ := symbols.Lookup(t.Kind, t.Lexeme)
		fmt.Fprintf(&buf, "%s %d %d\n", t.Kind, t.Line, idx)
	}

	return buf.String()
}
