package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarloKnezevic/ppjc/internal/ccerrors"
	"github.com/KarloKnezevic/ppjc/internal/config"
)

const (
	realLexerSpec  = "../../config/lexer_definition.txt"
	realParserSpec = "../../config/parser_definition.txt"
)

func writeSource(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "input.c")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func testConfig(dir string) config.Config {
	return config.Config{
		OutputDir:  filepath.Join(dir, "out"),
		CachePath:  filepath.Join(dir, "cache", "lr.cache"),
		LexerSpec:  realLexerSpec,
		ParserSpec: realParserSpec,
	}.FillDefaults()
}

func TestRunFullCompileProducesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "int main() { return 0; }\n")

	var stdout, stderr bytes.Buffer
	res, err := Run(Options{
		SourcePath: src,
		Phase:      PhaseCodegen,
		Config:     testConfig(dir),
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	assert.Contains(t, res.Assembly, "CALL F_MAIN")
	require.NotNil(t, res.Derivation)
	require.NotNil(t, res.Syntax)
	require.NotNil(t, res.Scopes)

	cfg := testConfig(dir)
	tokens, err := os.ReadFile(filepath.Join(cfg.OutputDir, config.DefaultTokenFile))
	require.NoError(t, err)
	assert.Contains(t, string(tokens), "tablica znakova:")
	assert.Contains(t, string(tokens), "niz uniformnih znakova:")
	assert.Contains(t, string(tokens), "IDENT")

	deriv, err := os.ReadFile(filepath.Join(cfg.OutputDir, config.DefaultDerivFile))
	require.NoError(t, err)
	assert.Contains(t, string(deriv), "<program>")

	syntax, err := os.ReadFile(filepath.Join(cfg.OutputDir, config.DefaultSyntaxFile))
	require.NoError(t, err)
	assert.NotEmpty(t, syntax)

	symtab, err := os.ReadFile(filepath.Join(cfg.OutputDir, config.DefaultSymtabFile))
	require.NoError(t, err)
	assert.Contains(t, string(symtab), "main")

	asm, err := os.ReadFile(filepath.Join(cfg.OutputDir, config.DefaultAssemblyOut))
	require.NoError(t, err)
	assert.Equal(t, res.Assembly, string(asm))

	_, err = os.Stat(cfg.CachePath)
	assert.NoError(t, err, "LR table cache should have been written on a cold run")
}

func TestRunLexerPhaseStopsBeforeParsing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "int main() { return 0; }\n")
	cfg := testConfig(dir)

	res, err := Run(Options{SourcePath: src, Phase: PhaseLexer, Config: cfg})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens)
	assert.Nil(t, res.Derivation)

	_, statErr := os.Stat(filepath.Join(cfg.OutputDir, config.DefaultTokenFile))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(cfg.OutputDir, config.DefaultDerivFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunReportsLexicalErrorToStderrAndStillWritesTokenFile(t *testing.T) {
	dir := t.TempDir()
	// The stray '@' sits after the program's closing brace, so the
	// lexical error it produces is recovered (discarded) without leaving
	// any trailing token behind to perturb parsing or semantic analysis:
	// the program that does parse is complete and valid, so the lexical
	// error is what Run ultimately returns rather than being superseded
	// by a later phase's own failure.
	src := writeSource(t, dir, "int main() { return 0; } @\n")
	cfg := testConfig(dir)

	var stderr bytes.Buffer
	res, err := Run(Options{SourcePath: src, Phase: PhaseCodegen, Config: cfg, Stderr: &stderr})
	require.Error(t, err)

	var lexErr *ccerrors.LexicalError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, stderr.String(), "unrecognized character")
	assert.Contains(t, res.Assembly, "CALL F_MAIN", "a recovered lexical error lets later phases run to completion")

	_, statErr := os.Stat(filepath.Join(cfg.OutputDir, config.DefaultTokenFile))
	assert.NoError(t, statErr)
}

func TestRunReportsSemanticErrorToStdoutWithTrailingBlankLine(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "void f() { return; }\n")
	cfg := testConfig(dir)

	var stdout bytes.Buffer
	_, err := Run(Options{SourcePath: src, Phase: PhaseCodegen, Config: cfg, Stdout: &stdout})
	require.Error(t, err)

	var semErr *ccerrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, "main\n\n", stdout.String())

	_, statErr := os.Stat(filepath.Join(cfg.OutputDir, config.DefaultSymtabFile))
	assert.NoError(t, statErr, "scope dump should survive a semantic failure")
}

func TestRunReusesCachedTableOnSecondInvocation(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "int main() { return 0; }\n")
	cfg := testConfig(dir)

	first, err := Run(Options{SourcePath: src, Phase: PhaseCodegen, Config: cfg})
	require.NoError(t, err)

	second, err := Run(Options{SourcePath: src, Phase: PhaseCodegen, Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, first.Assembly, second.Assembly)
}
