package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValueNoError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadParsesDeclaredFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ppjc.toml")
	contents := `
stack_start = 65536
output_dir = "build"
cache_path = ".cache/table.bin"
lexer_spec = "spec/lex.txt"
parser_spec = "spec/gram.txt"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 65536, cfg.StackStart)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.Equal(t, ".cache/table.bin", cfg.CachePath)
	assert.Equal(t, "spec/lex.txt", cfg.LexerSpec)
	assert.Equal(t, "spec/gram.txt", cfg.ParserSpec)
}

func TestLoadRejectsNegativeStackStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ppjc.toml")
	require.NoError(t, os.WriteFile(path, []byte("stack_start = -1\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack_start")
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ppjc.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not = valid [[[ toml"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestFillDefaultsOnlyFillsUnsetFields(t *testing.T) {
	cfg := Config{OutputDir: "custom-out"}.FillDefaults()

	assert.Equal(t, DefaultStackStart, cfg.StackStart)
	assert.Equal(t, "custom-out", cfg.OutputDir)
	assert.Equal(t, DefaultCachePath, cfg.CachePath)
	assert.Equal(t, DefaultLexerSpec, cfg.LexerSpec)
	assert.Equal(t, DefaultParserSpec, cfg.ParserSpec)
}
