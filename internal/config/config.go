// Package config loads the compiler's optional TOML configuration file,
// grounded on internal/tqw's BurntSushi/toml-based world-manifest loading.
// Unlike a TQW world file, ppjc.toml is never required: every field has a
// documented default, and a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/KarloKnezevic/ppjc/internal/ccerrors"
)

// Defaults, applied to any field left unset in the loaded file (or when no
// file is found at all).
const (
	DefaultStackStart  = 40000
	DefaultOutputDir   = "out"
	DefaultCachePath   = ".ppjc-cache/lr.cache"
	DefaultLexerSpec   = "config/lexer_definition.txt"
	DefaultParserSpec  = "config/parser_definition.txt"
	DefaultTokenFile   = "leksicke_jedinke.txt"
	DefaultDerivFile   = "generativno_stablo.txt"
	DefaultSyntaxFile  = "sintaksno_stablo.txt"
	DefaultSymtabFile  = "tablica_simbola.txt"
	DefaultAssemblyOut = "a.frisc"
)

// Config is every setting an invocation of the compiler can be tuned with.
// Field names match ppjc.toml's keys one-to-one.
type Config struct {
	StackStart int    `toml:"stack_start"`
	OutputDir  string `toml:"output_dir"`
	CachePath  string `toml:"cache_path"`
	LexerSpec  string `toml:"lexer_spec"`
	ParserSpec string `toml:"parser_spec"`
}

// FillDefaults returns a copy of cfg with every unset field replaced by its
// documented default.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.StackStart == 0 {
		out.StackStart = DefaultStackStart
	}
	if out.OutputDir == "" {
		out.OutputDir = DefaultOutputDir
	}
	if out.CachePath == "" {
		out.CachePath = DefaultCachePath
	}
	if out.LexerSpec == "" {
		out.LexerSpec = DefaultLexerSpec
	}
	if out.ParserSpec == "" {
		out.ParserSpec = DefaultParserSpec
	}
	return out
}

// Load reads path and parses it as TOML. A missing file is not an error:
// Load returns a zero Config, which FillDefaults then fills in entirely.
// Any other read or parse failure is reported as an ccerrors.IOError.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, &ccerrors.IOError{Op: "read config", Path: path, Err: err}
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, &ccerrors.IOError{Op: "parse config", Path: path, Err: err}
	}
	if cfg.StackStart < 0 {
		return Config{}, fmt.Errorf("config %s: stack_start must not be negative, got %d", path, cfg.StackStart)
	}
	return cfg, nil
}
