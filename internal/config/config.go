// Package config loads the small TOML configuration file a session is
// built from (SPEC_FULL.md §3.3): the starting grammar module, the
// maximum live-parser-state cap (spec.md §4.3), the lexer's
// unrecognized-run clamp length (spec.md §4.2), and which target
// generator backend to drive code generation with. Grounded on
// server/config.go's Config/Validate/FillDefaults shape, generalized
// from a DBType/connection-string pair to a TargetGenerator enum, and
// loaded with toml.DecodeFile the way internal/tqw loads world files
// with toml.Unmarshal.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// TargetGenerator selects which internal/targetgen backend a session
// drives. Only Treewalk has a concrete implementation today; JIT and
// ObjectFile are named ahead of their backends existing so a config file
// authored against this version keeps parsing once they do.
type TargetGenerator string

const (
	TargetNone       TargetGenerator = ""
	TargetTreewalk   TargetGenerator = "treewalk"
	TargetJIT        TargetGenerator = "jit"
	TargetObjectFile TargetGenerator = "object-file"
)

func (t TargetGenerator) String() string { return string(t) }

// ParseTargetGenerator parses a string found in a config file or flag into
// a TargetGenerator.
func ParseTargetGenerator(s string) (TargetGenerator, error) {
	switch TargetGenerator(strings.ToLower(strings.TrimSpace(s))) {
	case TargetTreewalk:
		return TargetTreewalk, nil
	case TargetJIT:
		return TargetJIT, nil
	case TargetObjectFile:
		return TargetObjectFile, nil
	default:
		return TargetNone, fmt.Errorf("target generator not one of 'treewalk', 'jit', or 'object-file': %q", s)
	}
}

const (
	// DefaultMaxLiveStates is used when MaxLiveStates is left at 0, meaning
	// "uncapped" is not itself a valid default; a session that truly wants
	// no cap sets MaxLiveStates to a negative number.
	DefaultMaxLiveStates = 64

	// DefaultMaxTokenLength is the unrecognized-run clamp internal/lex
	// falls back to when MaxTokenLength is left at 0.
	DefaultMaxTokenLength = 24
)

// Config is the on-disk, TOML-decodable configuration for one session.
type Config struct {
	// StartModule is the fully qualified grammar symbol a session's top
	// level Parse call targets by default (e.g. "root.Program").
	StartModule string `toml:"start_module"`

	// MaxLiveStates caps how many parser branches spec.md §4.3's GLR-style
	// fork may keep alive at once. 0 means "use DefaultMaxLiveStates";
	// a negative value means "uncapped".
	MaxLiveStates int `toml:"max_live_states"`

	// MaxTokenLength bounds how many characters of an unrecognized run the
	// lexer quotes back in a single notice (spec.md §4.2). 0 means "use
	// DefaultMaxTokenLength".
	MaxTokenLength int `toml:"max_token_length"`

	// Target selects the target-generator backend. Empty decodes to
	// TargetTreewalk via FillDefaults.
	Target TargetGenerator `toml:"target"`
}

// Load reads and parses the TOML file at path into a Config. The returned
// Config has not had FillDefaults applied.
func Load(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return cfg, nil
}

// FillDefaults returns a copy of cfg with unset fields set to their
// defaults.
func (cfg Config) FillDefaults() Config {
	newCfg := cfg
	if newCfg.StartModule == "" {
		newCfg.StartModule = "root.Program"
	}
	if newCfg.MaxLiveStates == 0 {
		newCfg.MaxLiveStates = DefaultMaxLiveStates
	}
	if newCfg.MaxTokenLength == 0 {
		newCfg.MaxTokenLength = DefaultMaxTokenLength
	}
	if newCfg.Target == TargetNone {
		newCfg.Target = TargetTreewalk
	}
	return newCfg
}

// Validate returns an error if cfg has invalid field values. Call it on the
// return value of FillDefaults if defaults are intended to be used.
func (cfg Config) Validate() error {
	if cfg.StartModule == "" {
		return fmt.Errorf("start_module: must be set to a qualified grammar symbol")
	}
	if _, err := ParseTargetGenerator(cfg.Target.String()); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	// MaxLiveStates and MaxTokenLength: any int value (including negative,
	// meaning uncapped) is valid, so nothing further to check.
	return nil
}
