// Package config loads a project's .slrgen.toml: the default grammar file
// path, output path, package name, and action-template mode consumed by the
// slrgen CLI, so a project doesn't have to repeat the same flags on every
// invocation. A conflict threshold (MaxConflicts) is decoded as well, but
// slrgen does not act on it.
//
// Grounded on internal/tqw/tqw.go's toml.Unmarshal(data, &info) usage
// pattern (BurntSushi/toml), simplified from tqw's "scan for a top-level
// table boundary first" preprocessing since this module's config file has
// no embedded non-TOML payload to delimit.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/ictiobus/action"
	"github.com/dekarrin/ictiobus/icterrors"
)

// Config is the decoded shape of .slrgen.toml.
type Config struct {
	Grammar      string `toml:"grammar"`
	Output       string `toml:"output"`
	Package      string `toml:"package"`
	Mode         string `toml:"mode"` // "sexp" or "jison"
	MaxConflicts int    `toml:"max_conflicts"`
}

// ActionMode resolves Mode to an action.Mode, defaulting to sexp mode when
// unset or unrecognized.
func (c Config) ActionMode() action.Mode {
	if c.Mode == "jison" {
		return action.Jison
	}
	return action.Sexp
}

// Load reads and decodes path as a .slrgen.toml project config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, icterrors.WrapGrammar(err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, icterrors.WrapGrammar(err, "parse config %s", path)
	}
	if cfg.Output == "" {
		cfg.Output = "parser.go"
	}
	if cfg.Package == "" {
		cfg.Package = "parser"
	}
	return cfg, nil
}
