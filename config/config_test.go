package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictiobus/action"
)

func Test_Load_decodesProjectConfig(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), ".slrgen.toml")
	contents := `
grammar = "grammar.json"
output = "out/parser.go"
package = "myparser"
mode = "jison"
max_conflicts = 2
`
	assert.NoError(os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("grammar.json", cfg.Grammar)
	assert.Equal("out/parser.go", cfg.Output)
	assert.Equal("myparser", cfg.Package)
	assert.Equal(action.Jison, cfg.ActionMode())
	assert.Equal(2, cfg.MaxConflicts)
}

func Test_Load_defaultsOutputAndPackageWhenUnset(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), ".slrgen.toml")
	assert.NoError(os.WriteFile(path, []byte(`grammar = "g.json"`), 0644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("parser.go", cfg.Output)
	assert.Equal("parser", cfg.Package)
	assert.Equal(action.Sexp, cfg.ActionMode()) // unset mode defaults to sexp
}

func Test_Load_missingFileReturnsError(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(err)
}
