package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[output]
dir = "gen"
targets = ["go", "rs"]

[types]
file = "types.yaml"

[log]
verbosity = 2
json = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "gen", cfg.Output.Dir)
	assert.Equal(t, []string{"go", "rs"}, cfg.Output.Targets)
	assert.Equal(t, filepath.Join(dir, "types.yaml"), cfg.Types.File, "relative to the config file")
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.True(t, cfg.Log.JSON)
	assert.False(t, cfg.Output.AST)
}

func TestLoad_Env(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[output]\ndir = \"gen\"\n")

	t.Setenv("ASTRIE_OUTPUT_DIR", "from-env")
	t.Setenv("ASTRIE_INPUT_EXT", "hcl")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Output.Dir)
	assert.Equal(t, "hcl", cfg.Input.Ext)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.toml")
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[output\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestFindUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Empty(t, findUpward(nested))

	path := writeConfig(t, root, "")
	assert.Equal(t, path, findUpward(nested))
}
