package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrie/internal/errors"
)

const shop = `
namespace = ["shop"]

enum "Color" {
  value "Red" {}
  value "Green" {}
}

struct "Order" {
  field "id" { type = int64 }
  field "color" { type = Color }
  field "note" { type = optional(string) }
}
`

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()

	cmd, err := newRootCmd()
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer

	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if stdin != nil {
		cmd.SetIn(stdin)
	}

	err = cmd.Execute()

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeShop(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shop.hcl")
	require.NoError(t, os.WriteFile(path, []byte(shop), 0o644))

	return path
}

func TestRoot_PrintsOutputs(t *testing.T) {
	res := execute(t, nil, writeShop(t), "--out-rs", "--out", "ts")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "pub struct Order {")
	assert.Contains(t, res.stdout, "export interface Order {")
	assert.Less(t, strings.Index(res.stdout, "pub struct Order"), strings.Index(res.stdout, "export interface Order"))
	assert.Contains(t, res.stderr, "********* rs *********")
	assert.Contains(t, res.stderr, "********* ts *********")
}

func TestRoot_OutputOrder(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"flag after out", []string{"--out", "ts", "--out-rs"}, []string{"ts", "rs"}},
		{"key flags", []string{"--out-py", "--out-go"}, []string{"py", "go"}},
		{"repeated key", []string{"--out-go", "--out", "py", "--out", "go"}, []string{"go", "py"}},
		{"switched off", []string{"--out-rs", "--out-ts", "--out-rs=false"}, []string{"ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, nil, append([]string{writeShop(t)}, tt.args...)...)
			require.NoError(t, res.err, res.stderr)

			var got []string
			for _, line := range strings.Split(res.stderr, "\n") {
				if key, ok := strings.CutPrefix(line, "********* "); ok {
					got = append(got, strings.TrimSuffix(key, " *********"))
				}
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoot_Stdin(t *testing.T) {
	res := execute(t, strings.NewReader(shop), "-", "--ext", "hcl", "--out-py")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "class Order:")

	res = execute(t, strings.NewReader(shop), "--out-py")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "--ext")

	res = execute(t, strings.NewReader(""), "--ext", "hcl", "--out-py")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "stdin is empty")
}

func TestRoot_Errors(t *testing.T) {
	path := writeShop(t)

	res := execute(t, nil, path)
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errors.ErrNoOutput))

	res = execute(t, nil, path, "--out", "rsx")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errors.ErrUnknownNotation))
	assert.Contains(t, errors.FlattenHints(res.err), `"rs"`)

	res = execute(t, nil, path, "--ext", "yml", "--out-go")
	require.Error(t, res.err)
	assert.Contains(t, errors.FlattenHints(res.err), `"yaml"`)

	bad := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte(`struct "Order" {`), 0o644))

	res = execute(t, nil, bad, "--out-go")
	require.Error(t, res.err)
	assert.True(t, errors.IsParseError(res.err))
}

func TestRoot_OutAllToDirectory(t *testing.T) {
	dir := t.TempDir()

	res := execute(t, nil, writeShop(t), "--out-all", "--out-dir", dir)
	require.NoError(t, res.err, res.stderr)
	assert.Empty(t, res.stdout)

	for _, name := range []string{
		"shop.src.hcl", "shop.ast", "shop.hcl", "shop.go", "shop.rs", "shop.h", "shop.py",
		"shop.ts", "shop.proto", "shop.json", "shop.yaml", "shop.toml",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	src, err := os.ReadFile(filepath.Join(dir, "shop.src.hcl"))
	require.NoError(t, err)
	assert.Equal(t, shop, string(src))
}

func TestRoot_ConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "astrie.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[output]\ntargets = [\"proto\"]\n"), 0o644))

	res := execute(t, nil, writeShop(t), "--config", cfg)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "message Order {")

	// Flags replace configured targets.
	res = execute(t, nil, writeShop(t), "--config", cfg, "--out-ts")
	require.NoError(t, res.err, res.stderr)
	assert.NotContains(t, res.stdout, "message Order {")
}

func TestList(t *testing.T) {
	res := execute(t, nil, "list")
	require.NoError(t, res.err, res.stderr)

	for _, key := range []string{"NOTATION", "go", "hcl", "proto", "ts", "yes"} {
		assert.Contains(t, res.stdout, key)
	}
}
