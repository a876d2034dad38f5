package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	configPath, catalogPaths, logLevel = "", nil, ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogCommandListsBuiltin(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.toml")
	out, err := run(t, "--config", cfg, "--log-level", "none", "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Scalar\n")
	assert.Contains(t, out, "Vector times scalar")
	assert.Contains(t, out, "(scalar: scalar = 1, vector: vec2) -> (out: vec2)")
}

func TestCatalogCommandRejectsBadLevel(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.toml")
	_, err := run(t, "--config", cfg, "--log-level", "shouty", "catalog")
	require.ErrorContains(t, err, "--log-level")
}

func TestConfigInitAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	out, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err = run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, err = run(t, "--config", path, "config", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "config ok")

	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 1\n"), 0o644))
	_, err = run(t, "--config", path, "config", "check")
	require.Error(t, err)
}
