package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/py/internal/core"
)

// fakeBinDir creates a directory holding fake interpreter binaries whose
// names carry a full version, so listing never has to spawn them.
func fakeBinDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	}
	return dir
}

func runListCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewListCmd(testConfig(), testLogger())
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestListJSON(t *testing.T) {
	dir := fakeBinDir(t, "python3.9", "python3.12")
	t.Setenv("PATH", dir)
	t.Setenv("VIRTUAL_ENV", "")

	out, err := runListCmd(t, "--json")
	require.NoError(t, err)

	var got []core.Interpreter
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	versions := []string{got[0].Version.String(), got[1].Version.String()}
	assert.Contains(t, versions, "3.9")
	assert.Contains(t, versions, "3.12")
	for _, interp := range got {
		assert.Equal(t, core.TierPath, interp.Tier)
		assert.Equal(t, dir, filepath.Dir(interp.Path))
	}
}

func TestListTable(t *testing.T) {
	dir := fakeBinDir(t, "python3.11")
	t.Setenv("PATH", dir)
	t.Setenv("VIRTUAL_ENV", "")

	out, err := runListCmd(t)
	require.NoError(t, err)

	assert.Contains(t, out, "Found 1 interpreter(s)")
	assert.Contains(t, out, "3.11")
	assert.Contains(t, out, filepath.Join(dir, "python3.11"))
}

func TestListFilter(t *testing.T) {
	dir := fakeBinDir(t, "python3.9", "python3.12")
	t.Setenv("PATH", dir)
	t.Setenv("VIRTUAL_ENV", "")

	out, err := runListCmd(t, "--json", "--filter", "python3.12")
	require.NoError(t, err)

	var got []core.Interpreter
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "3.12", got[0].Version.String())
}

func TestListEmpty(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("VIRTUAL_ENV", "")

	out, err := runListCmd(t, "--json")
	require.NoError(t, err)

	assert.Equal(t, "[]", strings.TrimSpace(out), "an empty set is [], not null")

	var got []core.Interpreter
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got)
}

func TestListEmptyTable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("VIRTUAL_ENV", "")

	_, err := runListCmd(t)
	require.NoError(t, err)
}

func TestListSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "python3.9"), []byte("data"), 0o644))
	t.Setenv("PATH", dir)
	t.Setenv("VIRTUAL_ENV", "")

	out, err := runListCmd(t, "--json")
	require.NoError(t, err)

	var got []core.Interpreter
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got)
}
