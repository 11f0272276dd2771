package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	t.Log(errOut.String())
	return out.String(), err
}

func TestCLIDemoExportClear(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "state", "flow.db")

	out, err := runCLI(t, "demo", "--storage-path", db)
	require.NoError(t, err)
	assert.Contains(t, out, "15 cards, 14 connections")

	out, err = runCLI(t, "export", "--storage-path", db, "--txt", "flow.txt", "--png", "flow.png")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote flow.txt")
	assert.FileExists(t, filepath.Join(dir, "flow.txt"))
	assert.FileExists(t, filepath.Join(dir, "flow.png"))

	data, err := os.ReadFile(filepath.Join(dir, "flow.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Assembly")

	out, err = runCLI(t, "clear", "--storage-path", db)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	_, err = runCLI(t, "export", "--storage-path", db, "--txt", "again.txt")
	assert.ErrorIs(t, err, errNothingToExport)
}

func TestCLIExportNeedsTarget(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "export", "--storage", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--png")
}

func TestCLITemplates(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := runCLI(t, "templates", "--storage", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Assembly")
}

func TestCLIRejectsBadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "templates", "--storage", "tape")
	assert.Error(t, err)
}
