package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps config discovery and .env loading inside a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("REPOMANAGE_CONFIG", "")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const snapshotJSON = `{
  "next_id": 2,
  "languages": [{"id": 0, "name": "Go", "updated_at": 7}],
  "repos": [{"id": 1, "language_id": 0, "repo_name": "repomanage", "description": "records"}]
}`

func TestImportExportStats(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "cli.db")

	out, err := run(t, snapshotJSON, "--db", db, "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 languages and 1 repos, next id 2")

	out, err = run(t, "", "--db", db, "export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "repo_name: repomanage")
	assert.Contains(t, out, "name: Go")

	exported := filepath.Join(dir, "snap.json")
	_, err = run(t, "", "--db", db, "export", "-o", exported)
	require.NoError(t, err)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"repo_name": "repomanage"`)

	out, err = run(t, "", "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "next_id: 2")
	assert.Contains(t, out, "backend: sqlite")
}

func TestImportRejectsBadInput(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "cli.db")

	_, err := run(t, "{", "--db", db, "import", "-")
	require.Error(t, err)

	_, err = run(t, snapshotJSON, "--db", db, "import", "--format", "toml", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported snapshot format")

	_, err = run(t, "", "--db", db, "import", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestInvalidFlagsFailBeforeRunning(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "--backend", "leveldb", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "repomanage.yaml")

	out, err := run(t, "", "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = run(t, "", "config", "init", "--path", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "", "config", "init", "--path", path, "--force")
	require.NoError(t, err)

	out, err = run(t, "", "--config", path, "--backend", "bolt", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# from "+path)
	assert.Contains(t, out, "backend: bolt")
}
