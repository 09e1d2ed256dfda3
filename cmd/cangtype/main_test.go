package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--log-env", "nop"))
	err := cmd.Execute()
	return buf.String(), err
}

func TestLessonsCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "lessons")
	require.NoError(t, err)
	assert.Contains(t, out, "foundations")
	assert.Contains(t, out, "Characters")
}

func TestProfilesLifecycle(t *testing.T) {
	isolate(t)

	out, err := run(t, "profiles", "create", "Mei")
	require.NoError(t, err)
	assert.Contains(t, out, "Created profile Mei")

	out, err = run(t, "profiles", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Default")
	assert.Contains(t, out, "Mei")

	out, err = run(t, "profiles", "use", "default")
	require.NoError(t, err)
	assert.Contains(t, out, "Active profile: Default")

	out, err = run(t, "profiles", "delete", "Mei")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted profile Mei")

	out, err = run(t, "profiles")
	require.NoError(t, err)
	assert.NotContains(t, out, "Mei")

	_, err = run(t, "profiles", "use", "ghost")
	assert.Error(t, err)
}

func TestStatsCmdEmptyProfile(t *testing.T) {
	isolate(t)
	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile: Default")
	assert.Contains(t, out, "Known characters: 0")
	assert.Contains(t, out, "No lesson runs yet.")
}

func TestStatsCmdValidatesFlags(t *testing.T) {
	isolate(t)
	_, err := run(t, "stats", "--window", "0")
	assert.Error(t, err)
}

func TestConfigFileApplies(t *testing.T) {
	isolate(t)
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "cangtype", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[drill]\nanswer-mode = \"pinyin\"\n"), 0o644))

	_, err := run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid answer mode")
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	isolate(t)
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "cangtype", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))

	out, err := run(t, "lessons")
	require.NoError(t, err)
	assert.Contains(t, out, "foundations")
}

func TestDictCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "dict", "日")
	require.NoError(t, err)
	assert.Contains(t, out, "Codes")
	assert.Contains(t, out, "sun")

	out, err = run(t, "dict", "--prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 0 expired entries, 1 cached")

	_, err = run(t, "dict")
	assert.Error(t, err)
	_, err = run(t, "dict", "日月")
	assert.Error(t, err)
}
