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

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestSimulatePrintsTransfers(t *testing.T) {
	out := run(t, "simulate", "--ticks", "70", "--script", "5:pause,8:paused,10:resume")

	assert.Contains(t, out, "tick    1  none -> wander")
	assert.Contains(t, out, "> pause: Paused")
	assert.Contains(t, out, "> paused: arbiter is paused")
	assert.Contains(t, out, "> resume: Resumed")
	assert.Contains(t, out, "-> look-at")
	assert.Contains(t, out, "done: 70 ticks, in control wander")
}

func TestSimulateConcealAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	out := run(t, "simulate", "--ticks", "10", "--conceal", "--snapshot-dir", dir, "--format", "yaml", "--dot")

	assert.Contains(t, out, "10 concealed ticks")
	assert.Contains(t, out, "digraph Arbiter {")
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSimulateRejectsBadScript(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"simulate", "--script", "soon:pause"})
	require.Error(t, root.Execute())
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[look]\nconceal = true\n"), 0o600))

	out := run(t, "config", "--config", path)
	assert.Contains(t, out, "conceal: true")
	assert.True(t, strings.Contains(out, "tick_rate: 50ms"))
}

func TestParseScript(t *testing.T) {
	got, err := parseScript("20:resume, 10:pause")
	require.NoError(t, err)
	assert.Equal(t, []scriptEntry{{Tick: 10, Line: "pause"}, {Tick: 20, Line: "resume"}}, got)

	_, err = parseScript("10")
	require.Error(t, err)
}
