package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout returns everything fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestDoctorDocsSourcesSkippedWithoutAgents(t *testing.T) {
	root := t.TempDir()
	manifest := "[workspace]\nmembers = []\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "agents.toml"), []byte(manifest), 0644))

	rootFlag = root
	defer func() { rootFlag = "" }()

	out := captureStdout(t, func() {
		doctorCmd.Run(doctorCmd, nil)
	})

	assert.Contains(t, out, "No agents matched the workspace members")
	assert.Contains(t, out, "Skipped (no agents discovered)")
	assert.NotContains(t, out, "All agents have docs sources")
}
