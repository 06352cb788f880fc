package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmalarme/agentctl/internal/workspace"
)

func newScaffoldWorkspace(t *testing.T, manifest string) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, workspace.ManifestName), []byte(manifest), 0644))
	ws, err := workspace.Load(root)
	require.NoError(t, err)
	return ws
}

func TestCreateScaffoldsAgent(t *testing.T) {
	ws := newScaffoldWorkspace(t, "[workspace]\nmembers = [\"agents/*\"]\n")

	result, err := Create(ws, Options{Name: "greeter", Module: "github.com/example/greeter"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(ws.Root, "agents", "greeter"), result.Dir)
	assert.True(t, result.MemberMatch)

	for _, rel := range []string{
		workspace.AgentManifestName,
		"README.md",
		filepath.Join("docs", "source", "index.rst"),
		filepath.Join("src", ".gitkeep"),
	} {
		_, err := os.Stat(filepath.Join(result.Dir, rel))
		assert.NoError(t, err, rel)
	}

	// The scaffolded agent loads and carries the default tasks.
	agent, err := workspace.LoadAgent(result.Dir)
	require.NoError(t, err)
	assert.Equal(t, "greeter", agent.Name)
	assert.Equal(t, "github.com/example/greeter", agent.Module)
	assert.True(t, agent.HasTask("test"))
	assert.True(t, agent.HasTask("lint"))

	// And it is discoverable through the workspace.
	agents, err := ws.Agents()
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "greeter", agents[0].Name)
}

func TestCreateWithoutModule(t *testing.T) {
	ws := newScaffoldWorkspace(t, "[workspace]\nmembers = [\"agents/*\"]\n")

	result, err := Create(ws, Options{Name: "plain"})
	require.NoError(t, err)

	agent, err := workspace.LoadAgent(result.Dir)
	require.NoError(t, err)
	assert.Empty(t, agent.Module)
}

func TestCreateRejectsInvalidName(t *testing.T) {
	ws := newScaffoldWorkspace(t, "[workspace]\nmembers = [\"agents/*\"]\n")

	for _, name := range []string{"", "Agent", "1agent", "my agent", "../escape"} {
		_, err := Create(ws, Options{Name: name})
		assert.Error(t, err, name)
	}
}

func TestCreateRejectsInvalidModule(t *testing.T) {
	ws := newScaffoldWorkspace(t, "[workspace]\nmembers = [\"agents/*\"]\n")

	_, err := Create(ws, Options{Name: "agent", Module: "not a module path"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid module path")
}

func TestCreateRefusesExistingDir(t *testing.T) {
	ws := newScaffoldWorkspace(t, "[workspace]\nmembers = [\"agents/*\"]\n")

	_, err := Create(ws, Options{Name: "dup"})
	require.NoError(t, err)

	_, err = Create(ws, Options{Name: "dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateReportsUnmatchedMember(t *testing.T) {
	ws := newScaffoldWorkspace(t, "[workspace]\nmembers = [\"packages/*\"]\n")

	result, err := Create(ws, Options{Name: "orphan"})
	require.NoError(t, err)
	assert.False(t, result.MemberMatch)
}
