package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAgentNameDefaultsToDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, AgentManifestName), "[tasks]\ntest = \"go test ./...\"\n")

	agent, err := LoadAgent(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), agent.Name)

	command, ok := agent.Task("test")
	assert.True(t, ok)
	assert.Equal(t, "go test ./...", command)
}

func TestLoadAgentExplicitName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, AgentManifestName), `
[agent]
name = "greeter"
module = "github.com/example/greeter"

[tasks]
lint = "golangci-lint run"
`)

	agent, err := LoadAgent(dir)
	require.NoError(t, err)
	assert.Equal(t, "greeter", agent.Name)
	assert.Equal(t, "github.com/example/greeter", agent.Module)
	assert.True(t, agent.HasTask("lint"))
	assert.False(t, agent.HasTask("test"))
}

func TestLoadAgentIncludeMergesTasks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared.toml"), `
[tasks]
fmt = "gofmt -l ."
test = "overridden by the agent"
`)
	writeFile(t, filepath.Join(dir, AgentManifestName), `
include = "shared.toml"

[tasks]
test = "go test ./..."
`)

	agent, err := LoadAgent(dir)
	require.NoError(t, err)

	// Included tasks are visible.
	fmtCmd, ok := agent.Task("fmt")
	assert.True(t, ok)
	assert.Equal(t, "gofmt -l .", fmtCmd)

	// The including manifest wins on conflict.
	testCmd, _ := agent.Task("test")
	assert.Equal(t, "go test ./...", testCmd)

	assert.Equal(t, []string{"fmt", "test"}, agent.TaskNames())
}

func TestLoadAgentMissingIncludeIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, AgentManifestName), `
include = "does-not-exist.toml"

[tasks]
test = "go test ./..."
`)

	agent, err := LoadAgent(dir)
	require.NoError(t, err)
	assert.True(t, agent.HasTask("test"))
}

func TestLoadAgentIncludeCycleTerminates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, AgentManifestName), `
include = "a.toml"

[tasks]
test = "go test ./..."
`)
	writeFile(t, filepath.Join(dir, "a.toml"), "include = \"b.toml\"\n[tasks]\na = \"true\"\n")
	writeFile(t, filepath.Join(dir, "b.toml"), "include = \"a.toml\"\n[tasks]\nb = \"true\"\n")

	agent, err := LoadAgent(dir)
	require.NoError(t, err)
	assert.True(t, agent.HasTask("a"))
	assert.True(t, agent.HasTask("b"))
	assert.True(t, agent.HasTask("test"))
}
