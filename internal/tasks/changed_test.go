package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmalarme/agentctl/internal/git"
	"github.com/pmalarme/agentctl/internal/workspace"
)

// stubDetector is a canned git.ChangeDetector.
type stubDetector struct {
	files   []string
	inRepo  bool
	baseRef string
	calls   int
}

func (s *stubDetector) ChangedFiles(ctx context.Context, repoPath, baseRef string) ([]string, error) {
	s.baseRef = baseRef
	s.calls++
	return s.files, nil
}

func (s *stubDetector) IsRepository(ctx context.Context, path string) bool {
	return s.inRepo
}

var _ git.ChangeDetector = (*stubDetector)(nil)

// fakeAgents creates minimal agent directories under root and loads them.
func fakeAgents(t *testing.T, root string, rels ...string) []*workspace.Agent {
	t.Helper()
	agents := make([]*workspace.Agent, 0, len(rels))
	for _, rel := range rels {
		dir := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, workspace.AgentManifestName), []byte("[agent]\n"), 0644))
		agent, err := workspace.LoadAgent(dir)
		require.NoError(t, err)
		agents = append(agents, agent)
	}
	return agents
}

func TestChangedAgentsMapsFilesToAgents(t *testing.T) {
	root := t.TempDir()
	agents := fakeAgents(t, root, "agents/alpha", "agents/beta", "agents/gamma")

	changed := ChangedAgents(agents, []string{
		"agents/alpha/src/agent.go",
		"agents/gamma/README.md",
		"docs/index.md", // outside any agent
	}, root)

	require.Len(t, changed, 2)
	assert.Equal(t, "alpha", changed[0].Name)
	assert.Equal(t, "gamma", changed[1].Name)
}

func TestChangedAgentsAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	agents := fakeAgents(t, root, "agents/alpha")

	changed := ChangedAgents(agents, []string{
		filepath.Join(root, "agents", "alpha", "agent.toml"),
	}, root)

	require.Len(t, changed, 1)
	assert.Equal(t, "alpha", changed[0].Name)
}

func TestChangedAgentsNoMatches(t *testing.T) {
	root := t.TempDir()
	agents := fakeAgents(t, root, "agents/alpha")

	changed := ChangedAgents(agents, []string{"README.md", "scripts/build.sh"}, root)
	assert.Empty(t, changed)
}

func TestChangedAgentsSiblingPrefixIsNotContained(t *testing.T) {
	root := t.TempDir()
	agents := fakeAgents(t, root, "agents/alpha")

	// "agents/alpha-extras" shares a string prefix with "agents/alpha" but
	// is a different directory.
	changed := ChangedAgents(agents, []string{"agents/alpha-extras/file.go"}, root)
	assert.Empty(t, changed)
}

func TestChangedAgentsNoFiles(t *testing.T) {
	root := t.TempDir()
	agents := fakeAgents(t, root, "agents/alpha")

	assert.Empty(t, ChangedAgents(agents, nil, root))
}

func TestResolveChangedFilesExplicitList(t *testing.T) {
	detector := &stubDetector{files: []string{"from-git.go"}, inRepo: true}

	files, err := ResolveChangedFiles(context.Background(), detector, "/ws", "origin/main",
		[]string{"agents/alpha/src/agent.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"agents/alpha/src/agent.go"}, files)
	assert.Zero(t, detector.calls)
}

func TestResolveChangedFilesAsksDetector(t *testing.T) {
	detector := &stubDetector{files: []string{"agents/alpha/src/agent.go"}, inRepo: true}

	files, err := ResolveChangedFiles(context.Background(), detector, "/ws", "origin/release", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"agents/alpha/src/agent.go"}, files)
	assert.Equal(t, "origin/release", detector.baseRef)

	// A lone "." is the placeholder for "everything changed since the base".
	_, err = ResolveChangedFiles(context.Background(), detector, "/ws", "origin/release", []string{"."})
	require.NoError(t, err)
	assert.Equal(t, 2, detector.calls)
}

func TestResolveChangedFilesOutsideRepository(t *testing.T) {
	detector := &stubDetector{inRepo: false}

	_, err := ResolveChangedFiles(context.Background(), detector, "/ws", "origin/main", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not inside a git work tree")
	assert.Zero(t, detector.calls)
}
