package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestName is the root workspace manifest file name.
	ManifestName = "agents.toml"

	// AgentManifestName is the per-agent manifest file name.
	AgentManifestName = "agent.toml"
)

// Manifest is the root workspace manifest (agents.toml).
type Manifest struct {
	Workspace MembersConfig `toml:"workspace"`
	Docs      DocsConfig    `toml:"docs"`
}

// MembersConfig lists workspace member patterns and exclusions.
// Members are glob patterns relative to the workspace root, e.g. "agents/*".
type MembersConfig struct {
	Members []string `toml:"members"`
	Exclude []string `toml:"exclude"`
}

// DocsConfig holds documentation build defaults from the root manifest.
// All values are optional; the docs builder fills in defaults.
type DocsConfig struct {
	// Builder is the documentation generator command (default "sphinx-build").
	Builder string `toml:"builder"`

	// Source is the per-agent docs source directory, relative to each agent.
	Source string `toml:"source"`

	// Output is the per-agent build output directory, relative to each agent.
	Output string `toml:"output"`

	// UnifiedSource is the shared docs source, relative to the root.
	UnifiedSource string `toml:"unified_source"`

	// UnifiedOutput is the shared build output, relative to the root.
	UnifiedOutput string `toml:"unified_output"`

	// Env is merged into the builder's environment.
	Env map[string]string `toml:"env"`
}

// Workspace is a loaded monorepo workspace rooted at a directory
// containing agents.toml.
type Workspace struct {
	Root     string
	Manifest *Manifest
}

// Load reads and parses the workspace manifest under root.
func Load(root string) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root %s: %w", root, err)
	}

	manifestPath := filepath.Join(absRoot, ManifestName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace manifest %s: %w", manifestPath, err)
	}

	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse workspace manifest %s: %w", manifestPath, err)
	}

	return &Workspace{Root: absRoot, Manifest: &manifest}, nil
}

// FindRoot walks up from start looking for a directory containing the
// workspace manifest. Returns the directory or an error if none is found.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ManifestName, start)
		}
		dir = parent
	}
}

// Agents expands the workspace member patterns into agent directories.
//
// A member pattern may name a directory or be a glob. Directories matched by
// an exclude pattern are dropped, and only directories that contain an agent
// manifest survive. The result is sorted by path, so discovery order is
// deterministic.
func (w *Workspace) Agents() ([]*Agent, error) {
	dirs, err := w.expandPatterns(w.Manifest.Workspace.Members)
	if err != nil {
		return nil, err
	}

	excluded, err := w.expandPatterns(w.Manifest.Workspace.Exclude)
	if err != nil {
		return nil, err
	}
	excludeSet := make(map[string]bool, len(excluded))
	for _, dir := range excluded {
		excludeSet[dir] = true
	}

	var agents []*Agent
	for _, dir := range dirs {
		if excludeSet[dir] {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, AgentManifestName)); err != nil {
			continue
		}
		agent, err := LoadAgent(dir)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].Dir < agents[j].Dir })
	return agents, nil
}

// FilterAgents returns the subset of agents whose manifest name or directory
// base name is in names. An empty names list returns agents unchanged.
func FilterAgents(agents []*Agent, names []string) []*Agent {
	if len(names) == 0 {
		return agents
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var filtered []*Agent
	for _, agent := range agents {
		if wanted[agent.Name] || wanted[filepath.Base(agent.Dir)] {
			filtered = append(filtered, agent)
		}
	}
	return filtered
}

// expandPatterns resolves member/exclude patterns to absolute, cleaned
// directory paths inside the workspace. Patterns that would escape the root
// are rejected.
func (w *Workspace) expandPatterns(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		if filepath.IsAbs(pattern) {
			return nil, fmt.Errorf("workspace member %q must be relative to the root", pattern)
		}

		var matches []string
		if strings.ContainsAny(pattern, "*?[") {
			globbed, err := filepath.Glob(filepath.Join(w.Root, pattern))
			if err != nil {
				return nil, fmt.Errorf("invalid workspace member pattern %q: %w", pattern, err)
			}
			matches = globbed
		} else {
			matches = []string{filepath.Join(w.Root, pattern)}
		}

		for _, match := range matches {
			clean := filepath.Clean(match)
			rel, err := filepath.Rel(w.Root, clean)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return nil, fmt.Errorf("workspace member %q escapes the workspace root", pattern)
			}
			if !seen[clean] {
				seen[clean] = true
				dirs = append(dirs, clean)
			}
		}
	}

	return dirs, nil
}
