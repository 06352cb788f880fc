package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Agent is a loaded workspace member.
type Agent struct {
	// Dir is the absolute path to the agent directory.
	Dir string

	// Name is the agent name from its manifest, defaulting to the
	// directory base name.
	Name string

	// Module is the optional import/module path declared in the manifest.
	Module string

	tasks map[string]string
}

// agentManifest is the on-disk shape of agent.toml.
type agentManifest struct {
	Agent struct {
		Name   string `toml:"name"`
		Module string `toml:"module"`
	} `toml:"agent"`

	// Include names another TOML file whose tasks are merged in.
	// The path is relative to the manifest that declares it.
	Include string `toml:"include"`

	Tasks map[string]string `toml:"tasks"`
}

// LoadAgent reads the agent manifest in dir.
func LoadAgent(dir string) (*Agent, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve agent directory %s: %w", dir, err)
	}

	manifestPath := filepath.Join(absDir, AgentManifestName)
	manifest, err := readAgentManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	name := manifest.Agent.Name
	if name == "" {
		name = filepath.Base(absDir)
	}

	tasks, err := collectTasks(manifestPath, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	return &Agent{
		Dir:    absDir,
		Name:   name,
		Module: manifest.Agent.Module,
		tasks:  tasks,
	}, nil
}

// Task returns the command for a named task and whether it is defined.
func (a *Agent) Task(name string) (string, bool) {
	command, ok := a.tasks[name]
	return command, ok
}

// HasTask reports whether the agent defines the named task.
func (a *Agent) HasTask(name string) bool {
	_, ok := a.tasks[name]
	return ok
}

// TaskNames returns the agent's task names, sorted.
func (a *Agent) TaskNames() []string {
	names := make([]string, 0, len(a.tasks))
	for name := range a.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func readAgentManifest(path string) (*agentManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent manifest %s: %w", path, err)
	}
	var manifest agentManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse agent manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// collectTasks gathers tasks from a manifest and any included file.
// Included tasks are merged first so the including file wins on conflict.
// A missing include file is skipped, and visited guards against cycles.
func collectTasks(path string, visited map[string]bool) (map[string]string, error) {
	clean := filepath.Clean(path)
	if visited[clean] {
		return map[string]string{}, nil
	}
	visited[clean] = true

	manifest, err := readAgentManifest(clean)
	if err != nil {
		return nil, err
	}

	tasks := make(map[string]string)

	if manifest.Include != "" {
		includePath := manifest.Include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(filepath.Dir(clean), includePath)
		}
		if _, err := os.Stat(includePath); err == nil {
			included, err := collectTasks(includePath, visited)
			if err != nil {
				return nil, err
			}
			for name, command := range included {
				tasks[name] = command
			}
		}
	}

	for name, command := range manifest.Tasks {
		tasks[name] = command
	}

	return tasks, nil
}
