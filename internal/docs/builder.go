// Package docs orchestrates documentation builds for the workspace.
//
// Two kinds of sites are built: one per agent, from each agent's local docs
// source directory, and a unified site from the shared source at the
// workspace root. Both shell out to an external documentation generator
// (sphinx-build by default); this package only manages discovery, directory
// hygiene, and the build environment.
package docs

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/pmalarme/agentctl/internal/workspace"
)

// Defaults for the builder configuration.
const (
	DefaultBuilder       = "sphinx-build"
	DefaultSource        = "docs/source"
	DefaultOutput        = "docs/generated"
	DefaultUnifiedSource = "docs/source"
	DefaultUnifiedOutput = "docs/generated"

	// autosummaryDir is the generated-index cache that must be cleared
	// before each build so navigation stays in sync with the sources.
	autosummaryDir = "_autosummary"
)

// agentPathsEnv carries the workspace root and agent directories to the
// builder, path-list separated, so doc sources can locate agent code.
const agentPathsEnv = "AGENTCTL_AGENT_PATHS"

// Config controls a documentation build run.
type Config struct {
	// Builder is the documentation generator command.
	Builder string

	// Source is the per-agent docs source, relative to each agent
	// directory unless absolute.
	Source string

	// Output is the per-agent build output, relative to each agent
	// directory unless absolute.
	Output string

	// UnifiedSource is the shared docs source, relative to the workspace
	// root unless absolute.
	UnifiedSource string

	// UnifiedOutput is the shared build output, relative to the workspace
	// root unless absolute.
	UnifiedOutput string

	// BuildAgents and BuildUnified select which sites are built.
	BuildAgents  bool
	BuildUnified bool

	// AgentFilter limits per-agent builds to the named agent directories.
	AgentFilter []string

	// Jobs bounds concurrent per-agent builds. Zero or one builds
	// sequentially in discovery order.
	Jobs int

	// Env entries (KEY=VALUE) are appended to the builder environment.
	Env []string

	// Stdout and Stderr receive builder output and progress lines.
	Stdout io.Writer
	Stderr io.Writer
}

// applyDefaults fills zero values from the workspace manifest, then from the
// package defaults.
func (c *Config) applyDefaults(manifest *workspace.DocsConfig) {
	if c.Builder == "" {
		c.Builder = manifest.Builder
	}
	if c.Builder == "" {
		c.Builder = DefaultBuilder
	}
	if c.Source == "" {
		c.Source = manifest.Source
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.Output == "" {
		c.Output = manifest.Output
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.UnifiedSource == "" {
		c.UnifiedSource = manifest.UnifiedSource
	}
	if c.UnifiedSource == "" {
		c.UnifiedSource = DefaultUnifiedSource
	}
	if c.UnifiedOutput == "" {
		c.UnifiedOutput = manifest.UnifiedOutput
	}
	if c.UnifiedOutput == "" {
		c.UnifiedOutput = DefaultUnifiedOutput
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
}

// Builder runs documentation builds for a workspace.
type Builder struct {
	ws  *workspace.Workspace
	cfg Config
}

// NewBuilder creates a Builder for the workspace.
// Config zero values are filled from the workspace manifest and defaults.
func NewBuilder(ws *workspace.Workspace, cfg Config) (*Builder, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	if !cfg.BuildAgents && !cfg.BuildUnified {
		return nil, fmt.Errorf("nothing to build: both agent and unified sites are disabled")
	}
	cfg.applyDefaults(&ws.Manifest.Docs)
	return &Builder{ws: ws, cfg: cfg}, nil
}

// Build runs the configured documentation builds.
// Per-agent builds run first, then the unified site.
func (b *Builder) Build(ctx context.Context) error {
	agents, err := b.ws.Agents()
	if err != nil {
		return err
	}
	agents = workspace.FilterAgents(agents, b.cfg.AgentFilter)

	env := b.buildEnv(agents)

	if b.cfg.BuildAgents {
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(b.cfg.Stdout, "%s Discovered agents:\n", cyan("→"))
		for _, agent := range agents {
			fmt.Fprintf(b.cfg.Stdout, "  - %s\n", agent.Name)
		}

		if err := b.buildAgents(ctx, agents, env); err != nil {
			return err
		}
	}

	if b.cfg.BuildUnified {
		source := resolvePath(b.ws.Root, b.cfg.UnifiedSource)
		output := resolvePath(b.ws.Root, b.cfg.UnifiedOutput)
		if err := b.buildTarget(ctx, "unified", source, output, env); err != nil {
			return err
		}
	}

	return nil
}

// buildAgents builds each agent site, bounded by cfg.Jobs.
func (b *Builder) buildAgents(ctx context.Context, agents []*workspace.Agent, env []string) error {
	group, groupCtx := errgroup.WithContext(ctx)
	jobs := b.cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}
	group.SetLimit(jobs)

	for _, agent := range agents {
		agent := agent
		group.Go(func() error {
			source := resolvePath(agent.Dir, b.cfg.Source)
			output := resolvePath(agent.Dir, b.cfg.Output)
			return b.buildTarget(groupCtx, agent.Name, source, output, env)
		})
	}

	return group.Wait()
}

// buildTarget builds one site: clears the generated-index cache, resets the
// output directory, and invokes the builder. A missing source directory is a
// warning, not an error.
func (b *Builder) buildTarget(ctx context.Context, name, sourceDir, outputDir string, env []string) error {
	if _, err := os.Stat(sourceDir); err != nil {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(b.cfg.Stderr, "%s\n", yellow(fmt.Sprintf("Skipping %s: no docs source at %s", name, sourceDir)))
		return nil
	}

	if err := os.RemoveAll(filepath.Join(sourceDir, autosummaryDir)); err != nil {
		return fmt.Errorf("failed to clear %s cache for %s: %w", autosummaryDir, name, err)
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to clear output directory %s: %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(b.cfg.Stdout, "%s Building %s docs: %s -> %s\n", cyan("→"), name, sourceDir, outputDir)

	cmd := exec.CommandContext(ctx, b.cfg.Builder, "-b", "html", sourceDir, outputDir)
	cmd.Dir = b.ws.Root
	cmd.Env = env
	cmd.Stdout = b.cfg.Stdout
	cmd.Stderr = b.cfg.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s build failed for %s: %w", b.cfg.Builder, name, err)
	}
	return nil
}

// buildEnv composes the builder environment: the inherited environment, the
// agent path list, manifest env entries, then config overrides.
func (b *Builder) buildEnv(agents []*workspace.Agent) []string {
	paths := []string{b.ws.Root}
	for _, agent := range agents {
		paths = append(paths, agent.Dir)
	}

	env := os.Environ()
	env = append(env, agentPathsEnv+"="+strings.Join(paths, string(os.PathListSeparator)))

	manifestEnv := b.ws.Manifest.Docs.Env
	keys := make([]string, 0, len(manifestEnv))
	for key := range manifestEnv {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+manifestEnv[key])
	}

	env = append(env, b.cfg.Env...)
	return env
}

// sourceDirs returns the existing docs source directories the build reads
// from, for the watch mode.
func (b *Builder) sourceDirs() ([]string, error) {
	agents, err := b.ws.Agents()
	if err != nil {
		return nil, err
	}
	agents = workspace.FilterAgents(agents, b.cfg.AgentFilter)

	var dirs []string
	if b.cfg.BuildAgents {
		for _, agent := range agents {
			dirs = append(dirs, resolvePath(agent.Dir, b.cfg.Source))
		}
	}
	if b.cfg.BuildUnified {
		dirs = append(dirs, resolvePath(b.ws.Root, b.cfg.UnifiedSource))
	}

	var existing []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			existing = append(existing, dir)
		}
	}
	return existing, nil
}

// resolvePath resolves path against base unless it is absolute.
func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
