// Package scaffold creates the directory skeleton for a new agent.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/mod/module"

	"github.com/pmalarme/agentctl/internal/workspace"
)

// namePattern constrains agent names to safe directory components.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Options configures a new agent.
type Options struct {
	// Name is the agent directory and default manifest name.
	Name string

	// Module is an optional module path recorded in the manifest.
	Module string

	// ParentDir is where the agent directory is created, relative to the
	// workspace root unless absolute. Defaults to "agents".
	ParentDir string
}

// templateData is the rendering context for the scaffold templates.
type templateData struct {
	Name      string
	Module    string
	Underline string
}

// Result describes what was created.
type Result struct {
	// Dir is the new agent directory.
	Dir string

	// Files lists the created files, relative to Dir.
	Files []string

	// MemberMatch is false when no workspace member pattern matches the
	// new directory, meaning agents.toml needs a manual edit.
	MemberMatch bool
}

// Create scaffolds a new agent inside the workspace.
func Create(ws *workspace.Workspace, opts Options) (*Result, error) {
	if !namePattern.MatchString(opts.Name) {
		return nil, fmt.Errorf("invalid agent name %q: must start with a lowercase letter and contain only lowercase letters, digits, '-' and '_'", opts.Name)
	}
	if opts.Module != "" {
		if err := module.CheckPath(opts.Module); err != nil {
			return nil, fmt.Errorf("invalid module path %q: %w", opts.Module, err)
		}
	}

	parent := opts.ParentDir
	if parent == "" {
		parent = "agents"
	}
	if !filepath.IsAbs(parent) {
		parent = filepath.Join(ws.Root, parent)
	}

	dir := filepath.Join(parent, opts.Name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("agent directory %s already exists", dir)
	}

	data := templateData{
		Name:      opts.Name,
		Module:    opts.Module,
		Underline: strings.Repeat("=", len(opts.Name)),
	}

	files := []struct {
		rel  string
		tmpl string
	}{
		{workspace.AgentManifestName, agentManifestTemplate},
		{"README.md", readmeTemplate},
		{filepath.Join("docs", "source", "index.rst"), docsIndexTemplate},
	}

	created := make([]string, 0, len(files)+1)
	for _, file := range files {
		if err := renderFile(filepath.Join(dir, file.rel), file.tmpl, data); err != nil {
			return nil, err
		}
		created = append(created, file.rel)
	}

	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", srcDir, err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, ".gitkeep"), nil, 0644); err != nil {
		return nil, fmt.Errorf("failed to create src/.gitkeep: %w", err)
	}
	created = append(created, filepath.Join("src", ".gitkeep"))

	return &Result{
		Dir:         dir,
		Files:       created,
		MemberMatch: memberMatches(ws, dir),
	}, nil
}

// renderFile renders a template to path, creating parent directories.
func renderFile(path, tmpl string, data templateData) error {
	parsed, err := template.New(filepath.Base(path)).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template for %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := parsed.Execute(file, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

// memberMatches reports whether any workspace member pattern covers dir.
func memberMatches(ws *workspace.Workspace, dir string) bool {
	rel, err := filepath.Rel(ws.Root, dir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range ws.Manifest.Workspace.Members {
		if ok, err := filepath.Match(filepath.ToSlash(pattern), rel); err == nil && ok {
			return true
		}
		if filepath.ToSlash(filepath.Clean(pattern)) == rel {
			return true
		}
	}
	return false
}
