// agentctl is the workspace tool for the agent monorepo template.
//
// It discovers agent packages from the root workspace manifest and provides
// the glue the template's CI and contributors rely on: running manifest tasks
// across agents, running them only in agents touched by a change, building
// per-agent and unified documentation sites, checking Go fences in Markdown
// files, and scaffolding new agents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmalarme/agentctl/internal/config"
	"github.com/pmalarme/agentctl/internal/workspace"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootFlag string

var rootCmd = &cobra.Command{
	Use:   "agentctl",
	Short: "Workspace tooling for the agent monorepo template",
	Long: `agentctl manages a monorepo of independently packaged agent projects.

Agents are discovered through the workspace members declared in agents.toml
at the repository root. Each agent carries its own agent.toml manifest with
a name and a set of named tasks.

Common operations:
  agentctl list                 Show discovered agents and their tasks
  agentctl run test             Run the "test" task in every agent defining it
  agentctl changed lint         Run "lint" only in agents touched by a change
  agentctl docs                 Build per-agent and unified documentation
  agentctl new my-agent         Scaffold a new agent
  agentctl doctor               Check the workspace and environment`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agentctl %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Workspace root (default: nearest parent with agents.toml)")
	rootCmd.AddCommand(versionCmd)
}

// loadWorkspace resolves the workspace from --root or by walking up from the
// current directory, and loads the optional tool config next to it.
func loadWorkspace() (*workspace.Workspace, *config.Config, error) {
	root := rootFlag
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		root, err = workspace.FindRoot(cwd)
		if err != nil {
			return nil, nil, err
		}
	}

	ws, err := workspace.Load(root)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(ws.Root)
	if err != nil {
		return nil, nil, err
	}

	return ws, cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
