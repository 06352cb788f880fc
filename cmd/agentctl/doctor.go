package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pmalarme/agentctl/internal/docs"
)

var doctorVerbose bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check workspace and environment health",
	Long: `Run health checks to diagnose common workspace and environment issues.

This command checks for:
- A readable, valid workspace manifest (agents.toml)
- Discoverable agents with valid agent manifests
- git availability
- The documentation builder on PATH
- Per-agent docs source directories

Exit codes:
  0 - All checks passed
  1 - One or more checks failed (but not critical)
  2 - Critical failures that prevent agentctl from running`,
	Run: func(cmd *cobra.Command, args []string) {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running agentctl health checks...\n\n")

		var failures []string
		var warnings []string

		// Check 1: Workspace manifest
		fmt.Printf("%s Workspace manifest\n", cyan("→"))
		ws, cfg, err := loadWorkspace()
		if err != nil {
			fmt.Printf("  %s Cannot load workspace\n", red("✗"))
			if doctorVerbose {
				fmt.Printf("    Error: %v\n", err)
			}
			fmt.Printf("\n%s Critical failures prevent agentctl from running\n", red("✗"))
			os.Exit(2)
		}
		fmt.Printf("  %s Workspace root: %s\n", green("✓"), ws.Root)

		// Check 2: Agent discovery
		fmt.Printf("%s Agent discovery\n", cyan("→"))
		agents, err := ws.Agents()
		if err != nil {
			failures = append(failures, fmt.Sprintf("Agent discovery failed: %v", err))
			fmt.Printf("  %s Agent discovery failed\n", red("✗"))
			if doctorVerbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else if len(agents) == 0 {
			warnings = append(warnings, "No agents discovered")
			fmt.Printf("  %s No agents matched the workspace members\n", yellow("⚠"))
		} else {
			fmt.Printf("  %s Discovered %d agents\n", green("✓"), len(agents))
			if doctorVerbose {
				for _, agent := range agents {
					fmt.Printf("    - %s (%d tasks)\n", agent.Name, len(agent.TaskNames()))
				}
			}
		}

		// Check 3: git availability
		fmt.Printf("%s git\n", cyan("→"))
		if gitPath, err := exec.LookPath("git"); err != nil {
			failures = append(failures, "git not found in PATH")
			fmt.Printf("  %s git not found in PATH (needed for 'agentctl changed')\n", red("✗"))
		} else {
			fmt.Printf("  %s %s\n", green("✓"), gitPath)
		}

		// Check 4: Documentation builder
		builder := cfg.Docs.Builder
		if builder == "" {
			builder = ws.Manifest.Docs.Builder
		}
		if builder == "" {
			builder = docs.DefaultBuilder
		}
		fmt.Printf("%s Documentation builder\n", cyan("→"))
		if builderPath, err := exec.LookPath(builder); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s not found in PATH", builder))
			fmt.Printf("  %s %s not found in PATH (needed for 'agentctl docs')\n", yellow("⚠"), builder)
		} else {
			fmt.Printf("  %s %s\n", green("✓"), builderPath)
		}

		// Check 5: Docs sources
		fmt.Printf("%s Docs sources\n", cyan("→"))
		source := ws.Manifest.Docs.Source
		if source == "" {
			source = docs.DefaultSource
		}
		missing := 0
		for _, agent := range agents {
			sourceDir := source
			if !filepath.IsAbs(sourceDir) {
				sourceDir = filepath.Join(agent.Dir, sourceDir)
			}
			if _, err := os.Stat(sourceDir); err != nil {
				missing++
				if doctorVerbose {
					fmt.Printf("    - %s has no docs source at %s\n", agent.Name, sourceDir)
				}
			}
		}
		switch {
		case len(agents) == 0:
			// Nothing to inspect; agent discovery already reported why.
			fmt.Printf("  %s Skipped (no agents discovered)\n", yellow("⚠"))
		case missing > 0:
			warnings = append(warnings, fmt.Sprintf("%d agents without docs sources", missing))
			fmt.Printf("  %s %d of %d agents have no docs source\n", yellow("⚠"), missing, len(agents))
		default:
			fmt.Printf("  %s All agents have docs sources\n", green("✓"))
		}

		// Summary
		fmt.Println()
		switch {
		case len(failures) > 0:
			fmt.Printf("%s %d check(s) failed, %d warning(s)\n", red("✗"), len(failures), len(warnings))
			os.Exit(1)
		case len(warnings) > 0:
			fmt.Printf("%s All checks passed with %d warning(s)\n", yellow("⚠"), len(warnings))
		default:
			fmt.Printf("%s All checks passed\n", green("✓"))
		}
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false, "Show detailed check output")
	rootCmd.AddCommand(doctorCmd)
}
