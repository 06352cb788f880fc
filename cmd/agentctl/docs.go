package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pmalarme/agentctl/internal/docs"
)

var (
	docsSource        string
	docsOutput        string
	docsUnifiedSource string
	docsUnifiedOutput string
	docsAgentsOnly    bool
	docsUnifiedOnly   bool
	docsAgents        []string
	docsBuilder       string
	docsJobs          int
	docsWatch         bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Build per-agent and unified documentation sites",
	Long: `Build HTML documentation for the workspace.

Two kinds of sites are built by default:
  - one site per agent, from each agent's docs source directory
  - a unified site from the shared source at the workspace root

For each site the generated-index cache (_autosummary) under the source is
cleared, the output directory is recreated from scratch, and the builder is
invoked as "<builder> -b html <source> <output>". Agents without a docs
source are skipped with a warning.

Relative --source/--output paths resolve against each agent directory;
relative --unified-source/--unified-output paths resolve against the root.

Example:
  agentctl docs
  agentctl docs --agents-only --agents agent1
  agentctl docs --unified-only --unified-output site/
  agentctl docs --watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if docsAgentsOnly && docsUnifiedOnly {
			fmt.Fprintf(os.Stderr, "Error: cannot set both --agents-only and --unified-only\n")
			os.Exit(1)
		}

		ws, cfg, err := loadWorkspace()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		builder := docsBuilder
		if !cmd.Flags().Changed("builder") && cfg.Docs.Builder != "" {
			builder = cfg.Docs.Builder
		}
		jobs := docsJobs
		if !cmd.Flags().Changed("jobs") && cfg.Docs.Jobs > 0 {
			jobs = cfg.Docs.Jobs
		}

		b, err := docs.NewBuilder(ws, docs.Config{
			Builder:       builder,
			Source:        docsSource,
			Output:        docsOutput,
			UnifiedSource: docsUnifiedSource,
			UnifiedOutput: docsUnifiedOutput,
			BuildAgents:   !docsUnifiedOnly,
			BuildUnified:  !docsAgentsOnly,
			AgentFilter:   docsAgents,
			Jobs:          jobs,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := cmd.Context()
		if docsWatch {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			if err := b.Watch(ctx); err != nil && ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := b.Build(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating documentation: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	docsCmd.Flags().StringVar(&docsSource, "source", "", "Per-agent docs source directory (relative to each agent)")
	docsCmd.Flags().StringVar(&docsOutput, "output", "", "Per-agent build output directory (relative to each agent)")
	docsCmd.Flags().StringVar(&docsUnifiedSource, "unified-source", "", "Shared docs source (relative to the root)")
	docsCmd.Flags().StringVar(&docsUnifiedOutput, "unified-output", "", "Shared build output (relative to the root)")
	docsCmd.Flags().BoolVar(&docsAgentsOnly, "agents-only", false, "Build only per-agent docs")
	docsCmd.Flags().BoolVar(&docsUnifiedOnly, "unified-only", false, "Build only unified docs")
	docsCmd.Flags().StringSliceVar(&docsAgents, "agents", nil, "Limit doc build to specific agent directory names")
	docsCmd.Flags().StringVar(&docsBuilder, "builder", "", "Documentation generator command (default sphinx-build)")
	docsCmd.Flags().IntVar(&docsJobs, "jobs", 1, "Concurrent per-agent builds")
	docsCmd.Flags().BoolVar(&docsWatch, "watch", false, "Rebuild when docs sources change")
	rootCmd.AddCommand(docsCmd)
}
