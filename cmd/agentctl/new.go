package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pmalarme/agentctl/internal/scaffold"
)

var (
	newModule string
	newParent string
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new agent",
	Long: `Create a new agent directory with the standard layout.

This creates agents/<name>/ containing:
  - agent.toml         manifest with default test and lint tasks
  - README.md
  - docs/source/       documentation source with an index page
  - src/               implementation directory

The agent is picked up automatically when a workspace member pattern in
agents.toml matches the new directory; otherwise a hint is printed.

Example:
  agentctl new my-agent
  agentctl new my-agent --module github.com/example/my-agent`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws, _, err := loadWorkspace()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		result, err := scaffold.Create(ws, scaffold.Options{
			Name:      args[0],
			Module:    newModule,
			ParentDir: newParent,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Created agent %s\n\n", green("✓"), args[0])
		for _, file := range result.Files {
			fmt.Printf("  %s\n", gray(file))
		}
		fmt.Println()

		if !result.MemberMatch {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s %s is not matched by any workspace member pattern; add it to agents.toml\n",
				yellow("⚠"), result.Dir)
		}
	},
}

func init() {
	newCmd.Flags().StringVar(&newModule, "module", "", "Module path recorded in the agent manifest")
	newCmd.Flags().StringVar(&newParent, "dir", "", "Parent directory for the agent (default agents/)")
	rootCmd.AddCommand(newCmd)
}
