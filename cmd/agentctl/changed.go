package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pmalarme/agentctl/internal/git"
	"github.com/pmalarme/agentctl/internal/tasks"
)

var changedBaseRef string

var changedCmd = &cobra.Command{
	Use:   "changed <task> [file...]",
	Short: "Run a task only in agents with changed files",
	Long: `Run a task only in the agents that contain changed files.

Changed files are taken from the command line when given. Otherwise they are
determined with git: first a diff against --base-ref, falling back to the
previous commit when the base ref is unavailable (e.g. shallow CI clones).

When nothing changed, or no agent contains a changed file, the task is
skipped and agentctl exits 0.

Example:
  agentctl changed test
  agentctl changed lint --base-ref origin/release
  agentctl changed test agents/agent1/src/agent.go`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		task := args[0]

		ws, cfg, err := loadWorkspace()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		baseRef := changedBaseRef
		if !cmd.Flags().Changed("base-ref") && cfg.BaseRef != "" {
			baseRef = cfg.BaseRef
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		changedFiles := args[1:]
		if len(changedFiles) == 0 || (len(changedFiles) == 1 && changedFiles[0] == ".") {
			g, err := git.NewGit(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			changedFiles, err = tasks.ResolveChangedFiles(ctx, g, ws.Root, baseRef, changedFiles)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		if len(changedFiles) == 0 {
			fmt.Printf("%s\n", yellow(fmt.Sprintf("No changes detected; skipping %s", task)))
			return
		}

		agents, err := ws.Agents()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		changed := tasks.ChangedAgents(agents, changedFiles, ws.Root)
		if len(changed) == 0 {
			fmt.Printf("%s\n", yellow(fmt.Sprintf("No agent projects matched the changed files; skipping %s", task)))
			return
		}

		names := make([]string, len(changed))
		for i, agent := range changed {
			names[i] = agent.Name
		}
		fmt.Printf("%s\n", cyan(fmt.Sprintf("Running %s in agents: %s", task, strings.Join(names, ", "))))

		runner := tasks.NewRunner()
		if err := runner.RunTask(ctx, changed, task); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			var taskErr *tasks.TaskError
			if errors.As(err, &taskErr) && taskErr.ExitCode > 0 {
				os.Exit(taskErr.ExitCode)
			}
			os.Exit(1)
		}
	},
}

func init() {
	changedCmd.Flags().StringVar(&changedBaseRef, "base-ref", "origin/main", "Base ref for git diff when no files are provided")
	rootCmd.AddCommand(changedCmd)
}
