package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmalarme/agentctl/internal/tasks"
	"github.com/pmalarme/agentctl/internal/workspace"
)

var runCmd = &cobra.Command{
	Use:   "run <task> [agent...]",
	Short: "Run a named task in each agent that defines it",
	Long: `Run a task from the agent manifests across the workspace.

For each discovered agent, the agent's manifest (and any included task file)
is checked for the task. Agents that define it run the task in their own
directory; agents that don't are reported and skipped. The first failing
task stops the run and its exit code becomes agentctl's exit code.

If agent names are given, only those agents are considered.

Example:
  agentctl run test
  agentctl run lint agent1 agent2`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws, _, err := loadWorkspace()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		agents, err := ws.Agents()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		agents = workspace.FilterAgents(agents, args[1:])

		runner := tasks.NewRunner()
		if err := runner.RunTask(cmd.Context(), agents, args[0]); err != nil {
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
	rootCmd.AddCommand(runCmd)
}
