package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listTask string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered agents and their tasks",
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

		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		count := 0
		for _, agent := range agents {
			if listTask != "" && !agent.HasTask(listTask) {
				continue
			}
			count++
			fmt.Printf("%s %s\n", cyan(agent.Name), gray(agent.Dir))
			if names := agent.TaskNames(); len(names) > 0 {
				fmt.Printf("  tasks: %s\n", strings.Join(names, ", "))
			}
		}

		if count == 0 {
			if listTask != "" {
				fmt.Printf("No agents define task %s\n", listTask)
			} else {
				fmt.Println("No agents discovered")
			}
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listTask, "task", "", "Only show agents defining this task")
	rootCmd.AddCommand(listCmd)
}
