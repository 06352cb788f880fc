package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmalarme/agentctl/internal/mdcheck"
)

var (
	checkMDExclude []string
	checkMDNoGlob  bool
)

var checkMDCmd = &cobra.Command{
	Use:   "check-md <pattern...>",
	Short: "Check Go code blocks in Markdown files",
	Long: `Check fenced Go code blocks in Markdown files for syntax errors.

Patterns are expanded as globs ("docs/**/*.md" walks recursively) unless
--no-glob is set, in which case they are treated as literal .md paths. Each
` + "```" + `go fence is written to a temporary file and checked with gofmt -e.
Failing blocks are reported with their file and starting line; the command
fails if any file contains a failing block.

Example:
  agentctl check-md "**/*.md" --exclude docs/generated
  agentctl check-md README.md --no-glob`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		files, err := mdcheck.ExpandPatterns(args, checkMDNoGlob)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		checker := mdcheck.NewChecker()

		// Workspace config is optional here so the command also works on
		// bare directories.
		if _, cfg, err := loadWorkspace(); err == nil {
			checker.Exclude = append(checker.Exclude, cfg.MDCheck.Exclude...)
		}
		checker.Exclude = append(checker.Exclude, checkMDExclude...)

		if err := checker.CheckFiles(cmd.Context(), files); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	checkMDCmd.Flags().StringArrayVar(&checkMDExclude, "exclude", nil, "Exclude files containing this pattern (repeatable)")
	checkMDCmd.Flags().BoolVar(&checkMDNoGlob, "no-glob", false, "Treat file arguments as literal paths (no glob expansion)")
	rootCmd.AddCommand(checkMDCmd)
}
