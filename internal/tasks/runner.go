package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/pmalarme/agentctl/internal/workspace"
)

// TaskError reports a task that exited non-zero in an agent.
type TaskError struct {
	Agent    string
	Task     string
	ExitCode int
	Err      error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed in %s (exit %d): %v", e.Task, e.Agent, e.ExitCode, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Runner executes agent manifest tasks.
type Runner struct {
	// Stdout and Stderr receive the child process output.
	// They default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Env entries are appended to the inherited environment.
	Env []string
}

// NewRunner creates a Runner writing to the standard streams.
func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// RunTask runs the named task in each agent that defines it, in discovery
// order. Agents without the task are reported and skipped. The first failing
// task stops the run and is returned as a *TaskError.
func (r *Runner) RunTask(ctx context.Context, agents []*workspace.Agent, task string) error {
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, agent := range agents {
		command, ok := agent.Task(task)
		if !ok {
			fmt.Fprintf(r.stdout(), "%s\n", yellow(fmt.Sprintf("Task %s not found in %s", task, agent.Name)))
			continue
		}

		fmt.Fprintf(r.stdout(), "%s\n", cyan(fmt.Sprintf("Running task %s in %s", task, agent.Name)))
		if err := r.runCommand(ctx, agent, task, command); err != nil {
			return err
		}
	}

	return nil
}

// runCommand executes a task command in the agent directory.
// The command string is split on whitespace; tasks that need shell features
// should invoke the shell explicitly in their manifest.
func (r *Runner) runCommand(ctx context.Context, agent *workspace.Agent, task, command string) error {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return fmt.Errorf("task %s in %s has an empty command", task, agent.Name)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = agent.Dir
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	cmd.Env = append(os.Environ(), r.Env...)

	if err := cmd.Run(); err != nil {
		exitCode := 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return &TaskError{Agent: agent.Name, Task: task, ExitCode: exitCode, Err: err}
	}
	return nil
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
