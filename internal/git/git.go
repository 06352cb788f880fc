package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git implements ChangeDetector using the git CLI.
type Git struct {
	// gitPath is the path to the git executable
	gitPath string
}

// NewGit creates a new Git instance.
// It verifies that git is available on the system.
func NewGit(ctx context.Context) (*Git, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}

	// Verify git works
	cmd := exec.CommandContext(ctx, gitPath, "version")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git command failed: %w", err)
	}

	return &Git{gitPath: gitPath}, nil
}

// IsRepository reports whether path is inside a git work tree.
func (g *Git) IsRepository(ctx context.Context, path string) bool {
	cmd := exec.CommandContext(ctx, g.gitPath, "-C", path, "rev-parse", "--is-inside-work-tree")
	output, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(output)) == "true"
}

// ChangedFiles returns the paths changed relative to baseRef, as reported by
// git diff from the repository root.
//
// It first tries a three-dot diff against baseRef, then falls back to the
// previous commit. The fallback matters in shallow CI checkouts where the
// base ref is not available. An empty list with a nil error means no changes
// were detected by any candidate.
func (g *Git) ChangedFiles(ctx context.Context, repoPath, baseRef string) ([]string, error) {
	candidates := [][]string{
		{"-C", repoPath, "diff", "--name-only", baseRef + "...HEAD", "--"},
		{"-C", repoPath, "diff", "--name-only", "HEAD~1", "--"},
	}

	for _, args := range candidates {
		cmd := exec.CommandContext(ctx, g.gitPath, args...)
		output, err := cmd.Output()
		if err != nil {
			continue
		}
		trimmed := strings.TrimSpace(string(output))
		if trimmed == "" {
			continue
		}
		return strings.Split(trimmed, "\n"), nil
	}

	return nil, nil
}
