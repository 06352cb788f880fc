package git

import (
	"context"
)

// ChangeDetector provides the git queries the task tooling needs.
// This interface is designed to be implementation-agnostic,
// allowing for testing with mock implementations.
type ChangeDetector interface {
	// ChangedFiles returns files changed relative to baseRef.
	// Paths are relative to the repository root.
	ChangedFiles(ctx context.Context, repoPath, baseRef string) ([]string, error)

	// IsRepository reports whether path is inside a git work tree.
	IsRepository(ctx context.Context, path string) bool
}
