package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmalarme/agentctl/internal/git"
	"github.com/pmalarme/agentctl/internal/workspace"
)

// ResolveChangedFiles returns the explicitly listed files unchanged. When no
// files are listed, or the single placeholder "." is given, it asks the
// detector for a diff against baseRef instead; root must be inside a git work
// tree in that case.
func ResolveChangedFiles(ctx context.Context, detector git.ChangeDetector, root, baseRef string, files []string) ([]string, error) {
	if len(files) > 0 && !(len(files) == 1 && files[0] == ".") {
		return files, nil
	}
	if !detector.IsRepository(ctx, root) {
		return nil, fmt.Errorf("%s is not inside a git work tree", root)
	}
	return detector.ChangedFiles(ctx, root, baseRef)
}

// ChangedAgents returns the agents that contain at least one of the changed
// files. Relative file paths are resolved against root. The result preserves
// the incoming agent order.
func ChangedAgents(agents []*workspace.Agent, changedFiles []string, root string) []*workspace.Agent {
	matched := make(map[string]bool)

	for _, file := range changedFiles {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		path = filepath.Clean(path)

		for _, agent := range agents {
			if matched[agent.Dir] {
				continue
			}
			if containsPath(agent.Dir, path) {
				matched[agent.Dir] = true
				break
			}
		}
	}

	var changed []*workspace.Agent
	for _, agent := range agents {
		if matched[agent.Dir] {
			changed = append(changed, agent)
		}
	}
	return changed
}

// containsPath reports whether path is dir or lives under dir.
func containsPath(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
