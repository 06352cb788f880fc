// Package mdcheck validates fenced Go code blocks in Markdown files.
//
// Each ```go fence is extracted with its starting line number, written to a
// temporary file, and handed to a checker command (gofmt -e by default, a
// pure syntax check). Failures are reported with file:line context so the
// fence can be found in the source document.
package mdcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Block is a fenced code block extracted from a Markdown file.
type Block struct {
	// Code is the fence body.
	Code string

	// Line is the 1-based line number of the first code line.
	Line int
}

// Checker validates Go fences in Markdown files.
type Checker struct {
	// Command is the checker argv; the block file path is appended.
	// Defaults to {"gofmt", "-e"}.
	Command []string

	// Exclude lists substrings; files whose path contains one are skipped.
	Exclude []string

	// Stdout receives progress and failure reports.
	Stdout io.Writer
}

// NewChecker creates a Checker with the default command, writing to stdout.
func NewChecker() *Checker {
	return &Checker{Command: []string{"gofmt", "-e"}, Stdout: os.Stdout}
}

// ExpandPatterns expands glob patterns into Markdown file paths.
// With literal set, patterns are treated as literal paths and filtered to
// .md files instead. The result is sorted and deduplicated.
func ExpandPatterns(patterns []string, literal bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if literal {
			if strings.HasSuffix(pattern, ".md") && !seen[pattern] {
				seen[pattern] = true
				files = append(files, pattern)
			}
			continue
		}

		matches, err := expandPattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// expandPattern handles one glob, walking the tree for ** patterns since
// filepath.Glob has no recursive wildcard.
func expandPattern(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "**") {
		return filepath.Glob(pattern)
	}

	prefix, suffix, _ := strings.Cut(filepath.ToSlash(pattern), "**")
	root := filepath.FromSlash(strings.TrimSuffix(prefix, "/"))
	if root == "" {
		root = "."
	}
	suffix = strings.TrimPrefix(suffix, "/")

	var matches []string
	walkErr := filepath.WalkDir(root, func(p string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		ok, err := matchSuffix(suffix, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return matches, nil
}

// matchSuffix reports whether the trailing components of relPath match the
// pattern. The ** already consumed any number of leading directories, so the
// pattern (which may span directories, e.g. "docs/*.md") is anchored at the
// end of the path.
func matchSuffix(pattern, relPath string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(relPath, "/")
	if len(pathParts) < len(patternParts) {
		return false, nil
	}
	tail := strings.Join(pathParts[len(pathParts)-len(patternParts):], "/")
	return path.Match(pattern, tail)
}

// ExtractBlocks returns the ```go fences in a Markdown file.
func ExtractBlocks(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	var blocks []Block
	inBlock := false
	var current []string

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inBlock && (trimmed == "```go" || strings.HasPrefix(trimmed, "```go ")):
			inBlock = true
			current = nil
		case inBlock && strings.HasPrefix(trimmed, "```"):
			inBlock = false
			blocks = append(blocks, Block{
				Code: strings.Join(current, "\n") + "\n",
				Line: i + 1 - len(current),
			})
		case inBlock:
			current = append(current, line)
		}
	}

	return blocks, nil
}

// CheckFiles checks every Go fence in the given Markdown files.
// Returns an error naming the files that contained failing blocks.
func (c *Checker) CheckFiles(ctx context.Context, paths []string) error {
	var failedFiles []string

	for _, path := range paths {
		if c.excluded(path) {
			fmt.Fprintf(c.stdout(), "Skipping %s (matches exclude pattern)\n", path)
			continue
		}

		failed, err := c.checkFile(ctx, path)
		if err != nil {
			return err
		}
		if failed {
			failedFiles = append(failedFiles, path)
		}
	}

	if len(failedFiles) > 0 {
		return fmt.Errorf("syntax errors found in the following files:\n%s", strings.Join(failedFiles, "\n"))
	}
	return nil
}

// checkFile runs the checker over each fence in one file.
func (c *Checker) checkFile(ctx context.Context, path string) (failed bool, err error) {
	blocks, err := ExtractBlocks(path)
	if err != nil {
		return false, err
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, block := range blocks {
		location := fmt.Sprintf("%s:%d", path, block.Line)
		fmt.Fprintf(c.stdout(), "Checking a code block in %s... ", location)

		output, blockFailed, err := c.checkBlock(ctx, block)
		if err != nil {
			fmt.Fprintf(c.stdout(), "%s\n", red("ERROR"))
			return false, err
		}
		if !blockFailed {
			fmt.Fprintf(c.stdout(), "%s\n", green("OK"))
			continue
		}

		failed = true
		fmt.Fprintf(c.stdout(), "%s\n", red("FAIL"))
		fmt.Fprintf(c.stdout(), "%s\n", gray("========================================================"))
		fmt.Fprintf(c.stdout(), "%s\n", red("Error: checker found issues in "+location))
		fmt.Fprintf(c.stdout(), "%s\n", gray("--------------------------------------------------------"))
		fmt.Fprint(c.stdout(), block.Code)
		fmt.Fprintf(c.stdout(), "\n%s output:\n%s\n", c.command()[0], red(output))
		fmt.Fprintf(c.stdout(), "%s\n", gray("========================================================"))
	}

	return failed, nil
}

// checkBlock writes a fence to a temp file and runs the checker on it. A
// non-zero checker exit reports the block as failed; an unrunnable checker
// (missing binary, permission error) is a hard error, not a block failure.
func (c *Checker) checkBlock(ctx context.Context, block Block) (output string, failed bool, err error) {
	tmp, err := os.CreateTemp("", "mdcheck-*.go")
	if err != nil {
		return "", false, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.WriteString(block.Code); err != nil {
		_ = tmp.Close()
		return "", false, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", false, fmt.Errorf("failed to close temp file: %w", err)
	}

	argv := append(append([]string{}, c.command()...), tmpPath)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	raw, runErr := cmd.CombinedOutput()
	if runErr == nil {
		return "", false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return strings.ReplaceAll(string(raw), tmpPath, "<block>"), true, nil
	}
	return "", false, fmt.Errorf("checker command %q failed to run: %w", argv[0], runErr)
}

func (c *Checker) excluded(path string) bool {
	for _, pattern := range c.Exclude {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func (c *Checker) command() []string {
	if len(c.Command) > 0 {
		return c.Command
	}
	return []string{"gofmt", "-e"}
}

func (c *Checker) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}
