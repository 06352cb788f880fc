package mdcheck

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractBlocks(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "doc.md", `# Title

Some prose.

`+"```go"+`
package main

func main() {}
`+"```"+`

More prose.

`+"```python"+`
print("not go")
`+"```"+`

`+"```go"+`
package other
`+"```"+`
`)

	blocks, err := ExtractBlocks(path)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, "package main\n\nfunc main() {}\n", blocks[0].Code)
	assert.Equal(t, 6, blocks[0].Line)

	assert.Equal(t, "package other\n", blocks[1].Code)
	assert.Equal(t, 18, blocks[1].Line)
}

func TestExtractBlocksNoFences(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "doc.md", "# Just prose\n")

	blocks, err := ExtractBlocks(path)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestExpandPatternsGlob(t *testing.T) {
	dir := t.TempDir()
	writeMarkdown(t, dir, "a.md", "a")
	writeMarkdown(t, dir, "b.md", "b")
	writeMarkdown(t, dir, "sub/c.md", "c")

	files, err := ExpandPatterns([]string{filepath.Join(dir, "*.md")}, false)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	// ** walks recursively.
	files, err = ExpandPatterns([]string{filepath.Join(dir, "**", "*.md")}, false)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestExpandPatternsGlobDirectorySuffix(t *testing.T) {
	dir := t.TempDir()
	writeMarkdown(t, dir, "agents/alpha/docs/c.md", "c")
	writeMarkdown(t, dir, "agents/alpha/notes/d.md", "d")
	writeMarkdown(t, dir, "agents/docs/e.md", "e")

	// The part after ** may span directories; ** itself matches zero or
	// more of them.
	files, err := ExpandPatterns([]string{filepath.Join(dir, "agents", "**", "docs", "*.md")}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "agents", "alpha", "docs", "c.md"),
		filepath.Join(dir, "agents", "docs", "e.md"),
	}, files)
}

func TestExpandPatternsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "a.md", "a")

	files, err := ExpandPatterns([]string{path, filepath.Join(dir, "*.md")}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestExpandPatternsLiteral(t *testing.T) {
	files, err := ExpandPatterns([]string{"README.md", "notes.txt", "*.md"}, true)
	require.NoError(t, err)
	// Literal mode keeps .md paths untouched and drops everything else.
	assert.Equal(t, []string{"*.md", "README.md"}, files)
}

func TestCheckFilesPassing(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "doc.md", "```go\npackage main\n```\n")

	var out bytes.Buffer
	checker := &Checker{Command: []string{"gofmt", "-e"}, Stdout: &out}

	err := checker.CheckFiles(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "OK")
}

func TestCheckFilesFailing(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "doc.md", `Intro.

`+"```go"+`
package main

func broken( {
`+"```"+`
`)

	var out bytes.Buffer
	checker := &Checker{Command: []string{"gofmt", "-e"}, Stdout: &out}

	err := checker.CheckFiles(context.Background(), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), path+":4")
}

func TestCheckFilesExclude(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "generated/doc.md", "```go\nnot even go\n```\n")

	var out bytes.Buffer
	checker := &Checker{
		Command: []string{"gofmt", "-e"},
		Exclude: []string{"generated"},
		Stdout:  &out,
	}

	err := checker.CheckFiles(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Skipping")
}

func TestCheckFilesCheckerCommandOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "doc.md", "```go\nanything\n```\n")

	var out bytes.Buffer

	// A checker that always succeeds.
	pass := &Checker{Command: []string{"true"}, Stdout: &out}
	require.NoError(t, pass.CheckFiles(context.Background(), []string{path}))

	// A checker that always fails.
	fail := &Checker{Command: []string{"false"}, Stdout: &out}
	require.Error(t, fail.CheckFiles(context.Background(), []string{path}))
}

func TestCheckFilesMissingCheckerBinary(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkdown(t, dir, "doc.md", "```go\npackage main\n```\n")

	var out bytes.Buffer
	checker := &Checker{Command: []string{"agentctl-no-such-checker"}, Stdout: &out}

	// An unrunnable checker is an error in its own right, not a verdict on
	// the block.
	err := checker.CheckFiles(context.Background(), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run")
	assert.NotContains(t, err.Error(), "syntax errors")
	assert.NotContains(t, out.String(), "FAIL")
}
