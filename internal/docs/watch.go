package docs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces editor save bursts into a single rebuild.
const watchDebounce = 500 * time.Millisecond

// Watch runs an initial build, then rebuilds whenever files under the docs
// source trees change. It blocks until ctx is cancelled.
//
// Generated directories (the autosummary cache and anything under the output
// paths) are ignored so a rebuild never retriggers itself.
func (b *Builder) Watch(ctx context.Context) error {
	if err := b.Build(ctx); err != nil {
		// Keep watching after a failed build; the next save may fix it.
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(b.cfg.Stderr, "%s %v\n", red("✗"), err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs, err := b.sourceDirs()
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no docs source directories to watch")
	}

	for _, dir := range dirs {
		if err := watchTree(watcher, dir); err != nil {
			return err
		}
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(b.cfg.Stdout, "%s Watching %d docs source directories\n", cyan("→"), len(dirs))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoredPath(event.Name) {
				continue
			}
			// New subdirectories must be added to the watch set.
			if event.Op.Has(fsnotify.Create) {
				_ = watchTree(watcher, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerC = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(b.cfg.Stderr, "%s watch error: %v\n", yellow("⚠"), err)

		case <-timerC:
			timerC = nil
			fmt.Fprintf(b.cfg.Stdout, "%s Change detected, rebuilding\n", cyan("→"))
			if err := b.Build(ctx); err != nil {
				red := color.New(color.FgRed).SprintFunc()
				fmt.Fprintf(b.cfg.Stderr, "%s %v\n", red("✗"), err)
			}
		}
	}
}

// watchTree adds dir and its subdirectories to the watcher.
// Non-directories and ignored paths are skipped silently.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if ignoredPath(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// ignoredPath reports whether a path is generated output that must not
// trigger rebuilds.
func ignoredPath(path string) bool {
	base := filepath.Base(path)
	if base == autosummaryDir || strings.HasPrefix(base, ".") {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == autosummaryDir {
			return true
		}
	}
	return false
}
