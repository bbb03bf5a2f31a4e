package generator

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/locator"
	"github.com/example/mdxgen/internal/log"
)

const debounceDelay = 100 * time.Millisecond

// Watch runs the pipeline once and then again after every change to a
// source file, until ctx is done. Bursts of events within debounceDelay
// trigger a single run. onRun receives the outcome of every run.
func (g *Generator) Watch(ctx context.Context, onRun func(*Summary, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, "create watcher")
	}
	defer func() { _ = watcher.Close() }()

	roots := g.watchRoots()
	if len(roots) == 0 {
		return errors.Errorf(errors.KindConfig, "package %q has no existing source paths to watch", g.pkg.Name)
	}
	for _, root := range roots {
		addTree(watcher, root)
	}
	log.Info("watching sources", "package", g.pkg.Name, "roots", len(roots))

	run := func() {
		summary, err := g.Run(ctx)
		onRun(summary, err)
	}
	run()

	var debounceTimer *time.Timer
	trigger := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					addTree(watcher, event.Name)
				}
			}
			if !relevant(event) {
				continue
			}
			log.Debug("source changed", "path", event.Name, "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case <-trigger:
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return locator.IsSourceFile(event.Name)
}

// watchRoots returns the existing directories that hold the package
// sources. Glob source paths are watched from their static prefix.
func (g *Generator) watchRoots() []string {
	seen := map[string]bool{}
	var roots []string
	for _, sp := range g.pkg.SourcePaths {
		full := sp
		if !filepath.IsAbs(full) {
			full = filepath.Join(g.opts.BaseDir, sp)
		}
		if i := strings.IndexAny(full, "*?[{"); i >= 0 {
			full = filepath.Dir(full[:i])
		} else if info, err := os.Stat(full); err == nil && !info.IsDir() {
			full = filepath.Dir(full)
		}
		if _, err := os.Stat(full); err != nil {
			log.Warn("cannot watch source path", "path", sp, "err", err)
			continue
		}
		if !seen[full] {
			seen[full] = true
			roots = append(roots, full)
		}
	}
	return roots
}

func addTree(watcher *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil || !de.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(de.Name(), ".") || de.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			log.Warn("cannot watch directory", "path", path, "err", err)
		}
		return nil
	})
}
