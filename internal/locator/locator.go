// Package locator resolves package source paths to a concrete file list.
package locator

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/log"
)

// DefaultFilePatterns is used when a package declares no file patterns.
var DefaultFilePatterns = []string{"*.{js,jsx,ts,tsx}"}

var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

// Result is the outcome of a Locate call.
type Result struct {
	// Files are absolute, deduplicated, in first-seen order.
	Files []string
	// Missing lists source paths that matched nothing on disk.
	Missing []string
}

// Locator expands source paths relative to a base directory.
type Locator struct {
	baseDir  string
	patterns []glob.Glob
	seen     map[string]bool
	result   Result
}

// Locate expands sourcePaths (files, directories or globs) relative to
// baseDir. Files inside directories are kept when they match one of
// filePatterns. Missing paths are logged and recorded, never fatal.
func Locate(baseDir string, sourcePaths, filePatterns []string) (Result, error) {
	if len(filePatterns) == 0 {
		filePatterns = DefaultFilePatterns
	}
	l := &Locator{baseDir: baseDir, seen: map[string]bool{}}
	for _, p := range filePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return Result{}, errors.Wrapf(err, errors.KindConfig, "invalid file pattern %q", p)
		}
		l.patterns = append(l.patterns, g)
	}

	for _, sp := range sourcePaths {
		if err := l.expand(sp); err != nil {
			return Result{}, err
		}
	}
	return l.result, nil
}

func (l *Locator) expand(sourcePath string) error {
	full := sourcePath
	if !filepath.IsAbs(full) {
		full = filepath.Join(l.baseDir, sourcePath)
	}

	if hasMeta(sourcePath) {
		return l.expandGlob(sourcePath, full)
	}

	info, err := os.Stat(full)
	if err != nil {
		l.missing(sourcePath, err)
		return nil
	}
	if info.IsDir() {
		return l.walkDir(full)
	}
	l.add(full)
	return nil
}

func (l *Locator) expandGlob(sourcePath, full string) error {
	pattern := filepath.ToSlash(full)
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return errors.Wrapf(err, errors.KindConfig, "invalid source path %q", sourcePath)
	}

	root := staticRoot(pattern)
	if _, err := os.Stat(root); err != nil {
		l.missing(sourcePath, err)
		return nil
	}

	matched := false
	err = filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if de.IsDir() && path != root && skipDir(de.Name()) {
			return filepath.SkipDir
		}
		if !g.Match(filepath.ToSlash(path)) {
			return nil
		}
		matched = true
		if de.IsDir() {
			if err := l.walkDir(path); err != nil {
				return err
			}
			return filepath.SkipDir
		}
		l.add(path)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.KindPath, "walk %s", root)
	}
	if !matched {
		l.missing(sourcePath, nil)
	}
	return nil
}

func (l *Locator) walkDir(dir string) error {
	err := filepath.WalkDir(dir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("cannot read path", "path", path, "err", err)
			return nil
		}
		if de.IsDir() {
			if path != dir && skipDir(de.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if l.matchesPattern(filepath.ToSlash(rel)) {
			l.add(path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.KindPath, "walk %s", dir)
	}
	return nil
}

// matchesPattern matches rel against the file patterns. Patterns without a
// slash are matched against the base name only.
func (l *Locator) matchesPattern(rel string) bool {
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	for _, g := range l.patterns {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

func (l *Locator) add(path string) {
	if !IsSourceFile(path) {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if l.seen[abs] {
		return
	}
	l.seen[abs] = true
	l.result.Files = append(l.result.Files, abs)
}

func (l *Locator) missing(sourcePath string, err error) {
	if err != nil {
		log.Warn("source path not found, skipping", "path", sourcePath, "err", err)
	} else {
		log.Warn("source path matched no files, skipping", "path", sourcePath)
	}
	l.result.Missing = append(l.result.Missing, sourcePath)
}

// IsSourceFile reports whether path is a JS/TS source file that is not a test.
func IsSourceFile(path string) bool {
	if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	slashed := filepath.ToSlash(path)
	return !strings.Contains(slashed, ".test.") && !strings.Contains(slashed, ".spec.")
}

func skipDir(name string) bool {
	return name == "node_modules" || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// staticRoot returns the longest leading directory of pattern that holds no
// glob metacharacters.
func staticRoot(pattern string) string {
	segs := strings.Split(pattern, "/")
	var root []string
	for _, s := range segs {
		if hasMeta(s) {
			break
		}
		root = append(root, s)
	}
	r := strings.Join(root, "/")
	if r == "" {
		if strings.HasPrefix(pattern, "/") {
			return "/"
		}
		return "."
	}
	return filepath.FromSlash(r)
}
