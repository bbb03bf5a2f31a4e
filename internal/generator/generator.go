// Package generator runs the documentation pipeline for one package:
// locate sources, extract declarations, render MDX, write the documents
// and patch the navigation manifest.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/example/mdxgen/internal/config"
	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/extractor"
	"github.com/example/mdxgen/internal/locator"
	"github.com/example/mdxgen/internal/log"
	"github.com/example/mdxgen/internal/model"
	"github.com/example/mdxgen/internal/nav"
	"github.com/example/mdxgen/internal/render"
	"github.com/example/mdxgen/internal/validator"
)

// Options controls a run.
type Options struct {
	// BaseDir is the directory source and output paths are relative to.
	BaseDir string
	// Navigation is the manifest to patch; empty skips the navigation step.
	Navigation string
	Mode       extractor.Mode
	// Layout overrides the package layout when set.
	Layout string
	// Check renders in memory and reports differences instead of writing.
	Check bool
	// Diff receives unified diffs in check mode.
	Diff io.Writer
}

// Generator generates the documentation of one package.
type Generator struct {
	pkg  config.Package
	opts Options
}

// New creates a generator for pkg.
func New(pkg config.Package, opts Options) *Generator {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.Diff == nil {
		opts.Diff = io.Discard
	}
	return &Generator{pkg: pkg, opts: opts}
}

// Run executes the pipeline. Source, path and render problems are logged
// and counted in the summary; configuration and write errors abort.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Package: g.pkg.Name}

	located, err := locator.Locate(g.opts.BaseDir, g.pkg.SourcePaths, g.pkg.FilePatterns)
	if err != nil {
		return nil, err
	}
	summary.Missing = len(located.Missing)
	log.Debug("located sources", "package", g.pkg.Name, "files", len(located.Files))

	ex := extractor.New(g.opts.Mode)
	if err := ex.ExtractFiles(ctx, located.Files); err != nil {
		return nil, err
	}
	snap := ex.Snapshot()
	summary.Files = len(snap.Files)
	summary.Skipped = len(snap.Skipped)
	summary.Counts = snap.Counts()

	docs, err := g.render(snap)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if err := validator.Check(doc.Path, doc.Content); err != nil {
			log.Warn("rendered document has structural issues", "err", err)
			summary.Invalid++
		}
	}

	if err := g.output(docs, summary); err != nil {
		return nil, err
	}
	if err := g.navigation(docs, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (g *Generator) render(snap model.Snapshot) ([]render.Document, error) {
	layout := g.opts.Layout
	if layout == "" {
		layout = g.pkg.Layout
	}
	strategy, err := render.ForLayout(layout)
	if err != nil {
		return nil, err
	}
	docs, err := strategy.Render(snap, g.pkg)
	if err != nil {
		return nil, err
	}
	log.Debug("rendered documents", "layout", strategy.Name(), "documents", len(docs))
	return docs, nil
}

// OutputDir returns the directory documents are written to.
func (g *Generator) OutputDir() string {
	if filepath.IsAbs(g.pkg.OutputPath) {
		return filepath.Clean(g.pkg.OutputPath)
	}
	return filepath.Join(g.opts.BaseDir, filepath.FromSlash(g.pkg.OutputPath))
}

func (g *Generator) output(docs []render.Document, summary *Summary) error {
	dir := g.OutputDir()
	for _, doc := range docs {
		target := filepath.Join(dir, filepath.FromSlash(doc.Path))
		current, err := os.ReadFile(target)
		if err == nil && bytes.Equal(current, []byte(doc.Content)) {
			summary.Unchanged = append(summary.Unchanged, target)
			continue
		}

		if g.opts.Check {
			summary.Drift = append(summary.Drift, target)
			if err := writeDiff(g.opts.Diff, target, string(current), doc.Content); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrapf(err, errors.KindInternal, "create %s", filepath.Dir(target))
		}
		if err := os.WriteFile(target, []byte(doc.Content), 0o644); err != nil {
			return errors.Wrapf(err, errors.KindInternal, "write %s", target)
		}
		summary.Written = append(summary.Written, target)
		log.Debug("wrote document", "path", target)
	}
	return nil
}

func writeDiff(w io.Writer, target, current, rendered string) error {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(rendered),
		FromFile: target,
		ToFile:   target + " (generated)",
		Context:  3,
	})
	if err != nil {
		return errors.Wrapf(err, errors.KindInternal, "diff %s", target)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return errors.Wrap(err, errors.KindInternal, "write diff")
	}
	return nil
}

func (g *Generator) navigation(docs []render.Document, summary *Summary) error {
	if g.opts.Navigation == "" {
		return nil
	}
	entry := NavEntry(g.pkg, docs)

	if !g.opts.Check {
		return nav.Update(g.opts.Navigation, entry)
	}

	current, err := os.ReadFile(filepath.Clean(g.opts.Navigation))
	if err != nil {
		return errors.Wrapf(err, errors.KindConfig, "read navigation manifest %s", g.opts.Navigation)
	}
	patched, err := nav.Patch(current, entry)
	if err != nil {
		return errors.Wrapf(err, errors.KindConfig, "patch navigation manifest %s", g.opts.Navigation)
	}
	if !bytes.Equal(current, patched) {
		summary.Drift = append(summary.Drift, g.opts.Navigation)
		return writeDiff(g.opts.Diff, g.opts.Navigation, string(current), string(patched))
	}
	return nil
}

// NavEntry builds the navigation entry for the rendered documents. With
// navigation groups enabled, pages in a category directory form a nested
// group titled after the category.
func NavEntry(pkg config.Package, docs []render.Document) nav.Entry {
	section := pkg.Navigation.Section
	if section == "" {
		section = pkg.DisplayName
	}
	if section == "" {
		section = pkg.Name
	}
	entry := nav.Entry{Section: section, Icon: pkg.Navigation.Icon, OutputPath: pkg.OutputPath}
	if !pkg.Navigation.Groups {
		return entry
	}

	groups := map[string]int{}
	for _, doc := range docs {
		if doc.Path == render.IndexFile {
			continue
		}
		page := doc.Page(pkg.OutputPath)
		dir, _ := path.Split(doc.Path)
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" {
			entry.Pages = append(entry.Pages, page)
			continue
		}
		i, ok := groups[dir]
		if !ok {
			i = len(entry.Groups)
			groups[dir] = i
			entry.Groups = append(entry.Groups, nav.Group{Title: render.CategoryTitle(model.Category(dir))})
		}
		entry.Groups[i].Pages = append(entry.Groups[i].Pages, page)
	}
	return entry
}

// Describe returns a one-line description of the generator for logs.
func (g *Generator) Describe() string {
	return fmt.Sprintf("%s -> %s", g.pkg.Name, g.OutputDir())
}
