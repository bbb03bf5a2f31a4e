// Package extractor turns JavaScript and TypeScript sources into the
// documented declaration tree.
package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/log"
	"github.com/example/mdxgen/internal/model"
)

// Mode selects the extraction strategy.
type Mode string

const (
	// ModeAuto parses every file with tree-sitter and falls back to the
	// scanner for .js/.jsx files whose syntax tree contains errors.
	ModeAuto Mode = "auto"
	ModeAST  Mode = "ast"
	ModeScan Mode = "scan"
)

// ParseMode converts a config string to a Mode, defaulting to ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAST:
		return ModeAST, nil
	case ModeScan:
		return ModeScan, nil
	default:
		return "", errors.Errorf(errors.KindConfig, "unknown extraction mode %q (valid: auto, ast, scan)", s)
	}
}

// entry is a declaration found in a file, before export filtering.
type entry struct {
	decl     model.Declaration
	exported bool
	// aliasOf is set for identifier bindings such as `const a = b`.
	aliasOf string
}

// exportSpec is one `export { local as exported }` item, or a default export
// of an identifier.
type exportSpec struct {
	local    string
	exported string
	// reexport is true for `export { ... } from '...'`.
	reexport bool
	line     int
}

// unit is the raw extraction result of one file.
type unit struct {
	path    string
	entries []entry
	exports []exportSpec
}

func (u *unit) lookup(name string) *entry {
	for i := range u.entries {
		if u.entries[i].decl.Name == name {
			return &u.entries[i]
		}
	}
	return nil
}

// Extractor accumulates declarations across files. It is not safe for
// concurrent use; call Snapshot once extraction is complete.
type Extractor struct {
	mode    Mode
	units   []*unit
	files   []string
	skipped []model.SkippedFile
}

// New creates an extractor using the given mode.
func New(mode Mode) *Extractor {
	if mode == "" {
		mode = ModeAuto
	}
	return &Extractor{mode: mode}
}

// ExtractFiles extracts each path in order. Files that cannot be read or
// parsed are logged and recorded as skipped.
func (e *Extractor) ExtractFiles(ctx context.Context, paths []string) error {
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.ExtractFile(ctx, p); err != nil && errors.IsFatal(err) {
			return err
		}
	}
	return nil
}

// ExtractFile reads and extracts a single file. A returned error of kind
// KindSource means the file was skipped.
func (e *Extractor) ExtractFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return e.skip(path, errors.Wrap(err, errors.KindSource, "read source"))
	}
	return e.ExtractSource(ctx, path, content)
}

// ExtractSource extracts declarations from content, using path for the
// file name and language selection.
func (e *Extractor) ExtractSource(ctx context.Context, path string, content []byte) error {
	u, err := e.extract(ctx, path, content)
	if err != nil {
		return e.skip(path, err)
	}
	e.files = append(e.files, path)
	e.units = append(e.units, u)
	log.Debug("extracted file", "path", path, "declarations", len(u.entries))
	return nil
}

func (e *Extractor) extract(ctx context.Context, path string, content []byte) (*unit, error) {
	ext := strings.ToLower(filepath.Ext(path))
	plainJS := ext == ".js" || ext == ".jsx"

	if e.mode == ModeScan {
		if !plainJS {
			return nil, errors.Errorf(errors.KindSource, "scan mode only supports .js and .jsx files")
		}
		return scanSource(path, string(content)), nil
	}

	u, err := parseAST(ctx, path, content)
	if err == nil {
		return u, nil
	}
	if e.mode == ModeAuto && plainJS && errors.GetKind(err) == errors.KindSource {
		log.Debug("syntax errors in file, falling back to scanner", "path", path, "err", err)
		return scanSource(path, string(content)), nil
	}
	return nil, err
}

func (e *Extractor) skip(path string, err error) error {
	log.Warn("skipping source file", "path", path, "err", err)
	e.skipped = append(e.skipped, model.SkippedFile{Path: path, Reason: err.Error()})
	return err
}

// Snapshot resolves exports and aliases and returns an immutable copy of
// the exported declarations, in file order then source order.
func (e *Extractor) Snapshot() model.Snapshot {
	r := newResolver(e.units)
	snap := model.Snapshot{
		Files:   append([]string(nil), e.files...),
		Skipped: append([]model.SkippedFile(nil), e.skipped...),
	}
	for _, u := range e.units {
		for _, d := range r.exported(u) {
			if hidden(d.Doc) {
				continue
			}
			snap.Declarations = append(snap.Declarations, d.Clone())
		}
	}
	return snap
}

// hidden reports whether a top-level declaration is marked internal.
func hidden(doc model.ParsedJSDoc) bool {
	if doc.Visibility == model.Private {
		return true
	}
	for _, t := range doc.Unknown {
		if t.Name == "ignore" || t.Name == "internal" {
			return true
		}
	}
	return false
}
