// Package render turns an extracted declaration snapshot into MDX documents.
package render

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/example/mdxgen/internal/config"
	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/model"
)

// IndexFile is the name of the package landing page.
const IndexFile = "index.mdx"

// Document is one rendered file. Path is slash-separated and relative to
// the package output directory.
type Document struct {
	Path    string
	Title   string
	Content string
}

// Page returns the navigation page id of the document under outputPath,
// e.g. "docs/api/classes/counter".
func (d Document) Page(outputPath string) string {
	return path.Join(strings.Trim(filepathToSlash(outputPath), "/"), strings.TrimSuffix(d.Path, ".mdx"))
}

// RenderStrategy renders a snapshot into a set of documents, always
// including the package index.
type RenderStrategy interface {
	Name() string
	Render(snap model.Snapshot, pkg config.Package) ([]Document, error)
}

// ForLayout returns the strategy for a configured layout name.
func ForLayout(layout string) (RenderStrategy, error) {
	switch layout {
	case "", config.LayoutPages:
		return PagesStrategy{}, nil
	case config.LayoutAggregate:
		return AggregateStrategy{}, nil
	default:
		return nil, errors.Errorf(errors.KindConfig, "unknown layout %q (valid: %s, %s)", layout, config.LayoutPages, config.LayoutAggregate)
	}
}

func checkPackage(pkg config.Package) error {
	if strings.TrimSpace(pkg.OutputPath) == "" {
		return errors.Errorf(errors.KindRender, "package %q has no output path", pkg.Name)
	}
	return nil
}

// CategoryTitle returns the display title of a category, e.g. "Classes".
func CategoryTitle(c model.Category) string {
	return cases.Title(language.English).String(string(c))
}

// Slug converts a declaration name to a lower-case, hyphenated file name:
// "RoomProvider" becomes "room-provider" and "MAX_ROOMS" becomes "max-rooms".
func Slug(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	parts := strings.FieldsFunc(sb.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}

// slugger hands out unique slugs, suffixing repeats with -2, -3, ...
type slugger struct {
	used map[string]bool
}

func newSlugger() *slugger {
	return &slugger{used: map[string]bool{}}
}

func (s *slugger) next(name string) string {
	base := Slug(name)
	if base == "" {
		base = "item"
	}
	candidate := base
	for n := 2; s.used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	s.used[candidate] = true
	return candidate
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// href returns the site link for a page id.
func href(page string) string {
	return "/" + strings.TrimPrefix(page, "/")
}
