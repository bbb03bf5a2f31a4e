package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/mdxgen/internal/config"
	"github.com/example/mdxgen/internal/model"
)

var mdLinkRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)

// plainSummary returns the summary with inline tags reduced to their
// labels, for front matter and other plain-text slots.
func plainSummary(doc model.ParsedJSDoc) string {
	return strings.Join(strings.Fields(mdLinkRe.ReplaceAllString(ReplaceLinks(doc.Summary), "$1")), " ")
}

// PagesStrategy writes one document per declaration, grouped into a
// directory per category.
type PagesStrategy struct{}

func (PagesStrategy) Name() string { return config.LayoutPages }

func (PagesStrategy) Render(snap model.Snapshot, pkg config.Package) ([]Document, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}

	var placed []placement
	for _, c := range model.Categories {
		slugs := newSlugger()
		for _, d := range snap.ByCategory(c) {
			doc := Document{Path: fmt.Sprintf("%s/%s.mdx", c, slugs.next(d.Name)), Title: d.Name}
			placed = append(placed, placement{category: c, decl: d, doc: doc, href: href(doc.Page(pkg.OutputPath))})
		}
	}
	links := linkTable(placed)

	var (
		docs  []Document
		cards []indexCard
	)
	for _, p := range placed {
		w := newWriter(1)
		w.links = links
		w.frontMatter(frontMatter{Title: p.decl.Name, Description: plainSummary(p.decl.Doc)})
		w.writeDeclaration(p.decl)
		p.doc.Content = w.String()

		docs = append(docs, p.doc)
		cards = append(cards, p.card())
	}
	return append([]Document{renderIndex(snap, pkg, cards)}, docs...), nil
}

// placement records where a declaration is rendered.
type placement struct {
	category model.Category
	decl     model.Declaration
	doc      Document
	anchor   string
	href     string
}

func (p placement) card() indexCard {
	return indexCard{category: p.category, title: p.decl.Name, href: p.href, summary: p.decl.Doc.Summary}
}

// linkTable maps declaration names to their site links. The first
// declaration of a name wins.
func linkTable(placed []placement) map[string]string {
	links := make(map[string]string, len(placed))
	for _, p := range placed {
		if _, ok := links[p.decl.Name]; !ok {
			links[p.decl.Name] = p.href
		}
	}
	return links
}

// AggregateStrategy writes one document per category, with a section and
// anchor per declaration.
type AggregateStrategy struct{}

func (AggregateStrategy) Name() string { return config.LayoutAggregate }

func (AggregateStrategy) Render(snap model.Snapshot, pkg config.Package) ([]Document, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}

	var placed []placement
	for _, c := range model.Categories {
		doc := Document{Path: string(c) + ".mdx", Title: CategoryTitle(c)}
		page := href(doc.Page(pkg.OutputPath))
		slugs := newSlugger()
		for _, d := range snap.ByCategory(c) {
			anchor := slugs.next(d.Name)
			placed = append(placed, placement{category: c, decl: d, doc: doc, anchor: anchor, href: page + "#" + anchor})
		}
	}
	links := linkTable(placed)

	var (
		docs  []Document
		cards []indexCard
	)
	for i := 0; i < len(placed); {
		doc := placed[i].doc
		w := newWriter(2)
		w.links = links
		w.frontMatter(frontMatter{
			Title:       doc.Title,
			Description: fmt.Sprintf("%s reference for %s.", doc.Title, pkg.DisplayName),
		})
		for ; i < len(placed) && placed[i].doc.Path == doc.Path; i++ {
			p := placed[i]
			w.sb.WriteString(fmt.Sprintf("<a id=\"%s\" />\n\n", p.anchor))
			w.heading(0, p.decl.Name)
			w.writeDeclaration(p.decl)
			cards = append(cards, p.card())
		}
		doc.Content = w.String()
		docs = append(docs, doc)
	}
	return append([]Document{renderIndex(snap, pkg, cards)}, docs...), nil
}
