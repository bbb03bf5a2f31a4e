package render

import (
	"fmt"
	"strings"

	"github.com/example/mdxgen/internal/config"
	"github.com/example/mdxgen/internal/model"
)

type indexCard struct {
	category model.Category
	title    string
	href     string
	summary  string
}

var categoryRoles = map[model.Category]string{
	model.CategoryClasses:    "own long-lived state. Create one instance and share it.",
	model.CategoryHooks:      "bind that state to React components and re-render them on change.",
	model.CategoryComponents: "are ready-made React building blocks.",
	model.CategoryFunctions:  "are stateless helpers that can be called from anywhere.",
	model.CategoryInterfaces: "describe the option and result shapes passed between the other parts.",
	model.CategoryTypes:      "name the unions and aliases used in signatures.",
	model.CategoryEnums:      "list the fixed sets of values accepted by options.",
	model.CategoryConstants:  "expose defaults and limits.",
}

// renderIndex builds index.mdx: a card per document grouped by category,
// followed by the architecture overview and common patterns sections.
func renderIndex(snap model.Snapshot, pkg config.Package, cards []indexCard) Document {
	w := newWriter(1)
	w.frontMatter(frontMatter{
		Title:        pkg.DisplayName,
		SidebarTitle: "Overview",
		Description:  "API reference for " + pkg.DisplayName + ".",
		Icon:         pkg.Navigation.Icon,
	})
	w.paragraph(fmt.Sprintf("Reference for every exported declaration of `%s`, generated from its JSDoc comments.", pkg.Name))

	for _, c := range model.Categories {
		var group []indexCard
		for _, card := range cards {
			if card.category == c {
				group = append(group, card)
			}
		}
		if len(group) == 0 {
			continue
		}
		w.heading(1, CategoryTitle(c))
		w.open("CardGroup", " cols={2}")
		for _, card := range group {
			w.component("Card", attr("title", card.title)+attr("href", card.href), inlineText(card.summary))
		}
		w.close("CardGroup")
	}

	w.architecture(snap, pkg)
	w.patterns(snap, pkg)
	return Document{Path: IndexFile, Title: pkg.DisplayName, Content: w.String()}
}

func singular(c model.Category, n int) string {
	name := string(c)
	if n == 1 {
		if strings.HasSuffix(name, "sses") {
			return strings.TrimSuffix(name, "es")
		}
		return strings.TrimSuffix(name, "s")
	}
	return name
}

func joinWords(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func (w *writer) architecture(snap model.Snapshot, pkg config.Package) {
	counts := snap.Counts()
	var parts []string
	for _, c := range model.Categories {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, singular(c, n)))
		}
	}

	w.heading(1, "Architecture overview")
	if len(parts) == 0 {
		w.paragraph(fmt.Sprintf("`%s` does not export any documented declarations yet.", pkg.Name))
		return
	}
	w.paragraph(fmt.Sprintf("`%s` exports %s.", pkg.Name, joinWords(parts)))

	var roles []string
	for _, c := range model.Categories {
		if counts[c] > 0 {
			roles = append(roles, fmt.Sprintf("**%s** %s", CategoryTitle(c), categoryRoles[c]))
		}
	}
	w.list(roles)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (w *writer) patterns(snap model.Snapshot, pkg config.Package) {
	if len(snap.Declarations) == 0 {
		return
	}
	w.lang = "javascript"
	w.heading(1, "Common patterns")
	w.open("Steps", "")

	seen := map[string]bool{}
	var imports []string
	for _, d := range snap.Declarations {
		if d.Kind == model.KindInterface || d.Kind == model.KindTypeAlias || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		imports = append(imports, d.Name)
		if len(imports) == 3 {
			break
		}
	}
	if len(imports) > 0 {
		w.open("Step", attr("title", "Import what you need"))
		w.sb.WriteString("\n")
		w.code(w.lang, "", fmt.Sprintf("import { %s } from \"%s\";", strings.Join(imports, ", "), pkg.Name))
		w.close("Step")
	}

	if classes := snap.ByCategory(model.CategoryClasses); len(classes) > 0 {
		name := classes[0].Name
		w.open("Step", attr("title", "Create an instance"))
		w.sb.WriteString("\n")
		w.code(w.lang, "", fmt.Sprintf("const %s = new %s();", lowerFirst(name), name))
		w.close("Step")
	}

	if hooks := snap.ByCategory(model.CategoryHooks); len(hooks) > 0 {
		w.open("Step", attr("title", "Use the hooks"))
		w.sb.WriteString("\n")
		w.paragraph(fmt.Sprintf("Call `%s` from a function component. Hooks follow the usual React rules.", hooks[0].Name))
		w.close("Step")
	}

	w.open("Step", attr("title", "Read the reference"))
	w.sb.WriteString("\n")
	w.paragraph("Each card above links to the full signature, parameters and examples.")
	w.close("Step")

	w.close("Steps")
}
