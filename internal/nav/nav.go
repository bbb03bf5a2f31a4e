// Package nav patches a docs navigation manifest (docs.json or mint.json)
// so that it links the pages generated for one package.
package nav

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/tailscale/hujson"

	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/log"
	"github.com/example/mdxgen/internal/model"
)

// Group is a nested navigation group of generated pages.
type Group struct {
	Title string
	Pages []string
}

// Entry describes the navigation of one generated package.
type Entry struct {
	// Section is the title of the top-level group the pages live under.
	Section string
	Icon    string
	// OutputPath is the page prefix every generated page starts with.
	OutputPath string
	Pages      []string
	Groups     []Group
}

func (e Entry) prefix() string {
	return strings.Trim(filepath.ToSlash(e.OutputPath), "/") + "/"
}

// IndexPage returns the page id of the package index.
func (e Entry) IndexPage() string {
	return e.prefix() + "index"
}

// Update reads the manifest at path, replaces the entries previously
// generated for the package with e and writes the manifest back.
// Comments and trailing commas are accepted on input; output is plain
// indented JSON with key order preserved.
func Update(path string, e Entry) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return errors.Wrapf(err, errors.KindConfig, "read navigation manifest %s", path)
	}

	out, err := Patch(data, e)
	if err != nil {
		return errors.Wrapf(err, errors.KindConfig, "patch navigation manifest %s", path)
	}
	if bytes.Equal(out, data) {
		log.Debug("navigation manifest unchanged", "path", path)
		return nil
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrapf(err, errors.KindInternal, "write navigation manifest %s", path)
	}
	log.Info("updated navigation", "path", path, "section", e.Section)
	return nil
}

// Patch applies e to manifest data and returns the new manifest.
func Patch(data []byte, e Entry) ([]byte, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "parse manifest")
	}

	root := orderedmap.New()
	root.SetEscapeHTML(false)
	if err := json.Unmarshal(std, root); err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "manifest must be a JSON object")
	}

	p := &patcher{entry: e, prefix: e.prefix()}
	navigation, _ := root.Get("navigation")
	updated, err := p.navigation(navigation)
	if err != nil {
		return nil, err
	}
	root.Set("navigation", updated)

	if redirects, ok := root.Get("redirects"); ok {
		root.Set("redirects", dedupeRedirects(redirects))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "encode manifest")
	}
	return buf.Bytes(), nil
}

// object unwraps the map representations orderedmap produces for nested
// JSON objects.
func object(v any) (orderedmap.OrderedMap, bool) {
	switch m := v.(type) {
	case orderedmap.OrderedMap:
		return m, true
	case *orderedmap.OrderedMap:
		if m != nil {
			return *m, true
		}
	}
	return orderedmap.OrderedMap{}, false
}

func list(m orderedmap.OrderedMap, key string) ([]any, bool, error) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false, nil
	}
	l, isList := v.([]any)
	if !isList {
		return nil, true, errors.Errorf(errors.KindConfig, "%q must be an array", key)
	}
	return l, true, nil
}

type patcher struct {
	entry  Entry
	prefix string
	placed bool
}

// navigation handles the three manifest shapes: a list of groups, an
// object with "groups", and an object with "tabs" each holding groups.
func (p *patcher) navigation(v any) (any, error) {
	if v == nil {
		m := orderedmap.New()
		m.Set("groups", p.finish(nil))
		return *m, nil
	}
	if groups, ok := v.([]any); ok {
		return p.finish(p.pages(groups)), nil
	}

	m, ok := object(v)
	if !ok {
		return nil, errors.New(errors.KindConfig, `"navigation" must be an array or an object`)
	}

	groups, found, err := list(m, "groups")
	if err != nil {
		return nil, err
	}
	if found {
		m.Set("groups", p.finish(p.pages(groups)))
		return m, nil
	}

	tabs, found, err := list(m, "tabs")
	if err != nil {
		return nil, err
	}
	if found && len(tabs) > 0 {
		for i, tab := range tabs {
			tm, ok := object(tab)
			if !ok {
				continue
			}
			groups, found, err := list(tm, "groups")
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			tm.Set("groups", p.pages(groups))
			tabs[i] = tm
		}
		if !p.placed {
			if tm, ok := object(tabs[0]); ok {
				groups, _, _ := list(tm, "groups")
				tm.Set("groups", p.finish(groups))
				tabs[0] = tm
			}
		}
		m.Set("tabs", tabs)
		return m, nil
	}

	m.Set("groups", p.finish(nil))
	return m, nil
}

// finish appends a new section to groups when no existing one matched.
func (p *patcher) finish(groups []any) []any {
	if p.placed {
		return groups
	}
	p.placed = true
	section := orderedmap.New()
	section.SetEscapeHTML(false)
	section.Set("group", p.entry.Section)
	if p.entry.Icon != "" {
		section.Set("icon", p.entry.Icon)
	}
	section.Set("pages", p.entries())
	return append(groups, *section)
}

// pages prunes generated entries from a page list, recursing into nested
// groups, and places the package entries in the matching section.
func (p *patcher) pages(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if p.generated(s) {
				continue
			}
			out = append(out, s)
			continue
		}
		g, ok := object(item)
		if !ok {
			out = append(out, item)
			continue
		}
		if p.stale(g) {
			continue
		}
		out = append(out, p.group(g))
	}
	return out
}

func (p *patcher) group(g orderedmap.OrderedMap) orderedmap.OrderedMap {
	items, found, err := list(g, "pages")
	if !found || err != nil {
		return g
	}
	first := p.firstGenerated(items)
	kept := p.pages(items)

	title, _ := g.Get("group")
	if title == p.entry.Section && !p.placed {
		p.placed = true
		if first < 0 || first > len(kept) {
			first = len(kept)
		}
		kept = append(kept[:first:first], append(p.entries(), kept[first:]...)...)
		if _, ok := g.Get("icon"); !ok && p.entry.Icon != "" {
			g.Set("icon", p.entry.Icon)
		}
	}
	g.Set("pages", kept)
	return g
}

// firstGenerated returns the position, among the entries that survive
// pruning, of the first generated entry, or -1.
func (p *patcher) firstGenerated(items []any) int {
	pos := 0
	for _, item := range items {
		if s, ok := item.(string); ok && p.generated(s) {
			return pos
		}
		if g, ok := object(item); ok && p.stale(g) {
			return pos
		}
		pos++
	}
	return -1
}

// generated reports whether page belongs to a previous rendering: the
// package index, a category page, or a page in a category directory.
// Hand-written pages elsewhere under the output path are kept.
func (p *patcher) generated(page string) bool {
	rel, ok := strings.CutPrefix(strings.TrimPrefix(page, "/"), p.prefix)
	if !ok {
		return false
	}
	if rel == "index" {
		return true
	}
	dir, _, _ := strings.Cut(rel, "/")
	for _, c := range model.Categories {
		if dir == string(c) {
			return true
		}
	}
	return false
}

// stale reports whether g is a nested group left by a previous run. The
// package section itself is never stale.
func (p *patcher) stale(g orderedmap.OrderedMap) bool {
	title, isGroup := g.Get("group")
	return isGroup && title != p.entry.Section && p.generatedGroup(g)
}

// generatedGroup reports whether every page of g, at any depth, was
// generated for the package.
func (p *patcher) generatedGroup(g orderedmap.OrderedMap) bool {
	items, _, err := list(g, "pages")
	if err != nil || len(items) == 0 {
		return false
	}
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if !p.generated(v) {
				return false
			}
		default:
			nested, ok := object(v)
			if !ok || !p.generatedGroup(nested) {
				return false
			}
		}
	}
	return true
}

func (p *patcher) entries() []any {
	out := []any{p.entry.IndexPage()}
	for _, page := range p.entry.Pages {
		out = append(out, page)
	}
	for _, g := range p.entry.Groups {
		if len(g.Pages) == 0 {
			continue
		}
		pages := make([]any, 0, len(g.Pages))
		for _, page := range g.Pages {
			pages = append(pages, page)
		}
		group := orderedmap.New()
		group.SetEscapeHTML(false)
		group.Set("group", g.Title)
		group.Set("pages", pages)
		out = append(out, *group)
	}
	return out
}

// dedupeRedirects keeps one redirect per source: the last one wins and
// takes the position of the first.
func dedupeRedirects(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	seen := map[string]int{}
	out := make([]any, 0, len(items))
	for _, item := range items {
		m, ok := object(item)
		if !ok {
			out = append(out, item)
			continue
		}
		src, _ := m.Get("source")
		source, ok := src.(string)
		if !ok {
			out = append(out, item)
			continue
		}
		if i, dup := seen[source]; dup {
			log.Debug("dropping duplicate redirect", "source", source)
			out[i] = item
			continue
		}
		seen[source] = len(out)
		out = append(out, item)
	}
	return out
}
