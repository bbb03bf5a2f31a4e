// Package jsdoc parses /** ... */ comment blocks into model.ParsedJSDoc.
package jsdoc

import (
	"regexp"
	"strings"

	"github.com/example/mdxgen/internal/model"
)

var tagLineRe = regexp.MustCompile(`^@(\w+)(?:\s+(.*))?$`)

// block is one tag occurrence with its accumulated content lines.
type block struct {
	name  string
	lines []string
}

// content joins the block lines with newlines, trimming blank edges.
func (b block) content() string {
	return strings.TrimSpace(strings.Join(b.lines, "\n"))
}

// inline joins the block lines into a single space-separated line.
func (b block) inline() string {
	parts := make([]string, 0, len(b.lines))
	for _, l := range b.lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}

// Parse parses a JSDoc comment. The /** and */ delimiters are optional.
func Parse(raw string) model.ParsedJSDoc {
	doc := model.ParsedJSDoc{Visibility: model.Public}

	lines := cleanLines(raw)
	var desc []string
	var blocks []block
	for _, line := range lines {
		if m := tagLineRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			blocks = append(blocks, block{name: m[1], lines: []string{m[2]}})
			continue
		}
		if len(blocks) == 0 {
			desc = append(desc, line)
			continue
		}
		last := &blocks[len(blocks)-1]
		last.lines = append(last.lines, line)
	}

	doc.Description = joinDescription(desc)
	for _, b := range blocks {
		applyTag(&doc, b)
	}
	if doc.Summary == "" {
		doc.Summary = Summarize(doc.Description)
	}
	return doc
}

func applyTag(doc *model.ParsedJSDoc, b block) {
	switch strings.ToLower(b.name) {
	case "param", "arg", "argument":
		doc.Params = append(doc.Params, parseParam(b.inline()))
	case "returns", "return":
		typ, desc := splitBracedType(b.inline())
		doc.Returns = &model.Returns{Type: typ, Description: desc}
	case "throws", "exception":
		typ, desc := splitBracedType(b.inline())
		if typ == "" {
			typ = "Error"
		}
		doc.Throws = append(doc.Throws, model.Throws{Type: typ, Description: desc})
	case "example":
		doc.Examples = append(doc.Examples, parseExample(b.lines))
	case "tutorial":
		doc.Tutorials = appendNonEmpty(doc.Tutorials, b.inline())
	case "see":
		doc.See = appendNonEmpty(doc.See, b.inline())
	case "fires", "emits":
		doc.Fires = appendNonEmpty(doc.Fires, b.inline())
	case "listens":
		doc.Listens = appendNonEmpty(doc.Listens, b.inline())
	case "todo":
		doc.Todos = appendNonEmpty(doc.Todos, b.inline())
	case "deprecated":
		doc.Deprecated = &model.Deprecation{Message: b.content()}
	case "since":
		doc.Since = b.inline()
	case "public":
		doc.Visibility = model.Public
	case "private":
		doc.Visibility = model.Private
	case "protected":
		doc.Visibility = model.Protected
	case "access":
		switch strings.ToLower(b.inline()) {
		case "private":
			doc.Visibility = model.Private
		case "protected":
			doc.Visibility = model.Protected
		default:
			doc.Visibility = model.Public
		}
	case "async":
		doc.Async = true
	case "hideconstructor":
		doc.HideConstructor = true
	case "readonly":
		doc.Readonly = true
	case "type":
		typ, _ := splitBracedType(b.inline())
		doc.Type = typ
	case "default", "defaultvalue":
		doc.Default = b.inline()
	case "description", "desc":
		doc.Description = joinDescription([]string{doc.Description, b.content()})
	case "summary":
		doc.Summary = b.inline()
	default:
		doc.Unknown = append(doc.Unknown, model.Tag{Name: b.name, Value: b.content()})
	}
}

// cleanLines strips the comment delimiters and the leading " * " margin.
func cleanLines(raw string) []string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	switch {
	case strings.HasPrefix(s, "/**"):
		s = s[3:]
	case strings.HasPrefix(s, "/*"):
		s = s[2:]
	}
	s = strings.TrimSuffix(s, "*/")

	rawLines := strings.Split(s, "\n")
	out := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimLeft(line, " \t")
		if strings.HasPrefix(line, "*") {
			line = line[1:]
			if strings.HasPrefix(line, " ") {
				line = line[1:]
			}
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return out
}

func joinDescription(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func appendNonEmpty(list []string, v string) []string {
	if v == "" {
		return list
	}
	return append(list, v)
}
