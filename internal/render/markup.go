package render

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of every document.
type frontMatter struct {
	Title        string `yaml:"title"`
	SidebarTitle string `yaml:"sidebarTitle,omitempty"`
	Description  string `yaml:"description,omitempty"`
	Icon         string `yaml:"icon,omitempty"`
}

// writer accumulates MDX text. Heading levels are relative to level, so
// the same declaration body renders as a page or as an aggregate section.
type writer struct {
	sb    strings.Builder
	level int
	lang  string
	// links maps declaration names to the pages that document them.
	links map[string]string
}

func newWriter(level int) *writer {
	return &writer{level: level, lang: "javascript"}
}

func (w *writer) String() string {
	return strings.TrimRight(w.sb.String(), "\n") + "\n"
}

func (w *writer) frontMatter(fm frontMatter) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		// a struct of strings always marshals
		panic(err)
	}
	w.sb.WriteString("---\n")
	w.sb.Write(data)
	w.sb.WriteString("---\n\n")
}

func (w *writer) heading(offset int, text string) {
	level := w.level + offset
	if level > 6 {
		level = 6
	}
	w.sb.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
}

func (w *writer) paragraph(text string) {
	if text = strings.TrimSpace(text); text == "" {
		return
	}
	w.sb.WriteString(text)
	w.sb.WriteString("\n\n")
}

func (w *writer) code(lang, title, body string) {
	w.sb.WriteString("```" + lang)
	if title != "" {
		w.sb.WriteString(" " + title)
	}
	w.sb.WriteString("\n")
	w.sb.WriteString(strings.TrimRight(body, "\n"))
	w.sb.WriteString("\n```\n\n")
}

// attr renders one component attribute; empty values are omitted.
func attr(name, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, name, EscapeAttr(value))
}

// component writes <Name attrs>body</Name>, or a self-closing tag when the
// body is empty.
func (w *writer) component(name, attrs, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		w.sb.WriteString(fmt.Sprintf("<%s%s />\n\n", name, attrs))
		return
	}
	w.sb.WriteString(fmt.Sprintf("<%s%s>\n", name, attrs))
	w.sb.WriteString(body)
	w.sb.WriteString(fmt.Sprintf("\n</%s>\n\n", name))
}

func (w *writer) open(name, attrs string) {
	w.sb.WriteString(fmt.Sprintf("<%s%s>\n", name, attrs))
}

func (w *writer) close(name string) {
	w.sb.WriteString(fmt.Sprintf("</%s>\n\n", name))
}

func (w *writer) list(items []string) {
	for _, item := range items {
		w.sb.WriteString("- " + item + "\n")
	}
	w.sb.WriteString("\n")
}

// codeLanguage picks the fence language for a source file.
func codeLanguage(fileName string) string {
	lower := strings.ToLower(fileName)
	if strings.HasSuffix(lower, ".ts") || strings.HasSuffix(lower, ".tsx") {
		return "typescript"
	}
	return "javascript"
}
