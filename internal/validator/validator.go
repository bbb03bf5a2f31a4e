// Package validator checks the structure of rendered MDX documents before
// they are written.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/mdxgen/internal/errors"
)

// Issue is a single structural problem in a document.
type Issue struct {
	Line    int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

var tagRe = regexp.MustCompile(`<(/?)([A-Z][A-Za-z0-9]*)\b[^<>]*?(/?)>`)

type openTag struct {
	name string
	line int
}

// Validate returns every structural issue in content: missing or invalid
// front matter, and component tags outside code that are not closed in
// order.
func Validate(content string) []Issue {
	var issues []Issue

	lines := strings.Split(content, "\n")
	body, offset, fmIssues := frontMatter(lines)
	issues = append(issues, fmIssues...)

	var stack []openTag
	inFence := false
	for i, line := range body {
		lineNo := offset + i + 1
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range tagRe.FindAllStringSubmatch(stripInlineCode(line), -1) {
			closing, name, selfClosing := m[1] == "/", m[2], m[3] == "/"
			switch {
			case selfClosing:
			case !closing:
				stack = append(stack, openTag{name: name, line: lineNo})
			case len(stack) == 0:
				issues = append(issues, Issue{Line: lineNo, Message: fmt.Sprintf("</%s> has no opening tag", name)})
			case stack[len(stack)-1].name != name:
				top := stack[len(stack)-1]
				issues = append(issues, Issue{Line: lineNo, Message: fmt.Sprintf("</%s> closes <%s> opened on line %d", name, top.name, top.line)})
				stack = stack[:len(stack)-1]
			default:
				stack = stack[:len(stack)-1]
			}
		}
	}
	if inFence {
		issues = append(issues, Issue{Line: len(lines), Message: "unterminated code fence"})
	}
	for _, open := range stack {
		issues = append(issues, Issue{Line: open.line, Message: fmt.Sprintf("<%s> is never closed", open.name)})
	}
	return issues
}

// Check validates content and reports the issues as one render error.
func Check(path, content string) error {
	issues := Validate(content)
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(issues))
	for _, issue := range issues {
		msgs = append(msgs, issue.String())
	}
	return errors.Errorf(errors.KindRender, "%s: %s", path, strings.Join(msgs, "; "))
}

// frontMatter splits off the YAML header and checks that it has a title.
func frontMatter(lines []string) (body []string, offset int, issues []Issue) {
	if len(lines) == 0 || lines[0] != "---" {
		return lines, 0, []Issue{{Line: 1, Message: "missing front matter"}}
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return lines, 0, []Issue{{Line: 1, Message: "unterminated front matter"}}
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		issues = append(issues, Issue{Line: 2, Message: "invalid front matter: " + err.Error()})
	} else if title, _ := fm["title"].(string); strings.TrimSpace(title) == "" {
		issues = append(issues, Issue{Line: 2, Message: "front matter has no title"})
	}
	return lines[end+1:], end + 1, issues
}

func stripInlineCode(line string) string {
	if !strings.Contains(line, "`") {
		return line
	}
	var sb strings.Builder
	inCode := false
	for _, r := range line {
		if r == '`' {
			inCode = !inCode
			continue
		}
		if !inCode {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
