package render

import (
	"regexp"
	"strings"
)

var (
	bracketTutorialRe = regexp.MustCompile(`\[([^\]]*)\]\{@tutorial\s+([^}\s]+)\s*\}`)
	tutorialRe        = regexp.MustCompile(`\{@tutorial\s+([^}\s]+)\s*\}`)
	bracketLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\{@link(?:code|plain)?\s+([^}\s]+)\s*\}`)
	linkRe            = regexp.MustCompile(`\{@link(?:code|plain)?\s+([^}]*)\}`)
	schemeRe          = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	anchorStripRe     = regexp.MustCompile(`[^a-z0-9-]`)
)

// Anchor returns the in-page anchor for a link target: "#" followed by the
// lower-cased target with everything outside [a-z0-9-] removed.
func Anchor(target string) string {
	return "#" + anchorStripRe.ReplaceAllString(strings.ToLower(target), "")
}

// TutorialHref returns the site link of a named tutorial.
func TutorialHref(name string) string {
	return "/tutorials/" + name
}

func isURL(target string) bool {
	return schemeRe.MatchString(target) && (strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:"))
}

func linkTarget(target string) string {
	if isURL(target) {
		return target
	}
	return Anchor(target)
}

// ReplaceLinks substitutes inline {@link} and {@tutorial} tags with
// markdown links.
func ReplaceLinks(text string) string {
	if !strings.Contains(text, "{@") {
		return text
	}
	text = bracketTutorialRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := bracketTutorialRe.FindStringSubmatch(m)
		return "[" + sub[1] + "](" + TutorialHref(sub[2]) + ")"
	})
	text = tutorialRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := tutorialRe.FindStringSubmatch(m)
		return "[tutorial](" + TutorialHref(sub[1]) + ")"
	})
	text = bracketLinkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := bracketLinkRe.FindStringSubmatch(m)
		return "[" + sub[1] + "](" + linkTarget(sub[2]) + ")"
	})
	return linkRe.ReplaceAllStringFunc(text, func(m string) string {
		body := strings.TrimSpace(linkRe.FindStringSubmatch(m)[1])
		if body == "" {
			return m
		}
		target, label := body, ""
		if i := strings.IndexByte(body, '|'); i >= 0 {
			target, label = strings.TrimSpace(body[:i]), strings.TrimSpace(body[i+1:])
		} else if fields := strings.Fields(body); len(fields) > 1 {
			target, label = fields[0], strings.Join(fields[1:], " ")
		}
		if label == "" {
			label = target
		}
		return "[" + label + "](" + linkTarget(target) + ")"
	})
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeAttr escapes a value for use inside a component attribute.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Prose prepares free text for MDX: inline tags become links and, outside
// code spans and fences, characters MDX would read as JSX are escaped.
func Prose(text string) string {
	text = ReplaceLinks(strings.TrimSpace(text))
	if text == "" {
		return ""
	}
	var sb strings.Builder
	inFence := false
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			sb.WriteString(line)
			continue
		}
		if inFence {
			sb.WriteString(line)
			continue
		}
		sb.WriteString(escapeInline(line))
	}
	return sb.String()
}

func escapeInline(line string) string {
	var sb strings.Builder
	inCode := false
	for _, r := range line {
		if r == '`' {
			inCode = !inCode
			sb.WriteRune(r)
			continue
		}
		if inCode {
			sb.WriteRune(r)
			continue
		}
		switch r {
		case '{':
			sb.WriteString(`\{`)
		case '}':
			sb.WriteString(`\}`)
		case '<':
			sb.WriteString("&lt;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// inlineText flattens prose to one line for table cells and card bodies.
func inlineText(text string) string {
	return strings.ReplaceAll(strings.Join(strings.Fields(Prose(text)), " "), "|", `\|`)
}
