package jsdoc

import (
	"regexp"
	"strings"

	"github.com/example/mdxgen/internal/model"
)

var (
	colonParamRe = regexp.MustCompile(`^([\w$.\[\]=?'"-]+?)\s*:\s*(\S+)(?:\s+(.*))?$`)
	captionRe    = regexp.MustCompile(`^\s*<caption>(.*?)</caption>\s*(.*)$`)
)

// parseParam parses the content of a @param tag. Forms are tried in order:
//
//	{Type} name - desc
//	{Type} [name=default] - desc
//	name {Type} desc
//	name:Type desc
//	name - desc
func parseParam(s string) model.Param {
	s = strings.TrimSpace(s)
	if p, ok := tryParseTypedParam(s); ok {
		return p
	}
	if p, ok := tryParseNameThenType(s); ok {
		return p
	}
	if p, ok := tryParseColonParam(s); ok {
		return p
	}
	return parseBareParam(s)
}

func tryParseTypedParam(s string) (model.Param, bool) {
	if !strings.HasPrefix(s, "{") {
		return model.Param{}, false
	}
	typ, rest, ok := cutBraced(s, '{', '}')
	if !ok {
		return model.Param{}, false
	}
	rest = strings.TrimSpace(rest)
	var nameTok string
	if strings.HasPrefix(rest, "[") {
		inner, after, ok := cutBraced(rest, '[', ']')
		if !ok {
			return model.Param{}, false
		}
		nameTok = "[" + inner + "]"
		rest = after
	} else {
		nameTok, rest = cutToken(rest)
	}
	if nameTok == "" {
		return model.Param{}, false
	}
	p := paramFromName(nameTok)
	applyType(&p, typ)
	p.Description = trimDash(rest)
	return p, true
}

func tryParseNameThenType(s string) (model.Param, bool) {
	nameTok, rest := cutToken(s)
	rest = strings.TrimSpace(rest)
	if nameTok == "" || !strings.HasPrefix(rest, "{") {
		return model.Param{}, false
	}
	typ, after, ok := cutBraced(rest, '{', '}')
	if !ok {
		return model.Param{}, false
	}
	p := paramFromName(nameTok)
	applyType(&p, typ)
	p.Description = trimDash(after)
	return p, true
}

func tryParseColonParam(s string) (model.Param, bool) {
	m := colonParamRe.FindStringSubmatch(s)
	if m == nil || strings.HasPrefix(m[2], "-") {
		return model.Param{}, false
	}
	p := paramFromName(m[1])
	applyType(&p, m[2])
	p.Description = trimDash(m[3])
	return p, true
}

func parseBareParam(s string) model.Param {
	nameTok, rest := cutToken(s)
	p := paramFromName(nameTok)
	p.Type = "any"
	p.Description = trimDash(rest)
	return p
}

// paramFromName handles `[name=default]` and `name?` spellings.
func paramFromName(tok string) model.Param {
	var p model.Param
	if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
		p.Optional = true
		tok = tok[1 : len(tok)-1]
		if name, def, ok := strings.Cut(tok, "="); ok {
			tok = name
			p.Default = strings.TrimSpace(def)
		}
	}
	if strings.HasSuffix(tok, "?") {
		p.Optional = true
		tok = strings.TrimSuffix(tok, "?")
	}
	p.Name = strings.TrimSpace(tok)
	return p
}

// applyType sets the type, honouring the `{Type=}` optional marker.
func applyType(p *model.Param, typ string) {
	typ = strings.TrimSpace(typ)
	if strings.HasSuffix(typ, "=") {
		p.Optional = true
		typ = strings.TrimSuffix(typ, "=")
	}
	if typ == "" {
		typ = "any"
	}
	p.Type = typ
}

// splitBracedType splits `{Type} desc` into its parts. The type is optional.
func splitBracedType(s string) (string, string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return "", trimDash(s)
	}
	typ, rest, ok := cutBraced(s, '{', '}')
	if !ok {
		return "", trimDash(s)
	}
	return strings.TrimSpace(typ), trimDash(rest)
}

// cutBraced returns the content between s[0] (== open) and its matching
// close, and the remainder after it. Nested pairs are balanced.
func cutBraced(s string, open, close byte) (inner, rest string, ok bool) {
	if s == "" || s[0] != open {
		return "", s, false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}

func cutToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func trimDash(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "- ") || s == "-" {
		s = strings.TrimSpace(s[1:])
	}
	return s
}

// parseExample splits an @example block into caption and code.
func parseExample(lines []string) model.Example {
	var ex model.Example
	first := ""
	if len(lines) > 0 {
		first = lines[0]
		lines = lines[1:]
	}

	if m := captionRe.FindStringSubmatch(first); m != nil {
		ex.Caption = strings.TrimSpace(m[1])
		if rest := strings.TrimSpace(m[2]); rest != "" {
			lines = append([]string{rest}, lines...)
		}
		ex.Code = joinCode(lines)
		return ex
	}

	code := joinCode(lines)
	first = strings.TrimSpace(first)
	switch {
	case first == "":
		ex.Code = code
	case code != "" && looksLikeTitle(first):
		ex.Caption = first
		ex.Code = code
	default:
		ex.Code = joinCode(append([]string{first}, lines...))
	}
	return ex
}

// looksLikeTitle reports whether a line reads as prose rather than code.
func looksLikeTitle(line string) bool {
	if strings.ContainsAny(line, "{}()=;") {
		return false
	}
	return !strings.HasPrefix(line, "//") && !strings.HasPrefix(line, "```")
}

// joinCode joins code lines, dropping blank edges and markdown fences.
func joinCode(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) >= 2 && strings.HasPrefix(strings.TrimSpace(lines[0]), "```") &&
		strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[1 : len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
