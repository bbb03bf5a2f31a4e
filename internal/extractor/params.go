package extractor

import (
	"strings"

	"github.com/example/mdxgen/internal/model"
)

// splitTopLevel splits s on sep, ignoring separators nested inside
// brackets, generics or quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts   []string
		depth   int
		quote   byte
		escaped bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		default:
			if c == sep && depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// indexTopLevel returns the index of the first top-level sep in s. For '='
// the arrow and comparison operators are skipped.
func indexTopLevel(s string, sep byte) int {
	depth := 0
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		}
		if c != sep || depth != 0 {
			continue
		}
		if sep == '=' {
			if i+1 < len(s) && (s[i+1] == '>' || s[i+1] == '=') {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0 {
				continue
			}
		}
		return i
	}
	return -1
}

// parseParamList parses the text between a parameter list's parentheses.
func parseParamList(s string) []model.Param {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	var out []model.Param
	for _, part := range splitTopLevel(s, ',') {
		out = append(out, parseParamText(part))
	}
	return out
}

// parseParamText parses one parameter such as `start`, `start = 0`,
// `opts?: Options` or `...rest: string[]`.
func parseParamText(s string) model.Param {
	var p model.Param
	s = strings.TrimSpace(s)
	for _, mod := range []string{"public ", "private ", "protected ", "readonly "} {
		s = strings.TrimPrefix(s, mod)
	}
	if i := indexTopLevel(s, '='); i >= 0 {
		p.Default = strings.TrimSpace(s[i+1:])
		p.Optional = true
		s = strings.TrimSpace(s[:i])
	}
	if i := indexTopLevel(s, ':'); i >= 0 {
		p.Type = strings.TrimSpace(s[i+1:])
		s = strings.TrimSpace(s[:i])
	}
	if strings.HasSuffix(s, "?") {
		p.Optional = true
		s = strings.TrimSuffix(s, "?")
	}
	s = strings.TrimPrefix(s, "...")
	p.Name = strings.TrimSpace(s)
	return p
}

// isPattern reports whether a parameter name is a destructuring pattern.
func isPattern(name string) bool {
	return strings.HasPrefix(name, "{") || strings.HasPrefix(name, "[")
}

// mergeParams combines parameters read from a signature with the @param
// tags of its doc block. Doc order wins when tags are present; signature
// parameters the tags do not mention are appended. Types come from the
// signature when annotated, then from the tag, then default to "any".
func mergeParams(sig, doc []model.Param) []model.Param {
	if len(doc) == 0 {
		out := make([]model.Param, 0, len(sig))
		for _, p := range sig {
			if p.Type == "" {
				p.Type = "any"
			}
			out = append(out, p)
		}
		return out
	}

	byName := make(map[string]int, len(sig))
	for i, p := range sig {
		byName[p.Name] = i
	}
	used := make([]bool, len(sig))
	topIndex := 0
	var out []model.Param
	for _, d := range doc {
		merged := d
		idx, ok := byName[d.Name]
		if !ok && !strings.Contains(d.Name, ".") && topIndex < len(sig) && isPattern(sig[topIndex].Name) {
			idx, ok = topIndex, true
		}
		if ok && !used[idx] {
			used[idx] = true
			s := sig[idx]
			if s.Type != "" {
				merged.Type = s.Type
			}
			merged.Optional = merged.Optional || s.Optional
			if merged.Default == "" {
				merged.Default = s.Default
			}
		}
		if !strings.Contains(d.Name, ".") {
			topIndex++
		}
		if merged.Type == "" {
			merged.Type = "any"
		}
		out = append(out, merged)
	}
	for i, s := range sig {
		if used[i] {
			continue
		}
		if s.Type == "" {
			s.Type = "any"
		}
		out = append(out, s)
	}
	return out
}
