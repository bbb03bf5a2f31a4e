package extractor

import (
	"strings"
)

// tokKind represents the kind of a lexical token in JavaScript source.
type tokKind int

const (
	tkIdent tokKind = iota
	tkPunct
	tkString
	tkTemplate
	tkNumber
	tkRegex
	tkComment
	tkEOF
)

// token is a single lexical token with its source position.
type token struct {
	kind    tokKind
	text    string
	line    int
	endLine int
	start   int
	end     int
}

func (t token) is(text string) bool {
	return t.kind == tkPunct && t.text == text
}

func (t token) isIdent(text string) bool {
	return t.kind == tkIdent && t.text == text
}

func (t token) isDoc() bool {
	return t.kind == tkComment && strings.HasPrefix(t.text, "/**") && t.text != "/**/"
}

var multiPunct = []string{"...", "===", "!==", "=>", "==", "!=", "<=", ">=", "?.", "??", "&&", "||"}

// lexer tokenizes JavaScript source. String, template and comment bodies
// are consumed whole, so braces inside them never reach the brace matcher.
type lexer struct {
	src  string
	pos  int
	line int
	toks []token
	// templateDepth holds the brace depth at which each open `${`
	// substitution resumes its template literal.
	templateDepth []int
	braceDepth    int
}

// tokenize splits src into tokens. Unterminated strings and comments run
// to end of input rather than failing.
func tokenize(src string) []token {
	l := &lexer{src: src, line: 1}
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			break
		}
		l.next()
	}
	l.toks = append(l.toks, token{kind: tkEOF, line: l.line, endLine: l.line, start: len(src), end: len(src)})
	return l.toks
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\n':
			l.line++
			l.pos++
		case ' ', '\t', '\r', '\f', '\v':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) emit(kind tokKind, start, line int) {
	l.toks = append(l.toks, token{
		kind:    kind,
		text:    l.src[start:l.pos],
		line:    line,
		endLine: l.line,
		start:   start,
		end:     l.pos,
	})
}

func (l *lexer) next() {
	start, line := l.pos, l.line
	c := l.src[l.pos]

	switch {
	case c == '/' && l.peek(1) == '/':
		l.scanLineComment()
		l.emit(tkComment, start, line)
	case c == '/' && l.peek(1) == '*':
		l.scanBlockComment()
		l.emit(tkComment, start, line)
	case c == '"' || c == '\'':
		l.scanQuoted(c)
		l.emit(tkString, start, line)
	case c == '`':
		l.pos++
		l.scanTemplate()
		l.emit(tkTemplate, start, line)
	case c == '}' && len(l.templateDepth) > 0 && l.templateDepth[len(l.templateDepth)-1] == l.braceDepth:
		// closing a ${...} substitution resumes the enclosing template
		l.templateDepth = l.templateDepth[:len(l.templateDepth)-1]
		l.pos++
		l.scanTemplate()
		l.emit(tkTemplate, start, line)
	case c == '/' && l.regexAllowed():
		l.scanRegex()
		l.emit(tkRegex, start, line)
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		l.emit(tkIdent, start, line)
	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		l.emit(tkNumber, start, line)
	default:
		l.scanPunct()
		l.emit(tkPunct, start, line)
	}
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) scanLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) scanBlockComment() {
	l.pos += 2
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peek(1) == '/' {
			l.pos += 2
			return
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

// scanQuoted consumes a '...' or "..." literal, honouring backslash escapes.
func (l *lexer) scanQuoted(quote byte) {
	l.pos++
	escaped := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		switch {
		case escaped:
			escaped = false
			if c == '\n' {
				l.line++
			}
		case c == '\\':
			escaped = true
		case c == quote:
			return
		case c == '\n':
			// unterminated literal; stop at the line end
			l.line++
			return
		}
	}
}

// scanTemplate consumes template text up to the closing backtick or the
// start of a ${ substitution.
func (l *lexer) scanTemplate() {
	escaped := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '`':
			return
		case c == '$' && l.pos < len(l.src) && l.src[l.pos] == '{':
			l.pos++
			l.templateDepth = append(l.templateDepth, l.braceDepth)
			return
		}
		if c == '\n' {
			l.line++
		}
	}
}

func (l *lexer) scanRegex() {
	l.pos++
	inClass, escaped := false, false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\n' {
			return
		}
		l.pos++
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			return
		}
	}
}

func (l *lexer) scanPunct() {
	for _, p := range multiPunct {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.pos += len(p)
			return
		}
	}
	switch l.src[l.pos] {
	case '{':
		l.braceDepth++
	case '}':
		l.braceDepth--
	}
	l.pos++
}

// regexAllowed reports whether a '/' at the current position starts a
// regular expression rather than a division.
func (l *lexer) regexAllowed() bool {
	for i := len(l.toks) - 1; i >= 0; i-- {
		prev := l.toks[i]
		if prev.kind == tkComment {
			continue
		}
		switch prev.kind {
		case tkNumber, tkString, tkTemplate, tkRegex:
			return false
		case tkIdent:
			switch prev.text {
			case "return", "typeof", "case", "do", "else", "in", "of", "new", "delete", "void", "throw", "yield", "await":
				return true
			}
			return false
		case tkPunct:
			return prev.text != ")" && prev.text != "]" && prev.text != "}"
		}
		return true
	}
	return true
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$' || c == '#' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// matchingClose returns the index of the token closing the group opened at
// toks[open], or -1 if the group is unterminated.
func matchingClose(toks []token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tkPunct {
			continue
		}
		switch t.text {
		case "{", "(", "[":
			depth++
		case "}", ")", "]":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
