package extractor

import (
	"path/filepath"
	"strings"

	"github.com/example/mdxgen/internal/jsdoc"
	"github.com/example/mdxgen/internal/model"
)

// scanner walks the token stream of a plain JavaScript file. It recognises
// top-level declarations and skips every other bracketed group whole, so a
// brace inside a string or template never shifts the depth count.
type scanner struct {
	src  string
	toks []token
	u    *unit
	// doc is the pending /** */ block and docEnd the last line it, or a
	// line comment directly below it, occupies.
	doc    *token
	docEnd int
}

var memberModifiers = map[string]bool{
	"static":    true,
	"async":     true,
	"get":       true,
	"set":       true,
	"readonly":  true,
	"public":    true,
	"private":   true,
	"protected": true,
}

func scanSource(path, src string) *unit {
	s := &scanner{src: src, toks: tokenize(src), u: &unit{path: path}}
	s.run()
	return s.u
}

func (s *scanner) eof() int {
	return len(s.toks) - 1
}

func (s *scanner) tok(i int) token {
	if i < 0 || i >= len(s.toks) {
		return s.toks[s.eof()]
	}
	return s.toks[i]
}

// span returns the source text of tokens a through b inclusive.
func (s *scanner) span(a, b int) string {
	if b < a {
		return ""
	}
	return s.src[s.toks[a].start:s.toks[b].end]
}

func (s *scanner) defaultName() string {
	return strings.TrimSuffix(filepath.Base(s.u.path), filepath.Ext(s.u.path))
}

func (s *scanner) add(d *model.Declaration, exported bool) {
	if d == nil || d.Name == "" {
		return
	}
	s.u.entries = append(s.u.entries, entry{decl: *d, exported: exported})
}

func (s *scanner) noteComment(t token) {
	switch {
	case t.isDoc():
		s.doc = &t
		s.docEnd = t.endLine
	case s.doc != nil && t.line <= s.docEnd+1:
		s.docEnd = t.endLine
	default:
		s.doc = nil
	}
}

// takeDoc returns the pending block if it ends directly above t, and clears it.
func (s *scanner) takeDoc(t token) model.ParsedJSDoc {
	doc := model.ParsedJSDoc{Visibility: model.Public}
	if s.doc != nil && t.line <= s.docEnd+1 {
		doc = jsdoc.Parse(s.doc.text)
	}
	s.doc = nil
	return doc
}

func (s *scanner) afterDot(i int) bool {
	for j := i - 1; j >= 0; j-- {
		if s.toks[j].kind == tkComment {
			continue
		}
		return s.toks[j].is(".") || s.toks[j].is("?.")
	}
	return false
}

func (s *scanner) run() {
	i := 0
	for i < s.eof() {
		t := s.toks[i]
		switch {
		case t.kind == tkComment:
			s.noteComment(t)
			i++
		case t.kind == tkPunct && isOpener(t.text):
			s.doc = nil
			i = s.skipGroup(i)
		case t.kind == tkIdent && !s.afterDot(i):
			i = s.statement(i)
		default:
			s.doc = nil
			i++
		}
	}
}

func isOpener(text string) bool {
	return text == "{" || text == "(" || text == "["
}

func (s *scanner) skipGroup(i int) int {
	c := matchingClose(s.toks, i)
	if c < 0 {
		return s.eof()
	}
	return c + 1
}

func (s *scanner) statement(i int) int {
	t := s.toks[i]
	doc := s.takeDoc(t)
	switch t.text {
	case "export":
		return s.exportStatement(i, doc)
	case "module", "exports":
		return s.commonJS(i)
	}
	if end, ok := s.declaration(i, doc, false); ok {
		return end
	}
	return i + 1
}

func (s *scanner) declaration(i int, doc model.ParsedJSDoc, exported bool) (int, bool) {
	t := s.tok(i)
	switch {
	case t.isIdent("class"):
		return s.class(i, doc, exported, ""), true
	case t.isIdent("function"):
		return s.functionStatement(i, doc, exported, false, ""), true
	case t.isIdent("async") && s.tok(i+1).isIdent("function"):
		return s.functionStatement(i+1, doc, exported, true, ""), true
	case t.isIdent("const") || t.isIdent("let") || t.isIdent("var"):
		return s.variables(i, doc, exported), true
	}
	return i + 1, false
}

func (s *scanner) exportStatement(i int, doc model.ParsedJSDoc) int {
	k := i + 1
	t := s.tok(k)
	switch {
	case t.isIdent("default"):
		return s.exportDefault(k+1, doc)
	case t.is("{"):
		return s.exportClause(k)
	case t.is("*"):
		return s.exprEnd(k, s.eof(), false)
	}
	if end, ok := s.declaration(k, doc, true); ok {
		return end
	}
	return k
}

func (s *scanner) exportDefault(k int, doc model.ParsedJSDoc) int {
	n := s.tok(k)
	switch {
	case n.isIdent("class"):
		override := ""
		if next := s.tok(k + 1); next.kind != tkIdent || next.isIdent("extends") {
			override = s.defaultName()
		}
		return s.class(k, doc, true, override)
	case n.isIdent("function"):
		return s.functionStatement(k, doc, true, false, s.defaultName())
	case n.isIdent("async") && s.tok(k+1).isIdent("function"):
		return s.functionStatement(k+1, doc, true, true, s.defaultName())
	}

	end := s.exprEnd(k, s.eof(), false)
	last := s.valueEnd(k, end)
	if last == k && n.kind == tkIdent {
		s.u.exports = append(s.u.exports, exportSpec{local: n.text, exported: n.text, line: n.line})
		return end
	}
	if last >= k {
		s.binding(s.defaultName(), n.line, doc, true, k, last)
	}
	return end
}

func (s *scanner) exportClause(open int) int {
	c := matchingClose(s.toks, open)
	if c < 0 {
		return s.eof()
	}
	reexport := s.tok(c + 1).isIdent("from")
	for q := open + 1; q < c; q++ {
		t := s.toks[q]
		if t.kind != tkIdent && t.kind != tkString {
			continue
		}
		local := unquote(t.text)
		exported := local
		if s.tok(q+1).isIdent("as") && q+2 < c {
			exported = unquote(s.tok(q + 2).text)
			q += 2
		}
		if exported == "default" {
			exported = local
		}
		s.u.exports = append(s.u.exports, exportSpec{local: local, exported: exported, reexport: reexport, line: t.line})
	}
	end := c + 1
	if reexport {
		end += 2
	}
	if s.tok(end).is(";") {
		end++
	}
	return end
}

// commonJS records `module.exports = ...` and `exports.name = ident`.
func (s *scanner) commonJS(i int) int {
	k := i
	var path strings.Builder
	for s.tok(k).kind == tkIdent || s.tok(k).is(".") {
		path.WriteString(s.tok(k).text)
		k++
	}
	if !s.tok(k).is("=") {
		return k
	}
	target := path.String()
	a := k + 1
	end := s.exprEnd(a, s.eof(), false)
	last := s.valueEnd(a, end)
	v := s.tok(a)
	line := s.toks[i].line

	switch {
	case target == "module.exports" && last == a && v.kind == tkIdent:
		s.u.exports = append(s.u.exports, exportSpec{local: v.text, exported: v.text, line: line})
	case target == "module.exports" && v.is("{"):
		s.objectExports(a, line)
	case strings.HasPrefix(target, "exports.") || strings.HasPrefix(target, "module.exports."):
		if last == a && v.kind == tkIdent {
			exported := target[strings.LastIndex(target, ".")+1:]
			s.u.exports = append(s.u.exports, exportSpec{local: v.text, exported: exported, line: line})
		}
	}
	return end
}

func (s *scanner) objectExports(open, line int) {
	c := matchingClose(s.toks, open)
	if c < 0 {
		return
	}
	for q := open + 1; q < c; q++ {
		t := s.toks[q]
		switch {
		case isOpener(t.text) && t.kind == tkPunct:
			q = matchingClose(s.toks, q)
			if q < 0 {
				return
			}
		case t.kind == tkIdent && (s.tok(q+1).is(",") || q+1 == c):
			s.u.exports = append(s.u.exports, exportSpec{local: t.text, exported: t.text, line: line})
		case (t.kind == tkIdent || t.kind == tkString) && s.tok(q+1).is(":"):
			v := s.tok(q + 2)
			if v.kind == tkIdent && (s.tok(q+3).is(",") || q+3 == c) {
				s.u.exports = append(s.u.exports, exportSpec{local: v.text, exported: unquote(t.text), line: line})
				q += 2
			}
		}
	}
}

// class parses a class starting at the `class` keyword and returns the
// index after its body. A non-empty override replaces the class name.
func (s *scanner) class(i int, doc model.ParsedJSDoc, exported bool, override string) int {
	d := &model.Declaration{
		Kind:     model.KindClass,
		FileName: s.u.path,
		Line:     s.toks[i].line,
		Doc:      doc,
		Class:    &model.ClassDecl{},
	}
	k := i + 1
	if t := s.tok(k); t.kind == tkIdent && !t.isIdent("extends") {
		d.Name = t.text
		k++
	}
	heritage := -1
	if s.tok(k).isIdent("extends") {
		heritage = k + 1
	}
	open := s.findOpenBrace(k)
	if open < 0 {
		return s.eof()
	}
	if heritage >= 0 && heritage < open {
		d.Class.Extends = strings.TrimSpace(s.src[s.toks[heritage].start:s.toks[open].start])
	}
	closeIdx := matchingClose(s.toks, open)
	if closeIdx < 0 {
		closeIdx = s.eof()
	}
	s.members(open+1, closeIdx, d.Class)
	finishClass(d)
	if override != "" {
		d.Name = override
	}
	s.add(d, exported)
	return closeIdx + 1
}

func (s *scanner) findOpenBrace(k int) int {
	for k < s.eof() {
		t := s.toks[k]
		switch {
		case t.is("{"):
			return k
		case t.is("(") || t.is("["):
			c := matchingClose(s.toks, k)
			if c < 0 {
				return -1
			}
			k = c + 1
		default:
			k++
		}
	}
	return -1
}

func (s *scanner) members(from, to int, cls *model.ClassDecl) {
	j := from
	for j < to {
		t := s.toks[j]
		switch {
		case t.kind == tkComment:
			s.noteComment(t)
			j++
		case t.is(";"):
			s.doc = nil
			j++
		default:
			doc := s.takeDoc(t)
			j = s.member(j, to, doc, cls)
		}
	}
	s.doc = nil
}

// startsName reports whether toks[k] can begin a member name, which tells
// a modifier keyword apart from a member named `get` or `static`.
func (s *scanner) startsName(k, to int) bool {
	if k >= to {
		return false
	}
	t := s.toks[k]
	switch t.kind {
	case tkIdent, tkString, tkNumber:
		return true
	case tkPunct:
		return t.text == "[" || t.text == "*"
	}
	return false
}

func (s *scanner) member(j, to int, doc model.ParsedJSDoc, cls *model.ClassDecl) int {
	if s.toks[j].isIdent("static") && s.tok(j+1).is("{") {
		// static initialization block
		return s.skipGroup(j + 1)
	}

	m := model.MethodDecl{Visibility: model.Public, Doc: doc}
	p := model.PropertyDecl{Visibility: model.Public, Doc: doc}
	k := j
	for k < to {
		t := s.toks[k]
		if t.kind == tkIdent && memberModifiers[t.text] && s.startsName(k+1, to) {
			switch t.text {
			case "static":
				m.IsStatic, p.IsStatic = true, true
			case "async":
				m.IsAsync = true
			case "get":
				m.IsGetter = true
			case "set":
				m.IsSetter = true
			case "readonly":
				p.IsReadonly = true
			default:
				m.Visibility = model.Visibility(t.text)
				p.Visibility = m.Visibility
			}
			k++
			continue
		}
		if t.is("*") {
			k++
			continue
		}
		break
	}
	if k >= to {
		return to
	}

	nameTok := s.toks[k]
	var name string
	switch {
	case nameTok.kind == tkIdent || nameTok.kind == tkNumber:
		name = nameTok.text
	case nameTok.kind == tkString:
		name = unquote(nameTok.text)
	case nameTok.is("["):
		c := matchingClose(s.toks, k)
		if c < 0 || c >= to {
			return to
		}
		name = s.span(k, c)
		k = c
	default:
		return k + 1
	}
	k++
	if s.tok(k).is("?") || s.tok(k).is("!") {
		p.IsOptional = s.tok(k).is("?")
		k++
	}

	if s.tok(k).is("(") {
		m.Name = name
		return s.method(j, k, to, m, cls)
	}

	p.Name = name
	end := s.exprEnd(k, to, false)
	last := s.valueEnd(k, end)
	inferred := ""
	for q := k; q <= last; q++ {
		t := s.toks[q]
		if t.is(":") && q == k {
			typeEnd := q + 1
			for typeEnd <= last && !s.toks[typeEnd].is("=") {
				typeEnd++
			}
			p.Type = strings.TrimSpace(s.span(q+1, typeEnd-1))
			q = typeEnd - 1
			continue
		}
		if t.is("=") {
			if q+1 <= last {
				p.Initializer = shorten(s.span(q+1, last))
				inferred = inferType(s.valueNodeType(q+1), p.Initializer)
			}
			break
		}
	}
	placeProperty(cls, p, inferred)
	return end
}

func (s *scanner) method(j, open, to int, m model.MethodDecl, cls *model.ClassDecl) int {
	closeParen := matchingClose(s.toks, open)
	if closeParen < 0 || closeParen >= to {
		return to
	}
	sig := parseParamList(s.span(open, closeParen))

	q := closeParen + 1
	for q < to && !s.toks[q].is("{") && !s.toks[q].is(";") {
		q++
	}
	if s.tok(closeParen+1).is(":") && q > closeParen+2 {
		m.ReturnType = typeText(s.span(closeParen+1, q-1))
	}
	head := s.src[s.toks[j].start:s.toks[q].start]
	end := q + 1
	if q < to && s.toks[q].is("{") {
		c := matchingClose(s.toks, q)
		if c < 0 || c > to {
			return to
		}
		end = c + 1
	}
	placeMethod(cls, m, sig, ClassifyMember(m.Name, head))
	return end
}

// functionStatement parses `function name(...) {...}` starting at the
// `function` keyword. fallback names an anonymous function.
func (s *scanner) functionStatement(i int, doc model.ParsedJSDoc, exported, async bool, fallback string) int {
	d, end := s.functionAt(i, fallback, doc, async, false)
	s.add(d, exported)
	return end
}

// functionAt parses a function expression or declaration starting at the
// `function` keyword. When override is set the binding name wins over the
// function's own name.
func (s *scanner) functionAt(i int, name string, doc model.ParsedJSDoc, async, override bool) (*model.Declaration, int) {
	line := s.toks[i].line
	k := i + 1
	if s.tok(k).is("*") {
		k++
	}
	if t := s.tok(k); t.kind == tkIdent {
		if !override || name == "" {
			name = t.text
		}
		k++
	}
	if !s.tok(k).is("(") {
		return nil, k
	}
	closeParen := matchingClose(s.toks, k)
	if closeParen < 0 {
		return nil, s.eof()
	}
	sig := parseParamList(s.span(k, closeParen))
	return s.functionDecl(name, line, doc, async, sig, closeParen+1)
}

// functionDecl finishes a function whose parameter list ends just before
// bodyFrom, skipping the body.
func (s *scanner) functionDecl(name string, line int, doc model.ParsedJSDoc, async bool, sig []model.Param, bodyFrom int) (*model.Declaration, int) {
	q := bodyFrom
	for q < s.eof() && !s.toks[q].is("{") && !s.toks[q].is(";") {
		q++
	}
	end := q + 1
	if s.tok(q).is("{") {
		end = s.skipGroup(q)
	}
	fn := &model.FunctionDecl{IsAsync: async}
	fillFunction(fn, name, sig, doc)
	return &model.Declaration{
		Kind:     model.KindFunction,
		Name:     name,
		FileName: s.u.path,
		Line:     line,
		Doc:      doc,
		Function: fn,
	}, end
}

func (s *scanner) variables(i int, doc model.ParsedJSDoc, exported bool) int {
	k := i + 1
	first := true
	for k < s.eof() {
		d := model.ParsedJSDoc{Visibility: model.Public}
		if first {
			d = doc
			first = false
		}
		nameTok := s.tok(k)
		if nameTok.kind != tkIdent {
			end := s.exprEnd(k, s.eof(), true)
			if s.tok(end).is(",") {
				k = end + 1
				continue
			}
			return end
		}
		k++
		if !s.tok(k).is("=") {
			s.add(&model.Declaration{
				Kind:     model.KindConstant,
				Name:     nameTok.text,
				FileName: s.u.path,
				Line:     nameTok.line,
				Doc:      d,
				Constant: &model.ConstantDecl{Type: orAny(d.Type)},
			}, exported)
		} else {
			a := k + 1
			k = s.exprEnd(a, s.eof(), true)
			if last := s.valueEnd(a, k); last >= a {
				s.binding(nameTok.text, nameTok.line, d, exported, a, last)
			}
		}
		if !s.tok(k).is(",") {
			if s.tok(k).is(";") {
				k++
			}
			return k
		}
		k++
	}
	return k
}

// valueEnd returns the last value token of an expression ending before
// end, dropping a trailing `;` or `,`.
func (s *scanner) valueEnd(a, end int) int {
	last := end - 1
	for last >= a && (s.toks[last].is(";") || s.toks[last].is(",") || s.toks[last].kind == tkComment) {
		last--
	}
	return last
}

// binding records `name = <tokens a..b>`.
func (s *scanner) binding(name string, line int, doc model.ParsedJSDoc, exported bool, a, b int) {
	a, b = s.unwrapCall(a, b)
	v := s.tok(a)

	async := false
	if v.isIdent("async") && a < b {
		async = true
		a++
		v = s.tok(a)
	}

	switch {
	case v.isIdent("function"):
		d, _ := s.functionAt(a, name, doc, async, true)
		s.add(d, exported)
		return
	case v.is("("):
		if c := matchingClose(s.toks, a); c > 0 && s.tok(c+1).is("=>") {
			d, _ := s.functionDecl(name, line, doc, async, parseParamList(s.span(a, c)), c+2)
			s.add(d, exported)
			return
		}
	case v.kind == tkIdent && s.tok(a+1).is("=>"):
		d, _ := s.functionDecl(name, line, doc, async, []model.Param{{Name: v.text}}, a+2)
		s.add(d, exported)
		return
	case v.isIdent("class"):
		s.class(a, doc, exported, name)
		return
	case a == b && v.kind == tkIdent && !literalIdents[v.text]:
		s.u.entries = append(s.u.entries, entry{
			decl:     model.Declaration{Name: name, FileName: s.u.path, Line: line, Doc: doc},
			exported: exported,
			aliasOf:  v.text,
		})
		return
	}

	value := s.span(a, b)
	c := &model.ConstantDecl{Value: shorten(value), Type: inferType(s.valueNodeType(a), value)}
	if c.Type == "" {
		c.Type = orAny(doc.Type)
	}
	s.add(&model.Declaration{
		Kind:     model.KindConstant,
		Name:     name,
		FileName: s.u.path,
		Line:     line,
		Doc:      doc,
		Constant: c,
	}, exported)
}

var literalIdents = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true, "this": true,
}

// unwrapCall narrows `memo(fn)` style wrappers to their first argument.
func (s *scanner) unwrapCall(a, b int) (int, int) {
	var callee strings.Builder
	k := a
	for k < b && (s.toks[k].kind == tkIdent || s.toks[k].is(".")) {
		callee.WriteString(s.toks[k].text)
		k++
	}
	if !wrapperCalls[callee.String()] || !s.tok(k).is("(") || matchingClose(s.toks, k) != b {
		return a, b
	}
	first := k + 1
	q := first
	for q < b && !s.toks[q].is(",") {
		if isOpener(s.toks[q].text) && s.toks[q].kind == tkPunct {
			q = matchingClose(s.toks, q)
			if q < 0 {
				return a, b
			}
		}
		q++
	}
	if q-1 < first {
		return a, b
	}
	return first, q - 1
}

// exprEnd returns the index just past the expression starting at k. The
// expression ends at a top-level `;` (consumed), a top-level `,` when
// stopAtComma is set (not consumed), or a line break that cannot continue it.
func (s *scanner) exprEnd(k, limit int, stopAtComma bool) int {
	for k < limit {
		t := s.toks[k]
		if t.is(";") {
			return k + 1
		}
		if stopAtComma && t.is(",") {
			return k
		}
		next := k + 1
		if t.kind == tkPunct && isOpener(t.text) {
			c := matchingClose(s.toks, k)
			if c < 0 || c >= limit {
				return limit
			}
			next = c + 1
		}
		if next >= limit {
			return limit
		}
		last, n := s.toks[next-1], s.toks[next]
		if n.line > last.endLine && endsExpression(last) && !continuesExpression(n) {
			return next
		}
		k = next
	}
	return limit
}

func endsExpression(t token) bool {
	switch t.kind {
	case tkIdent, tkString, tkTemplate, tkNumber, tkRegex:
		return true
	case tkPunct:
		return t.text == ")" || t.text == "]" || t.text == "}"
	}
	return false
}

func continuesExpression(t token) bool {
	if t.kind != tkPunct {
		return false
	}
	switch t.text {
	case "[", "{", "(", "!", "~", "++", "--", "}":
		return false
	}
	return true
}

// valueNodeType maps the value starting at toks[a] to the syntax node type
// inferType understands.
func (s *scanner) valueNodeType(a int) string {
	t := s.tok(a)
	if t.isIdent("async") {
		a++
		t = s.tok(a)
	}
	switch t.kind {
	case tkNumber:
		return "number"
	case tkString:
		return "string"
	case tkTemplate:
		return "template_string"
	case tkRegex:
		return "regex"
	case tkIdent:
		switch t.text {
		case "true", "false", "function":
			return t.text
		case "new":
			return "new_expression"
		}
		if s.tok(a + 1).is("=>") {
			return "arrow_function"
		}
	case tkPunct:
		switch t.text {
		case "[":
			return "array"
		case "{":
			return "object"
		case "(":
			if c := matchingClose(s.toks, a); c > 0 && s.tok(c+1).is("=>") {
				return "arrow_function"
			}
		}
	}
	return ""
}

func orAny(t string) string {
	if t == "" {
		return "any"
	}
	return t
}
