package render

import (
	"fmt"
	"strings"

	"github.com/example/mdxgen/internal/model"
)

// writeDeclaration renders the body of one declaration below its title.
func (w *writer) writeDeclaration(d model.Declaration) {
	w.lang = codeLanguage(d.FileName)
	w.notices(d.Doc)
	w.paragraph(Prose(d.Doc.Description))

	switch d.Kind {
	case model.KindClass:
		w.class(d)
	case model.KindFunction:
		w.function(d)
	case model.KindInterface:
		w.iface(d)
	case model.KindTypeAlias:
		w.typeAlias(d)
	case model.KindEnum:
		w.enum(d)
	case model.KindConstant:
		w.constant(d)
	}
	w.references(d.Doc)
}

// notices renders deprecation and availability callouts.
func (w *writer) notices(doc model.ParsedJSDoc) {
	if doc.Deprecated != nil {
		body := "**Deprecated.**"
		if msg := Prose(doc.Deprecated.Message); msg != "" {
			body += " " + msg
		}
		w.component("Warning", "", body)
	}
	if doc.Since != "" {
		w.component("Info", "", "Available since "+doc.Since+".")
	}
}

func typeParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

func signatureParams(params []model.Param) string {
	var parts []string
	for _, p := range params {
		if strings.Contains(p.Name, ".") {
			continue
		}
		part := p.Name
		if p.Optional && p.Default == "" {
			part += "?"
		}
		if p.Type != "" && p.Type != "any" {
			part += ": " + p.Type
		}
		if p.Default != "" {
			part += " = " + p.Default
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func (w *writer) class(d model.Declaration) {
	cls := d.Class
	if cls == nil {
		return
	}
	sig := "class " + d.Name + typeParams(cls.TypeParameters)
	if cls.Abstract {
		sig = "abstract " + sig
	}
	if cls.Extends != "" {
		sig += " extends " + cls.Extends
	}
	if len(cls.Implements) > 0 {
		sig += " implements " + strings.Join(cls.Implements, ", ")
	}
	w.code(w.lang, "", sig)

	if ctor := cls.Constructor; ctor != nil && !cls.HideConstructor {
		w.heading(1, "Constructor")
		w.code(w.lang, "", "new "+d.Name+"("+signatureParams(ctor.Parameters)+")")
		if ctor.Doc.Description != d.Doc.Description {
			w.paragraph(Prose(ctor.Doc.Description))
		}
		w.callable(ctor.Parameters, ctor.ReturnType, ctor.Doc)
	}

	props := append(append([]model.PropertyDecl(nil), cls.StaticProperties...), cls.Properties...)
	if len(props) > 0 {
		w.heading(1, "Properties")
		for _, p := range props {
			w.property(p)
		}
	}

	methods := append(append([]model.MethodDecl(nil), cls.StaticMethods...), cls.Methods...)
	if len(methods) > 0 {
		w.heading(1, "Methods")
		for _, m := range methods {
			w.method(m)
		}
	}
}

func (w *writer) property(p model.PropertyDecl) {
	var post []string
	if p.IsStatic {
		post = append(post, `"static"`)
	}
	if p.IsReadonly {
		post = append(post, `"readonly"`)
	}
	if p.Visibility == model.Protected {
		post = append(post, `"protected"`)
	}
	attrs := attr("name", p.Name) + attr("type", p.Type)
	if !p.IsOptional && p.Initializer == "" {
		attrs += " required"
	}
	if len(post) > 0 {
		attrs += " post={[" + strings.Join(post, ", ") + "]}"
	}
	body := Prose(p.Doc.Description)
	if p.Initializer != "" {
		body = strings.TrimSpace(body + "\n\nDefault: `" + p.Initializer + "`")
	}
	w.component("ResponseField", attrs, body)
}

func methodSignature(m model.MethodDecl) string {
	var prefix []string
	if m.IsStatic {
		prefix = append(prefix, "static")
	}
	if m.IsAsync {
		prefix = append(prefix, "async")
	}
	switch {
	case m.IsGetter:
		prefix = append(prefix, "get")
	case m.IsSetter:
		prefix = append(prefix, "set")
	}
	sig := m.Name + "(" + signatureParams(m.Parameters) + ")"
	if m.ReturnType != "" && !m.IsSetter {
		sig += ": " + m.ReturnType
	}
	return strings.TrimSpace(strings.Join(prefix, " ") + " " + sig)
}

func (w *writer) method(m model.MethodDecl) {
	w.heading(2, "`"+methodSignature(m)+"`")
	w.notices(m.Doc)
	w.paragraph(Prose(m.Doc.Description))
	w.callable(m.Parameters, m.ReturnType, m.Doc)
	w.references(m.Doc)
}

// callable renders parameters, return value, errors and examples.
func (w *writer) callable(params []model.Param, returnType string, doc model.ParsedJSDoc) {
	w.params(params)

	desc := ""
	if doc.Returns != nil {
		desc = Prose(doc.Returns.Description)
		if returnType == "" {
			returnType = doc.Returns.Type
		}
	}
	if (returnType != "" && returnType != "void") || desc != "" {
		w.sb.WriteString("**Returns**\n\n")
		w.component("ResponseField", attr("name", "returns")+attr("type", returnType), desc)
	}

	if len(doc.Throws) > 0 {
		w.sb.WriteString("**Throws**\n\n")
		for _, t := range doc.Throws {
			w.component("ResponseField", attr("name", "throws")+attr("type", t.Type), Prose(t.Description))
		}
	}
	w.examples(doc.Examples)
}

// params renders top-level parameters as ParamFields. Dotted parameters
// such as "options.timeout" are grouped in an accordion below their parent.
func (w *writer) params(params []model.Param) {
	if len(params) == 0 {
		return
	}
	nested := map[string][]model.Param{}
	var top []model.Param
	for _, p := range params {
		if i := strings.IndexByte(p.Name, '.'); i > 0 {
			parent := strings.TrimSuffix(p.Name[:i], "[]")
			nested[parent] = append(nested[parent], p)
			continue
		}
		top = append(top, p)
	}

	w.sb.WriteString("**Parameters**\n\n")
	for _, p := range top {
		w.paramField(p.Name, p)
		children := nested[p.Name]
		if len(children) == 0 {
			continue
		}
		w.open("Accordion", "")
		w.open("AccordionItem", attr("title", p.Name+" properties"))
		w.sb.WriteString("\n")
		for _, c := range children {
			w.paramField(c.Name[strings.IndexByte(c.Name, '.')+1:], c)
		}
		w.close("AccordionItem")
		w.close("Accordion")
	}
}

func (w *writer) paramField(name string, p model.Param) {
	attrs := attr("path", name)
	attrs += attr("type", p.Type)
	attrs += attr("default", p.Default)
	if !p.Optional {
		attrs += " required"
	}
	w.component("ParamField", attrs, Prose(p.Description))
}

// examples renders one example as a fence, captioned examples as tabs and
// several uncaptioned ones as a code group.
func (w *writer) examples(examples []model.Example) {
	if len(examples) == 0 {
		return
	}
	w.sb.WriteString("**Examples**\n\n")
	if len(examples) == 1 {
		ex := examples[0]
		if ex.Caption != "" {
			w.paragraph("*" + Prose(ex.Caption) + "*")
		}
		w.code(w.lang, "", ex.Code)
		return
	}

	captioned := false
	for _, ex := range examples {
		captioned = captioned || ex.Caption != ""
	}
	if !captioned {
		w.open("CodeGroup", "")
		w.sb.WriteString("\n")
		for i, ex := range examples {
			w.code(w.lang, fmt.Sprintf("Example %d", i+1), ex.Code)
		}
		w.close("CodeGroup")
		return
	}

	w.open("Tabs", "")
	for i, ex := range examples {
		title := ex.Caption
		if title == "" {
			title = fmt.Sprintf("Example %d", i+1)
		}
		w.open("Tab", attr("title", title))
		w.sb.WriteString("\n")
		w.code(w.lang, "", ex.Code)
		w.close("Tab")
	}
	w.close("Tabs")
}

// references renders see-also links, events and tutorial cards.
func (w *writer) references(doc model.ParsedJSDoc) {
	if len(doc.See) > 0 {
		w.sb.WriteString("**See also**\n\n")
		items := make([]string, 0, len(doc.See))
		for _, s := range doc.See {
			items = append(items, seeItem(s))
		}
		w.list(items)
	}

	var events []string
	if len(doc.Fires) > 0 {
		events = append(events, "Emits: "+codeList(doc.Fires))
	}
	if len(doc.Listens) > 0 {
		events = append(events, "Listens to: "+codeList(doc.Listens))
	}
	if len(events) > 0 {
		w.component("Note", "", strings.Join(events, "\n\n"))
	}

	if len(doc.Tutorials) > 0 {
		w.open("CardGroup", " cols={2}")
		for _, t := range doc.Tutorials {
			w.sb.WriteString(fmt.Sprintf("<Card%s%s icon=\"book-open\" />\n", attr("title", t), attr("href", TutorialHref(t))))
		}
		w.close("CardGroup")
	}
}

// seeItem renders a @see value: inline links are substituted, a bare URL
// becomes a link and a bare symbol becomes an anchor.
func seeItem(s string) string {
	if strings.Contains(s, "{@") {
		return Prose(s)
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	rest := strings.Join(fields[1:], " ")
	label := fields[0]
	if rest != "" {
		label = rest
	}
	return "[" + label + "](" + linkTarget(fields[0]) + ")"
}

func codeList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, it := range items {
		quoted = append(quoted, "`"+it+"`")
	}
	return strings.Join(quoted, ", ")
}

func (w *writer) function(d model.Declaration) {
	fn := d.Function
	if fn == nil {
		return
	}
	if fn.Kind == model.FunctionAlias {
		target, linked := w.links[fn.AliasOf]
		var note string
		switch {
		case !fn.Resolved:
			note = fmt.Sprintf("`%s` is an alias of `%s`, which could not be resolved.", d.Name, fn.AliasOf)
		case linked:
			note = fmt.Sprintf("`%s` is an alias of [`%s`](%s).", d.Name, fn.AliasOf, target)
		default:
			note = fmt.Sprintf("`%s` is an alias of `%s`.", d.Name, fn.AliasOf)
		}
		w.component("Note", "", note)
		if !fn.Resolved {
			return
		}
	}

	sig := "function " + d.Name + typeParams(fn.TypeParameters) + "(" + signatureParams(fn.Parameters) + ")"
	if fn.IsAsync {
		sig = "async " + sig
	}
	if fn.ReturnType != "" {
		sig += ": " + fn.ReturnType
	}
	w.code(w.lang, "", sig)
	w.callable(fn.Parameters, fn.ReturnType, d.Doc)
}

func (w *writer) iface(d model.Declaration) {
	it := d.Interface
	if it == nil {
		return
	}
	sig := "interface " + d.Name + typeParams(it.TypeParameters)
	if len(it.Extends) > 0 {
		sig += " extends " + strings.Join(it.Extends, ", ")
	}
	w.code(w.lang, "", sig)

	if len(it.Properties) > 0 {
		w.heading(1, "Properties")
		for _, p := range it.Properties {
			w.property(p)
		}
	}
	if len(it.Methods) > 0 {
		w.heading(1, "Methods")
		for _, m := range it.Methods {
			w.method(m)
		}
	}
}

func (w *writer) typeAlias(d model.Declaration) {
	if d.TypeAlias == nil {
		return
	}
	w.code(w.lang, "", "type "+d.Name+typeParams(d.TypeAlias.TypeParameters)+" = "+d.TypeAlias.Type)
}

func (w *writer) enum(d model.Declaration) {
	if d.Enum == nil || len(d.Enum.Members) == 0 {
		return
	}
	w.heading(1, "Members")
	w.sb.WriteString("| Member | Value | Description |\n")
	w.sb.WriteString("|--------|-------|-------------|\n")
	for _, m := range d.Enum.Members {
		value := ""
		if m.Value != "" {
			value = "`" + m.Value + "`"
		}
		w.sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", m.Name, value, inlineText(m.Doc.Description)))
	}
	w.sb.WriteString("\n")
}

func (w *writer) constant(d model.Declaration) {
	c := d.Constant
	if c == nil {
		return
	}
	sig := "const " + d.Name
	if c.Type != "" && c.Type != "any" {
		sig += ": " + c.Type
	}
	if c.Value != "" {
		sig += " = " + c.Value
	}
	w.code(w.lang, "", sig)
}
