package extractor

import (
	"strings"

	"github.com/example/mdxgen/internal/model"
)

// placeMethod files a class method into the constructor slot or the method
// list. Constructor parameters are merged later by finishClass, since the
// constructor may inherit its tags from the class block.
//
// A later member with the same name replaces an earlier one, which folds
// TypeScript overload signatures into their implementation. A constructor
// takes the slot from an init method, which then becomes a plain method.
func placeMethod(cls *model.ClassDecl, m model.MethodDecl, sig []model.Param, kind MemberKind) {
	if kind == MemberConstructor && !m.IsStatic {
		cur := cls.Constructor
		switch {
		case cur == nil:
			m.Parameters = sig
			cls.Constructor = &m
			return
		case cur.Name == m.Name:
			inheritSignatureDoc(&m, cur.Doc)
			m.Parameters = sig
			cls.Constructor = &m
			return
		case m.Name == "constructor":
			demoted := *cur
			applyMemberDoc(&demoted, demoted.Parameters)
			appendMethod(cls, demoted)
			m.Parameters = sig
			cls.Constructor = &m
			return
		}
	}
	applyMemberDoc(&m, sig)
	appendMethod(cls, m)
}

// appendMethod adds m to the static or instance list, replacing an earlier
// member of the same name and accessor kind in place.
func appendMethod(cls *model.ClassDecl, m model.MethodDecl) {
	list := &cls.Methods
	if m.IsStatic {
		list = &cls.StaticMethods
	}
	for i, prev := range *list {
		if prev.Name == m.Name && prev.IsGetter == m.IsGetter && prev.IsSetter == m.IsSetter {
			if inheritSignatureDoc(&m, prev.Doc) {
				m.Parameters = mergeParams(m.Parameters, m.Doc.Params)
				if m.ReturnType == "" && m.Doc.Returns != nil {
					m.ReturnType = m.Doc.Returns.Type
				}
			}
			(*list)[i] = m
			return
		}
	}
	*list = append(*list, m)
}

// inheritSignatureDoc gives m the doc of the signature it replaces when it
// has none of its own, and reports whether it did.
func inheritSignatureDoc(m *model.MethodDecl, prev model.ParsedJSDoc) bool {
	if !m.Doc.IsEmpty() || prev.IsEmpty() {
		return false
	}
	m.Doc = prev.Clone()
	return true
}

// placeProperty files a class field. inferred is the type guessed from the
// initializer, used when neither an annotation nor @type is present.
func placeProperty(cls *model.ClassDecl, p model.PropertyDecl, inferred string) {
	applyPropertyDoc(&p, inferred)
	if p.IsStatic {
		cls.StaticProperties = append(cls.StaticProperties, p)
		return
	}
	cls.Properties = append(cls.Properties, p)
}

// finishClass moves class-level constructor tags onto the constructor and
// drops members that are private or #private.
func finishClass(d *model.Declaration) {
	cls := d.Class
	if cls == nil {
		return
	}
	cls.HideConstructor = d.Doc.HideConstructor

	ctor := cls.Constructor
	if ctor == nil && len(d.Doc.Params) > 0 {
		ctor = &model.MethodDecl{Name: "constructor", Visibility: model.Public}
		cls.Constructor = ctor
	}
	if ctor != nil {
		if len(ctor.Doc.Params) == 0 {
			ctor.Doc.Params = append([]model.Param(nil), d.Doc.Params...)
		}
		if ctor.Doc.Returns == nil && d.Doc.Returns != nil {
			r := *d.Doc.Returns
			ctor.Doc.Returns = &r
		}
		if len(ctor.Doc.Throws) == 0 {
			ctor.Doc.Throws = append([]model.Throws(nil), d.Doc.Throws...)
		}
		if len(ctor.Doc.Examples) == 0 {
			ctor.Doc.Examples = append([]model.Example(nil), d.Doc.Examples...)
		}
		applyMemberDoc(ctor, ctor.Parameters)
		if ctor.Visibility == model.Private {
			cls.Constructor = nil
		}
	}

	cls.Methods = visibleMethods(cls.Methods)
	cls.StaticMethods = visibleMethods(cls.StaticMethods)
	cls.Properties = visibleProperties(cls.Properties)
	cls.StaticProperties = visibleProperties(cls.StaticProperties)
}

func isPrivateName(name string) bool {
	return strings.HasPrefix(name, "#")
}

func visibleMethods(in []model.MethodDecl) []model.MethodDecl {
	out := in[:0]
	for _, m := range in {
		if m.Visibility == model.Private || isPrivateName(m.Name) || hidden(m.Doc) {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func visibleProperties(in []model.PropertyDecl) []model.PropertyDecl {
	out := in[:0]
	for _, p := range in {
		if p.Visibility == model.Private || isPrivateName(p.Name) || hidden(p.Doc) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// applyMemberDoc merges signature parameters with the member's tags.
func applyMemberDoc(m *model.MethodDecl, sig []model.Param) {
	m.Parameters = mergeParams(sig, m.Doc.Params)
	if m.ReturnType == "" && m.Doc.Returns != nil {
		m.ReturnType = m.Doc.Returns.Type
	}
	m.IsAsync = m.IsAsync || m.Doc.Async
	if m.Visibility == "" || (m.Visibility == model.Public && m.Doc.Visibility != "") {
		m.Visibility = m.Doc.Visibility
	}
	if m.Visibility == "" {
		m.Visibility = model.Public
	}
}

func applyPropertyDoc(p *model.PropertyDecl, inferred string) {
	switch {
	case p.Type != "":
	case p.Doc.Type != "":
		p.Type = p.Doc.Type
	case inferred != "":
		p.Type = inferred
	default:
		p.Type = "any"
	}
	if p.Initializer == "" {
		p.Initializer = p.Doc.Default
	}
	p.IsReadonly = p.IsReadonly || p.Doc.Readonly
	if p.Visibility == "" || (p.Visibility == model.Public && p.Doc.Visibility != "") {
		p.Visibility = p.Doc.Visibility
	}
	if p.Visibility == "" {
		p.Visibility = model.Public
	}
}

func fillFunction(fn *model.FunctionDecl, name string, sig []model.Param, doc model.ParsedJSDoc) {
	fn.Kind = Classify(name, ExportDeclaration)
	fn.Parameters = mergeParams(sig, doc.Params)
	if fn.ReturnType == "" && doc.Returns != nil {
		fn.ReturnType = doc.Returns.Type
	}
	fn.IsAsync = fn.IsAsync || doc.Async
}

// typeText strips the leading colon of a type annotation.
func typeText(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ":"))
}

// shorten collapses an initializer to one line of bounded length.
func shorten(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxValueLength {
		return string(r[:maxValueLength-3]) + "..."
	}
	return s
}
