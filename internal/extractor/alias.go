package extractor

import (
	"github.com/example/mdxgen/internal/model"
)

// resolver applies export filtering and alias resolution across units.
type resolver struct {
	units []*unit
	// functions maps a name to the first documented function declared
	// under it, across all files.
	functions map[string]*entry
}

func newResolver(units []*unit) *resolver {
	r := &resolver{units: units, functions: map[string]*entry{}}
	for _, u := range units {
		for i := range u.entries {
			en := &u.entries[i]
			if en.aliasOf != "" || en.decl.Kind != model.KindFunction {
				continue
			}
			if _, ok := r.functions[en.decl.Name]; !ok {
				r.functions[en.decl.Name] = en
			}
		}
	}
	return r
}

// exported returns the exported declarations of u in source order,
// followed by declarations introduced by renaming export clauses.
func (r *resolver) exported(u *unit) []model.Declaration {
	exportedAs := map[string]bool{}
	for _, s := range u.exports {
		if s.local == s.exported && !s.reexport {
			exportedAs[s.local] = true
		}
	}

	var out []model.Declaration
	for _, en := range u.entries {
		if !en.exported && !exportedAs[en.decl.Name] {
			continue
		}
		if en.aliasOf != "" {
			out = append(out, r.bind(u, en.decl, en.aliasOf))
			continue
		}
		out = append(out, en.decl)
	}

	for _, s := range u.exports {
		if s.local == s.exported {
			continue
		}
		if s.reexport {
			d := model.Declaration{Kind: model.KindFunction, Name: s.exported, FileName: u.path, Line: s.line}
			out = append(out, r.alias(u, d, s.local))
			continue
		}
		d := model.Declaration{Name: s.exported, FileName: u.path, Line: s.line}
		if local := u.lookup(s.local); local != nil {
			d.Line = local.decl.Line
		}
		out = append(out, r.bind(u, d, s.local))
	}
	return out
}

// bind exports d under a local name. A binding to a class, interface, type,
// enum or constant is a copy of that declaration under the new name; any
// other binding is a function alias.
func (r *resolver) bind(u *unit, d model.Declaration, target string) model.Declaration {
	en := r.value(u, target)
	if en == nil {
		return r.alias(u, d, target)
	}
	out := en.decl.Clone()
	out.Name = d.Name
	out.FileName = d.FileName
	out.Line = d.Line
	if d.Doc.Description != "" {
		out.Doc = d.Doc
	} else {
		out.Doc = inheritDoc(d.Doc, en.decl.Doc)
	}
	return out
}

// value follows local alias bindings from name to a declaration that is
// not a function. It returns nil for functions, missing names and cycles.
func (r *resolver) value(u *unit, name string) *entry {
	visited := map[string]bool{}
	for !visited[name] {
		visited[name] = true
		en := u.lookup(name)
		if en == nil {
			return nil
		}
		if en.aliasOf == "" {
			if en.decl.Kind == model.KindFunction {
				return nil
			}
			return en
		}
		name = en.aliasOf
	}
	return nil
}

// inheritDoc returns the target's doc, keeping the alias's own deprecation
// and since tags.
func inheritDoc(own, target model.ParsedJSDoc) model.ParsedJSDoc {
	doc := target.Clone()
	if own.Deprecated != nil {
		doc.Deprecated = own.Deprecated
	}
	if own.Since != "" {
		doc.Since = own.Since
	}
	return doc
}

// alias fills d as an alias of target. Chains of aliases are followed
// until a documented function is found; a missing target or a cycle leaves
// the alias unresolved, rendered as a plain reference.
func (r *resolver) alias(u *unit, d model.Declaration, target string) model.Declaration {
	fn := &model.FunctionDecl{Kind: Classify(d.Name, ExportAlias), AliasOf: target}
	d.Kind = model.KindFunction
	d.Function = fn

	resolved := r.follow(u, target, map[string]bool{d.Name: true})
	if resolved == nil {
		return d
	}
	src := resolved.decl.Function
	fn.Resolved = true
	fn.TargetKind = src.Kind
	fn.Parameters = append([]model.Param(nil), src.Parameters...)
	fn.ReturnType = src.ReturnType
	fn.TypeParameters = append([]string(nil), src.TypeParameters...)
	fn.IsAsync = src.IsAsync
	if d.Doc.Description == "" {
		d.Doc = inheritDoc(d.Doc, resolved.decl.Doc)
	}
	return d
}

// follow resolves name to a non-alias function entry, looking in the
// declaring unit first and then across all units.
func (r *resolver) follow(u *unit, name string, visited map[string]bool) *entry {
	for !visited[name] {
		visited[name] = true
		en := u.lookup(name)
		if en == nil {
			en = r.functions[name]
		}
		if en == nil {
			return nil
		}
		if en.aliasOf == "" {
			if en.decl.Kind != model.KindFunction || en.decl.Function == nil {
				return nil
			}
			return en
		}
		name = en.aliasOf
	}
	return nil
}
