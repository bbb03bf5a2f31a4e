package model

// Clone returns a deep copy of the declaration.
func (d Declaration) Clone() Declaration {
	out := d
	out.Doc = d.Doc.Clone()
	if d.Class != nil {
		c := *d.Class
		c.Implements = cloneStrings(d.Class.Implements)
		c.TypeParameters = cloneStrings(d.Class.TypeParameters)
		if d.Class.Constructor != nil {
			ctor := d.Class.Constructor.Clone()
			c.Constructor = &ctor
		}
		c.Methods = cloneMethods(d.Class.Methods)
		c.StaticMethods = cloneMethods(d.Class.StaticMethods)
		c.Properties = cloneProperties(d.Class.Properties)
		c.StaticProperties = cloneProperties(d.Class.StaticProperties)
		out.Class = &c
	}
	if d.Function != nil {
		f := *d.Function
		f.Parameters = cloneParams(d.Function.Parameters)
		f.TypeParameters = cloneStrings(d.Function.TypeParameters)
		out.Function = &f
	}
	if d.Interface != nil {
		i := *d.Interface
		i.Extends = cloneStrings(d.Interface.Extends)
		i.TypeParameters = cloneStrings(d.Interface.TypeParameters)
		i.Properties = cloneProperties(d.Interface.Properties)
		i.Methods = cloneMethods(d.Interface.Methods)
		out.Interface = &i
	}
	if d.TypeAlias != nil {
		t := *d.TypeAlias
		t.TypeParameters = cloneStrings(d.TypeAlias.TypeParameters)
		out.TypeAlias = &t
	}
	if d.Enum != nil {
		e := EnumDecl{}
		for _, m := range d.Enum.Members {
			m.Doc = m.Doc.Clone()
			e.Members = append(e.Members, m)
		}
		out.Enum = &e
	}
	if d.Constant != nil {
		c := *d.Constant
		out.Constant = &c
	}
	return out
}

// Clone returns a deep copy of the method.
func (m MethodDecl) Clone() MethodDecl {
	out := m
	out.Parameters = cloneParams(m.Parameters)
	out.Doc = m.Doc.Clone()
	return out
}

// Clone returns a deep copy of the doc block.
func (d ParsedJSDoc) Clone() ParsedJSDoc {
	out := d
	out.Params = cloneParams(d.Params)
	if d.Returns != nil {
		r := *d.Returns
		out.Returns = &r
	}
	if d.Deprecated != nil {
		dep := *d.Deprecated
		out.Deprecated = &dep
	}
	if d.Examples != nil {
		out.Examples = append([]Example(nil), d.Examples...)
	}
	if d.Throws != nil {
		out.Throws = append([]Throws(nil), d.Throws...)
	}
	if d.Unknown != nil {
		out.Unknown = append([]Tag(nil), d.Unknown...)
	}
	out.Tutorials = cloneStrings(d.Tutorials)
	out.See = cloneStrings(d.See)
	out.Fires = cloneStrings(d.Fires)
	out.Listens = cloneStrings(d.Listens)
	out.Todos = cloneStrings(d.Todos)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneParams(in []Param) []Param {
	if in == nil {
		return nil
	}
	return append([]Param(nil), in...)
}

func cloneMethods(in []MethodDecl) []MethodDecl {
	if in == nil {
		return nil
	}
	out := make([]MethodDecl, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

func cloneProperties(in []PropertyDecl) []PropertyDecl {
	if in == nil {
		return nil
	}
	out := make([]PropertyDecl, len(in))
	for i, p := range in {
		p.Doc = p.Doc.Clone()
		out[i] = p
	}
	return out
}
