package extractor

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/jsdoc"
	"github.com/example/mdxgen/internal/model"
)

const maxValueLength = 80

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// parseAST extracts a unit from a tree-sitter syntax tree. Trees that
// contain syntax errors are rejected with a KindSource error.
func parseAST(ctx context.Context, path string, content []byte) (*unit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindSource, "tree-sitter parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.New(errors.KindSource, "tree-sitter returned no root node")
	}
	if root.HasError() {
		return nil, errors.Errorf(errors.KindSource, "syntax error near line %d", firstErrorLine(root))
	}

	v := &astVisitor{src: content, unit: &unit{path: path}, signatures: map[string]int{}}
	v.visitProgram(root)
	return v.unit, nil
}

func firstErrorLine(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() || c.Type() == "ERROR" || c.IsMissing() {
			return firstErrorLine(c)
		}
	}
	return int(n.StartPoint().Row) + 1
}

// astVisitor walks declaration nodes by kind. Class members come from the
// class_body children, never from the body text.
type astVisitor struct {
	src  []byte
	unit *unit
	// signatures maps overload signature names to their entry index.
	signatures map[string]int
}

func (v *astVisitor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(v.src[n.StartByte():n.EndByte()])
}

func (v *astVisitor) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func (v *astVisitor) add(d *model.Declaration, exported bool) {
	if d == nil || d.Name == "" {
		return
	}
	v.unit.entries = append(v.unit.entries, entry{decl: *d, exported: exported})
}

func (v *astVisitor) visitProgram(root *sitter.Node) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "export_statement":
			v.visitExport(child)
		case "expression_statement":
			v.visitCommonJS(child)
		default:
			v.visitDeclaration(child, child, false)
		}
	}
}

func (v *astVisitor) visitDeclaration(n, anchor *sitter.Node, exported bool) {
	switch n.Type() {
	case "class_declaration", "abstract_class_declaration", "class":
		v.add(v.classDecl(n, v.docFor(anchor)), exported)
	case "function_declaration", "generator_function_declaration":
		v.addFunction(v.functionDecl(n, anchor), exported, false)
	case "function_signature":
		v.addFunction(v.functionDecl(n, anchor), exported, true)
	case "lexical_declaration", "variable_declaration":
		v.visitVariables(n, anchor, exported)
	case "interface_declaration":
		v.add(v.interfaceDecl(n, anchor), exported)
	case "type_alias_declaration":
		v.add(v.typeAliasDecl(n, anchor), exported)
	case "enum_declaration":
		v.add(v.enumDecl(n, anchor), exported)
	case "ambient_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			v.visitDeclaration(n.NamedChild(i), anchor, exported)
		}
	}
}

// addFunction records a function, merging TypeScript overload signatures
// with the implementation that follows them.
func (v *astVisitor) addFunction(d *model.Declaration, exported, signature bool) {
	if d == nil || d.Name == "" {
		return
	}
	if idx, ok := v.signatures[d.Name]; ok {
		prev := &v.unit.entries[idx]
		if d.Doc.IsEmpty() {
			d.Doc = prev.decl.Doc
			d.Function.Parameters = mergeParams(nil, d.Doc.Params)
		}
		prev.decl = *d
		prev.exported = prev.exported || exported
		if !signature {
			delete(v.signatures, d.Name)
		}
		return
	}
	v.add(d, exported)
	if signature {
		v.signatures[d.Name] = len(v.unit.entries) - 1
	}
}

func (v *astVisitor) visitExport(n *sitter.Node) {
	isDefault := false
	reexport := n.ChildByFieldName("source") != nil
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "default":
			isDefault = true
		case "export_clause":
			v.visitExportClause(child, reexport)
		case "identifier":
			if isDefault {
				name := v.text(child)
				v.unit.exports = append(v.unit.exports, exportSpec{local: name, exported: name, line: v.line(child)})
			}
		case "class", "function_expression", "function", "arrow_function",
			"class_declaration", "abstract_class_declaration", "function_declaration":
			if isDefault {
				v.visitDefaultExpression(child, n)
			} else {
				v.visitDeclaration(child, n, true)
			}
		default:
			v.visitDeclaration(child, n, true)
		}
	}
}

// visitDefaultExpression names an anonymous default export after its file.
func (v *astVisitor) visitDefaultExpression(n, anchor *sitter.Node) {
	name := strings.TrimSuffix(filepath.Base(v.unit.path), filepath.Ext(v.unit.path))
	if t := n.Type(); t == "class" || t == "class_declaration" || t == "abstract_class_declaration" {
		d := v.classDecl(n, v.docFor(anchor))
		if d.Name == "" {
			d.Name = name
		}
		v.add(d, true)
		return
	}
	if id := n.ChildByFieldName("name"); id != nil {
		name = v.text(id)
	}
	v.add(v.functionFromValue(name, n, v.docFor(anchor), v.line(n)), true)
}

func (v *astVisitor) visitExportClause(n *sitter.Node, reexport bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		spec := n.NamedChild(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		local := unquote(v.text(fieldOrFirst(spec, "name")))
		exported := local
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			exported = unquote(v.text(alias))
		}
		if exported == "default" {
			exported = local
		}
		v.unit.exports = append(v.unit.exports, exportSpec{local: local, exported: exported, reexport: reexport, line: v.line(spec)})
	}
}

// visitCommonJS records `module.exports = ...` and `exports.x = y` forms.
func (v *astVisitor) visitCommonJS(n *sitter.Node) {
	if n.NamedChildCount() == 0 {
		return
	}
	assign := n.NamedChild(0)
	if assign.Type() != "assignment_expression" {
		return
	}
	left := v.text(assign.ChildByFieldName("left"))
	right := assign.ChildByFieldName("right")
	if right == nil {
		return
	}
	line := v.line(n)

	switch {
	case left == "module.exports" && right.Type() == "identifier":
		name := v.text(right)
		v.unit.exports = append(v.unit.exports, exportSpec{local: name, exported: name, line: line})
	case left == "module.exports" && right.Type() == "object":
		for i := 0; i < int(right.NamedChildCount()); i++ {
			prop := right.NamedChild(i)
			switch prop.Type() {
			case "shorthand_property_identifier":
				name := v.text(prop)
				v.unit.exports = append(v.unit.exports, exportSpec{local: name, exported: name, line: line})
			case "pair":
				val := prop.ChildByFieldName("value")
				if val != nil && val.Type() == "identifier" {
					v.unit.exports = append(v.unit.exports, exportSpec{
						local:    v.text(val),
						exported: unquote(v.text(prop.ChildByFieldName("key"))),
						line:     line,
					})
				}
			}
		}
	case strings.HasPrefix(left, "exports.") || strings.HasPrefix(left, "module.exports."):
		exported := left[strings.LastIndex(left, ".")+1:]
		if right.Type() == "identifier" {
			v.unit.exports = append(v.unit.exports, exportSpec{local: v.text(right), exported: exported, line: line})
		}
	}
}

// precedingJSDoc returns the /** */ block directly above n. Line comments
// between the block and n are skipped; a blank line breaks the association.
func (v *astVisitor) precedingJSDoc(n *sitter.Node) string {
	row := n.StartPoint().Row
	for prev := n.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Type() != "comment" {
			return ""
		}
		if prev.EndPoint().Row+1 < row {
			return ""
		}
		text := v.text(prev)
		if strings.HasPrefix(text, "/**") && text != "/**/" {
			return text
		}
		row = prev.StartPoint().Row
	}
	return ""
}

func (v *astVisitor) docFor(n *sitter.Node) model.ParsedJSDoc {
	if raw := v.precedingJSDoc(n); raw != "" {
		return jsdoc.Parse(raw)
	}
	return model.ParsedJSDoc{Visibility: model.Public}
}

func (v *astVisitor) classDecl(n *sitter.Node, doc model.ParsedJSDoc) *model.Declaration {
	d := &model.Declaration{
		Kind:     model.KindClass,
		FileName: v.unit.path,
		Line:     v.line(n),
		Doc:      doc,
	}
	cls := &model.ClassDecl{Abstract: n.Type() == "abstract_class_declaration"}
	d.Class = cls

	var body *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "identifier", "type_identifier":
			if d.Name == "" {
				d.Name = v.text(child)
			}
		case "type_parameters":
			cls.TypeParameters = v.typeParams(child)
		case "class_heritage":
			cls.Extends, cls.Implements = v.heritage(child)
		case "class_body":
			body = child
		}
	}
	if body != nil {
		v.classMembers(body, cls)
	}
	finishClass(d)
	return d
}

func (v *astVisitor) heritage(n *sitter.Node) (extends string, implements []string) {
	found := false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "extends_clause":
			found = true
			extends = strings.TrimSpace(strings.TrimPrefix(v.text(child), "extends"))
		case "implements_clause":
			found = true
			implements = splitTopLevel(strings.TrimPrefix(v.text(child), "implements"), ',')
		}
	}
	if !found {
		extends = strings.TrimSpace(strings.TrimPrefix(v.text(n), "extends"))
	}
	return extends, implements
}

func (v *astVisitor) classMembers(body *sitter.Node, cls *model.ClassDecl) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			v.classMethod(child, cls)
		case "field_definition", "public_field_definition":
			v.classField(child, cls)
		}
	}
}

func (v *astVisitor) classMethod(n *sitter.Node, cls *model.ClassDecl) {
	m := model.MethodDecl{Visibility: model.Public, Doc: v.docFor(n)}
	var params, bodyNode *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "accessibility_modifier":
			m.Visibility = model.Visibility(v.text(child))
		case "static":
			m.IsStatic = true
		case "async":
			m.IsAsync = true
		case "get":
			m.IsGetter = true
		case "set":
			m.IsSetter = true
		case "property_identifier", "computed_property_name", "string", "number":
			if m.Name == "" {
				m.Name = unquote(v.text(child))
			}
		case "private_property_identifier":
			if m.Name == "" {
				m.Name = v.text(child)
				m.Visibility = model.Private
			}
		case "formal_parameters":
			params = child
		case "type_annotation", "type_predicate_annotation", "asserts_annotation":
			m.ReturnType = typeText(v.text(child))
		case "statement_block":
			bodyNode = child
		}
	}
	if m.Name == "" {
		return
	}

	head := v.text(n)
	if bodyNode != nil {
		head = string(v.src[n.StartByte():bodyNode.StartByte()])
	}
	placeMethod(cls, m, v.params(params), ClassifyMember(m.Name, head))
}

func (v *astVisitor) classField(n *sitter.Node, cls *model.ClassDecl) {
	p := model.PropertyDecl{Visibility: model.Public, Doc: v.docFor(n)}
	var value *sitter.Node
	afterEquals := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "accessibility_modifier":
			p.Visibility = model.Visibility(v.text(child))
		case "static":
			p.IsStatic = true
		case "readonly":
			p.IsReadonly = true
		case "?":
			p.IsOptional = true
		case "=":
			afterEquals = true
		case "property_identifier", "string", "computed_property_name":
			if p.Name == "" && !afterEquals {
				p.Name = unquote(v.text(child))
				continue
			}
			if afterEquals && value == nil {
				value = child
			}
		case "private_property_identifier":
			if p.Name == "" {
				p.Name = v.text(child)
				p.Visibility = model.Private
			}
		case "type_annotation":
			p.Type = typeText(v.text(child))
		default:
			if afterEquals && value == nil && child.IsNamed() {
				value = child
			}
		}
	}
	if p.Name == "" {
		return
	}
	if value != nil {
		p.Initializer = shorten(v.text(value))
	}

	placeProperty(cls, p, v.inferValue(value))
}

func (v *astVisitor) inferValue(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return inferType(n.Type(), v.text(n))
}

func (v *astVisitor) params(n *sitter.Node) []model.Param {
	if n == nil {
		return nil
	}
	if n.Type() == "identifier" {
		return []model.Param{{Name: v.text(n)}}
	}
	var out []model.Param
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" || child.Type() == "decorator" {
			continue
		}
		p := parseParamText(v.text(child))
		if child.Type() == "optional_parameter" {
			p.Optional = true
		}
		out = append(out, p)
	}
	return out
}

func (v *astVisitor) typeParams(n *sitter.Node) []string {
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "type_parameter" {
			out = append(out, v.text(child))
		}
	}
	return out
}

func (v *astVisitor) functionDecl(n, anchor *sitter.Node) *model.Declaration {
	name := v.text(n.ChildByFieldName("name"))
	return v.functionFromValue(name, n, v.docFor(anchor), v.line(n))
}

// functionFromValue builds a function declaration from a function-like
// node: declaration, expression or arrow function.
func (v *astVisitor) functionFromValue(name string, n *sitter.Node, doc model.ParsedJSDoc, line int) *model.Declaration {
	var sig []model.Param
	fn := &model.FunctionDecl{}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "async":
			fn.IsAsync = true
		case "type_parameters":
			fn.TypeParameters = v.typeParams(child)
		case "formal_parameters":
			sig = v.params(child)
		case "type_annotation", "type_predicate_annotation", "asserts_annotation":
			fn.ReturnType = typeText(v.text(child))
		}
	}
	if p := n.ChildByFieldName("parameter"); p != nil && sig == nil {
		sig = v.params(p)
	}
	fillFunction(fn, name, sig, doc)
	return &model.Declaration{
		Kind:     model.KindFunction,
		Name:     name,
		FileName: v.unit.path,
		Line:     line,
		Doc:      doc,
		Function: fn,
	}
}

func (v *astVisitor) visitVariables(n, anchor *sitter.Node, exported bool) {
	doc := v.docFor(anchor)
	first := true
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		d := model.ParsedJSDoc{Visibility: model.Public}
		if first {
			d = doc
			first = false
		}
		v.variable(child, d, exported)
	}
}

var wrapperCalls = map[string]bool{
	"memo":             true,
	"forwardRef":       true,
	"React.memo":       true,
	"React.forwardRef": true,
	"observer":         true,
}

func (v *astVisitor) variable(n *sitter.Node, doc model.ParsedJSDoc, exported bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil || nameNode.Type() != "identifier" {
		return
	}
	name := v.text(nameNode)
	line := v.line(n)
	annotation := typeText(v.text(n.ChildByFieldName("type")))
	value := n.ChildByFieldName("value")

	if value != nil && value.Type() == "call_expression" && wrapperCalls[v.text(value.ChildByFieldName("function"))] {
		if args := value.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
			value = args.NamedChild(0)
		}
	}

	if value != nil {
		switch value.Type() {
		case "arrow_function", "function_expression", "function", "generator_function":
			v.add(v.functionFromValue(name, value, doc, line), exported)
			return
		case "identifier":
			v.unit.entries = append(v.unit.entries, entry{
				decl:     model.Declaration{Name: name, FileName: v.unit.path, Line: line, Doc: doc},
				exported: exported,
				aliasOf:  v.text(value),
			})
			return
		case "class":
			d := v.classDecl(value, doc)
			d.Name = name
			d.Line = line
			v.add(d, exported)
			return
		}
	}

	c := &model.ConstantDecl{Type: annotation}
	if value != nil {
		c.Value = shorten(v.text(value))
		if c.Type == "" {
			c.Type = inferType(value.Type(), v.text(value))
		}
	}
	if c.Type == "" || c.Type == "any" {
		if doc.Type != "" {
			c.Type = doc.Type
		}
	}
	v.add(&model.Declaration{
		Kind:     model.KindConstant,
		Name:     name,
		FileName: v.unit.path,
		Line:     line,
		Doc:      doc,
		Constant: c,
	}, exported)
}

func (v *astVisitor) interfaceDecl(n, anchor *sitter.Node) *model.Declaration {
	d := &model.Declaration{
		Kind:      model.KindInterface,
		Name:      v.text(n.ChildByFieldName("name")),
		FileName:  v.unit.path,
		Line:      v.line(n),
		Doc:       v.docFor(anchor),
		Interface: &model.InterfaceDecl{},
	}
	iface := d.Interface
	var body *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "type_parameters":
			iface.TypeParameters = v.typeParams(child)
		case "extends_type_clause", "extends_clause":
			iface.Extends = splitTopLevel(strings.TrimPrefix(v.text(child), "extends"), ',')
		case "object_type", "interface_body":
			body = child
		}
	}
	if body == nil {
		return d
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "property_signature":
			p := model.PropertyDecl{
				Name:       unquote(v.text(member.ChildByFieldName("name"))),
				Type:       typeText(v.text(member.ChildByFieldName("type"))),
				Visibility: model.Public,
				Doc:        v.docFor(member),
			}
			for j := 0; j < int(member.ChildCount()); j++ {
				switch member.Child(j).Type() {
				case "?":
					p.IsOptional = true
				case "readonly":
					p.IsReadonly = true
				}
			}
			applyPropertyDoc(&p, "")
			iface.Properties = append(iface.Properties, p)
		case "method_signature":
			m := model.MethodDecl{
				Name:       unquote(v.text(member.ChildByFieldName("name"))),
				ReturnType: typeText(v.text(member.ChildByFieldName("return_type"))),
				Visibility: model.Public,
				Doc:        v.docFor(member),
			}
			applyMemberDoc(&m, v.params(member.ChildByFieldName("parameters")))
			iface.Methods = append(iface.Methods, m)
		}
	}
	return d
}

func (v *astVisitor) typeAliasDecl(n, anchor *sitter.Node) *model.Declaration {
	t := &model.TypeAliasDecl{Type: strings.TrimSpace(v.text(n.ChildByFieldName("value")))}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		t.TypeParameters = v.typeParams(tp)
	}
	return &model.Declaration{
		Kind:      model.KindTypeAlias,
		Name:      v.text(n.ChildByFieldName("name")),
		FileName:  v.unit.path,
		Line:      v.line(n),
		Doc:       v.docFor(anchor),
		TypeAlias: t,
	}
}

func (v *astVisitor) enumDecl(n, anchor *sitter.Node) *model.Declaration {
	e := &model.EnumDecl{}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			switch member.Type() {
			case "property_identifier", "string":
				e.Members = append(e.Members, model.EnumMember{Name: unquote(v.text(member)), Doc: v.docFor(member)})
			case "enum_assignment":
				e.Members = append(e.Members, model.EnumMember{
					Name:  unquote(v.text(fieldOrFirst(member, "name"))),
					Value: v.text(member.ChildByFieldName("value")),
					Doc:   v.docFor(member),
				})
			}
		}
	}
	return &model.Declaration{
		Kind:     model.KindEnum,
		Name:     v.text(n.ChildByFieldName("name")),
		FileName: v.unit.path,
		Line:     v.line(n),
		Doc:      v.docFor(anchor),
		Enum:     e,
	}
}

// inferType guesses a display type from a literal initializer.
func inferType(nodeType, text string) string {
	switch nodeType {
	case "number":
		return "number"
	case "string", "template_string":
		return "string"
	case "true", "false":
		return "boolean"
	case "array":
		return "Array"
	case "object":
		return "Object"
	case "regex":
		return "RegExp"
	case "new_expression":
		ctor := strings.TrimSpace(strings.TrimPrefix(text, "new"))
		if i := strings.IndexAny(ctor, "(<"); i >= 0 {
			ctor = ctor[:i]
		}
		return strings.TrimSpace(ctor)
	case "arrow_function", "function_expression", "function":
		return "Function"
	}
	return ""
}

// fieldOrFirst returns the named field of n, or its first named child for
// grammar versions that leave the field unlabelled.
func fieldOrFirst(n *sitter.Node, field string) *sitter.Node {
	if c := n.ChildByFieldName(field); c != nil {
		return c
	}
	if n.NamedChildCount() > 0 {
		return n.NamedChild(0)
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
