// Package model holds the declaration tree produced by the extractor and
// consumed by the renderer.
package model

import "fmt"

// Kind is the top-level declaration kind.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindFunction  Kind = "function"
	KindTypeAlias Kind = "type"
	KindEnum      Kind = "enum"
	KindConstant  Kind = "constant"
)

// FunctionKind distinguishes the flavours of function-like declarations.
type FunctionKind string

const (
	FunctionPlain FunctionKind = "function"
	FunctionHook  FunctionKind = "hook"
	// FunctionComponent is a PascalCase function, treated as a UI component.
	FunctionComponent FunctionKind = "component"
	// FunctionAlias is an exported identifier bound to another function.
	FunctionAlias FunctionKind = "alias"
)

// Visibility of a member as declared by modifier or JSDoc tag.
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
)

// Param is a single function or method parameter.
type Param struct {
	Name        string
	Type        string
	Optional    bool
	Default     string
	Description string
}

// String renders the parameter as "name: type - description".
func (p Param) String() string {
	return fmt.Sprintf("%s: %s - %s", p.Name, p.Type, p.Description)
}

// Returns describes a @returns tag.
type Returns struct {
	Type        string
	Description string
}

// Throws describes a @throws tag.
type Throws struct {
	Type        string
	Description string
}

// Example is a single @example block.
type Example struct {
	Caption string
	Code    string
}

// Deprecation is set when a @deprecated tag is present. An empty Message
// means the tag carried no text.
type Deprecation struct {
	Message string
}

// Tag is an unrecognised JSDoc tag kept verbatim.
type Tag struct {
	Name  string
	Value string
}

// ParsedJSDoc is the structured form of a /** ... */ block.
type ParsedJSDoc struct {
	Description     string
	Summary         string
	Params          []Param
	Returns         *Returns
	Examples        []Example
	Tutorials       []string
	Since           string
	Deprecated      *Deprecation
	Throws          []Throws
	See             []string
	Fires           []string
	Listens         []string
	Todos           []string
	Visibility      Visibility
	Async           bool
	HideConstructor bool
	Readonly        bool
	Type            string
	Default         string
	Unknown         []Tag
}

// IsEmpty reports whether the block carried no description and no tags.
func (d ParsedJSDoc) IsEmpty() bool {
	return d.Description == "" && len(d.Params) == 0 && d.Returns == nil &&
		len(d.Examples) == 0 && len(d.Tutorials) == 0 && d.Since == "" &&
		d.Deprecated == nil && len(d.Throws) == 0 && len(d.See) == 0 &&
		len(d.Fires) == 0 && len(d.Listens) == 0 && len(d.Todos) == 0 &&
		!d.Async && !d.HideConstructor && !d.Readonly && d.Type == "" &&
		d.Default == "" && len(d.Unknown) == 0 &&
		(d.Visibility == "" || d.Visibility == Public)
}

// MethodDecl is a class or interface method.
type MethodDecl struct {
	Name       string
	Parameters []Param
	ReturnType string
	IsStatic   bool
	IsAsync    bool
	IsGetter   bool
	IsSetter   bool
	Visibility Visibility
	Doc        ParsedJSDoc
}

// PropertyDecl is a class or interface property.
type PropertyDecl struct {
	Name        string
	Type        string
	IsStatic    bool
	IsReadonly  bool
	IsOptional  bool
	Initializer string
	Visibility  Visibility
	Doc         ParsedJSDoc
}

// ClassDecl describes a class. Constructor never appears in Methods.
type ClassDecl struct {
	Extends          string
	Implements       []string
	TypeParameters   []string
	Abstract         bool
	Constructor      *MethodDecl
	Methods          []MethodDecl
	StaticMethods    []MethodDecl
	Properties       []PropertyDecl
	StaticProperties []PropertyDecl
	HideConstructor  bool
}

// FunctionDecl describes a function, hook, component or alias.
type FunctionDecl struct {
	Parameters     []Param
	ReturnType     string
	TypeParameters []string
	IsAsync        bool
	Kind           FunctionKind
	// AliasOf names the identifier an alias was bound to.
	AliasOf string
	// Resolved is false when AliasOf could not be followed to a documented function.
	Resolved bool
	// TargetKind is the kind of the function an alias resolved to.
	TargetKind FunctionKind
}

// InterfaceDecl describes a TypeScript interface.
type InterfaceDecl struct {
	Extends        []string
	TypeParameters []string
	Properties     []PropertyDecl
	Methods        []MethodDecl
}

// TypeAliasDecl describes a `type X = ...` declaration.
type TypeAliasDecl struct {
	Type           string
	TypeParameters []string
}

// EnumMember is a single enum entry.
type EnumMember struct {
	Name  string
	Value string
	Doc   ParsedJSDoc
}

// EnumDecl describes a TypeScript enum.
type EnumDecl struct {
	Members []EnumMember
}

// ConstantDecl describes an exported non-function binding.
type ConstantDecl struct {
	Type  string
	Value string
}

// Declaration is a top-level exported declaration. Exactly one of the
// kind-specific pointers is set, matching Kind.
type Declaration struct {
	Kind     Kind
	Name     string
	FileName string
	Line     int
	Doc      ParsedJSDoc

	Class     *ClassDecl
	Function  *FunctionDecl
	Interface *InterfaceDecl
	TypeAlias *TypeAliasDecl
	Enum      *EnumDecl
	Constant  *ConstantDecl
}
