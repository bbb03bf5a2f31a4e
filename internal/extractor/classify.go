package extractor

import (
	"strings"

	"github.com/example/mdxgen/internal/model"
)

// ExportKind describes how a function-like binding reaches the module exports.
type ExportKind int

const (
	// ExportDeclaration is a declaration carrying its own body.
	ExportDeclaration ExportKind = iota
	// ExportAlias is a binding to another identifier (`const a = b`, `export { b as a }`).
	ExportAlias
)

// Classify returns the kind of a function-like declaration. It depends only
// on its arguments: aliases are always FunctionAlias; otherwise a name
// starting with "use" followed by an upper-case letter is a hook, a name
// starting with an upper-case letter and containing no underscore is a
// component, and anything else is a plain function.
func Classify(name string, exportKind ExportKind) model.FunctionKind {
	if exportKind == ExportAlias {
		return model.FunctionAlias
	}
	if len(name) > 3 && strings.HasPrefix(name, "use") && isUpper(name[3]) {
		return model.FunctionHook
	}
	if name != "" && isUpper(name[0]) && !strings.Contains(name, "_") {
		return model.FunctionComponent
	}
	return model.FunctionPlain
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// MemberKind is the classification of a class member.
type MemberKind int

const (
	MemberProperty MemberKind = iota
	MemberMethod
	MemberConstructor
)

// ClassifyMember classifies a class member from its name and declaration
// head (the text up to its body). A member is a method when the head has a
// parameter list that is not the right-hand side of an assignment, so
// `handler = function () {}` and `cb = () => {}` are properties. The
// constructor and a conventional init method share the constructor slot.
func ClassifyMember(name, head string) MemberKind {
	paren := strings.IndexByte(head, '(')
	if paren < 0 {
		return MemberProperty
	}
	if i := assignIndex(head); i >= 0 && i < paren {
		return MemberProperty
	}
	if c := strings.IndexByte(head, ':'); c >= 0 && c < paren {
		return MemberProperty
	}
	if name == "constructor" || name == "init" {
		return MemberConstructor
	}
	return MemberMethod
}

// assignIndex returns the index of the first '=' that is an assignment,
// skipping '=>' and comparison operators.
func assignIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		if i+1 < len(s) && (s[i+1] == '>' || s[i+1] == '=') {
			i++
			continue
		}
		if i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0 {
			continue
		}
		return i
	}
	return -1
}
