package model

// Category groups declarations for rendering and summary counts.
type Category string

const (
	CategoryClasses    Category = "classes"
	CategoryFunctions  Category = "functions"
	CategoryHooks      Category = "hooks"
	CategoryComponents Category = "components"
	CategoryInterfaces Category = "interfaces"
	CategoryTypes      Category = "types"
	CategoryEnums      Category = "enums"
	CategoryConstants  Category = "constants"
)

// Categories lists every category in rendering order.
var Categories = []Category{
	CategoryClasses,
	CategoryHooks,
	CategoryComponents,
	CategoryFunctions,
	CategoryInterfaces,
	CategoryTypes,
	CategoryEnums,
	CategoryConstants,
}

// Category returns the rendering category of the declaration. Aliases are
// filed under the category of the function they resolve to.
func (d Declaration) Category() Category {
	switch d.Kind {
	case KindClass:
		return CategoryClasses
	case KindInterface:
		return CategoryInterfaces
	case KindTypeAlias:
		return CategoryTypes
	case KindEnum:
		return CategoryEnums
	case KindConstant:
		return CategoryConstants
	}
	if d.Function == nil {
		return CategoryFunctions
	}
	kind := d.Function.Kind
	if kind == FunctionAlias {
		kind = d.Function.TargetKind
	}
	switch kind {
	case FunctionHook:
		return CategoryHooks
	case FunctionComponent:
		return CategoryComponents
	default:
		return CategoryFunctions
	}
}

// SkippedFile records a source file that could not be extracted.
type SkippedFile struct {
	Path   string
	Reason string
}

// Snapshot is the immutable result of an extraction run.
type Snapshot struct {
	Declarations []Declaration
	Files        []string
	Skipped      []SkippedFile
}

// ByCategory returns the declarations in category c, in snapshot order.
func (s Snapshot) ByCategory(c Category) []Declaration {
	var out []Declaration
	for _, d := range s.Declarations {
		if d.Category() == c {
			out = append(out, d)
		}
	}
	return out
}

// Counts returns the number of declarations per category.
func (s Snapshot) Counts() map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, d := range s.Declarations {
		counts[d.Category()]++
	}
	return counts
}

// Lookup returns every declaration with the given name.
func (s Snapshot) Lookup(name string) []Declaration {
	var out []Declaration
	for _, d := range s.Declarations {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}
