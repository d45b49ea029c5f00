package extraction

import (
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/valueobject"
)

// DependencyExtractor recognises dependency declarations. It is
// scope-agnostic: any call whose arguments have a dependency shape counts,
// inside a dependencies block or not.
type DependencyExtractor struct {
	tree         *script.Tree
	dependencies []valueobject.Dependency
}

var _ Visitor = (*DependencyExtractor)(nil)

// NewDependencyExtractor creates an extractor for a single traversal of tree.
func NewDependencyExtractor(tree *script.Tree) *DependencyExtractor {
	return &DependencyExtractor{tree: tree}
}

// Dependencies returns the declarations found, in source order.
func (e *DependencyExtractor) Dependencies() []valueobject.Dependency {
	return e.dependencies
}

// VisitArgumentList inspects argument lists of one argument, or of two when
// the second is a closure as in implementation('g:n:v') { ... }.
func (e *DependencyExtractor) VisitArgumentList(n *script.ArgumentList) Step {
	switch n.Len() {
	case 1:
		e.shorthand(n.Args[0])
	case 2:
		if _, ok := n.Args[1].(*script.Closure); ok {
			e.shorthand(n.Args[0])
		}
	}
	return Descend()
}

func (e *DependencyExtractor) shorthand(arg script.Node) {
	switch arg.(type) {
	case *script.StringLiteral, *script.InterpolatedString:
	default:
		return
	}
	if dep, ok := valueobject.ParseShorthandDependency(e.tree.Text(arg)); ok {
		e.dependencies = append(e.dependencies, dep)
	}
}

// VisitMap treats any map with a name key as a dependency, as in
// implementation group: 'g', name: 'n', version: 'v'.
func (e *DependencyExtractor) VisitMap(n *script.MapLiteral) Step {
	fields := make(map[string]string, len(n.Entries))
	for _, entry := range n.Entries {
		fields[e.tree.Text(entry.Key)] = e.tree.Text(entry.Value)
	}
	if name, ok := fields["name"]; ok {
		e.dependencies = append(e.dependencies, valueobject.NewDependency(fields["group"], name, fields["version"]))
	}
	return Descend()
}

func (e *DependencyExtractor) VisitMethodCall(*script.MethodCall) Step           { return Descend() }
func (e *DependencyExtractor) VisitAssignment(*script.Assignment) Step           { return Descend() }
func (e *DependencyExtractor) VisitOperation(*script.Operation) Step             { return Descend() }
func (e *DependencyExtractor) VisitClosure(*script.Closure) Step                 { return Descend() }
func (e *DependencyExtractor) VisitMapEntry(*script.MapEntry) Step               { return Descend() }
func (e *DependencyExtractor) VisitList(*script.ListLiteral) Step                { return Descend() }
func (e *DependencyExtractor) VisitString(*script.StringLiteral) Step            { return Skip() }
func (e *DependencyExtractor) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (e *DependencyExtractor) VisitConstant(*script.Constant) Step               { return Skip() }
func (e *DependencyExtractor) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (e *DependencyExtractor) VisitProperty(*script.PropertyAccess) Step         { return Descend() }
