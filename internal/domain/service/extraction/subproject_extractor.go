package extraction

import (
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/valueobject"
)

// SubprojectExtractor collects the arguments of include calls in a settings
// script as subproject paths.
type SubprojectExtractor struct {
	tree      *script.Tree
	separator string
	paths     []valueobject.SubprojectPath
}

var _ Visitor = (*SubprojectExtractor)(nil)

// NewSubprojectExtractor creates an extractor for a single traversal of tree.
// Colons in include arguments are replaced with separator.
func NewSubprojectExtractor(tree *script.Tree, separator string) *SubprojectExtractor {
	if separator == "" {
		separator = valueobject.DefaultPathSeparator
	}
	return &SubprojectExtractor{tree: tree, separator: separator}
}

// Subprojects returns the included paths in declaration order, duplicates kept.
func (e *SubprojectExtractor) Subprojects() []valueobject.SubprojectPath {
	return e.paths
}

func (e *SubprojectExtractor) VisitMethodCall(n *script.MethodCall) Step {
	if n.Name != "include" || n.Args == nil {
		return Descend()
	}
	for _, arg := range n.Args.Args {
		e.paths = append(e.paths, valueobject.NewSubprojectPath(e.tree.Text(arg), e.separator))
	}
	return Descend()
}

func (e *SubprojectExtractor) VisitAssignment(*script.Assignment) Step           { return Descend() }
func (e *SubprojectExtractor) VisitOperation(*script.Operation) Step             { return Descend() }
func (e *SubprojectExtractor) VisitArgumentList(*script.ArgumentList) Step       { return Descend() }
func (e *SubprojectExtractor) VisitClosure(*script.Closure) Step                 { return Descend() }
func (e *SubprojectExtractor) VisitMap(*script.MapLiteral) Step                  { return Descend() }
func (e *SubprojectExtractor) VisitMapEntry(*script.MapEntry) Step               { return Descend() }
func (e *SubprojectExtractor) VisitList(*script.ListLiteral) Step                { return Descend() }
func (e *SubprojectExtractor) VisitString(*script.StringLiteral) Step            { return Skip() }
func (e *SubprojectExtractor) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (e *SubprojectExtractor) VisitConstant(*script.Constant) Step               { return Skip() }
func (e *SubprojectExtractor) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (e *SubprojectExtractor) VisitProperty(*script.PropertyAccess) Step         { return Descend() }
