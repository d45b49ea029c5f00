package extraction

import (
	"strings"

	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/valueobject"
)

const extPrefix = "ext"

// PropertyExtractor recognises extra properties: assignments inside an ext
// block and assignments whose target starts with ext.
type PropertyExtractor struct {
	tree       *script.Tree
	extBlocks  int
	properties []valueobject.Property
}

var _ Visitor = (*PropertyExtractor)(nil)

// NewPropertyExtractor creates an extractor for a single traversal of tree.
func NewPropertyExtractor(tree *script.Tree) *PropertyExtractor {
	return &PropertyExtractor{tree: tree}
}

// Properties returns the properties found, in source order.
func (e *PropertyExtractor) Properties() []valueobject.Property {
	return e.properties
}

func (e *PropertyExtractor) VisitMethodCall(n *script.MethodCall) Step {
	if n.Name != extPrefix {
		return Descend()
	}
	e.extBlocks++
	return Scoped(func() { e.extBlocks-- })
}

func (e *PropertyExtractor) VisitAssignment(n *script.Assignment) Step {
	left := e.tree.Text(n.Left)
	if e.extBlocks > 0 || strings.HasPrefix(left, extPrefix) {
		name := strings.Replace(left, extPrefix+".", "", 1)
		e.properties = append(e.properties, valueobject.NewProperty(name, e.tree.Text(n.Right)))
	}
	return Descend()
}

func (e *PropertyExtractor) VisitOperation(*script.Operation) Step             { return Descend() }
func (e *PropertyExtractor) VisitArgumentList(*script.ArgumentList) Step       { return Descend() }
func (e *PropertyExtractor) VisitClosure(*script.Closure) Step                 { return Descend() }
func (e *PropertyExtractor) VisitMap(*script.MapLiteral) Step                  { return Descend() }
func (e *PropertyExtractor) VisitMapEntry(*script.MapEntry) Step               { return Descend() }
func (e *PropertyExtractor) VisitList(*script.ListLiteral) Step                { return Descend() }
func (e *PropertyExtractor) VisitString(*script.StringLiteral) Step            { return Skip() }
func (e *PropertyExtractor) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (e *PropertyExtractor) VisitConstant(*script.Constant) Step               { return Skip() }
func (e *PropertyExtractor) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (e *PropertyExtractor) VisitProperty(*script.PropertyAccess) Step         { return Descend() }
