package extraction

import (
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/valueobject"
)

// DependencyBlockLocator finds the first dependencies call of a script and,
// when it has a trailing closure, the positions of that closure's braces.
type DependencyBlockLocator struct {
	tree  *script.Tree
	block valueobject.DependencyBlock
}

var _ Visitor = (*DependencyBlockLocator)(nil)

// NewDependencyBlockLocator creates a locator for a single traversal of tree.
func NewDependencyBlockLocator(tree *script.Tree) *DependencyBlockLocator {
	return &DependencyBlockLocator{tree: tree, block: valueobject.MissingDependencyBlock()}
}

// Block returns the located block, or MissingDependencyBlock.
func (l *DependencyBlockLocator) Block() valueobject.DependencyBlock {
	return l.block
}

func (l *DependencyBlockLocator) VisitMethodCall(n *script.MethodCall) Step {
	if l.block.Found() {
		return Skip()
	}
	if n.Name != "dependencies" {
		return Descend()
	}
	l.block.Line = n.Span().StartLine
	if closure := n.TrailingClosure(); closure != nil {
		span := closure.Span()
		l.block.ClosingBraceLine = span.EndLine
		l.block.ClosingBraceColumn = span.EndColumn - 1
		switch l.block.Line {
		case span.EndLine:
			l.block.BraceColumn = l.block.ClosingBraceColumn
		case span.StartLine:
			l.block.BraceColumn = span.StartColumn
		}
	}
	return Skip()
}

func (l *DependencyBlockLocator) VisitAssignment(*script.Assignment) Step           { return l.descend() }
func (l *DependencyBlockLocator) VisitOperation(*script.Operation) Step             { return l.descend() }
func (l *DependencyBlockLocator) VisitArgumentList(*script.ArgumentList) Step       { return l.descend() }
func (l *DependencyBlockLocator) VisitClosure(*script.Closure) Step                 { return l.descend() }
func (l *DependencyBlockLocator) VisitMap(*script.MapLiteral) Step                  { return l.descend() }
func (l *DependencyBlockLocator) VisitMapEntry(*script.MapEntry) Step               { return l.descend() }
func (l *DependencyBlockLocator) VisitList(*script.ListLiteral) Step                { return l.descend() }
func (l *DependencyBlockLocator) VisitString(*script.StringLiteral) Step            { return Skip() }
func (l *DependencyBlockLocator) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (l *DependencyBlockLocator) VisitConstant(*script.Constant) Step               { return Skip() }
func (l *DependencyBlockLocator) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (l *DependencyBlockLocator) VisitProperty(*script.PropertyAccess) Step         { return l.descend() }

func (l *DependencyBlockLocator) descend() Step {
	if l.block.Found() {
		return Skip()
	}
	return Descend()
}
