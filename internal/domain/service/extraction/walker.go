// Package extraction recognises Gradle declarations in parsed scripts.
//
// A Walker drives a depth-first, pre-order traversal over a script.Tree and
// hands every node to a Visitor. Visitors keep their own scope state and
// return a Step per node; the walker knows nothing about Gradle itself.
package extraction

import (
	"gradlemeta/internal/domain/errors/domain"
	"gradlemeta/internal/domain/script"
)

// DefaultMaxDepth is used when a Walker has no positive MaxDepth.
const DefaultMaxDepth = 256

// Step tells the walker how to continue after a visitor hook.
type Step struct {
	skip    bool
	release func()
}

// Descend visits the node's children.
func Descend() Step { return Step{} }

// Skip leaves the node's children unvisited.
func Skip() Step { return Step{skip: true} }

// Scoped visits the node's children and then calls release. release runs on
// every exit path, including a traversal that fails below the node.
func Scoped(release func()) Step { return Step{release: release} }

// Visitor has one hook per node kind.
type Visitor interface {
	VisitMethodCall(n *script.MethodCall) Step
	VisitAssignment(n *script.Assignment) Step
	VisitOperation(n *script.Operation) Step
	VisitArgumentList(n *script.ArgumentList) Step
	VisitClosure(n *script.Closure) Step
	VisitMap(n *script.MapLiteral) Step
	VisitMapEntry(n *script.MapEntry) Step
	VisitList(n *script.ListLiteral) Step
	VisitString(n *script.StringLiteral) Step
	VisitInterpolated(n *script.InterpolatedString) Step
	VisitConstant(n *script.Constant) Step
	VisitIdentifier(n *script.Identifier) Step
	VisitProperty(n *script.PropertyAccess) Step
}

// Walker traverses the statements of a tree. Declarations are not visited.
type Walker struct {
	MaxDepth int
}

// NewWalker creates a walker bounded by maxDepth.
func NewWalker(maxDepth int) Walker {
	return Walker{MaxDepth: maxDepth}
}

// Walk visits every statement of tree in document order. It fails only when
// the tree nests deeper than MaxDepth.
func (w Walker) Walk(tree *script.Tree, v Visitor) error {
	if tree == nil {
		return domain.ErrNilTree
	}
	limit := w.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	t := traversal{visitor: v, maxDepth: limit}
	for _, stmt := range tree.Statements() {
		if err := t.walk(stmt, 1); err != nil {
			return err.WithSource(tree.Name())
		}
	}
	return nil
}

type traversal struct {
	visitor  Visitor
	maxDepth int
}

func (t *traversal) walk(n script.Node, depth int) *domain.ScriptError {
	if depth > t.maxDepth {
		span := n.Span()
		return domain.NewTraversalDepthExceeded(t.maxDepth, span.StartLine, span.StartColumn)
	}

	step := t.visit(n)
	if step.release != nil {
		defer step.release()
	}
	if step.skip {
		return nil
	}
	for _, child := range children(n) {
		if err := t.walk(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (t *traversal) visit(n script.Node) Step {
	v := t.visitor
	switch node := n.(type) {
	case *script.MethodCall:
		return v.VisitMethodCall(node)
	case *script.Assignment:
		return v.VisitAssignment(node)
	case *script.Operation:
		return v.VisitOperation(node)
	case *script.ArgumentList:
		return v.VisitArgumentList(node)
	case *script.Closure:
		return v.VisitClosure(node)
	case *script.MapLiteral:
		return v.VisitMap(node)
	case *script.MapEntry:
		return v.VisitMapEntry(node)
	case *script.ListLiteral:
		return v.VisitList(node)
	case *script.StringLiteral:
		return v.VisitString(node)
	case *script.InterpolatedString:
		return v.VisitInterpolated(node)
	case *script.Constant:
		return v.VisitConstant(node)
	case *script.Identifier:
		return v.VisitIdentifier(node)
	case *script.PropertyAccess:
		return v.VisitProperty(node)
	default:
		return Skip()
	}
}

// children returns the direct children of n in source order. Absent optional
// children are left out.
func children(n script.Node) []script.Node {
	var out []script.Node
	add := func(c script.Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch node := n.(type) {
	case *script.MethodCall:
		add(node.Receiver)
		if node.Args != nil {
			out = append(out, node.Args)
		}
	case *script.Assignment:
		add(node.Left)
		add(node.Right)
	case *script.Operation:
		for _, op := range node.Operands {
			add(op)
		}
	case *script.ArgumentList:
		for _, arg := range node.Args {
			add(arg)
		}
	case *script.Closure:
		for _, stmt := range node.Statements {
			add(stmt)
		}
	case *script.MapLiteral:
		for _, entry := range node.Entries {
			if entry != nil {
				out = append(out, entry)
			}
		}
	case *script.MapEntry:
		add(node.Key)
		add(node.Value)
	case *script.ListLiteral:
		for _, el := range node.Elements {
			add(el)
		}
	case *script.PropertyAccess:
		add(node.Receiver)
	}
	return out
}
