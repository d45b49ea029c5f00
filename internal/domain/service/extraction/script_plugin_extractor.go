package extraction

import (
	"gradlemeta/internal/domain/script"
)

// ScriptPluginExtractor collects the targets of apply from: calls. Targets
// are kept as written; only string literals and file('...') calls qualify
// because anything else needs evaluation to resolve.
type ScriptPluginExtractor struct {
	tree    *script.Tree
	targets []string
}

var _ Visitor = (*ScriptPluginExtractor)(nil)

// NewScriptPluginExtractor creates an extractor for a single traversal of tree.
func NewScriptPluginExtractor(tree *script.Tree) *ScriptPluginExtractor {
	return &ScriptPluginExtractor{tree: tree}
}

// ScriptPlugins returns the applied script targets in source order.
func (e *ScriptPluginExtractor) ScriptPlugins() []string {
	return e.targets
}

func (e *ScriptPluginExtractor) VisitMethodCall(n *script.MethodCall) Step {
	if n.Name != "apply" || n.Receiver != nil || n.Args.Len() == 0 {
		return Descend()
	}
	named, ok := n.Args.Args[0].(*script.MapLiteral)
	if !ok {
		return Descend()
	}
	for _, entry := range named.Entries {
		if e.tree.Text(entry.Key) != "from" {
			continue
		}
		if target, ok := literalPath(entry.Value); ok {
			e.targets = append(e.targets, target)
		}
	}
	return Descend()
}

// literalPath returns the path written as 'x' or file('x').
func literalPath(n script.Node) (string, bool) {
	if call, ok := n.(*script.MethodCall); ok && call.Name == "file" && call.Receiver == nil && call.Args.Len() == 1 {
		n = call.Args.Args[0]
	}
	s, ok := n.(*script.StringLiteral)
	if !ok || s.Value == "" {
		return "", false
	}
	return s.Value, true
}

func (e *ScriptPluginExtractor) VisitAssignment(*script.Assignment) Step           { return Descend() }
func (e *ScriptPluginExtractor) VisitOperation(*script.Operation) Step             { return Descend() }
func (e *ScriptPluginExtractor) VisitArgumentList(*script.ArgumentList) Step       { return Descend() }
func (e *ScriptPluginExtractor) VisitClosure(*script.Closure) Step                 { return Descend() }
func (e *ScriptPluginExtractor) VisitMap(*script.MapLiteral) Step                  { return Descend() }
func (e *ScriptPluginExtractor) VisitMapEntry(*script.MapEntry) Step               { return Descend() }
func (e *ScriptPluginExtractor) VisitList(*script.ListLiteral) Step                { return Descend() }
func (e *ScriptPluginExtractor) VisitString(*script.StringLiteral) Step            { return Skip() }
func (e *ScriptPluginExtractor) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (e *ScriptPluginExtractor) VisitConstant(*script.Constant) Step               { return Skip() }
func (e *ScriptPluginExtractor) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (e *ScriptPluginExtractor) VisitProperty(*script.PropertyAccess) Step         { return Descend() }
