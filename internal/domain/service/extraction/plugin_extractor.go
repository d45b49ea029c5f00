package extraction

import (
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/valueobject"
)

// PluginExtractor recognises versioned plugin requests inside plugins
// blocks: an id call chained with a version call, as in
// id 'org.springframework.boot' version '2.0.5.RELEASE'. Requests without a
// version resolve to core plugins and are not recorded.
type PluginExtractor struct {
	tree    *script.Tree
	blocks  int
	plugins []valueobject.Plugin
}

var _ Visitor = (*PluginExtractor)(nil)

// NewPluginExtractor creates an extractor for a single traversal of tree.
func NewPluginExtractor(tree *script.Tree) *PluginExtractor {
	return &PluginExtractor{tree: tree}
}

// Plugins returns the plugin requests found, in source order.
func (e *PluginExtractor) Plugins() []valueobject.Plugin {
	return e.plugins
}

func (e *PluginExtractor) VisitMethodCall(n *script.MethodCall) Step {
	switch {
	case n.Name == "plugins" && n.Receiver == nil:
		e.blocks++
		return Scoped(func() { e.blocks-- })
	case e.blocks > 0 && n.Name == "version" && n.Args.Len() == 1:
		id, ok := n.Receiver.(*script.MethodCall)
		if ok && id.Name == "id" && id.Receiver == nil && id.Args.Len() == 1 {
			e.plugins = append(e.plugins, valueobject.NewPlugin(e.tree.Text(id.Args.Args[0]), e.tree.Text(n.Args.Args[0])))
		}
	}
	return Descend()
}

func (e *PluginExtractor) VisitAssignment(*script.Assignment) Step           { return Descend() }
func (e *PluginExtractor) VisitOperation(*script.Operation) Step             { return Descend() }
func (e *PluginExtractor) VisitArgumentList(*script.ArgumentList) Step       { return Descend() }
func (e *PluginExtractor) VisitClosure(*script.Closure) Step                 { return Descend() }
func (e *PluginExtractor) VisitMap(*script.MapLiteral) Step                  { return Descend() }
func (e *PluginExtractor) VisitMapEntry(*script.MapEntry) Step               { return Descend() }
func (e *PluginExtractor) VisitList(*script.ListLiteral) Step                { return Descend() }
func (e *PluginExtractor) VisitString(*script.StringLiteral) Step            { return Skip() }
func (e *PluginExtractor) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (e *PluginExtractor) VisitConstant(*script.Constant) Step               { return Skip() }
func (e *PluginExtractor) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (e *PluginExtractor) VisitProperty(*script.PropertyAccess) Step         { return Descend() }
