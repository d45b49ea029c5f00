package extraction

import (
	"gradlemeta/internal/domain/script"
)

// IncludedBuildExtractor collects the directories named by includeBuild
// calls in a settings script.
type IncludedBuildExtractor struct {
	paths []string
}

var _ Visitor = (*IncludedBuildExtractor)(nil)

// NewIncludedBuildExtractor creates an extractor for a single traversal.
func NewIncludedBuildExtractor() *IncludedBuildExtractor {
	return &IncludedBuildExtractor{}
}

// IncludedBuilds returns the included build directories as written.
func (e *IncludedBuildExtractor) IncludedBuilds() []string {
	return e.paths
}

func (e *IncludedBuildExtractor) VisitMethodCall(n *script.MethodCall) Step {
	if n.Name == "includeBuild" && n.Receiver == nil && n.Args.Len() > 0 {
		if path, ok := literalPath(n.Args.Args[0]); ok {
			e.paths = append(e.paths, path)
		}
	}
	return Descend()
}

func (e *IncludedBuildExtractor) VisitAssignment(*script.Assignment) Step           { return Descend() }
func (e *IncludedBuildExtractor) VisitOperation(*script.Operation) Step             { return Descend() }
func (e *IncludedBuildExtractor) VisitArgumentList(*script.ArgumentList) Step       { return Descend() }
func (e *IncludedBuildExtractor) VisitClosure(*script.Closure) Step                 { return Descend() }
func (e *IncludedBuildExtractor) VisitMap(*script.MapLiteral) Step                  { return Descend() }
func (e *IncludedBuildExtractor) VisitMapEntry(*script.MapEntry) Step               { return Descend() }
func (e *IncludedBuildExtractor) VisitList(*script.ListLiteral) Step                { return Descend() }
func (e *IncludedBuildExtractor) VisitString(*script.StringLiteral) Step            { return Skip() }
func (e *IncludedBuildExtractor) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (e *IncludedBuildExtractor) VisitConstant(*script.Constant) Step               { return Skip() }
func (e *IncludedBuildExtractor) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (e *IncludedBuildExtractor) VisitProperty(*script.PropertyAccess) Step         { return Descend() }
