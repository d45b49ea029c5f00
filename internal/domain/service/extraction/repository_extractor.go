package extraction

import (
	"strings"

	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/valueobject"
)

type repositoryScope int

const (
	outsideRepositories repositoryScope = iota
	inRepositories
	inMaven
)

// RepositoryExtractor recognises repository declarations inside
// repositories blocks. Shorthand calls such as mavenCentral() resolve to
// canonical URLs; maven { url ... } blocks yield their URL text.
type RepositoryExtractor struct {
	tree         *script.Tree
	scopes       []repositoryScope
	repositories []valueobject.Repository
}

var _ Visitor = (*RepositoryExtractor)(nil)

// NewRepositoryExtractor creates an extractor for a single traversal of tree.
func NewRepositoryExtractor(tree *script.Tree) *RepositoryExtractor {
	return &RepositoryExtractor{tree: tree}
}

// Repositories returns the repositories found, in source order.
func (e *RepositoryExtractor) Repositories() []valueobject.Repository {
	return e.repositories
}

func (e *RepositoryExtractor) scope() repositoryScope {
	if len(e.scopes) == 0 {
		return outsideRepositories
	}
	return e.scopes[len(e.scopes)-1]
}

// enter pushes s for the duration of the current call's subtree.
func (e *RepositoryExtractor) enter(s repositoryScope) Step {
	e.scopes = append(e.scopes, s)
	return Scoped(func() {
		e.scopes = e.scopes[:len(e.scopes)-1]
	})
}

func (e *RepositoryExtractor) VisitMethodCall(n *script.MethodCall) Step {
	switch scope := e.scope(); {
	case scope == outsideRepositories && n.Name == "repositories":
		return e.enter(inRepositories)
	case scope == inRepositories && n.Name == "maven":
		return e.enter(inMaven)
	case scope == inMaven && n.Name == "url" && n.Args.Len() == 1:
		e.addURL(n.Args.Args[0])
	case scope == inRepositories || scope == inMaven:
		if repo, ok := valueobject.WellKnownRepository(n.Name); ok {
			e.repositories = append(e.repositories, repo)
		}
	}
	return Descend()
}

// VisitAssignment handles the url = '...' form inside a maven block.
func (e *RepositoryExtractor) VisitAssignment(n *script.Assignment) Step {
	if e.scope() == inMaven && e.tree.Text(n.Left) == "url" {
		e.addURL(n.Right)
	}
	return Descend()
}

func (e *RepositoryExtractor) addURL(arg script.Node) {
	if call, ok := arg.(*script.MethodCall); ok && call.Name == "uri" && call.Receiver == nil && call.Args.Len() == 1 {
		arg = call.Args.Args[0]
	}
	text := e.tree.Text(arg)
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = text[1 : len(text)-1]
	}
	e.repositories = append(e.repositories, valueobject.NewRepository(text))
}

func (e *RepositoryExtractor) VisitOperation(*script.Operation) Step             { return Descend() }
func (e *RepositoryExtractor) VisitArgumentList(*script.ArgumentList) Step       { return Descend() }
func (e *RepositoryExtractor) VisitClosure(*script.Closure) Step                 { return Descend() }
func (e *RepositoryExtractor) VisitMap(*script.MapLiteral) Step                  { return Descend() }
func (e *RepositoryExtractor) VisitMapEntry(*script.MapEntry) Step               { return Descend() }
func (e *RepositoryExtractor) VisitList(*script.ListLiteral) Step                { return Descend() }
func (e *RepositoryExtractor) VisitString(*script.StringLiteral) Step            { return Skip() }
func (e *RepositoryExtractor) VisitInterpolated(*script.InterpolatedString) Step { return Skip() }
func (e *RepositoryExtractor) VisitConstant(*script.Constant) Step               { return Skip() }
func (e *RepositoryExtractor) VisitIdentifier(*script.Identifier) Step           { return Skip() }
func (e *RepositoryExtractor) VisitProperty(*script.PropertyAccess) Step         { return Descend() }
