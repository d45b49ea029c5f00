package script

// Declaration is a parser-produced declaration that is not a script
// statement: a method defined with def name(...) { } or the implicit
// script class. Traversals skip declarations at the root.
type Declaration struct {
	Name      string
	Params    []string
	Body      *Closure
	Synthetic bool
	Span      Span
}

// Tree is a parsed script.
type Tree struct {
	name         string
	source       []byte
	statements   []Node
	declarations []*Declaration
}

// NewTree creates a tree over source. statements are the top-level user
// statements in document order.
func NewTree(name string, source []byte, statements []Node, declarations []*Declaration) *Tree {
	return &Tree{
		name:         name,
		source:       source,
		statements:   statements,
		declarations: declarations,
	}
}

// Name returns the script name or path given to the loader.
func (t *Tree) Name() string { return t.name }

// Source returns the script bytes the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Statements returns the top-level statements.
func (t *Tree) Statements() []Node { return t.statements }

// Declarations returns declarations that traversals do not visit.
func (t *Tree) Declarations() []*Declaration { return t.declarations }

// SourceText returns the verbatim source covered by n.
func (t *Tree) SourceText(n Node) string {
	if n == nil {
		return ""
	}
	span := n.Span()
	if span.StartOffset < 0 || span.EndOffset > len(t.source) || span.StartOffset > span.EndOffset {
		return ""
	}
	return string(t.source[span.StartOffset:span.EndOffset])
}

// Text returns the text of n: the literal value for strings, constants and
// identifiers, and the verbatim source for everything else.
func (t *Tree) Text(n Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case *StringLiteral:
		return v.Value
	case *InterpolatedString:
		return v.Raw
	case *Constant:
		return v.Literal
	case *Identifier:
		return v.Name
	default:
		return t.SourceText(n)
	}
}
