package groovy

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	tree_sitter "github.com/alexaandru/go-tree-sitter-bare"

	"gradlemeta/internal/domain/script"
)

// syntaxNode is a grammar node detached from the tree-sitter tree so that
// conversion runs after the tree is closed.
type syntaxNode struct {
	kind      string
	start     int
	end       int
	isError   bool
	isMissing bool
	children  []*syntaxNode
}

// Leaf kinds whose text equals their kind but which still carry meaning.
var namedLeaves = map[string]bool{
	"identifier": true,
	"null":       true,
	"this":       true,
	"super":      true,
}

// Kinds that never reach the converter.
var commentKinds = map[string]bool{
	"comment":       true,
	"line_comment":  true,
	"block_comment": true,
	"groovy_doc":    true,
	"shebang":       true,
}

// convertTreeSitterNode copies node and its children. Comments are dropped.
func convertTreeSitterNode(node tree_sitter.Node) *syntaxNode {
	if node.IsNull() {
		return nil
	}

	n := &syntaxNode{
		kind:      node.Type(),
		start:     int(node.StartByte()),
		end:       int(node.EndByte()),
		isError:   node.IsError(),
		isMissing: node.IsMissing(),
	}
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.IsNull() || commentKinds[child.Type()] {
			continue
		}
		if c := convertTreeSitterNode(child); c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

func (n *syntaxNode) text(source []byte) string {
	return string(source[n.start:n.end])
}

// named reports whether n is a grammar rule rather than a literal token
// such as '(' or 'def'.
func (n *syntaxNode) named(source []byte) bool {
	if len(n.children) > 0 || n.isError || n.isMissing || namedLeaves[n.kind] {
		return true
	}
	return n.kind != n.text(source)
}

// lineIndex maps byte offsets to 1-based lines and rune columns.
type lineIndex struct {
	source []byte
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{source: source, starts: starts}
}

func (x *lineIndex) position(offset int) (line, column int) {
	row := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	return row + 1, utf8.RuneCount(x.source[x.starts[row]:offset]) + 1
}

func (x *lineIndex) span(start, end int) script.Span {
	startLine, startColumn := x.position(start)
	endLine, endColumn := x.position(end)
	return script.Span{
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
		StartOffset: start,
		EndOffset:   end,
	}
}

// diagnostics lists the ERROR and MISSING nodes under root in source order,
// at most limit of them. ERROR nodes are not searched further.
func diagnostics(root *syntaxNode, source []byte, lines *lineIndex, limit int) []string {
	var out []string
	var visit func(n *syntaxNode)
	visit = func(n *syntaxNode) {
		if len(out) >= limit {
			return
		}
		line, column := lines.position(n.start)
		switch {
		case n.isMissing:
			out = append(out, fmt.Sprintf("%d:%d: missing %q", line, column, n.kind))
			return
		case n.isError:
			if snippet := errorSnippet(n.text(source)); snippet != "" {
				out = append(out, fmt.Sprintf("%d:%d: unexpected %q", line, column, snippet))
			} else {
				out = append(out, fmt.Sprintf("%d:%d: unexpected end of input", line, column))
			}
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(root)
	return out
}

const maxSnippetRunes = 20

func errorSnippet(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	if utf8.RuneCountInString(text) > maxSnippetRunes {
		text = string([]rune(text)[:maxSnippetRunes]) + "..."
	}
	return text
}
