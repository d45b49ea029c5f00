// Package groovy loads Gradle Groovy scripts into syntax trees. Scripts are
// parsed with the tree-sitter Groovy grammar and converted into script nodes.
package groovy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	forest "github.com/alexaandru/go-sitter-forest"
	tree_sitter "github.com/alexaandru/go-tree-sitter-bare"

	"gradlemeta/internal/application/common/slogger"
	"gradlemeta/internal/domain/errors/domain"
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/port/outbound"
)

const (
	// DefaultMaxDepth bounds script nesting when no limit is configured.
	DefaultMaxDepth = 256
	// MaxDiagnostics caps the number of messages carried by a parse error.
	MaxDiagnostics = 20
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader parses script text. It keeps no state between calls and is safe
// for concurrent use.
type Loader struct {
	maxDepth int
	grammar  *tree_sitter.Language
}

var _ outbound.ScriptLoader = (*Loader)(nil)

// NewLoader creates a loader. A non-positive maxDepth selects DefaultMaxDepth.
func NewLoader(maxDepth int) *Loader {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Loader{maxDepth: maxDepth, grammar: forest.GetLanguage("groovy")}
}

// LoadFile reads and parses the script at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*script.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return l.Load(ctx, data, path)
}

// LoadString parses in-memory script text.
func (l *Loader) LoadString(ctx context.Context, name, text string) (*script.Tree, error) {
	return l.Load(ctx, []byte(text), name)
}

// Load parses source. name identifies the script in errors and logs.
func (l *Loader) Load(ctx context.Context, source []byte, name string) (*script.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shift := 0
	if bytes.HasPrefix(source, utf8BOM) {
		source = source[len(utf8BOM):]
		shift = len(utf8BOM)
	}
	if offset := invalidUTF8Offset(source); offset >= 0 {
		err := domain.NewEncodingError(offset + shift).WithSource(name)
		slogger.Warn(ctx, "Script rejected", slogger.Fields{
			"script": name,
			"reason": "encoding",
			"offset": offset + shift,
		})
		return nil, err
	}

	root, err := l.parse(ctx, source)
	if err != nil {
		return nil, err
	}

	lines := newLineIndex(source)
	found := diagnostics(root, source, lines, MaxDiagnostics)
	conv := newConverter(source, lines, l.maxDepth)
	var statements []script.Node
	if len(found) == 0 {
		statements = conv.script(root)
		if conv.tooDeep != nil {
			line, column := lines.position(conv.tooDeep.start)
			found = append(found, fmt.Sprintf("%d:%d: nesting exceeds maximum depth of %d", line, column, l.maxDepth))
		}
	}
	if len(found) > 0 {
		err := domain.NewParseError(found).WithSource(name)
		if line, column, ok := diagnosticLocation(found[0]); ok {
			err = err.WithLocation(line, column)
		}
		slogger.Warn(ctx, "Script failed to parse", slogger.Fields{
			"script":      name,
			"diagnostics": len(found),
			"first_error": found[0],
		})
		return nil, err
	}

	declarations := append([]*script.Declaration{{
		Name:      scriptClassName(name),
		Synthetic: true,
		Span:      lines.span(0, len(source)),
	}}, conv.declarations...)

	tree := script.NewTree(name, source, statements, declarations)
	slogger.Debug(ctx, "Script parsed", slogger.Fields{
		"script":       name,
		"statements":   len(statements),
		"declarations": len(declarations),
	})
	return tree, nil
}

// parse runs the grammar over source and detaches the resulting tree.
func (l *Loader) parse(ctx context.Context, source []byte) (*syntaxNode, error) {
	if l.grammar == nil {
		return nil, errors.New("groovy grammar is not available")
	}
	parser := tree_sitter.NewParser()
	if ok := parser.SetLanguage(l.grammar); !ok {
		return nil, errors.New("failed to set groovy language in tree-sitter parser")
	}

	tree, err := parser.ParseString(ctx, nil, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("tree-sitter parsing failed: %w", err)
	}
	defer tree.Close()

	root := convertTreeSitterNode(tree.RootNode())
	if root == nil {
		return nil, errors.New("tree-sitter returned an empty tree")
	}
	return root, nil
}

func invalidUTF8Offset(source []byte) int {
	for offset := 0; offset < len(source); {
		r, size := utf8.DecodeRune(source[offset:])
		if r == utf8.RuneError && size <= 1 {
			return offset
		}
		offset += size
	}
	return -1
}

func diagnosticLocation(message string) (int, int, bool) {
	var line, column int
	if _, err := fmt.Sscanf(message, "%d:%d:", &line, &column); err != nil {
		return 0, 0, false
	}
	return line, column, true
}

// scriptClassName derives the implicit class name Groovy gives a script.
func scriptClassName(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "script"
	}
	return base
}
