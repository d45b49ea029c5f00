package groovy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds grammar nodes over src. Tokens and leaves are searched
// forward from the last match, so nodes must be built in source order.
type fixture struct {
	src string
	at  int
}

func (f *fixture) leaf(kind, text string) *syntaxNode {
	i := strings.Index(f.src[f.at:], text)
	if i < 0 {
		panic(fmt.Sprintf("%q not found after offset %d", text, f.at))
	}
	start := f.at + i
	f.at = start + len(text)
	return &syntaxNode{kind: kind, start: start, end: f.at}
}

func (f *fixture) tok(text string) *syntaxNode {
	return f.leaf(text, text)
}

func (f *fixture) node(kind string, children ...*syntaxNode) *syntaxNode {
	return &syntaxNode{
		kind:     kind,
		start:    children[0].start,
		end:      children[len(children)-1].end,
		children: children,
	}
}

func TestSyntaxNode_Named(t *testing.T) {
	source := []byte("def x = null")
	f := &fixture{src: string(source)}

	assert.False(t, f.tok("def").named(source))
	assert.True(t, f.leaf("identifier", "x").named(source))
	assert.False(t, f.tok("=").named(source))
	assert.True(t, f.leaf("null", "null").named(source))
	assert.True(t, (&syntaxNode{kind: "}", start: 12, end: 12, isMissing: true}).named(source))
}

func TestLineIndex_Position(t *testing.T) {
	source := []byte("ü = 'x'\n\nb = 1")
	lines := newLineIndex(source)

	tests := []struct {
		offset     int
		wantLine   int
		wantColumn int
	}{
		{offset: 0, wantLine: 1, wantColumn: 1},
		{offset: 3, wantLine: 1, wantColumn: 3},
		{offset: 8, wantLine: 1, wantColumn: 8},
		{offset: 9, wantLine: 2, wantColumn: 1},
		{offset: 10, wantLine: 3, wantColumn: 1},
		{offset: len(source), wantLine: 3, wantColumn: 6},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset %d", tt.offset), func(t *testing.T) {
			line, column := lines.position(tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantColumn, column)
		})
	}

	span := lines.span(3, 4)
	assert.Equal(t, 1, span.StartLine)
	assert.Equal(t, 3, span.StartColumn)
	assert.Equal(t, 4, span.EndColumn)
	assert.Equal(t, 3, span.StartOffset)
	assert.Equal(t, 4, span.EndOffset)
}

func TestDiagnostics(t *testing.T) {
	source := []byte("version = )\ngroup = 'x'\nfoo(\n")
	lines := newLineIndex(source)

	t.Run("error and missing nodes in source order", func(t *testing.T) {
		root := &syntaxNode{kind: "source_file", end: len(source), children: []*syntaxNode{
			{kind: "assignment", start: 0, end: 11, children: []*syntaxNode{
				{kind: "identifier", start: 0, end: 7},
				{kind: "ERROR", start: 10, end: 11, isError: true, children: []*syntaxNode{
					{kind: ")", start: 10, end: 11, isMissing: true},
				}},
			}},
			{kind: "function_call", start: 24, end: 28, children: []*syntaxNode{
				{kind: ")", start: len(source), end: len(source), isMissing: true},
			}},
			{kind: "ERROR", start: len(source), end: len(source), isError: true},
		}}

		got := diagnostics(root, source, lines, MaxDiagnostics)
		assert.Equal(t, []string{
			`1:11: unexpected ")"`,
			`4:1: missing ")"`,
			`4:1: unexpected end of input`,
		}, got)
	})

	t.Run("capped at the limit", func(t *testing.T) {
		root := &syntaxNode{kind: "source_file", end: len(source)}
		for range MaxDiagnostics + 10 {
			root.children = append(root.children, &syntaxNode{kind: "ERROR", start: 10, end: 11, isError: true})
		}
		assert.Len(t, diagnostics(root, source, lines, MaxDiagnostics), MaxDiagnostics)
	})

	t.Run("clean tree", func(t *testing.T) {
		root := &syntaxNode{kind: "source_file", end: len(source)}
		assert.Empty(t, diagnostics(root, source, lines, MaxDiagnostics))
	})
}

func TestErrorSnippet(t *testing.T) {
	assert.Equal(t, ")", errorSnippet("  )\n"))
	assert.Equal(t, "task a {", errorSnippet("task a {\n  doLast {}\n}"))
	assert.Equal(t, "abcdefghijklmnopqrst...", errorSnippet("abcdefghijklmnopqrstuvwxyz"))
	assert.Empty(t, errorSnippet(" \n "))
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		raw              string
		wantValue        string
		wantInterpolated bool
	}{
		{raw: `'plain'`, wantValue: "plain"},
		{raw: `''`, wantValue: ""},
		{raw: `"no placeholder"`, wantValue: "no placeholder"},
		{raw: `"guava:$guavaVersion"`, wantValue: "guava:$guavaVersion", wantInterpolated: true},
		{raw: `"${rootDir}/gradle"`, wantValue: "${rootDir}/gradle", wantInterpolated: true},
		{raw: `"costs \$5 or \$x"`, wantValue: "costs $5 or $x"},
		{raw: `'$notInterpolated'`, wantValue: "$notInterpolated"},
		{raw: `"tab\tnewline\n"`, wantValue: "tab\tnewline\n"},
		{raw: `'café'`, wantValue: "café"},
		{raw: `'bad \u00g'`, wantValue: `bad \u00g`},
		{raw: "'''multi\nline'''", wantValue: "multi\nline"},
		{raw: `"""v$x"""`, wantValue: "v$x", wantInterpolated: true},
		{raw: `/[0-9]+\/x/`, wantValue: "[0-9]+/x"},
		{raw: `/\d+$/`, wantValue: `\d+$`},
		{raw: `$/a/b/$`, wantValue: "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, interpolated := decodeString(tt.raw)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantInterpolated, interpolated)
		})
	}
}

func TestScriptClassName(t *testing.T) {
	require.Equal(t, "build", scriptClassName("app/build.gradle"))
	require.Equal(t, "settings", scriptClassName("settings.gradle"))
	require.Equal(t, "script", scriptClassName(""))
}
