package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spanOf(src string, start, end int) Span {
	return Span{StartLine: 1, StartColumn: start + 1, EndLine: 1, EndColumn: end + 1, StartOffset: start, EndOffset: end}
}

func TestTree_Text(t *testing.T) {
	src := `foo = "1.0" + bar(x)`
	str := NewStringLiteral(spanOf(src, 6, 11), "1.0")
	call := NewMethodCall(spanOf(src, 14, 20), nil, "bar",
		NewArgumentList(spanOf(src, 17, 20), []Node{NewIdentifier(spanOf(src, 18, 19), "x")}), true)
	op := NewOperation(spanOf(src, 6, 20), "+", str, call)
	lhs := NewIdentifier(spanOf(src, 0, 3), "foo")
	assign := NewAssignment(spanOf(src, 0, 20), lhs, op, false)

	tree := NewTree("build.gradle", []byte(src), []Node{assign}, nil)

	assert.Equal(t, "build.gradle", tree.Name())
	assert.Equal(t, "1.0", tree.Text(str))
	assert.Equal(t, `"1.0"`, tree.SourceText(str))
	assert.Equal(t, "foo", tree.Text(lhs))
	assert.Equal(t, `bar(x)`, tree.Text(call))
	assert.Equal(t, `"1.0" + bar(x)`, tree.Text(op))
	assert.Equal(t, src, tree.Text(assign))
	assert.Equal(t, "", tree.Text(nil))
	require.Len(t, tree.Statements(), 1)
	assert.Empty(t, tree.Declarations())
}

func TestTree_SourceTextOutOfRange(t *testing.T) {
	tree := NewTree("x", []byte("abc"), nil, nil)
	bad := NewIdentifier(Span{StartOffset: 2, EndOffset: 10}, "zz")

	assert.Equal(t, "", tree.SourceText(bad))
	assert.Equal(t, "zz", tree.Text(bad))
}

func TestMethodCall_TrailingClosure(t *testing.T) {
	closure := NewClosure(Span{}, nil, nil)
	withClosure := NewMethodCall(Span{}, nil, "dependencies", NewArgumentList(Span{}, []Node{closure}), false)
	withoutClosure := NewMethodCall(Span{}, nil, "mavenCentral", NewArgumentList(Span{}, nil), true)
	noArgs := NewMethodCall(Span{}, nil, "x", nil, false)

	assert.Same(t, closure, withClosure.TrailingClosure())
	assert.Nil(t, withoutClosure.TrailingClosure())
	assert.Nil(t, noArgs.TrailingClosure())
	assert.Equal(t, 0, noArgs.Args.Len())
}

func TestSpan_Cover(t *testing.T) {
	a := Span{StartLine: 1, StartColumn: 5, EndLine: 1, EndColumn: 9, StartOffset: 4, EndOffset: 8}
	b := Span{StartLine: 2, StartColumn: 1, EndLine: 3, EndColumn: 2, StartOffset: 10, EndOffset: 20}

	got := a.Cover(b)

	assert.Equal(t, Position{Line: 1, Column: 5}, got.Start())
	assert.Equal(t, Position{Line: 3, Column: 2}, got.End())
	assert.Equal(t, 4, got.StartOffset)
	assert.Equal(t, 20, got.EndOffset)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "method_call", (&MethodCall{}).Kind().String())
	assert.Equal(t, "interpolated_string", KindInterpolatedString.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
