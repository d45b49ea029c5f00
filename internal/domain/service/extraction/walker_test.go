package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradlemeta/internal/domain/errors/domain"
	"gradlemeta/internal/domain/script"
)

// recorder logs the kind of every visited node. Calls named in skip are not
// descended into; every other call opens a scope that is tracked in open.
type recorder struct {
	visited []string
	skip    map[string]bool
	open    int
	maxOpen int
}

func (r *recorder) record(n script.Node) Step {
	r.visited = append(r.visited, n.Kind().String())
	return Descend()
}

func (r *recorder) VisitMethodCall(n *script.MethodCall) Step {
	r.visited = append(r.visited, n.Kind().String())
	if r.skip[n.Name] {
		return Skip()
	}
	r.open++
	r.maxOpen = max(r.maxOpen, r.open)
	return Scoped(func() { r.open-- })
}

func (r *recorder) VisitAssignment(n *script.Assignment) Step           { return r.record(n) }
func (r *recorder) VisitOperation(n *script.Operation) Step             { return r.record(n) }
func (r *recorder) VisitArgumentList(n *script.ArgumentList) Step       { return r.record(n) }
func (r *recorder) VisitClosure(n *script.Closure) Step                 { return r.record(n) }
func (r *recorder) VisitMap(n *script.MapLiteral) Step                  { return r.record(n) }
func (r *recorder) VisitMapEntry(n *script.MapEntry) Step               { return r.record(n) }
func (r *recorder) VisitList(n *script.ListLiteral) Step                { return r.record(n) }
func (r *recorder) VisitString(n *script.StringLiteral) Step            { return r.record(n) }
func (r *recorder) VisitInterpolated(n *script.InterpolatedString) Step { return r.record(n) }
func (r *recorder) VisitConstant(n *script.Constant) Step               { return r.record(n) }
func (r *recorder) VisitIdentifier(n *script.Identifier) Step           { return r.record(n) }
func (r *recorder) VisitProperty(n *script.PropertyAccess) Step         { return r.record(n) }

var noSpan script.Span

func call(name string, args ...script.Node) *script.MethodCall {
	return script.NewMethodCall(noSpan, nil, name, script.NewArgumentList(noSpan, args), false)
}

func block(statements ...script.Node) *script.Closure {
	return script.NewClosure(noSpan, nil, statements)
}

// sampleTree models:
//
//	a(1) { b 'x' }
//	v = ext.x
func sampleTree() *script.Tree {
	first := call("a",
		script.NewConstant(noSpan, "1"),
		block(call("b", script.NewStringLiteral(noSpan, "x"))),
	)
	second := script.NewAssignment(noSpan,
		script.NewIdentifier(noSpan, "v"),
		script.NewPropertyAccess(noSpan, script.NewIdentifier(noSpan, "ext"), "x", false),
		false,
	)
	helper := &script.Declaration{Name: "helper", Body: block(call("hidden"))}
	return script.NewTree("build.gradle", nil, []script.Node{first, second}, []*script.Declaration{helper})
}

func TestWalker_PreOrderDocumentOrder(t *testing.T) {
	r := &recorder{}
	require.NoError(t, NewWalker(0).Walk(sampleTree(), r))

	assert.Equal(t, []string{
		"method_call", "argument_list", "constant", "closure",
		"method_call", "argument_list", "string",
		"assignment", "identifier", "property", "identifier",
	}, r.visited)
	assert.Equal(t, 0, r.open)
	assert.Equal(t, 2, r.maxOpen)
}

func TestWalker_SkipLeavesChildrenUnvisited(t *testing.T) {
	r := &recorder{skip: map[string]bool{"a": true}}
	require.NoError(t, NewWalker(0).Walk(sampleTree(), r))

	assert.Equal(t, []string{"method_call", "assignment", "identifier", "property", "identifier"}, r.visited)
}

func TestWalker_DeclarationsAreNotVisited(t *testing.T) {
	tree := sampleTree()
	require.Len(t, tree.Declarations(), 1)

	r := &recorder{}
	require.NoError(t, NewWalker(0).Walk(tree, r))
	calls := 0
	for _, kind := range r.visited {
		if kind == "method_call" {
			calls++
		}
	}
	assert.Equal(t, 2, calls, "the call inside the declaration body must not be visited")
}

func TestWalker_MapAndListChildren(t *testing.T) {
	entry := script.NewMapEntry(noSpan, script.NewIdentifier(noSpan, "k"), script.NewInterpolatedString(noSpan, "$v"))
	tree := script.NewTree("build.gradle", nil, []script.Node{
		script.NewListLiteral(noSpan, []script.Node{
			script.NewMapLiteral(noSpan, []*script.MapEntry{entry}),
			script.NewOperation(noSpan, "-", script.NewConstant(noSpan, "1")),
		}),
	}, nil)

	r := &recorder{}
	require.NoError(t, NewWalker(0).Walk(tree, r))
	assert.Equal(t, []string{
		"list", "map", "map_entry", "identifier", "interpolated_string", "operation", "constant",
	}, r.visited)
}

// nested builds levels calls, each wrapping the next in a trailing closure.
func nested(levels int) script.Node {
	var inner script.Node = call("leaf")
	for i := 0; i < levels; i++ {
		inner = call("level", block(inner))
	}
	return inner
}

func TestWalker_DepthLimit(t *testing.T) {
	tree := script.NewTree("deep.gradle", nil, []script.Node{nested(50)}, nil)

	r := &recorder{}
	err := NewWalker(20).Walk(tree, r)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTraversalDepthExceeded))

	var scriptErr *domain.ScriptError
	require.True(t, errors.As(err, &scriptErr))
	assert.True(t, scriptErr.IsResourceLimit())
	assert.Equal(t, "deep.gradle", scriptErr.Source)
	assert.Contains(t, scriptErr.Message, "maximum depth of 20")

	assert.Equal(t, 0, r.open, "every scope opened before the failure must be released")
	assert.Positive(t, r.maxOpen)

	assert.NoError(t, NewWalker(200).Walk(tree, &recorder{}))
}

func TestWalker_NilTree(t *testing.T) {
	err := NewWalker(0).Walk(nil, &recorder{})
	assert.ErrorIs(t, err, domain.ErrNilTree)
}

func TestStep(t *testing.T) {
	assert.False(t, Descend().skip)
	assert.True(t, Skip().skip)

	released := false
	step := Scoped(func() { released = true })
	assert.False(t, step.skip)
	require.NotNil(t, step.release)
	step.release()
	assert.True(t, released)
}
