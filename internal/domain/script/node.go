// Package script defines the syntax tree of a Gradle Groovy script.
//
// Node is a closed set of kinds: only the types in this package implement it.
// Trees are built by a loader and only read afterwards; visitors must not keep
// nodes after a traversal returns.
package script

// Kind identifies the concrete type of a Node.
type Kind int

const (
	KindMethodCall Kind = iota + 1
	KindAssignment
	KindOperation
	KindArgumentList
	KindClosure
	KindMap
	KindMapEntry
	KindList
	KindString
	KindInterpolatedString
	KindConstant
	KindIdentifier
	KindProperty
)

var kindNames = map[Kind]string{
	KindMethodCall:         "method_call",
	KindAssignment:         "assignment",
	KindOperation:          "operation",
	KindArgumentList:       "argument_list",
	KindClosure:            "closure",
	KindMap:                "map",
	KindMapEntry:           "map_entry",
	KindList:               "list",
	KindString:             "string",
	KindInterpolatedString: "interpolated_string",
	KindConstant:           "constant",
	KindIdentifier:         "identifier",
	KindProperty:           "property",
}

// String returns the snake_case kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is any element of the syntax tree.
type Node interface {
	Kind() Kind
	Span() Span
	node()
}

type base struct {
	span Span
}

func (b base) Span() Span { return b.span }
func (base) node()        {}

// MethodCall is a call such as dependencies { ... }, mavenCentral() or
// implementation 'g:n:v'. Name is the method name without its receiver.
type MethodCall struct {
	base
	Receiver      Node
	Name          string
	Args          *ArgumentList
	Parenthesized bool
}

// Kind implements Node.
func (*MethodCall) Kind() Kind { return KindMethodCall }

// TrailingClosure returns the closure passed after the argument list, if any.
func (c *MethodCall) TrailingClosure() *Closure {
	if c.Args == nil || len(c.Args.Args) == 0 {
		return nil
	}
	closure, _ := c.Args.Args[len(c.Args.Args)-1].(*Closure)
	return closure
}

// Assignment is lhs = rhs, including def declarations.
type Assignment struct {
	base
	Left        Node
	Right       Node
	Declaration bool
}

// Kind implements Node.
func (*Assignment) Kind() Kind { return KindAssignment }

// Operation covers binary, unary, ternary, elvis and index expressions.
type Operation struct {
	base
	Operator string
	Operands []Node
}

// Kind implements Node.
func (*Operation) Kind() Kind { return KindOperation }

// ArgumentList holds call arguments in source order. Named arguments are
// gathered into a single leading MapLiteral and a trailing closure is
// appended as the last argument.
type ArgumentList struct {
	base
	Args []Node
}

// Kind implements Node.
func (*ArgumentList) Kind() Kind { return KindArgumentList }

// Len returns the number of arguments.
func (a *ArgumentList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Args)
}

// Closure is a { params -> statements } block.
type Closure struct {
	base
	Params     []string
	Statements []Node
}

// Kind implements Node.
func (*Closure) Kind() Kind { return KindClosure }

// MapLiteral is [k: v, ...] or a set of named arguments.
type MapLiteral struct {
	base
	Entries []*MapEntry
}

// Kind implements Node.
func (*MapLiteral) Kind() Kind { return KindMap }

// MapEntry is a single key: value pair.
type MapEntry struct {
	base
	Key   Node
	Value Node
}

// Kind implements Node.
func (*MapEntry) Kind() Kind { return KindMapEntry }

// ListLiteral is [a, b, ...].
type ListLiteral struct {
	base
	Elements []Node
}

// Kind implements Node.
func (*ListLiteral) Kind() Kind { return KindList }

// StringLiteral is a quoted string without interpolation. Value is unquoted
// with escapes decoded.
type StringLiteral struct {
	base
	Value string
}

// Kind implements Node.
func (*StringLiteral) Kind() Kind { return KindString }

// InterpolatedString is a double-quoted string containing $ placeholders.
// Raw is the text between the quotes, unevaluated.
type InterpolatedString struct {
	base
	Raw string
}

// Kind implements Node.
func (*InterpolatedString) Kind() Kind { return KindInterpolatedString }

// Constant is a number, boolean or null literal.
type Constant struct {
	base
	Literal string
}

// Kind implements Node.
func (*Constant) Kind() Kind { return KindConstant }

// Identifier is a bare name.
type Identifier struct {
	base
	Name string
}

// Kind implements Node.
func (*Identifier) Kind() Kind { return KindIdentifier }

// PropertyAccess is receiver.name or receiver?.name.
type PropertyAccess struct {
	base
	Receiver Node
	Name     string
	Safe     bool
}

// Kind implements Node.
func (*PropertyAccess) Kind() Kind { return KindProperty }
