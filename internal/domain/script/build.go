package script

// Constructors used by loaders. Spans are fixed at construction.

// NewMethodCall creates a method call node.
func NewMethodCall(span Span, receiver Node, name string, args *ArgumentList, parenthesized bool) *MethodCall {
	return &MethodCall{base: base{span}, Receiver: receiver, Name: name, Args: args, Parenthesized: parenthesized}
}

// NewAssignment creates an assignment node.
func NewAssignment(span Span, left, right Node, declaration bool) *Assignment {
	return &Assignment{base: base{span}, Left: left, Right: right, Declaration: declaration}
}

// NewOperation creates an operation node.
func NewOperation(span Span, operator string, operands ...Node) *Operation {
	return &Operation{base: base{span}, Operator: operator, Operands: operands}
}

// NewArgumentList creates an argument list node.
func NewArgumentList(span Span, args []Node) *ArgumentList {
	return &ArgumentList{base: base{span}, Args: args}
}

// NewClosure creates a closure node.
func NewClosure(span Span, params []string, statements []Node) *Closure {
	return &Closure{base: base{span}, Params: params, Statements: statements}
}

// NewMapLiteral creates a map literal node.
func NewMapLiteral(span Span, entries []*MapEntry) *MapLiteral {
	return &MapLiteral{base: base{span}, Entries: entries}
}

// NewMapEntry creates a map entry node.
func NewMapEntry(span Span, key, value Node) *MapEntry {
	return &MapEntry{base: base{span}, Key: key, Value: value}
}

// NewListLiteral creates a list literal node.
func NewListLiteral(span Span, elements []Node) *ListLiteral {
	return &ListLiteral{base: base{span}, Elements: elements}
}

// NewStringLiteral creates a plain string node.
func NewStringLiteral(span Span, value string) *StringLiteral {
	return &StringLiteral{base: base{span}, Value: value}
}

// NewInterpolatedString creates an interpolated string node.
func NewInterpolatedString(span Span, raw string) *InterpolatedString {
	return &InterpolatedString{base: base{span}, Raw: raw}
}

// NewConstant creates a constant node.
func NewConstant(span Span, literal string) *Constant {
	return &Constant{base: base{span}, Literal: literal}
}

// NewIdentifier creates an identifier node.
func NewIdentifier(span Span, name string) *Identifier {
	return &Identifier{base: base{span}, Name: name}
}

// NewPropertyAccess creates a property access node.
func NewPropertyAccess(span Span, receiver Node, name string, safe bool) *PropertyAccess {
	return &PropertyAccess{base: base{span}, Receiver: receiver, Name: name, Safe: safe}
}
