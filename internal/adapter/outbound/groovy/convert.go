package groovy

import (
	"strings"

	"gradlemeta/internal/domain/script"
)

// Statements that carry nothing a Gradle script exposes to extraction.
var droppedKinds = map[string]bool{
	"groovy_import":        true,
	"groovy_package":       true,
	"import_declaration":   true,
	"package_declaration":  true,
	"class_definition":     true,
	"class_declaration":    true,
	"interface_definition": true,
	"enum_definition":      true,
	"annotation":           true,
	"break":                true,
	"continue":             true,
}

var functionKinds = map[string]bool{
	"function_definition":  true,
	"function_declaration": true,
	"method_declaration":   true,
}

var controlKinds = map[string]bool{
	"if_statement":       true,
	"for_loop":           true,
	"for_in_loop":        true,
	"for_statement":      true,
	"while_loop":         true,
	"while_statement":    true,
	"do_while_loop":      true,
	"do_statement":       true,
	"switch_statement":   true,
	"try_statement":      true,
	"catch_clause":       true,
	"finally_clause":     true,
	"else_clause":        true,
	"synchronized_block": true,
}

var callKinds = map[string]bool{
	"function_call":      true,
	"juxt_function_call": true,
	"method_invocation":  true,
}

var literalKinds = map[string]bool{
	"number_literal":  true,
	"integer_literal": true,
	"decimal_literal": true,
	"float_literal":   true,
	"boolean_literal": true,
	"true":            true,
	"false":           true,
	"null":            true,
}

// Nodes that only group statements and are replaced by their children.
var wrapperKinds = map[string]bool{
	"block":           true,
	"closure_body":    true,
	"statements":      true,
	"statement_block": true,
}

var punctuation = map[string]bool{
	";": true, ",": true,
	"(": true, ")": true,
	"{": true, "}": true,
	"[": true, "]": true,
}

// converter turns grammar nodes into script nodes. Nesting of closures,
// parentheses, lists, maps and argument lists is bounded by maxDepth; once
// exceeded the deepest node is recorded and nothing below it is converted.
type converter struct {
	source       []byte
	lines        *lineIndex
	maxDepth     int
	depth        int
	tooDeep      *syntaxNode
	declarations []*script.Declaration
}

func newConverter(source []byte, lines *lineIndex, maxDepth int) *converter {
	return &converter{source: source, lines: lines, maxDepth: maxDepth}
}

// script converts the root node into top-level statements.
func (c *converter) script(root *syntaxNode) []script.Node {
	return c.statements(c.named(root.children))
}

func (c *converter) enter(n *syntaxNode) bool {
	if c.depth >= c.maxDepth {
		if c.tooDeep == nil {
			c.tooDeep = n
		}
		return false
	}
	c.depth++
	return true
}

func (c *converter) leave() { c.depth-- }

func (c *converter) span(n *syntaxNode) script.Span {
	return c.lines.span(n.start, n.end)
}

func (c *converter) text(n *syntaxNode) string {
	return n.text(c.source)
}

// children returns the rule nodes among nodes, wrappers included.
func (c *converter) children(nodes []*syntaxNode) []*syntaxNode {
	out := make([]*syntaxNode, 0, len(nodes))
	for _, n := range nodes {
		if n.named(c.source) {
			out = append(out, n)
		}
	}
	return out
}

// named returns the rule nodes among nodes with wrappers replaced by their
// content.
func (c *converter) named(nodes []*syntaxNode) []*syntaxNode {
	out := make([]*syntaxNode, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case !n.named(c.source):
		case wrapperKinds[n.kind]:
			out = append(out, c.named(n.children)...)
		default:
			out = append(out, n)
		}
	}
	return out
}

// token returns the first literal token of n that is not punctuation.
func (c *converter) token(n *syntaxNode) string {
	for _, child := range n.children {
		if child.named(c.source) {
			continue
		}
		if text := c.text(child); !punctuation[text] {
			return text
		}
	}
	return ""
}

func (c *converter) tokenIndex(n *syntaxNode, text string) int {
	for i, child := range n.children {
		if !child.named(c.source) && c.text(child) == text {
			return i
		}
	}
	return -1
}

// between returns the operator written between two sibling nodes.
func (c *converter) between(a, b *syntaxNode) string {
	return strings.TrimSpace(string(c.source[a.end:b.start]))
}

// statements converts a statement list. Calls that follow each other on one
// line form a command chain, so id 'x' version '1' becomes id('x').version('1').
func (c *converter) statements(nodes []*syntaxNode) []script.Node {
	var out []script.Node
	var previous *syntaxNode
	for _, n := range nodes {
		stmt := c.statement(n)
		if stmt == nil {
			continue
		}
		if previous != nil && callKinds[previous.kind] && callKinds[n.kind] && c.sameLine(previous.end, n.start) {
			head, headOK := out[len(out)-1].(*script.MethodCall)
			link, linkOK := stmt.(*script.MethodCall)
			if headOK && linkOK && link.Receiver == nil {
				out[len(out)-1] = script.NewMethodCall(head.Span().Cover(link.Span()), head, link.Name, link.Args, link.Parenthesized)
				previous = n
				continue
			}
		}
		out = append(out, stmt)
		previous = n
	}
	return out
}

func (c *converter) sameLine(end, start int) bool {
	if end > start {
		return false
	}
	for _, b := range c.source[end:start] {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

func (c *converter) statement(n *syntaxNode) script.Node {
	switch {
	case droppedKinds[n.kind]:
		return nil
	case functionKinds[n.kind]:
		c.function(n)
		return nil
	case n.kind == "declaration":
		return c.variable(n)
	case controlKinds[n.kind]:
		return c.control(n)
	}
	return c.expression(n)
}

func (c *converter) expression(n *syntaxNode) script.Node {
	span := c.span(n)
	switch {
	case n.kind == "closure" || wrapperKinds[n.kind]:
		return c.closure(n)
	case callKinds[n.kind]:
		return c.call(n)
	case n.kind == "parenthesized_expression":
		return c.parenthesized(n)
	case n.kind == "list" || n.kind == "map":
		return c.collection(n)
	case n.kind == "map_item":
		return c.mapEntry(n)
	case n.kind == "assignment":
		return c.assignment(n)
	case n.kind == "declaration":
		if stmt := c.variable(n); stmt != nil {
			return stmt
		}
		return script.NewIdentifier(span, c.text(n))
	case n.kind == "dotted_identifier":
		return c.member(n)
	case n.kind == "index":
		return c.operation(span, "[]", c.named(n.children))
	case n.kind == "ternary_op":
		operands := c.named(n.children)
		if len(operands) == 2 {
			return c.operation(span, "?:", operands)
		}
		return c.operation(span, "?", operands)
	case n.kind == "binary_op":
		return c.binary(n)
	case n.kind == "unary_op":
		return c.unary(n)
	case n.kind == "string" || n.kind == "gstring":
		value, interpolated := decodeString(c.text(n))
		if interpolated {
			return script.NewInterpolatedString(span, value)
		}
		return script.NewStringLiteral(span, value)
	case literalKinds[n.kind]:
		return script.NewConstant(span, c.text(n))
	case controlKinds[n.kind]:
		return c.control(n)
	}
	return c.fallback(n)
}

// fallback converts rules without a dedicated shape. Leaves become
// identifiers; other rules become an operation named by their first token.
func (c *converter) fallback(n *syntaxNode) script.Node {
	span := c.span(n)
	children := c.named(n.children)
	op := c.token(n)
	switch {
	case len(children) == 0:
		return script.NewIdentifier(span, c.text(n))
	case len(children) == 1 && op == "":
		return c.expression(children[0])
	case op == "new":
		return c.instantiation(n, children)
	case op == "":
		op = n.kind
	}
	return c.operation(span, op, children)
}

func (c *converter) operation(span script.Span, op string, nodes []*syntaxNode) script.Node {
	operands := make([]script.Node, 0, len(nodes))
	for _, n := range nodes {
		operands = append(operands, c.expression(n))
	}
	return script.NewOperation(span, op, operands...)
}

func (c *converter) parenthesized(n *syntaxNode) script.Node {
	if !c.enter(n) {
		return script.NewIdentifier(c.span(n), "")
	}
	defer c.leave()

	inner := c.named(n.children)
	if len(inner) == 1 {
		return c.expression(inner[0])
	}
	return c.operation(c.span(n), "()", inner)
}

func (c *converter) collection(n *syntaxNode) script.Node {
	span := c.span(n)
	if !c.enter(n) {
		return script.NewListLiteral(span, nil)
	}
	defer c.leave()

	children := c.named(n.children)
	isMap := n.kind == "map"
	for _, child := range children {
		if child.kind == "map_item" {
			isMap = true
		}
	}
	if !isMap {
		elements := make([]script.Node, 0, len(children))
		for _, child := range children {
			elements = append(elements, c.expression(child))
		}
		return script.NewListLiteral(span, elements)
	}

	entries := make([]*script.MapEntry, 0, len(children))
	for _, child := range children {
		if child.kind == "map_item" {
			entries = append(entries, c.mapEntry(child))
		}
	}
	return script.NewMapLiteral(span, entries)
}

func (c *converter) mapEntry(n *syntaxNode) *script.MapEntry {
	span := c.span(n)
	children := c.named(n.children)
	switch len(children) {
	case 0:
		return script.NewMapEntry(span, script.NewIdentifier(span, c.text(n)), script.NewIdentifier(span, ""))
	case 1:
		return script.NewMapEntry(span, c.expression(children[0]), script.NewIdentifier(c.lines.span(n.end, n.end), ""))
	}
	return script.NewMapEntry(span, c.expression(children[0]), c.expression(children[len(children)-1]))
}

func (c *converter) assignment(n *syntaxNode) script.Node {
	span := c.span(n)
	children := c.named(n.children)
	if len(children) < 2 {
		return c.fallback(n)
	}
	left, right := children[0], children[len(children)-1]
	op := c.between(left, children[1])
	if op == "=" {
		return script.NewAssignment(span, c.expression(left), c.expression(right), false)
	}
	return script.NewOperation(span, op, c.expression(left), c.expression(right))
}

// variable converts a declaration. Declarations without a value, such as
// def x, produce nothing.
func (c *converter) variable(n *syntaxNode) script.Node {
	eq := c.tokenIndex(n, "=")
	if eq < 0 {
		return nil
	}
	before := n.children[:eq]

	var left script.Node
	if open := c.tokenIndex(&syntaxNode{children: before}, "("); open >= 0 {
		var targets []script.Node
		end := before[len(before)-1].end
		for _, child := range before[open+1:] {
			if child.named(c.source) && child.kind == "identifier" {
				targets = append(targets, c.expression(child))
			}
		}
		left = script.NewListLiteral(c.lines.span(before[open].start, end), targets)
	} else {
		names := c.named(before)
		if len(names) == 0 {
			return nil
		}
		left = c.expression(names[len(names)-1])
	}

	values := c.named(n.children[eq+1:])
	if len(values) == 0 {
		return nil
	}
	return script.NewAssignment(c.span(n), left, c.expression(values[0]), true)
}

// member folds a.b?.c into property accesses.
func (c *converter) member(n *syntaxNode) script.Node {
	parts := make([]*syntaxNode, 0, len(n.children))
	for _, child := range c.named(n.children) {
		if child.kind != "access_op" {
			parts = append(parts, child)
		}
	}
	if len(parts) < 2 {
		return c.fallback(n)
	}

	receiver := c.expression(parts[0])
	for i, part := range parts[1:] {
		span := c.lines.span(n.start, part.end)
		op := c.between(parts[i], part)
		name, ok := c.memberName(part)
		switch {
		case !ok:
			receiver = script.NewOperation(span, op, receiver, c.expression(part))
		case op == ".&":
			receiver = script.NewOperation(span, op, receiver, script.NewIdentifier(c.span(part), name))
		default:
			receiver = script.NewPropertyAccess(span, receiver, name, op == "?.")
		}
	}
	return receiver
}

func (c *converter) memberName(n *syntaxNode) (string, bool) {
	if n.kind == "string" {
		value, interpolated := decodeString(c.text(n))
		return value, !interpolated
	}
	if len(c.named(n.children)) > 0 {
		return "", false
	}
	return c.text(n), true
}

func (c *converter) binary(n *syntaxNode) script.Node {
	operands := c.named(n.children)
	if len(operands) < 2 {
		return c.fallback(n)
	}
	result := c.expression(operands[0])
	for i, operand := range operands[1:] {
		op := c.between(operands[i], operand)
		result = script.NewOperation(c.lines.span(n.start, operand.end), op, result, c.expression(operand))
	}
	return result
}

func (c *converter) unary(n *syntaxNode) script.Node {
	operands := c.named(n.children)
	if len(operands) != 1 {
		return c.fallback(n)
	}
	operand := operands[0]
	op := strings.TrimSpace(string(c.source[n.start:operand.start]))
	if op == "" {
		op = strings.TrimSpace(string(c.source[operand.end:n.end]))
	}
	return script.NewOperation(c.span(n), op, c.expression(operand))
}

// call converts a call with or without parentheses. Named arguments are
// gathered into one leading map and closures go last.
func (c *converter) call(n *syntaxNode) script.Node {
	children := c.named(n.children)
	if len(children) == 0 {
		return c.fallback(n)
	}

	callee := c.expression(children[0])
	var (
		named         []*script.MapEntry
		positional    []script.Node
		closures      []script.Node
		parenthesized bool
	)
	add := func(arg *syntaxNode) {
		switch arg.kind {
		case "map_item":
			named = append(named, c.mapEntry(arg))
		case "closure":
			closures = append(closures, c.closure(arg))
		default:
			positional = append(positional, c.expression(arg))
		}
	}
	for _, child := range children[1:] {
		if child.kind != "argument_list" && child.kind != "arguments" {
			add(child)
			continue
		}
		if strings.HasPrefix(c.text(child), "(") {
			parenthesized = true
		}
		if !c.enter(child) {
			continue
		}
		for _, arg := range c.named(child.children) {
			add(arg)
		}
		c.leave()
	}

	argsStart := n.end
	if len(children) > 1 {
		argsStart = children[1].start
	}
	args := c.arguments(c.lines.span(argsStart, n.end), named, positional, closures)
	return makeCall(c.span(n), callee, args, parenthesized)
}

func (c *converter) arguments(span script.Span, named []*script.MapEntry, positional, closures []script.Node) *script.ArgumentList {
	args := make([]script.Node, 0, len(positional)+len(closures)+1)
	if len(named) > 0 {
		mapSpan := named[0].Span().Cover(named[len(named)-1].Span())
		args = append(args, script.NewMapLiteral(mapSpan, named))
	}
	args = append(args, positional...)
	args = append(args, closures...)
	return script.NewArgumentList(span, args)
}

// makeCall converts the callee expression of a call into a MethodCall.
func makeCall(span script.Span, callee script.Node, args *script.ArgumentList, parenthesized bool) script.Node {
	switch fn := callee.(type) {
	case *script.Identifier:
		return script.NewMethodCall(span, nil, fn.Name, args, parenthesized)
	case *script.PropertyAccess:
		return script.NewMethodCall(span, fn.Receiver, fn.Name, args, parenthesized)
	default:
		return script.NewMethodCall(span, callee, "call", args, parenthesized)
	}
}

// instantiation converts new T(args) into a "new" operation around a call
// to the type name.
func (c *converter) instantiation(n *syntaxNode, children []*syntaxNode) script.Node {
	span := c.span(n)
	callee := c.expression(children[0])
	var args []script.Node
	for _, child := range children[1:] {
		if child.kind != "argument_list" && child.kind != "arguments" {
			args = append(args, c.expression(child))
			continue
		}
		for _, arg := range c.named(child.children) {
			args = append(args, c.expression(arg))
		}
	}
	argSpan := c.lines.span(children[0].end, n.end)
	return script.NewOperation(span, "new", makeCall(c.lines.span(children[0].start, n.end), callee, script.NewArgumentList(argSpan, args), true))
}

func (c *converter) closure(n *syntaxNode) *script.Closure {
	span := c.span(n)
	if !c.enter(n) {
		return script.NewClosure(span, nil, nil)
	}
	defer c.leave()

	body := n.children
	var params []string
	if arrow := c.tokenIndex(n, "->"); arrow >= 0 {
		params = []string{}
		for _, child := range c.named(n.children[:arrow]) {
			params = append(params, c.parameterNames(child)...)
		}
		body = n.children[arrow+1:]
	}
	return script.NewClosure(span, params, c.statements(c.named(body)))
}

// parameterNames returns the names declared by a parameter or parameter
// list. Types and default values are dropped.
func (c *converter) parameterNames(n *syntaxNode) []string {
	children := c.named(n.children)
	if len(children) == 0 {
		return []string{c.text(n)}
	}
	if n.kind == "parameter_list" || n.kind == "parameters" {
		var names []string
		for _, child := range children {
			names = append(names, c.parameterNames(child)...)
		}
		return names
	}
	for i := len(children) - 1; i >= 0; i-- {
		if children[i].kind == "identifier" {
			if eq := c.tokenIndex(n, "="); eq < 0 || children[i].end <= n.children[eq].start {
				return []string{c.text(children[i])}
			}
		}
	}
	return nil
}

// function records a method definition as a declaration of the script.
func (c *converter) function(n *syntaxNode) {
	declaration := &script.Declaration{Span: c.span(n)}
	for _, child := range c.children(n.children) {
		switch {
		case child.kind == "parameter_list" || child.kind == "parameters":
			declaration.Params = c.parameterNames(child)
		case child.kind == "closure" || wrapperKinds[child.kind]:
			declaration.Body = c.closure(child)
		case child.kind == "identifier" && declaration.Params == nil && declaration.Body == nil:
			declaration.Name = c.text(child)
		}
	}
	if declaration.Params == nil {
		declaration.Params = []string{}
	}
	if declaration.Body == nil {
		declaration.Body = script.NewClosure(c.lines.span(n.end, n.end), nil, nil)
	}
	c.declarations = append(c.declarations, declaration)
}

// control converts if, for, while, switch, try and their clauses into a
// call named by the keyword whose arguments are the bodies.
func (c *converter) control(n *syntaxNode) script.Node {
	keyword := c.token(n)
	if keyword == "" {
		keyword = n.kind
	}

	rest := n.children
	if open := c.tokenIndex(n, "("); open >= 0 {
		if closing := c.tokenIndex(n, ")"); closing > open {
			rest = n.children[closing+1:]
		}
	}
	bodies := c.children(rest)
	if len(rest) == len(n.children) && len(bodies) > 0 && bodies[0].kind == "parenthesized_expression" {
		bodies = bodies[1:]
	}

	args := make([]script.Node, 0, len(bodies))
	for _, body := range bodies {
		if body.kind == "closure" || wrapperKinds[body.kind] {
			args = append(args, c.closure(body))
			continue
		}
		if stmt := c.statement(body); stmt != nil {
			args = append(args, stmt)
		}
	}
	span := c.span(n)
	return script.NewMethodCall(span, nil, keyword, script.NewArgumentList(span, args), true)
}
