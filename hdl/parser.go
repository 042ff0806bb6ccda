// Package hdl implements the front end of a small hardware description
// language: a lexer, a keyword-dispatch parser with an embedded
// shunting-yard expression parser, and the AST they produce.
//
// A source file declares components with public ports, private wires,
// pipelines of gate expressions and reusable logic blocks:
//
//	component AndGate {
//	    public { a: input, b: input, out: output }
//	    private { _a: wire, _b: wire, _c: wire }
//	    pipeline {
//	        a => _a,
//	        b => _b,
//	        _a and _b => _c => out,
//	    }
//	}
//
// Gates (and, nand, or, nor, xor, xnor) bind tighter than connections (=>),
// and every operator is left-associative. Lines starting with ; are comments.
//
// Example:
//
//	prog, err := hdl.Compile(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(prog)
package hdl

import (
	"errors"
	"fmt"
	"slices"
)

// cursor is an immutable read position over a token sequence. Parse
// functions take a cursor and return the cursor following what they consumed.
type cursor struct {
	tokens []Token
	pos    int
}

func (c cursor) done() bool {
	return c.pos >= len(c.tokens)
}

func (c cursor) current() (Token, bool) {
	if c.done() {
		return Token{}, false
	}
	return c.tokens[c.pos], true
}

func (c cursor) next() cursor {
	c.pos++
	return c
}

func (c cursor) is(value string) bool {
	return !c.done() && c.tokens[c.pos].Value == value
}

func (c cursor) peekIs(offset int, value string) bool {
	i := c.pos + offset
	return i < len(c.tokens) && c.tokens[i].Value == value
}

func errAt(c cursor, format string, args ...any) error {
	err := &StructuralError{Msg: fmt.Sprintf(format, args...)}
	if tok, ok := c.current(); ok {
		err.Pos = tok.Pos
		err.Token = tok.Value
	} else {
		err.EOF = true
	}
	return err
}

type parseOptions struct {
	label string
}

// ParseOption configures Parse and Compile.
type ParseOption func(*parseOptions)

// WithErrorLabel sets the label carried by structural errors.
func WithErrorLabel(label string) ParseOption {
	return func(o *parseOptions) {
		o.label = label
	}
}

// Compile tokenizes and parses src into a Program.
func Compile(src string, opts ...ParseOption) (*Program, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, opts...)
}

// Parse builds a Program from a token sequence. Operator tokens are
// classified before parsing, so the output of Lexer.Scan is accepted as is.
// The first error aborts parsing; no partial tree is returned.
func Parse(tokens []Token, opts ...ParseOption) (*Program, error) {
	o := &parseOptions{label: DefaultErrorLabel}
	for _, opt := range opts {
		opt(o)
	}

	c := cursor{tokens: ClassifyOperators(slices.Clone(tokens))}
	prog := &Program{Body: []Node{}}

	for !c.done() {
		node, next, err := parseNode(c)
		if err != nil {
			var se *StructuralError
			if errors.As(err, &se) {
				return nil, se.WithLabel(o.label)
			}
			return nil, err
		}
		prog.Body = append(prog.Body, node)
		c = next
	}

	return prog, nil
}

type blockParser func(c cursor) (Node, cursor, error)

// blockFor maps a block keyword to its parser.
func blockFor(keyword string) (blockParser, bool) {
	switch keyword {
	case KeywordComponent:
		return parseComponent, true
	case KeywordLogic:
		return parseLogic, true
	case KeywordGlobal:
		return parseGlobal, true
	case KeywordPublic:
		return parsePublic, true
	case KeywordPrivate:
		return parsePrivate, true
	case KeywordPipeline:
		return parsePipeline, true
	}
	return nil, false
}

// parseNode is the keyword dispatcher: a block keyword selects its block
// parser, any other non-reserved value starts a variable declaration.
func parseNode(c cursor) (Node, cursor, error) {
	tok, ok := c.current()
	if !ok {
		return nil, c, errAt(c, "expected declaration")
	}
	if parse, ok := blockFor(tok.Value); ok {
		return parse(c)
	}
	if IsReserved(tok.Value) {
		return nil, c, errAt(c, "unexpected %q", tok.Value)
	}
	return parseDeclaration(c)
}

func parseComponent(c cursor) (Node, cursor, error) {
	name, body, c, err := parseNamedBlock(c, parseNode)
	if err != nil {
		return nil, c, err
	}
	return &ComponentDeclaration{Name: name, Body: body}, c, nil
}

func parseLogic(c cursor) (Node, cursor, error) {
	name, body, c, err := parseNamedBlock(c, parseLogicItem)
	if err != nil {
		return nil, c, err
	}
	return &LogicDeclaration{Name: name, Body: body}, c, nil
}

func parseGlobal(c cursor) (Node, cursor, error) {
	body, c, err := parseBlock(c, parseNode)
	if err != nil {
		return nil, c, err
	}
	return &GlobalDeclaration{Body: body}, c, nil
}

func parsePublic(c cursor) (Node, cursor, error) {
	body, c, err := parseBlock(c, parseListedVariable)
	if err != nil {
		return nil, c, err
	}
	return &PublicDeclaration{Body: body}, c, nil
}

func parsePrivate(c cursor) (Node, cursor, error) {
	body, c, err := parseBlock(c, parseListedVariable)
	if err != nil {
		return nil, c, err
	}
	return &PrivateDeclaration{Body: body}, c, nil
}

func parsePipeline(c cursor) (Node, cursor, error) {
	body, c, err := parseBlock(c, parsePipelineItem)
	if err != nil {
		return nil, c, err
	}
	return &PipelineDeclaration{Body: body}, c, nil
}

// parseNamedBlock parses `keyword name { items }` starting at the keyword.
func parseNamedBlock[T Node](c cursor, item func(cursor) (T, cursor, error)) (string, []T, cursor, error) {
	keyword, _ := c.current()
	c = c.next()

	tok, ok := c.current()
	if !ok {
		return "", nil, c, errAt(c, "expected %s name", keyword.Value)
	}
	if IsReserved(tok.Value) {
		return "", nil, c, errAt(c, "reserved keyword %q cannot name a %s", tok.Value, keyword.Value)
	}
	if !isIdentifier(tok.Value) {
		return "", nil, c, errAt(c, "invalid %s name %q", keyword.Value, tok.Value)
	}

	body, c, err := parseBlock(c, item)
	if err != nil {
		return "", nil, c, err
	}
	return tok.Value, body, c, nil
}

// parseBlock expects `{ items }` at the token after c and parses items until
// the closing brace, returning the cursor past it.
func parseBlock[T Node](c cursor, item func(cursor) (T, cursor, error)) ([]T, cursor, error) {
	c = c.next()
	if !c.is("{") {
		return nil, c, errAt(c, "expected {")
	}
	c = c.next()

	body := []T{}
	for {
		if c.done() {
			return nil, c, errAt(c, "missing }")
		}
		if c.is("}") {
			return body, c.next(), nil
		}

		node, next, err := item(c)
		if err != nil {
			return nil, next, err
		}
		body = append(body, node)
		c = next
	}
}

// parseVariable parses `name : datatype`.
func parseVariable(c cursor) (*Variable, cursor, error) {
	name, _ := c.current()
	if IsReserved(name.Value) {
		return nil, c, errAt(c, "unexpected %q", name.Value)
	}
	if !isIdentifier(name.Value) {
		return nil, c, errAt(c, "invalid variable name %q", name.Value)
	}

	c = c.next()
	if !c.is(":") {
		return nil, c, errAt(c, "expected : after %q", name.Value)
	}

	c = c.next()
	typ, ok := c.current()
	if !ok {
		return nil, c, errAt(c, "expected datatype for %q", name.Value)
	}
	datatype, ok := ParseDatatype(typ.Value)
	if !ok {
		return nil, c, errAt(c, "unknown datatype %q", typ.Value)
	}

	return &Variable{Name: name.Value, Datatype: datatype}, c.next(), nil
}

// parseDeclaration parses a variable in a position that accepts any node.
func parseDeclaration(c cursor) (Node, cursor, error) {
	v, c, err := parseVariable(c)
	if err != nil {
		return nil, c, err
	}
	return v, c, nil
}

// parseListedVariable parses a variable followed by an optional comma.
func parseListedVariable(c cursor) (*Variable, cursor, error) {
	v, c, err := parseVariable(c)
	if err != nil {
		return nil, c, err
	}
	if c.is(",") {
		c = c.next()
	}
	return v, c, nil
}

func parsePipelineItem(c cursor) (*ExpressionDeclaration, cursor, error) {
	root, c, err := parseExpression(c)
	if err != nil {
		return nil, c, err
	}

	switch {
	case c.is(","):
		c = c.next()
	case c.is("}"), c.done():
		// parseBlock reports the missing brace
	default:
		return nil, c, errAt(c, "expected , or } after pipeline item")
	}

	return &ExpressionDeclaration{Root: root}, c, nil
}

// parseLogicItem accepts nested block declarations, variable declarations
// and expressions separated by optional commas.
func parseLogicItem(c cursor) (Node, cursor, error) {
	tok, _ := c.current()
	if _, ok := blockFor(tok.Value); ok {
		return parseNode(c)
	}
	if c.peekIs(1, ":") {
		return parseDeclaration(c)
	}

	root, c, err := parseExpression(c)
	if err != nil {
		return nil, c, err
	}
	if c.is(",") {
		c = c.next()
	}
	return &ExpressionDeclaration{Root: root}, c, nil
}

// shunter holds the value and operator stacks of the shunting-yard parser.
type shunter struct {
	values []Expression
	ops    []string
}

func (s *shunter) reduce() {
	n := len(s.values)
	right, left := s.values[n-1], s.values[n-2]
	op := s.ops[len(s.ops)-1]

	s.values = append(s.values[:n-2], &Operator{Op: op, Left: left, Right: right})
	s.ops = s.ops[:len(s.ops)-1]
}

// parseExpression parses an infix expression with the shunting-yard
// algorithm. It stops before `}`, `,`, the end of input, or a token that
// cannot follow an operand. Equal precedence reduces first, so every
// operator is left-associative.
func parseExpression(c cursor) (Expression, cursor, error) {
	s := &shunter{}
	expectOperand := true

	for !c.done() {
		tok, _ := c.current()
		if tok.Value == "}" || tok.Value == "," {
			break
		}

		if tok.Kind == KindOperator {
			if expectOperand {
				return nil, c, errAt(c, "operator %q is missing its left operand", tok.Value)
			}
			for len(s.ops) > 0 && Precedence(tok.Value) <= Precedence(s.ops[len(s.ops)-1]) {
				s.reduce()
			}
			s.ops = append(s.ops, tok.Value)
			expectOperand = true
			c = c.next()
			continue
		}

		if !expectOperand {
			break
		}

		value, next, err := parseLiteral(c)
		if err != nil {
			return nil, next, err
		}
		s.values = append(s.values, value)
		expectOperand = false
		c = next
	}

	if expectOperand {
		if len(s.ops) > 0 {
			return nil, c, errAt(c, "operator %q is missing its right operand", s.ops[len(s.ops)-1])
		}
		return nil, c, errAt(c, "expected expression")
	}

	for len(s.ops) > 0 {
		s.reduce()
	}

	return s.values[0], c, nil
}

// parseLiteral parses a number, an identifier or a bracketed array.
func parseLiteral(c cursor) (Expression, cursor, error) {
	tok, _ := c.current()

	switch {
	case tok.Value == "[":
		return parseArray(c)
	case isNumber(tok.Value):
		return &Literal{Value: tok.Value}, c.next(), nil
	case isIdentifier(tok.Value):
		if IsReserved(tok.Value) {
			return nil, c, errAt(c, "reserved keyword %q cannot be used as an identifier", tok.Value)
		}
		return &Identifier{Name: tok.Value}, c.next(), nil
	}

	return nil, c, errAt(c, "unexpected %q in expression", tok.Value)
}

func parseArray(c cursor) (Expression, cursor, error) {
	c = c.next()
	arr := &ArrayLiteral{Values: []Expression{}}

	for {
		if c.done() {
			return nil, c, errAt(c, "unterminated array literal")
		}
		if c.is("]") {
			if len(arr.Values) == 0 {
				return nil, c, errAt(c, "empty array literal")
			}
			return arr, c.next(), nil
		}

		value, next, err := parseLiteral(c)
		if err != nil {
			return nil, next, err
		}
		arr.Values = append(arr.Values, value)
		c = next

		switch {
		case c.is(","):
			c = c.next()
		case c.is("]"), c.done():
		default:
			return nil, c, errAt(c, "expected , or ] in array literal")
		}
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isText(s[i]) {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
