package hdl

import "strings"

// Node is the base interface for all AST nodes.
type Node interface {
	node()
	String() string
}

// Expression is a node that may appear as the root or operand of an expression.
type Expression interface {
	Node
	expression()
}

// Datatype classifies a declared variable.
type Datatype string

const (
	DatatypeInput  Datatype = "input"
	DatatypeOutput Datatype = "output"
	DatatypeWire   Datatype = "wire"
)

// ParseDatatype returns the datatype named by s.
func ParseDatatype(s string) (Datatype, bool) {
	switch Datatype(s) {
	case DatatypeInput, DatatypeOutput, DatatypeWire:
		return Datatype(s), true
	}
	return "", false
}

// Program is the root of a parsed source file.
type Program struct {
	Body []Node
}

// ComponentDeclaration declares one circuit module.
type ComponentDeclaration struct {
	Name string
	Body []Node
}

// GlobalDeclaration groups program-level declarations (global { ... }).
type GlobalDeclaration struct {
	Body []Node
}

// PublicDeclaration declares the ports of a component.
type PublicDeclaration struct {
	Body []*Variable
}

// PrivateDeclaration declares the wires of a component.
type PrivateDeclaration struct {
	Body []*Variable
}

// Variable is a single name: datatype declaration.
type Variable struct {
	Name     string
	Datatype Datatype
}

// PipelineDeclaration is an ordered list of expressions evaluated once per pass.
type PipelineDeclaration struct {
	Body []*ExpressionDeclaration
}

// LogicDeclaration is a named, reusable block referenced from pipelines.
type LogicDeclaration struct {
	Name string
	Body []Node
}

// ExpressionDeclaration wraps exactly one expression root.
type ExpressionDeclaration struct {
	Root Expression
}

// Operator is a binary gate or a connection (=>).
type Operator struct {
	Op    string
	Left  Expression
	Right Expression
}

// Identifier references a port, wire or logic block.
type Identifier struct {
	Name string
}

// Literal is a numeric constant.
type Literal struct {
	Value string
}

// ArrayLiteral is an ordered list of signals used for fan-out (e.g. [a, b]).
type ArrayLiteral struct {
	Values []Expression
}

func (*Program) node()               {}
func (*ComponentDeclaration) node()  {}
func (*GlobalDeclaration) node()     {}
func (*PublicDeclaration) node()     {}
func (*PrivateDeclaration) node()    {}
func (*Variable) node()              {}
func (*PipelineDeclaration) node()   {}
func (*LogicDeclaration) node()      {}
func (*ExpressionDeclaration) node() {}
func (*Operator) node()              {}
func (*Identifier) node()            {}
func (*Literal) node()               {}
func (*ArrayLiteral) node()          {}

func (*Operator) expression()     {}
func (*Identifier) expression()   {}
func (*Literal) expression()      {}
func (*ArrayLiteral) expression() {}

func (p *Program) String() string {
	return "Program(" + joinNodes(p.Body) + ")"
}

func (c *ComponentDeclaration) String() string {
	return "Component(" + c.Name + ", " + joinNodes(c.Body) + ")"
}

func (g *GlobalDeclaration) String() string {
	return "Global(" + joinNodes(g.Body) + ")"
}

func (p *PublicDeclaration) String() string {
	return "Public(" + joinNodes(p.Body) + ")"
}

func (p *PrivateDeclaration) String() string {
	return "Private(" + joinNodes(p.Body) + ")"
}

func (v *Variable) String() string {
	return "Variable(" + v.Name + ": " + string(v.Datatype) + ")"
}

func (p *PipelineDeclaration) String() string {
	return "Pipeline(" + joinNodes(p.Body) + ")"
}

func (l *LogicDeclaration) String() string {
	return "Logic(" + l.Name + ", " + joinNodes(l.Body) + ")"
}

func (e *ExpressionDeclaration) String() string {
	if e.Root == nil {
		return "Expression()"
	}
	return "Expression(" + e.Root.String() + ")"
}

func (o *Operator) String() string {
	return "Operator(" + o.Op + ", " + o.Left.String() + ", " + o.Right.String() + ")"
}

func (i *Identifier) String() string {
	return "Identifier(" + i.Name + ")"
}

func (l *Literal) String() string {
	return "Literal(" + l.Value + ")"
}

func (a *ArrayLiteral) String() string {
	return "ArrayLiteral(" + joinNodes(a.Values) + ")"
}

func joinNodes[T Node](nodes []T) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
