package hdlsim

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vitalvas/hdlkit/hdl"
)

// GlobalInstance names the root instance holding program-level declarations.
const GlobalInstance = "global"

// ComponentInstance owns the signals of one component declaration.
type ComponentInstance struct {
	Name     string
	Inputs   map[string]*Signal
	Outputs  map[string]*Signal
	Privates map[string]*Signal

	logic     map[string]*hdl.LogicDeclaration
	shared    map[string]*hdl.LogicDeclaration
	pipelines []*hdl.PipelineDeclaration
	logger    *slog.Logger
}

func newInstance(name string, logger *slog.Logger) *ComponentInstance {
	return &ComponentInstance{
		Name:     name,
		Inputs:   make(map[string]*Signal),
		Outputs:  make(map[string]*Signal),
		Privates: make(map[string]*Signal),
		logic:    make(map[string]*hdl.LogicDeclaration),
		logger:   logger,
	}
}

func (c *ComponentInstance) declarationError(format string, args ...any) error {
	return &DeclarationError{Component: c.Name, Msg: fmt.Sprintf(format, args...)}
}

// collect registers the declarations found in a component or global body.
func (c *ComponentInstance) collect(nodes []hdl.Node) error {
	for _, node := range nodes {
		switch n := node.(type) {
		case *hdl.PublicDeclaration:
			for _, v := range n.Body {
				if v.Datatype == hdl.DatatypeWire {
					return c.declarationError("public variable %q must be input or output", v.Name)
				}
				if err := c.declare(v); err != nil {
					return err
				}
			}

		case *hdl.PrivateDeclaration:
			for _, v := range n.Body {
				if err := c.declareIn(c.Privates, v.Name); err != nil {
					return err
				}
			}

		case *hdl.Variable:
			if err := c.declare(n); err != nil {
				return err
			}

		case *hdl.PipelineDeclaration:
			c.pipelines = append(c.pipelines, n)

		case *hdl.LogicDeclaration:
			if err := c.registerLogic(n); err != nil {
				return err
			}

		case *hdl.GlobalDeclaration:
			if c.Name != GlobalInstance {
				return c.declarationError("global block must be declared at program level")
			}
			if err := c.collect(n.Body); err != nil {
				return err
			}

		case *hdl.ComponentDeclaration:
			return c.declarationError("component %q cannot be nested", n.Name)

		default:
			return c.declarationError("unexpected %s", node)
		}
	}

	return nil
}

// registerLogic records a logic block and hoists the declarations of its body.
// Pipelines and expressions inside the block run only when it is referenced.
func (c *ComponentInstance) registerLogic(block *hdl.LogicDeclaration) error {
	if _, ok := c.logic[block.Name]; ok {
		return c.declarationError("duplicate logic block %q", block.Name)
	}
	if _, ok := c.Signal(block.Name); ok {
		return c.declarationError("logic block %q collides with a signal", block.Name)
	}
	c.logic[block.Name] = block

	for _, node := range block.Body {
		switch n := node.(type) {
		case *hdl.PublicDeclaration, *hdl.PrivateDeclaration, *hdl.Variable:
			if err := c.collect([]hdl.Node{n}); err != nil {
				return err
			}

		case *hdl.LogicDeclaration:
			if err := c.registerLogic(n); err != nil {
				return err
			}

		case *hdl.ComponentDeclaration:
			return c.declarationError("component %q cannot be nested", n.Name)

		case *hdl.GlobalDeclaration:
			return c.declarationError("global block must be declared at program level")
		}
	}

	return nil
}

func (c *ComponentInstance) declare(v *hdl.Variable) error {
	switch v.Datatype {
	case hdl.DatatypeInput:
		return c.declareIn(c.Inputs, v.Name)
	case hdl.DatatypeOutput:
		return c.declareIn(c.Outputs, v.Name)
	case hdl.DatatypeWire:
		return c.declareIn(c.Privates, v.Name)
	}
	return c.declarationError("unknown datatype %q for %q", v.Datatype, v.Name)
}

func (c *ComponentInstance) declareIn(ns map[string]*Signal, name string) error {
	if _, ok := c.Signal(name); ok {
		return c.declarationError("duplicate signal %q", name)
	}
	if _, ok := c.logic[name]; ok {
		return c.declarationError("signal %q collides with a logic block", name)
	}
	ns[name] = NewSignal(name)
	return nil
}

// Signal looks a name up across inputs, outputs and privates.
func (c *ComponentInstance) Signal(name string) (*Signal, bool) {
	if s, ok := c.Inputs[name]; ok {
		return s, true
	}
	if s, ok := c.Outputs[name]; ok {
		return s, true
	}
	if s, ok := c.Privates[name]; ok {
		return s, true
	}
	return nil, false
}

// SetInput drives an input port.
func (c *ComponentInstance) SetInput(name string, state State) error {
	s, ok := c.Inputs[name]
	if !ok {
		return &ReferenceError{Component: c.Name, Name: name, Reason: "is not an input"}
	}
	s.State = state
	return nil
}

// Output returns the state of an output port.
func (c *ComponentInstance) Output(name string) (State, error) {
	s, ok := c.Outputs[name]
	if !ok {
		return StateZ, &ReferenceError{Component: c.Name, Name: name, Reason: "is not an output"}
	}
	return s.State, nil
}

// OutputNames returns the output port names in sorted order.
func (c *ComponentInstance) OutputNames() []string {
	names := make([]string, 0, len(c.Outputs))
	for name := range c.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *ComponentInstance) lookupLogic(name string) (*hdl.LogicDeclaration, bool) {
	if block, ok := c.logic[name]; ok {
		return block, true
	}
	block, ok := c.shared[name]
	return block, ok
}

// Evaluate runs every pipeline of the instance once, in declaration order.
func (c *ComponentInstance) Evaluate() error {
	ev := &evaluator{inst: c, active: make(map[string]bool)}

	for i, p := range c.pipelines {
		c.logger.Debug("pipeline pass", "component", c.Name, "pipeline", i, "items", len(p.Body))

		if err := ev.pipeline(p); err != nil {
			return err
		}
	}

	return nil
}
