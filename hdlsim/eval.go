package hdlsim

import (
	"fmt"

	"github.com/vitalvas/hdlkit/hdl"
)

// bundle is the value of an expression: one state, or one per array element.
type bundle []State

type evaluator struct {
	inst   *ComponentInstance
	active map[string]bool
}

func (ev *evaluator) connectionError(format string, args ...any) error {
	return &ConnectionError{Component: ev.inst.Name, Msg: fmt.Sprintf(format, args...)}
}

func (ev *evaluator) pipeline(p *hdl.PipelineDeclaration) error {
	for _, item := range p.Body {
		if id, ok := item.Root.(*hdl.Identifier); ok {
			block, ok := ev.inst.lookupLogic(id.Name)
			if !ok {
				return &ReferenceError{Component: ev.inst.Name, Name: id.Name, Reason: "is not a logic block"}
			}
			if _, err := ev.logic(block); err != nil {
				return err
			}
			continue
		}

		if _, err := ev.expr(item.Root); err != nil {
			return err
		}
	}

	return nil
}

// item evaluates a logic body expression. A bare logic reference runs the
// block in place and may yield no value, as it does in a pipeline.
func (ev *evaluator) item(e hdl.Expression) (bundle, error) {
	if id, ok := e.(*hdl.Identifier); ok {
		if _, isSignal := ev.inst.Signal(id.Name); !isSignal {
			if block, ok := ev.inst.lookupLogic(id.Name); ok {
				return ev.logic(block)
			}
		}
	}
	return ev.expr(e)
}

// logic evaluates a block body in place and returns the value of its last
// expression, or nil when the block has none.
func (ev *evaluator) logic(block *hdl.LogicDeclaration) (bundle, error) {
	if ev.active[block.Name] {
		return nil, &ReferenceError{Component: ev.inst.Name, Name: block.Name, Reason: "is referenced recursively"}
	}
	ev.active[block.Name] = true
	defer delete(ev.active, block.Name)

	var last bundle
	for _, node := range block.Body {
		switch n := node.(type) {
		case *hdl.ExpressionDeclaration:
			value, err := ev.item(n.Root)
			if err != nil {
				return nil, err
			}
			if value != nil {
				last = value
			}

		case *hdl.PipelineDeclaration:
			if err := ev.pipeline(n); err != nil {
				return nil, err
			}
		}
	}

	return last, nil
}

func (ev *evaluator) expr(e hdl.Expression) (bundle, error) {
	switch n := e.(type) {
	case *hdl.Identifier:
		if s, ok := ev.inst.Signal(n.Name); ok {
			return bundle{s.State}, nil
		}
		if block, ok := ev.inst.lookupLogic(n.Name); ok {
			value, err := ev.logic(block)
			if err != nil {
				return nil, err
			}
			if len(value) == 0 {
				return nil, &ReferenceError{Component: ev.inst.Name, Name: n.Name, Reason: "has no value"}
			}
			return value, nil
		}
		return nil, &ReferenceError{Component: ev.inst.Name, Name: n.Name}

	case *hdl.Literal:
		return bundle{CoerceLiteral(n.Value)}, nil

	case *hdl.ArrayLiteral:
		var out bundle
		for _, v := range n.Values {
			value, err := ev.expr(v)
			if err != nil {
				return nil, err
			}
			out = append(out, value...)
		}
		return out, nil

	case *hdl.Operator:
		switch {
		case n.Op == hdl.OpConnect:
			return ev.connect(n)
		case hdl.IsGate(n.Op):
			return ev.gate(n)
		}
		return nil, ev.connectionError("unknown operator %q", n.Op)
	}

	return nil, ev.connectionError("cannot evaluate %v", e)
}

func (ev *evaluator) gate(op *hdl.Operator) (bundle, error) {
	left, err := ev.expr(op.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.expr(op.Right)
	if err != nil {
		return nil, err
	}

	if len(left) == 0 || len(right) == 0 {
		return nil, ev.connectionError("%s operand has no signals", op.Op)
	}

	size := max(len(left), len(right))
	if len(left) != len(right) && len(left) != 1 && len(right) != 1 {
		return nil, ev.connectionError("%s operands have widths %d and %d", op.Op, len(left), len(right))
	}

	out := make(bundle, size)
	for i := range out {
		state, err := Gate(op.Op, pick(left, i), pick(right, i))
		if err != nil {
			return nil, ev.connectionError("%v", err)
		}
		out[i] = state
	}

	return out, nil
}

func pick(b bundle, i int) State {
	if len(b) == 1 {
		return b[0]
	}
	return b[i]
}

// connect drives the right-hand signals with the left-hand value and
// returns the driven value so chained connections propagate it.
func (ev *evaluator) connect(op *hdl.Operator) (bundle, error) {
	source, err := ev.expr(op.Left)
	if err != nil {
		return nil, err
	}

	targets, err := ev.targets(op.Right)
	if err != nil {
		return nil, err
	}

	if len(source) == 0 {
		return nil, ev.connectionError("connection source has no signals")
	}
	if len(targets) == 0 {
		return nil, ev.connectionError("connection target has no signals")
	}
	if len(source) != 1 && len(source) != len(targets) {
		return nil, ev.connectionError("cannot connect %d signals to %d targets", len(source), len(targets))
	}

	driven := make(bundle, len(targets))
	for i, target := range targets {
		target.State = pick(source, i)
		driven[i] = target.State

		ev.inst.logger.Debug("signal driven",
			"component", ev.inst.Name,
			"signal", target.ID,
			"state", target.State.String(),
		)
	}

	return driven, nil
}

func (ev *evaluator) targets(e hdl.Expression) ([]*Signal, error) {
	switch n := e.(type) {
	case *hdl.Identifier:
		if _, ok := ev.inst.Inputs[n.Name]; ok {
			return nil, ev.connectionError("cannot drive input %q", n.Name)
		}
		if s, ok := ev.inst.Outputs[n.Name]; ok {
			return []*Signal{s}, nil
		}
		if s, ok := ev.inst.Privates[n.Name]; ok {
			return []*Signal{s}, nil
		}
		if _, ok := ev.inst.lookupLogic(n.Name); ok {
			return nil, ev.connectionError("cannot drive logic block %q", n.Name)
		}
		return nil, &ReferenceError{Component: ev.inst.Name, Name: n.Name}

	case *hdl.ArrayLiteral:
		var out []*Signal
		for _, v := range n.Values {
			signals, err := ev.targets(v)
			if err != nil {
				return nil, err
			}
			out = append(out, signals...)
		}
		return out, nil
	}

	return nil, ev.connectionError("cannot drive %v", e)
}
