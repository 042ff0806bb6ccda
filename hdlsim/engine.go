// Package hdlsim evaluates compiled HDL programs over tri-state signals.
//
// An Engine builds one ComponentInstance per component declaration plus a
// root instance named "global" for program-level declarations. Run evaluates
// every pipeline exactly once, components in declaration order and the global
// instance last. There is no propagation delay and no fixed-point iteration.
//
// Gates treat Z as absorbing: any gate input at Z yields Z.
package hdlsim

import (
	"fmt"
	"log/slog"

	"github.com/vitalvas/hdlkit/hdl"
	"github.com/vitalvas/hdlkit/xlogger"
)

// Stimulus maps component names to input names to the state to drive.
type Stimulus map[string]map[string]State

// ParseStimulus converts state names, as found in configuration, to a Stimulus.
func ParseStimulus(raw map[string]map[string]string) (Stimulus, error) {
	stimulus := make(Stimulus, len(raw))

	for component, inputs := range raw {
		stimulus[component] = make(map[string]State, len(inputs))

		for input, value := range inputs {
			state, err := ParseState(value)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", component, input, err)
			}
			stimulus[component][input] = state
		}
	}

	return stimulus, nil
}

// Engine holds the component instances of one program.
type Engine struct {
	components    map[string]*ComponentInstance
	order         []*ComponentInstance
	global        *ComponentInstance
	logger        *slog.Logger
	strictOutputs bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for instantiation and evaluation records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStrictOutputs makes Run fail when an output is still Z after the pass.
func WithStrictOutputs(strict bool) Option {
	return func(e *Engine) {
		e.strictOutputs = strict
	}
}

// NewEngine instantiates every component of prog.
func NewEngine(prog *hdl.Program, opts ...Option) (*Engine, error) {
	e := &Engine{
		components: make(map[string]*ComponentInstance),
		logger:     xlogger.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.global = newInstance(GlobalInstance, e.logger)

	var decls []*hdl.ComponentDeclaration
	var globals []hdl.Node

	if prog != nil {
		for _, node := range prog.Body {
			if decl, ok := node.(*hdl.ComponentDeclaration); ok {
				decls = append(decls, decl)
				continue
			}
			globals = append(globals, node)
		}
	}

	if err := e.global.collect(globals); err != nil {
		return nil, err
	}

	for _, decl := range decls {
		if _, ok := e.components[decl.Name]; ok {
			return nil, &DeclarationError{Component: decl.Name, Msg: "duplicate component"}
		}

		inst := newInstance(decl.Name, e.logger)
		inst.shared = e.global.logic

		if err := inst.collect(decl.Body); err != nil {
			return nil, err
		}

		e.logger.Debug("component instantiated",
			"component", inst.Name,
			"inputs", len(inst.Inputs),
			"outputs", len(inst.Outputs),
			"privates", len(inst.Privates),
		)

		e.components[decl.Name] = inst
		e.order = append(e.order, inst)
	}

	return e, nil
}

// Component returns the instance of the named component. The name "global"
// returns the root instance.
func (e *Engine) Component(name string) (*ComponentInstance, bool) {
	if name == GlobalInstance {
		return e.global, true
	}
	inst, ok := e.components[name]
	return inst, ok
}

// Components returns the component instances in declaration order.
func (e *Engine) Components() []*ComponentInstance {
	return append([]*ComponentInstance(nil), e.order...)
}

// Global returns the root instance holding program-level declarations.
func (e *Engine) Global() *ComponentInstance {
	return e.global
}

// Apply drives component inputs from a stimulus.
func (e *Engine) Apply(stimulus Stimulus) error {
	for component, inputs := range stimulus {
		inst, ok := e.Component(component)
		if !ok {
			return &ReferenceError{Component: GlobalInstance, Name: component, Reason: "is not a component"}
		}

		for input, state := range inputs {
			if err := inst.SetInput(input, state); err != nil {
				return err
			}
		}
	}

	return nil
}

// Run performs a single evaluation pass over every instance.
func (e *Engine) Run() error {
	instances := append(e.Components(), e.global)

	for _, inst := range instances {
		if err := inst.Evaluate(); err != nil {
			return err
		}
	}

	if e.strictOutputs {
		for _, inst := range instances {
			for _, name := range inst.OutputNames() {
				if inst.Outputs[name].State == StateZ {
					return &ConnectionError{Component: inst.Name, Msg: "output \"" + name + "\" is undriven"}
				}
			}
		}
	}

	e.logger.Info("run complete", "components", len(e.order))

	return nil
}
