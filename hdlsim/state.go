package hdlsim

import (
	"fmt"
	"strings"

	"github.com/vitalvas/hdlkit/hdl"
)

// State is the level of a tri-state signal. The zero value is Z (undriven).
type State uint8

const (
	StateZ State = iota
	StateLow
	StateHigh
)

var stateNames = map[State]string{
	StateZ:    "Z",
	StateLow:  "LOW",
	StateHigh: "HIGH",
}

// String returns the string representation of a state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseState parses a state name as written in stimulus configuration.
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "1", "true":
		return StateHigh, nil
	case "low", "0", "false":
		return StateLow, nil
	case "z":
		return StateZ, nil
	}
	return StateZ, fmt.Errorf("%w %q", ErrInvalidState, s)
}

// FromBool converts a boolean level to HIGH or LOW.
func FromBool(b bool) State {
	if b {
		return StateHigh
	}
	return StateLow
}

// CoerceLiteral converts literal text to a state: 1 is HIGH, 0 is LOW and
// anything else is Z.
func CoerceLiteral(value string) State {
	switch value {
	case "1":
		return StateHigh
	case "0":
		return StateLow
	}
	return StateZ
}

var gates = map[string]func(a, b bool) bool{
	hdl.OpAnd:  func(a, b bool) bool { return a && b },
	hdl.OpNand: func(a, b bool) bool { return !(a && b) },
	hdl.OpOr:   func(a, b bool) bool { return a || b },
	hdl.OpNor:  func(a, b bool) bool { return !(a || b) },
	hdl.OpXor:  func(a, b bool) bool { return a != b },
	hdl.OpXnor: func(a, b bool) bool { return a == b },
}

// Gate applies a two-input gate. Z on either input yields Z.
func Gate(op string, a, b State) (State, error) {
	fn, ok := gates[op]
	if !ok {
		return StateZ, fmt.Errorf("unknown gate %q", op)
	}
	if a == StateZ || b == StateZ {
		return StateZ, nil
	}
	return FromBool(fn(a == StateHigh, b == StateHigh)), nil
}

// Signal is a named wire or port owned by one component instance.
type Signal struct {
	ID    string
	State State
}

// NewSignal creates an undriven signal.
func NewSignal(id string) *Signal {
	return &Signal{ID: id, State: StateZ}
}

func (s *Signal) String() string {
	return s.ID + ": " + s.State.String()
}
