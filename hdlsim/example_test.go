package hdlsim_test

import (
	"fmt"

	"github.com/vitalvas/hdlkit/hdl"
	"github.com/vitalvas/hdlkit/hdlsim"
)

func ExampleSimulate() {
	src := `
component AndGate {
	public { a: input, b: input, out: output }
	private { _a: wire, _b: wire, _c: wire }
	pipeline {
		a => _a,
		b => _b,
		_a and _b => _c => out,
	}
}`

	engine, err := hdlsim.Simulate(src, &hdlsim.Config{
		Stimulus: map[string]map[string]string{
			"AndGate": {"a": "HIGH", "b": "HIGH"},
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	gate, _ := engine.Component("AndGate")
	out, _ := gate.Output("out")
	fmt.Println(out)

	// Output:
	// HIGH
}

func ExampleEngine() {
	prog, err := hdl.Compile(`
component Half {
	public { a: input, b: input, sum: output, carry: output }
	pipeline { a xor b => sum, a and b => carry }
}`)
	if err != nil {
		fmt.Println(err)
		return
	}

	engine, err := hdlsim.NewEngine(prog)
	if err != nil {
		fmt.Println(err)
		return
	}

	half, _ := engine.Component("Half")
	for _, in := range [][2]hdlsim.State{
		{hdlsim.StateLow, hdlsim.StateHigh},
		{hdlsim.StateHigh, hdlsim.StateHigh},
	} {
		_ = half.SetInput("a", in[0])
		_ = half.SetInput("b", in[1])
		if err := engine.Run(); err != nil {
			fmt.Println(err)
			return
		}

		sum, _ := half.Output("sum")
		carry, _ := half.Output("carry")
		fmt.Println(sum, carry)
	}

	// Output:
	// HIGH LOW
	// LOW HIGH
}

func ExampleGate() {
	state, _ := hdlsim.Gate("and", hdlsim.StateZ, hdlsim.StateHigh)
	fmt.Println(state)

	// Output:
	// Z
}
