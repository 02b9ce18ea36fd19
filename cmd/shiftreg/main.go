// Command shiftreg drives an 8-bit shift register through a clk/reset/sin
// sequence and prints sout after every posedge, the way the teacher's
// samples print their collected output at the end of a run.
package main

import (
	"fmt"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/rzsim/always"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simcore"
)

const width = 8
const clkPeriod = 10

func main() {
	sched := simcore.NewSimulator()

	clk := netlist.NewClockSignal(sched, "clk", clkPeriod)
	reset := netlist.NewSignal("reset", 1)
	sin := netlist.NewSignal("sin", 1)

	// A shift register is width independent flip-flops, each sampling the
	// bit to its right: bit 0 samples sin, bit i samples bit i-1.
	q := make([]*netlist.Signal, width)
	for i := 0; i < width; i++ {
		q[i] = netlist.NewSignal(fmt.Sprintf("q%d", i), 1)
	}
	for i := 0; i < width; i++ {
		d := sin
		if i > 0 {
			d = q[i-1]
		}
		always.NewFlipFlop(sched, fmt.Sprintf("q%d_ff", i), clk, q[i], d,
			always.WithFlipFlopReset(reset, nil))
	}

	sout := func() string {
		bits := make([]byte, width)
		for i := 0; i < width; i++ {
			bits[width-1-i] = byte(q[i].Value().Bit(0).String()[0])
		}
		return string(bits)
	}

	clk.Wire().OnPosedge(sched, true, func(time uint64) {
		fmt.Printf("t=%-4d sout=%s\n", time, sout())
	})

	reset.Put(logic.FromUint(1, 1))
	sin.Put(logic.FromUint(1, 0))

	// Inputs change one tick after a posedge, never in the same tick as a
	// clock edge, so the flops do not see a trigger/data race.
	sched.RegisterAction(clkPeriod+1, func(s *simcore.Simulator) {
		reset.Put(logic.FromUint(1, 0))
		sin.Put(logic.FromUint(1, 1))
	})
	sched.RegisterAction(4*clkPeriod+1, func(s *simcore.Simulator) {
		sin.Put(logic.FromUint(1, 0))
	})
	sched.RegisterAction(7*clkPeriod+1, func(s *simcore.Simulator) {
		sin.Put(logic.FromUint(1, 1))
	})

	sched.SetMaxSimTime(10 * clkPeriod)

	if err := sched.Run(); err != nil {
		fmt.Println("simulation error:", err)
	}

	atexit.Exit(0)
}
