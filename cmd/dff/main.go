// Command dff drives a single D flip-flop with a periodic clock and a d
// input that toggles once mid-run, printing q after every posedge.
package main

import (
	"fmt"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/rzsim/always"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simcore"
)

const clkPeriod = 10

func main() {
	sched := simcore.NewSimulator()

	clk := netlist.NewClockSignal(sched, "clk", clkPeriod)
	d := netlist.NewSignal("d", 1)
	d.Put(logic.FromUint(1, 0))
	q := netlist.NewSignal("q", 1)

	always.NewFlipFlop(sched, "dff", clk, q, d)

	clk.Wire().OnPosedge(sched, true, func(time uint64) {
		fmt.Printf("t=%-4d q=%s\n", time, q.Value())
	})

	sched.RegisterAction(25, func(s *simcore.Simulator) {
		d.Put(logic.FromUint(1, 1))
	})

	sched.SetMaxSimTime(6 * clkPeriod)

	if err := sched.Run(); err != nil {
		fmt.Println("simulation error:", err)
	}

	atexit.Exit(0)
}
