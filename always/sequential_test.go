package always_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/always"
	"github.com/sarchlab/rzsim/cond"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simcore"
)

var _ = Describe("Sequential", func() {
	It("shifts a bit through a chain of registers on consecutive edges", func() {
		sched := simcore.NewSimulator()
		clk := netlist.NewSignal("clk", 1)
		sin := netlist.NewSignal("sin", 1)
		q0 := netlist.NewSignal("q0", 1)
		q1 := netlist.NewSignal("q1", 1)
		clk.Put(logic.FromUint(1, 0))
		sin.Put(logic.FromUint(1, 1))

		always.NewFlipFlop(sched, "stage0", clk, q0, sin)
		always.NewFlipFlop(sched, "stage1", clk, q1, q0)

		toggleClk(sched, clk, 4) // two full edges

		Expect(sched.Run()).To(Succeed())
		Expect(q0.Value().Equal(logic.FromUint(1, 1))).To(BeTrue())
		Expect(q1.Value().Equal(logic.FromUint(1, 1))).To(BeTrue())
	})

	It("degrades to x when a non-trigger driver races the clock edge", func() {
		sched := simcore.NewSimulator()
		clk := netlist.NewSignal("clk", 1)
		d := netlist.NewSignal("d", 1)
		q := netlist.NewSignal("q", 1)
		clk.Put(logic.FromUint(1, 0))
		d.Put(logic.FromUint(1, 0))

		always.NewSequentialBuilder().
			WithTrigger(clk, always.PosEdge).
			WithBody(cond.NewAssign(q, d)).
			Build(sched, "raced")

		sched.RegisterAction(0, func(s *simcore.Simulator) {
			clk.Put(logic.FromUint(1, 1))
			d.Put(logic.FromUint(1, 1))
		})
		Expect(sched.Run()).To(Succeed())

		Expect(q.Value().Equal(logic.Filled(1, logic.X))).To(BeTrue())
	})

	It("fatally errors on a redriven receiver without allow-multiple", func() {
		sched := simcore.NewSimulator()
		clk := netlist.NewSignal("clk", 1)
		a := netlist.NewSignal("a", 1)
		b := netlist.NewSignal("b", 1)
		q := netlist.NewSignal("q", 1)
		clk.Put(logic.FromUint(1, 0))
		a.Put(logic.FromUint(1, 0))
		b.Put(logic.FromUint(1, 1))

		always.NewSequentialBuilder().
			WithTrigger(clk, always.PosEdge).
			WithBody(cond.NewGroup(cond.NewAssign(q, a), cond.NewAssign(q, b))).
			Build(sched, "redriven")

		toggleClk(sched, clk, 1)
		Expect(sched.Run).To(Panic())
	})
})
