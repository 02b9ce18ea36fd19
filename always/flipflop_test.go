package always_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/always"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simcore"
)

func toggleClk(sched *simcore.Simulator, clk *netlist.Signal, periods uint64) {
	var tick func(s *simcore.Simulator)
	cur := false
	remaining := periods
	tick = func(s *simcore.Simulator) {
		cur = !cur
		if cur {
			clk.Put(logic.FromUint(1, 1))
		} else {
			clk.Put(logic.FromUint(1, 0))
		}
		remaining--
		if remaining > 0 {
			s.RegisterAction(s.Time()+1, tick)
		}
	}
	sched.RegisterAction(0, tick)
}

var _ = Describe("FlipFlop", func() {
	It("samples d on the rising edge of clk and holds between edges", func() {
		sched := simcore.NewSimulator()
		clk := netlist.NewSignal("clk", 1)
		d := netlist.NewSignal("d", 1)
		q := netlist.NewSignal("q", 1)
		clk.Put(logic.FromUint(1, 0))
		d.Put(logic.FromUint(1, 1))

		always.NewFlipFlop(sched, "dff", clk, q, d)

		toggleClk(sched, clk, 1) // posedge at t=0
		Expect(sched.Run()).To(Succeed())

		Expect(q.Value().Equal(logic.FromUint(1, 1))).To(BeTrue())
	})

	It("holds q when disabled via WithEnable", func() {
		sched := simcore.NewSimulator()
		clk := netlist.NewSignal("clk", 1)
		en := netlist.NewSignal("en", 1)
		d := netlist.NewSignal("d", 1)
		q := netlist.NewSignal("q", 1)
		clk.Put(logic.FromUint(1, 0))
		en.Put(logic.FromUint(1, 0))
		d.Put(logic.FromUint(1, 1))

		always.NewFlipFlop(sched, "dff_en", clk, q, d, always.WithEnable(en))

		toggleClk(sched, clk, 1)
		Expect(sched.Run()).To(Succeed())

		Expect(q.Value().Equal(logic.Filled(1, logic.X))).To(BeTrue())
	})

	It("resets q synchronously to the reset value", func() {
		sched := simcore.NewSimulator()
		clk := netlist.NewSignal("clk", 1)
		rst := netlist.NewSignal("rst", 1)
		d := netlist.NewSignal("d", 1)
		q := netlist.NewSignal("q", 1)
		one := netlist.Const("one", logic.FromUint(1, 1))
		clk.Put(logic.FromUint(1, 0))
		rst.Put(logic.FromUint(1, 1))
		d.Put(logic.FromUint(1, 0))

		always.NewFlipFlop(sched, "dff_rst", clk, q, d, always.WithFlipFlopReset(rst, one))

		toggleClk(sched, clk, 1)
		Expect(sched.Run()).To(Succeed())

		Expect(q.Value().Equal(logic.FromUint(1, 1))).To(BeTrue())
	})
})
