package always_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/always"
	"github.com/sarchlab/rzsim/cond"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

var _ = Describe("Combinational", func() {
	It("re-executes on every driver glitch and settles the output", func() {
		sel := netlist.NewSignal("sel", 1)
		a := netlist.NewSignal("a", 4)
		b := netlist.NewSignal("b", 4)
		y := netlist.NewSignal("y", 4)
		sel.Put(logic.FromUint(1, 1))
		a.Put(logic.FromUint(4, 1))
		b.Put(logic.FromUint(4, 2))

		always.NewCombinational("mux", cond.NewIf(
			cond.IfBranch{Cond: sel, Body: []cond.Node{cond.NewAssign(y, a)}},
			cond.IfBranch{Cond: nil, Body: []cond.Node{cond.NewAssign(y, b)}},
		))
		Expect(y.Value().Equal(logic.FromUint(4, 1))).To(BeTrue())

		a.Put(logic.FromUint(4, 9))
		Expect(y.Value().Equal(logic.FromUint(4, 9))).To(BeTrue())

		sel.Put(logic.FromUint(1, 0))
		Expect(y.Value().Equal(logic.FromUint(4, 2))).To(BeTrue())
	})

	It("drives an unassigned receiver to x (inferred latch)", func() {
		sel := netlist.NewSignal("sel", 1)
		sel.Put(logic.FromUint(1, 0))
		a := netlist.NewSignal("a", 4)
		y := netlist.NewSignal("y", 4)
		a.Put(logic.FromUint(4, 5))

		always.NewCombinational("latchy", cond.NewIf(
			cond.IfBranch{Cond: sel, Body: []cond.Node{cond.NewAssign(y, a)}},
		))

		Expect(y.Value().Equal(logic.Filled(4, logic.X))).To(BeTrue())
	})

	It("fatally errors on write-after-read within one execution", func() {
		x := netlist.NewSignal("x", 1)
		y := netlist.NewSignal("y", 1)
		zero := netlist.Const("zero", logic.FromUint(1, 0))
		x.Put(logic.FromUint(1, 1))

		build := func() {
			always.NewCombinational("waw", cond.NewGroup(
				cond.NewAssign(y, x),
				cond.NewAssign(x, zero),
			))
		}
		Expect(build).To(Panic())
	})
})
