package gate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/gate"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

var _ = Describe("Gate primitives", func() {
	It("recomputes NOT on every input glitch", func() {
		in := netlist.NewSignal("in", 1)
		in.Put(logic.FromUint(1, 0))
		g := gate.Not("not", in)

		Expect(g.Output().Value().Equal(logic.FromUint(1, 1))).To(BeTrue())

		in.Put(logic.FromUint(1, 1))
		Expect(g.Output().Value().Equal(logic.FromUint(1, 0))).To(BeTrue())
	})

	It("degrades mux to all-x on invalid control", func() {
		control := netlist.NewSignal("control", 1)
		d1 := netlist.NewSignal("d1", 4)
		d0 := netlist.NewSignal("d0", 4)
		d1.Put(logic.FromUint(4, 0b1010))
		d0.Put(logic.FromUint(4, 0b0101))
		control.Put(logic.Filled(1, logic.X))

		m := gate.Mux("mux", control, d1, d0)
		Expect(m.Output().Value().Equal(logic.Filled(4, logic.X))).To(BeTrue())
	})

	It("degrades division by zero to all-x", func() {
		a := netlist.NewSignal("a", 8)
		b := netlist.NewSignal("b", 8)
		a.Put(logic.FromUint(8, 5))
		b.Put(logic.FromUint(8, 0))

		d := gate.Divide("div", a, b)
		Expect(d.Output().Value().Equal(logic.Filled(8, logic.X))).To(BeTrue())
	})

	It("indexes out of bounds to 1-bit x", func() {
		in := netlist.NewSignal("in", 4)
		idx := netlist.NewSignal("idx", 4)
		in.Put(logic.FromUint(4, 0b1010))
		idx.Put(logic.FromUint(4, 9))

		g := gate.Index("idx_gate", in, idx)
		Expect(g.Output().Width()).To(Equal(1))
		Expect(g.Output().Value().Bit(0)).To(Equal(logic.X))
	})

	It("ignores the index on a width-1 bus", func() {
		in := netlist.NewSignal("in", 1)
		idx := netlist.NewSignal("idx", 2)
		in.Put(logic.FromUint(1, 1))
		idx.Put(logic.FromUint(2, 3))

		g := gate.Index("idx_gate", in, idx)
		Expect(g.Output().Value().Bit(0)).To(Equal(logic.One))
	})

	It("drives z when a tri-state buffer is disabled", func() {
		enable := netlist.NewSignal("en", 1)
		data := netlist.NewSignal("data", 4)
		enable.Put(logic.FromUint(1, 0))
		data.Put(logic.FromUint(4, 0xA))

		ts := gate.NewTriState(enable, data)
		Expect(ts.Output().Current().Equal(logic.Filled(4, logic.Z))).To(BeTrue())

		enable.Put(logic.FromUint(1, 1))
		Expect(ts.Output().Current().Equal(logic.FromUint(4, 0xA))).To(BeTrue())
	})
})
