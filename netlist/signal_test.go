package netlist_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

var _ = Describe("Signal", func() {
	It("shares one wire with its source after Gets", func() {
		a := netlist.NewSignal("a", 4)
		b := netlist.NewSignal("b", 4)

		a.Put(logic.FromUint(4, 9))
		b.Gets(a)

		Expect(b.Wire()).To(BeIdenticalTo(a.Wire()))
		Expect(b.Value().Equal(logic.FromUint(4, 9))).To(BeTrue())

		a.Put(logic.FromUint(4, 3))
		Expect(b.Value().Equal(logic.FromUint(4, 3))).To(BeTrue())
	})

	It("rejects a second Gets", func() {
		a := netlist.NewSignal("a", 1)
		b := netlist.NewSignal("b", 1)
		c := netlist.NewSignal("c", 1)

		b.Gets(a)
		Expect(func() { b.Gets(c) }).To(Panic())
	})

	It("rejects assigning an unassignable signal", func() {
		a := netlist.NewSignal("a", 1)
		out := netlist.NewSignal("out", 1)
		out.MarkUnassignable()

		Expect(func() { out.Gets(a) }).To(Panic())
	})

	It("rejects width mismatch", func() {
		a := netlist.NewSignal("a", 4)
		b := netlist.NewSignal("b", 8)
		Expect(func() { b.Gets(a) }).To(Panic())
	})

	It("propagates adoption through a chain", func() {
		a := netlist.NewSignal("a", 1)
		b := netlist.NewSignal("b", 1)
		c := netlist.NewSignal("c", 1)

		b.Gets(a)
		c.Gets(b)

		a.Put(logic.FromUint(1, 1))
		Expect(c.Value().Equal(logic.FromUint(1, 1))).To(BeTrue())
		Expect(c.Wire()).To(BeIdenticalTo(a.Wire()))
	})

	It("sanitizes names", func() {
		s := netlist.NewSignal(" 7bad name!", 1)
		Expect(s.Name()).NotTo(Equal(" 7bad name!"))
	})
})
