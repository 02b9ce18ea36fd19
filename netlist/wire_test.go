package netlist_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

var _ = Describe("Wire", func() {
	It("starts out all-x", func() {
		w := netlist.NewWire(4)
		Expect(w.Current().Equal(logic.Filled(4, logic.X))).To(BeTrue())
	})

	It("notifies glitch subscribers exactly once per distinct value", func() {
		w := netlist.NewWire(1)
		count := 0
		w.OnGlitch(func(prev, new_ logic.Value) { count++ })

		w.Put(logic.FromUint(1, 1))
		w.Put(logic.FromUint(1, 1)) // no change, no glitch
		w.Put(logic.FromUint(1, 0))

		Expect(count).To(Equal(2))
	})

	It("forces contention to all-x on reentrant put", func() {
		w := netlist.NewWire(4)
		w.OnGlitch(func(prev, new_ logic.Value) {
			// Reentrant write while still inside the outer Put's
			// notification.
			w.Put(logic.FromUint(4, 3))
		})

		w.Put(logic.FromUint(4, 1))
		Expect(w.Current().Equal(logic.Filled(4, logic.X))).To(BeTrue())
	})

	It("rejects width mismatches", func() {
		w := netlist.NewWire(4)
		Expect(func() { w.Put(logic.FromUint(8, 1)) }).To(Panic())
	})
})
