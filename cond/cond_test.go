package cond_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/cond"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

func directCtx() *cond.ExecContext {
	return &cond.ExecContext{
		ReadDriver:    func(s *netlist.Signal) logic.Value { return s.Value() },
		WriteReceiver: func(s *netlist.Signal, v logic.Value) { s.Put(v) },
	}
}

var _ = Describe("Assign", func() {
	It("promotes z to x while keeping valid bits", func() {
		driver := netlist.NewSignal("driver", 2)
		receiver := netlist.NewSignal("receiver", 2)
		driver.Put(logic.FromBits([]logic.Bit{logic.Z, logic.One}))

		a := cond.NewAssign(receiver, driver)
		a.Execute(directCtx())

		Expect(receiver.Value().Bit(0)).To(Equal(logic.X))
		Expect(receiver.Value().Bit(1)).To(Equal(logic.One))
	})
})

var _ = Describe("If", func() {
	It("drives all receivers x on an invalid condition", func() {
		cond1 := netlist.NewSignal("cond1", 1)
		cond1.Put(logic.Filled(1, logic.X))
		y := netlist.NewSignal("y", 4)
		driver := netlist.NewSignal("driver", 4)
		driver.Put(logic.FromUint(4, 7))

		n := cond.NewIf(cond.IfBranch{Cond: cond1, Body: []cond.Node{cond.NewAssign(y, driver)}})
		n.Execute(directCtx())

		Expect(y.Value().Equal(logic.Filled(4, logic.X))).To(BeTrue())
	})

	It("executes the matching branch", func() {
		sel := netlist.NewSignal("sel", 1)
		sel.Put(logic.FromUint(1, 1))
		y := netlist.NewSignal("y", 4)
		a := netlist.NewSignal("a", 4)
		b := netlist.NewSignal("b", 4)
		a.Put(logic.FromUint(4, 1))
		b.Put(logic.FromUint(4, 2))

		n := cond.NewIf(
			cond.IfBranch{Cond: sel, Body: []cond.Node{cond.NewAssign(y, a)}},
			cond.IfBranch{Cond: nil, Body: []cond.Node{cond.NewAssign(y, b)}},
		)
		n.Execute(directCtx())
		Expect(y.Value().Equal(logic.FromUint(4, 1))).To(BeTrue())
	})
})

var _ = Describe("Case", func() {
	It("drives x when two items match a Unique case", func() {
		expr := netlist.NewSignal("expr", 2)
		expr.Put(logic.FromUint(2, 1))
		y := netlist.NewSignal("y", 1)
		one := netlist.NewSignal("one", 1)
		one.Put(logic.FromUint(1, 1))

		c := &cond.Case{
			Expr: expr,
			Kind: cond.CaseUnique,
			Items: []cond.CaseItem{
				{Match: logic.FromUint(2, 1), Body: []cond.Node{cond.NewAssign(y, one)}},
				{Match: logic.FromUint(2, 1), Body: []cond.Node{cond.NewAssign(y, one)}},
			},
		}
		c.Execute(directCtx())
		Expect(y.Value().Equal(logic.Filled(1, logic.X))).To(BeTrue())
	})

	It("matches wildcards in a CaseZ", func() {
		expr := netlist.NewSignal("expr", 2)
		expr.Put(logic.FromUint(2, 0b10))
		y := netlist.NewSignal("y", 1)
		one := netlist.NewSignal("one", 1)
		one.Put(logic.FromUint(1, 1))
		wildcard, _ := logic.FromString("1z")

		c := &cond.Case{
			Expr:     expr,
			Wildcard: true,
			Items: []cond.CaseItem{
				{Match: wildcard, Body: []cond.Node{cond.NewAssign(y, one)}},
			},
		}
		c.Execute(directCtx())
		Expect(y.Value().Equal(logic.FromUint(1, 1))).To(BeTrue())
	})
})
