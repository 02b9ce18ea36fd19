package logic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rzsim/logic"
)

var _ = Describe("Value", func() {
	It("round-trips through FromUint and Uint64", func() {
		v := logic.FromUint(8, 0xAC)
		Expect(v.IsValid()).To(BeTrue())
		Expect(v.Uint64()).To(Equal(uint64(0xAC)))
	})

	It("parses literals MSB-first", func() {
		v, err := logic.FromString("10xz")
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Width()).To(Equal(4))
		Expect(v.Bit(3)).To(Equal(logic.One))
		Expect(v.Bit(2)).To(Equal(logic.Zero))
		Expect(v.Bit(1)).To(Equal(logic.X))
		Expect(v.Bit(0)).To(Equal(logic.Z))
	})

	DescribeTable("algebraic identities",
		func(a logic.Value) {
			zero := logic.Filled(a.Width(), logic.Zero)
			one := logic.FromUint(a.Width(), 1)

			Expect(a.Add(zero).Equal(a)).To(BeTrue())
			Expect(a.Mul(one).Equal(a)).To(BeTrue())
			Expect(a.Not().Not().Equal(a)).To(BeTrue())
			Expect(a.Reversed().Reversed().Equal(a)).To(BeTrue())
		},
		Entry("all zero", logic.Filled(8, logic.Zero)),
		Entry("pattern", logic.FromUint(8, 0x5A)),
		Entry("all ones", logic.Filled(8, logic.One)),
	)

	It("concat of a slice split equals the whole slice", func() {
		v := logic.FromUint(8, 0xB7)
		hi := v.Slice(7, 4)
		lo := v.Slice(3, 0)
		Expect(logic.Concat(hi, lo).Equal(v)).To(BeTrue())
	})

	It("reverses a slice when hi < lo", func() {
		v, _ := logic.FromString("1100")
		Expect(v.Slice(0, 3).Equal(v.Reversed())).To(BeTrue())
	})

	It("zero_extend then truncate is the identity", func() {
		v := logic.FromUint(4, 0x9)
		ext := v.ZeroExtend(8)
		Expect(ext.GetRange(0, 4).Equal(v)).To(BeTrue())
		Expect(ext.Bit(4)).To(Equal(logic.Zero))
	})

	It("degrades arithmetic with invalid operands to all-x", func() {
		a := logic.FromUint(4, 5)
		b := logic.Filled(4, logic.X)
		Expect(a.Add(b).Equal(logic.Filled(4, logic.X))).To(BeTrue())
	})

	It("degrades division by zero to all-x", func() {
		a := logic.FromUint(8, 5)
		z := logic.FromUint(8, 0)
		Expect(a.Div(z).Equal(logic.Filled(8, logic.X))).To(BeTrue())
	})

	It("comparisons degrade to 1-bit x on invalid input", func() {
		a := logic.FromUint(4, 3)
		b := logic.Filled(4, logic.X)
		r := a.Lt(b)
		Expect(r.Width()).To(Equal(1))
		Expect(r.Bit(0)).To(Equal(logic.X))
	})

	It("detects posedge and negedge", func() {
		zero := logic.FromUint(1, 0)
		one := logic.FromUint(1, 1)
		x := logic.Filled(1, logic.X)

		Expect(logic.IsPosedge(zero, one, false)).To(BeTrue())
		Expect(logic.IsPosedge(x, one, true)).To(BeFalse())
		Expect(logic.IsPosedge(x, one, false)).To(BeTrue())
		Expect(logic.IsNegedge(one, zero, false)).To(BeTrue())
	})
})
