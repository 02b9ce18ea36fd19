// Package gate implements the pure functional reactive gate primitives of
// spec §4.D: small modules holding input signals, an unassignable output
// signal, and a callback recomputed on every input glitch.
package gate

import (
	"fmt"

	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

// Gate is the common shape of every gate primitive: a set of inputs, one
// output, and a pure function from input values to output value.
type Gate struct {
	name    string
	inputs  []*netlist.Signal
	output  *netlist.Signal
	compute func() logic.Value
}

// Output returns the gate's output signal.
func (g *Gate) Output() *netlist.Signal { return g.output }

// newGate wires compute to run once at construction (to populate the
// initial output value) and again on every glitch of any input.
func newGate(name string, width int, inputs []*netlist.Signal, compute func() logic.Value) *Gate {
	out := netlist.NewSignal(name, width)
	out.MarkUnassignable()

	g := &Gate{name: name, inputs: inputs, output: out, compute: compute}

	recalc := func(_, _ logic.Value) { g.output.Put(g.compute()) }
	for _, in := range inputs {
		in.Wire().OnGlitch(recalc)
	}
	g.output.Put(g.compute())

	return g
}

// matchWidth zero-extends the narrower of two values to the width of the
// wider one. It implements "constant operand auto-extended" for the
// binary arithmetic/bitwise gates (spec §4.D); a non-constant width
// mismatch is unusual but handled the same way rather than silently
// misbehaving.
func matchWidth(a, b logic.Value) (logic.Value, logic.Value) {
	switch {
	case a.Width() == b.Width():
		return a, b
	case a.Width() < b.Width():
		return a.ZeroExtend(b.Width()), b
	default:
		return a, b.ZeroExtend(a.Width())
	}
}

func outWidth(a, b logic.Value) int {
	if a.Width() > b.Width() {
		return a.Width()
	}
	return b.Width()
}

// Not is the unary bitwise complement gate.
func Not(name string, in *netlist.Signal) *Gate {
	return newGate(name, in.Width(), []*netlist.Signal{in}, func() logic.Value {
		return in.Value().Not()
	})
}

// ReduceAnd ANDs every bit of in together into a 1-bit output.
func ReduceAnd(name string, in *netlist.Signal) *Gate {
	return newGate(name, 1, []*netlist.Signal{in}, func() logic.Value { return in.Value().ReduceAnd() })
}

// ReduceOr ORs every bit of in together into a 1-bit output.
func ReduceOr(name string, in *netlist.Signal) *Gate {
	return newGate(name, 1, []*netlist.Signal{in}, func() logic.Value { return in.Value().ReduceOr() })
}

// ReduceXor XORs every bit of in together into a 1-bit output.
func ReduceXor(name string, in *netlist.Signal) *Gate {
	return newGate(name, 1, []*netlist.Signal{in}, func() logic.Value { return in.Value().ReduceXor() })
}

func binaryBitwise(name string, a, b *netlist.Signal, f func(x, y logic.Value) logic.Value) *Gate {
	return newGate(name, outWidth(a.Value(), b.Value()), []*netlist.Signal{a, b}, func() logic.Value {
		av, bv := matchWidth(a.Value(), b.Value())
		return f(av, bv)
	})
}

// And is the binary bitwise AND gate.
func And(name string, a, b *netlist.Signal) *Gate {
	return binaryBitwise(name, a, b, logic.Value.And)
}

// Or is the binary bitwise OR gate.
func Or(name string, a, b *netlist.Signal) *Gate {
	return binaryBitwise(name, a, b, logic.Value.Or)
}

// Xor is the binary bitwise XOR gate.
func Xor(name string, a, b *netlist.Signal) *Gate {
	return binaryBitwise(name, a, b, logic.Value.Xor)
}

// Add is the binary addition gate (wraps to the wider operand's width).
func Add(name string, a, b *netlist.Signal) *Gate { return binaryBitwise(name, a, b, logic.Value.Add) }

// Sub is the binary subtraction gate.
func Sub(name string, a, b *netlist.Signal) *Gate { return binaryBitwise(name, a, b, logic.Value.Sub) }

// Mul is the binary multiplication gate.
func Mul(name string, a, b *netlist.Signal) *Gate { return binaryBitwise(name, a, b, logic.Value.Mul) }

// Divide is the binary division gate. Division by zero drives all-x.
func Divide(name string, a, b *netlist.Signal) *Gate {
	return binaryBitwise(name, a, b, logic.Value.Div)
}

// Modulo is the binary modulo gate. Modulo by zero drives all-x.
func Modulo(name string, a, b *netlist.Signal) *Gate {
	return binaryBitwise(name, a, b, logic.Value.Mod)
}

// Pow is the binary exponentiation gate.
func Pow(name string, a, b *netlist.Signal) *Gate { return binaryBitwise(name, a, b, logic.Value.Pow) }

func comparator(name string, a, b *netlist.Signal, f func(x, y logic.Value) logic.Value) *Gate {
	return newGate(name, 1, []*netlist.Signal{a, b}, func() logic.Value {
		av, bv := matchWidth(a.Value(), b.Value())
		return f(av, bv)
	})
}

// Eq, Neq, Lt, Lte, Gt, Gte are the 1-bit comparator gates.
func Eq(name string, a, b *netlist.Signal) *Gate  { return comparator(name, a, b, logic.Value.Eq) }
func Neq(name string, a, b *netlist.Signal) *Gate { return comparator(name, a, b, logic.Value.Neq) }
func Lt(name string, a, b *netlist.Signal) *Gate  { return comparator(name, a, b, logic.Value.Lt) }
func Lte(name string, a, b *netlist.Signal) *Gate { return comparator(name, a, b, logic.Value.Lte) }
func Gt(name string, a, b *netlist.Signal) *Gate  { return comparator(name, a, b, logic.Value.Gt) }
func Gte(name string, a, b *netlist.Signal) *Gate { return comparator(name, a, b, logic.Value.Gte) }

// ShiftLeft is the logical left-shift gate; output width equals data's.
func ShiftLeft(name string, data, amount *netlist.Signal) *Gate {
	return newGate(name, data.Width(), []*netlist.Signal{data, amount}, func() logic.Value {
		return data.Value().ShiftLeft(amount.Value())
	})
}

// ShiftRightLogical is the logical right-shift gate.
func ShiftRightLogical(name string, data, amount *netlist.Signal) *Gate {
	return newGate(name, data.Width(), []*netlist.Signal{data, amount}, func() logic.Value {
		return data.Value().ShiftRightLogical(amount.Value())
	})
}

// ShiftRightArithmetic is the arithmetic (sign-extending) right-shift gate.
func ShiftRightArithmetic(name string, data, amount *netlist.Signal) *Gate {
	return newGate(name, data.Width(), []*netlist.Signal{data, amount}, func() logic.Value {
		return data.Value().ShiftRightArithmetic(amount.Value())
	})
}

// Mux is the 1-bit-control, equal-width-data multiplexer gate. An invalid
// control value drives the output all-x.
func Mux(name string, control, d1, d0 *netlist.Signal) *Gate {
	if d1.Width() != d0.Width() {
		panic(fmt.Sprintf("rzsim: configuration error: mux data inputs %q (%d) and %q (%d) have different widths",
			d1.Name(), d1.Width(), d0.Name(), d0.Width()))
	}
	return newGate(name, d1.Width(), []*netlist.Signal{control, d1, d0}, func() logic.Value {
		c := control.Value()
		if c.Width() != 1 || !c.IsValid() {
			return logic.Filled(d1.Width(), logic.X)
		}
		if c.Bit(0) == logic.One {
			return d1.Value()
		}
		return d0.Value()
	})
}

// Slice extracts bits [lo, hi] inclusive (reversed if hi < lo).
func Slice(name string, in *netlist.Signal, hi, lo int) *Gate {
	width := hi - lo + 1
	if hi < lo {
		width = lo - hi + 1
	}
	return newGate(name, width, []*netlist.Signal{in}, func() logic.Value {
		return in.Value().Slice(hi, lo)
	})
}

// Concat concatenates signals, the first being most significant.
func Concat(name string, parts ...*netlist.Signal) *Gate {
	width := 0
	for _, p := range parts {
		width += p.Width()
	}
	return newGate(name, width, parts, func() logic.Value {
		vals := make([]logic.Value, len(parts))
		for i, p := range parts {
			vals[i] = p.Value()
		}
		return logic.Concat(vals...)
	})
}

// Replicate repeats in n times.
func Replicate(name string, in *netlist.Signal, n int) *Gate {
	return newGate(name, in.Width()*n, []*netlist.Signal{in}, func() logic.Value {
		return in.Value().Replicate(n)
	})
}

// Index dynamically selects a single bit of in. Out-of-bounds or invalid
// index values drive a 1-bit x. Indexing a width-1 signal ignores the
// index and returns the signal's single bit.
func Index(name string, in, index *netlist.Signal) *Gate {
	return newGate(name, 1, []*netlist.Signal{in, index}, func() logic.Value {
		if in.Width() == 1 {
			return in.Value()
		}
		idx := index.Value()
		if !idx.IsValid() {
			return logic.Filled(1, logic.X)
		}
		for b := 63; b < idx.Width(); b++ {
			if idx.Bit(b) == logic.One {
				return logic.Filled(1, logic.X)
			}
		}
		i := int(idx.Uint64())
		if i < 0 || i >= in.Width() {
			return logic.Filled(1, logic.X)
		}
		return logic.FromBits([]logic.Bit{in.Value().Bit(i)})
	})
}
