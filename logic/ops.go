package logic

import "math/big"

func mustSameWidth(op string, a, b Value) {
	if a.width != b.width {
		panic("logic: " + op + " requires equal widths, got " + itoa(a.width) + " and " + itoa(b.width))
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Not is the bitwise complement. x and z both invert to x.
func (v Value) Not() Value {
	out := make([]Bit, v.width)
	for i, b := range v.bits {
		switch b {
		case Zero:
			out[i] = One
		case One:
			out[i] = Zero
		default:
			out[i] = X
		}
	}
	return newRaw(out)
}

func bitAnd(a, b Bit) Bit {
	if a == Zero || b == Zero {
		return Zero
	}
	if a == One && b == One {
		return One
	}
	return X
}

func bitOr(a, b Bit) Bit {
	if a == One || b == One {
		return One
	}
	if a == Zero && b == Zero {
		return Zero
	}
	return X
}

func bitXor(a, b Bit) Bit {
	if !a.IsValid() || !b.IsValid() {
		return X
	}
	if a == b {
		return Zero
	}
	return One
}

func zipBitwise(op string, a, b Value, f func(Bit, Bit) Bit) Value {
	mustSameWidth(op, a, b)
	out := make([]Bit, a.width)
	for i := range out {
		out[i] = f(a.bits[i], b.bits[i])
	}
	return newRaw(out)
}

// And is the bitwise AND of a and b. Widths must match.
func (a Value) And(b Value) Value { return zipBitwise("And", a, b, bitAnd) }

// Or is the bitwise OR of a and b. Widths must match.
func (a Value) Or(b Value) Value { return zipBitwise("Or", a, b, bitOr) }

// Xor is the bitwise XOR of a and b. Widths must match.
func (a Value) Xor(b Value) Value { return zipBitwise("Xor", a, b, bitXor) }

func reduce(v Value, f func(Bit, Bit) Bit) Value {
	if v.width == 0 {
		return Filled(1, Zero)
	}
	acc := v.bits[0]
	for _, b := range v.bits[1:] {
		acc = f(acc, b)
	}
	return newRaw([]Bit{acc})
}

// ReduceAnd ANDs every bit of v together, returning a 1-bit value.
func (v Value) ReduceAnd() Value { return reduce(v, bitAnd) }

// ReduceOr ORs every bit of v together, returning a 1-bit value.
func (v Value) ReduceOr() Value { return reduce(v, bitOr) }

// ReduceXor XORs every bit of v together, returning a 1-bit value.
func (v Value) ReduceXor() Value { return reduce(v, bitXor) }

// arith evaluates a binary arithmetic operator over the unsigned big.Int
// interpretation of equal-width operands. Any invalid input bit, or a nil
// result from f (used to signal divide-by-zero), degrades to all-x of the
// operand width.
func arith(op string, a, b Value, f func(x, y *big.Int) *big.Int) Value {
	mustSameWidth(op, a, b)
	if !a.IsValid() || !b.IsValid() {
		return Filled(a.width, X)
	}
	res := f(a.BigInt(), b.BigInt())
	if res == nil {
		return Filled(a.width, X)
	}
	return FromBigInt(a.width, res)
}

// Add returns a+b, wrapping to the operand width.
func (a Value) Add(b Value) Value {
	return arith("Add", a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) })
}

// Sub returns a-b, wrapping to the operand width.
func (a Value) Sub(b Value) Value {
	return arith("Sub", a, b, func(x, y *big.Int) *big.Int {
		d := new(big.Int).Sub(x, y)
		if d.Sign() < 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), uint(a.width))
			d.Add(d, mod)
		}
		return d
	})
}

// Mul returns a*b, wrapping to the operand width.
func (a Value) Mul(b Value) Value {
	return arith("Mul", a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) })
}

// Div returns a/b (unsigned, truncating). Division by zero yields all-x.
func (a Value) Div(b Value) Value {
	return arith("Div", a, b, func(x, y *big.Int) *big.Int {
		if y.Sign() == 0 {
			return nil
		}
		return new(big.Int).Div(x, y)
	})
}

// Mod returns a%b (unsigned). Modulo by zero yields all-x.
func (a Value) Mod(b Value) Value {
	return arith("Mod", a, b, func(x, y *big.Int) *big.Int {
		if y.Sign() == 0 {
			return nil
		}
		return new(big.Int).Mod(x, y)
	})
}

// Pow returns a**b, wrapping to the operand width.
func (a Value) Pow(b Value) Value {
	return arith("Pow", a, b, func(x, y *big.Int) *big.Int {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(a.width))
		return new(big.Int).Exp(x, y, mod)
	})
}

// cmp evaluates a comparison; any invalid bit in either operand yields a
// 1-bit x, per spec.
func cmp(op string, a, b Value, f func(int) bool) Value {
	mustSameWidth(op, a, b)
	if !a.IsValid() || !b.IsValid() {
		return Filled(1, X)
	}
	c := a.BigInt().Cmp(b.BigInt())
	if f(c) {
		return Filled(1, One)
	}
	return Filled(1, Zero)
}

// Eq reports bitwise-valid equality as a 1-bit logic value.
func (a Value) Eq(b Value) Value { return cmp("Eq", a, b, func(c int) bool { return c == 0 }) }

// Neq is the complement of Eq.
func (a Value) Neq(b Value) Value { return cmp("Neq", a, b, func(c int) bool { return c != 0 }) }

// Lt reports a < b (unsigned).
func (a Value) Lt(b Value) Value { return cmp("Lt", a, b, func(c int) bool { return c < 0 }) }

// Lte reports a <= b (unsigned).
func (a Value) Lte(b Value) Value { return cmp("Lte", a, b, func(c int) bool { return c <= 0 }) }

// Gt reports a > b (unsigned).
func (a Value) Gt(b Value) Value { return cmp("Gt", a, b, func(c int) bool { return c > 0 }) }

// Gte reports a >= b (unsigned).
func (a Value) Gte(b Value) Value { return cmp("Gte", a, b, func(c int) bool { return c >= 0 }) }

// shiftAmount returns the shift distance and whether amt is usable as one;
// an invalid amt (containing x/z) is the caller's cue to degrade to all-x.
// A distance of 2^63 or more is capped, which saturates the shift.
func shiftAmount(amt Value) (int, bool) {
	if !amt.IsValid() {
		return 0, false
	}
	if amt.width > 63 {
		for i := 63; i < amt.width; i++ {
			if amt.bits[i] == One {
				// Defensively cap: a shift distance this large always saturates.
				return 1 << 20, true
			}
		}
		return int(amt.GetRange(0, 63).Uint64()), true
	}
	return int(amt.Uint64()), true
}

// ShiftLeft performs a logical left shift by amt, filling vacated low bits
// with 0. An invalid amt degrades the result to all-x.
func (v Value) ShiftLeft(amt Value) Value {
	n, ok := shiftAmount(amt)
	if !ok {
		return Filled(v.width, X)
	}
	out := make([]Bit, v.width)
	for i := range out {
		out[i] = Zero
	}
	for i := 0; i < v.width; i++ {
		j := i + n
		if j >= 0 && j < v.width {
			out[j] = v.bits[i]
		}
	}
	return newRaw(out)
}

func (v Value) shiftRight(amt Value, fill Bit, signFill bool) Value {
	n, ok := shiftAmount(amt)
	if !ok {
		return Filled(v.width, X)
	}
	filler := fill
	if signFill && v.width > 0 {
		filler = v.bits[v.width-1]
	}
	out := make([]Bit, v.width)
	for i := range out {
		out[i] = filler
	}
	for i := 0; i < v.width; i++ {
		j := i - n
		if j >= 0 && j < v.width {
			out[j] = v.bits[i]
		}
	}
	return newRaw(out)
}

// ShiftRightLogical shifts right by amt, filling vacated high bits with 0.
func (v Value) ShiftRightLogical(amt Value) Value {
	return v.shiftRight(amt, Zero, false)
}

// ShiftRightArithmetic shifts right by amt, filling vacated high bits with
// the sign (MSB) of v.
func (v Value) ShiftRightArithmetic(amt Value) Value {
	return v.shiftRight(amt, Zero, true)
}

// GetRange returns bits [lo, hi) — lo inclusive, hi exclusive.
func (v Value) GetRange(lo, hi int) Value {
	if lo < 0 || hi > v.width || lo > hi {
		panic("logic: GetRange out of bounds")
	}
	return newRaw(append([]Bit{}, v.bits[lo:hi]...))
}

// Slice returns bits [lo, hi] inclusive. If hi < lo the result is the
// bit-reversed substring [hi, lo].
func (v Value) Slice(hi, lo int) Value {
	if hi >= lo {
		return v.GetRange(lo, hi+1)
	}
	return v.GetRange(hi, lo+1).Reversed()
}

// Concat concatenates parts, the first argument becoming the most
// significant bits.
func Concat(parts ...Value) Value {
	total := 0
	for _, p := range parts {
		total += p.width
	}
	out := make([]Bit, total)
	pos := 0
	for i := len(parts) - 1; i >= 0; i-- {
		copy(out[pos:], parts[i].bits)
		pos += parts[i].width
	}
	return newRaw(out)
}

// Replicate repeats v n times, v becoming the least significant copy.
func (v Value) Replicate(n int) Value {
	if n < 0 {
		panic("logic: Replicate with negative count")
	}
	parts := make([]Value, n)
	for i := range parts {
		parts[i] = v
	}
	return Concat(parts...)
}

// ZeroExtend widens v to n bits (n >= v.width), filling new high bits with 0.
func (v Value) ZeroExtend(n int) Value {
	if n < v.width {
		panic("logic: ZeroExtend would shrink the value")
	}
	out := make([]Bit, n)
	copy(out, v.bits)
	for i := v.width; i < n; i++ {
		out[i] = Zero
	}
	return newRaw(out)
}

// SignExtend widens v to n bits (n >= v.width), replicating the MSB.
func (v Value) SignExtend(n int) Value {
	if n < v.width {
		panic("logic: SignExtend would shrink the value")
	}
	var sign Bit = Zero
	if v.width > 0 {
		sign = v.bits[v.width-1]
	}
	out := make([]Bit, n)
	copy(out, v.bits)
	for i := v.width; i < n; i++ {
		out[i] = sign
	}
	return newRaw(out)
}

// Reversed returns v with its bit order reversed (MSB and LSB swap ends).
func (v Value) Reversed() Value {
	out := make([]Bit, v.width)
	for i, b := range v.bits {
		out[v.width-1-i] = b
	}
	return newRaw(out)
}

// IsPosedge reports whether the transition from prev to new is a stable
// 0->1 edge on a 1-bit signal. When ignoreInvalid is false, a transition
// out of x/z into 1 also counts as a (degraded) edge; when true it does not.
func IsPosedge(prev, new_ Value, ignoreInvalid bool) bool {
	if new_.width != 1 || prev.width != 1 || new_.bits[0] != One {
		return false
	}
	switch prev.bits[0] {
	case Zero:
		return true
	case One:
		return false
	default:
		return !ignoreInvalid
	}
}

// IsNegedge is the 1->0 analogue of IsPosedge.
func IsNegedge(prev, new_ Value, ignoreInvalid bool) bool {
	if new_.width != 1 || prev.width != 1 || new_.bits[0] != Zero {
		return false
	}
	switch prev.bits[0] {
	case One:
		return true
	case Zero:
		return false
	default:
		return !ignoreInvalid
	}
}
