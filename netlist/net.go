package netlist

import "github.com/sarchlab/rzsim/logic"

// ResolveNet merges the values of several tri-state (or otherwise
// multi-driving) sources driving one physical net, bit by bit, using the
// typical resolution table named in spec §9 Open Question (b): z yields to
// any driven value, and two differently-driven valid bits conflict to x.
func ResolveNet(values ...logic.Value) logic.Value {
	if len(values) == 0 {
		return logic.Value{}
	}
	width := values[0].Width()
	out := make([]logic.Bit, width)
	for i := 0; i < width; i++ {
		out[i] = logic.Z
		for _, v := range values {
			out[i] = resolveBit(out[i], v.Bit(i))
		}
	}
	return logic.FromBits(out)
}

func resolveBit(a, b logic.Bit) logic.Bit {
	if a == logic.Z {
		return b
	}
	if b == logic.Z {
		return a
	}
	if a == b {
		return a
	}
	return logic.X
}

// Net is a physical wire driven by more than one source (typically
// tri-state buffer outputs): its output is recomputed with ResolveNet
// whenever any driver glitches. A plain Wire enforces single-writer
// semantics (spec §4.B); Net is the explicit multi-driver escape hatch
// spec §9 Open Question (b) leaves implementer-defined.
type Net struct {
	drivers []*Wire
	output  *Wire
}

// NewNet creates a Net with the given width and no drivers yet.
func NewNet(width int) *Net {
	return &Net{output: NewWire(width)}
}

// Output returns the resolved wire other signals should read from.
func (n *Net) Output() *Wire { return n.output }

// AddDriver plugs another driving wire into the net. width must match.
func (n *Net) AddDriver(w *Wire) {
	if w.Width() != n.output.Width() {
		panic("rzsim: configuration error: net driver width mismatch")
	}
	n.drivers = append(n.drivers, w)
	w.OnGlitch(func(_, _ logic.Value) { n.recompute() })
	n.recompute()
}

func (n *Net) recompute() {
	values := make([]logic.Value, len(n.drivers))
	for i, d := range n.drivers {
		values[i] = d.Current()
	}
	n.output.Put(ResolveNet(values...))
}
