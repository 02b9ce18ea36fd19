package gate

import (
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

// TriState is an enable-gated driver: it drives data onto its output wire
// when enable is 1, drives all-z when enable is 0, and all-x when enable
// is invalid. Its output is a Wire, not a Signal, because a tri-state
// output is meant to be plugged into a netlist.Net alongside other
// tri-state drivers, not owned exclusively the way a gate Signal output is
// (spec §4.D, last paragraph).
type TriState struct {
	enable, data *netlist.Signal
	output       *netlist.Wire
}

// NewTriState builds a tri-state buffer and populates its initial output.
func NewTriState(enable, data *netlist.Signal) *TriState {
	t := &TriState{enable: enable, data: data, output: netlist.NewWire(data.Width())}

	recompute := func(_, _ logic.Value) { t.recompute() }
	enable.Wire().OnGlitch(recompute)
	data.Wire().OnGlitch(recompute)
	t.recompute()

	return t
}

// Output returns the driver's output wire, suitable for netlist.Net.AddDriver.
func (t *TriState) Output() *netlist.Wire { return t.output }

func (t *TriState) recompute() {
	e := t.enable.Value()
	if e.Width() != 1 {
		t.output.Put(logic.Filled(t.data.Width(), logic.X))
		return
	}

	switch e.Bit(0) {
	case logic.One:
		t.output.Put(t.data.Value())
	case logic.Zero:
		t.output.Put(logic.Filled(t.data.Width(), logic.Z))
	default:
		t.output.Put(logic.Filled(t.data.Width(), logic.X))
	}
}
