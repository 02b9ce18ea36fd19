// Package always wires a cond.Node tree into a simcore.Simulator: the
// level-sensitive Combinational harness and the edge-triggered Sequential
// harness of spec §4.G, built the way the teacher wires a behavioral
// process into akita's TickingComponent (core/core.go) — except here the
// tick loop is rzsim's own phased Simulator, not akita's engine.
package always

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
)

// Hook positions every always block broadcasts on.
var (
	HookPosExecute = &sim.HookPos{Name: "Always Execute"}
	HookPosDrivenX = &sim.HookPos{Name: "Always Driven X"}
)

// EdgeKind selects which stable transition a Sequential trigger fires on.
type EdgeKind int

// The two trigger edges a Sequential block can be sensitive to.
const (
	PosEdge EdgeKind = iota
	NegEdge
)

func (e EdgeKind) String() string {
	if e == NegEdge {
		return "negedge"
	}
	return "posedge"
}

// ports is the registration-time port map of spec §4.F: a unique named
// input port per external driver, a unique named output port per external
// receiver, wired so the port mirrors the external signal without sharing
// its Wire identity (keeping driver-reads and receiver-writes on
// independent wires is what makes the write-after-read guard meaningful).
type ports struct {
	driver   map[*netlist.Signal]*netlist.Signal
	receiver map[*netlist.Signal]*netlist.Signal
}

type uniqueNamer struct {
	prefix string
	used   map[string]int
}

func newUniqueNamer(prefix string) *uniqueNamer {
	return &uniqueNamer{prefix: prefix, used: make(map[string]int)}
}

func (u *uniqueNamer) next(base string) string {
	name := fmt.Sprintf("%s_%s", u.prefix, base)
	n := u.used[name]
	u.used[name]++
	if n > 0 {
		name = fmt.Sprintf("%s_%d", name, n)
	}
	return name
}

// registerPorts builds the input/output port signals for drivers and
// receivers and wires the forwarding subscriptions that keep them in sync
// with the outside world.
func registerPorts(name string, drivers, receivers []*netlist.Signal) *ports {
	p := &ports{
		driver:   make(map[*netlist.Signal]*netlist.Signal, len(drivers)),
		receiver: make(map[*netlist.Signal]*netlist.Signal, len(receivers)),
	}
	namer := newUniqueNamer(name)

	for _, d := range drivers {
		in := netlist.NewSignal(namer.next("in_"+d.Name()), d.Width())
		in.MarkUnassignable()
		in.Put(d.Value())
		d.Wire().OnGlitch(func(_, new_ logic.Value) { in.Put(new_) })
		p.driver[d] = in
	}

	for _, r := range receivers {
		out := netlist.NewSignal(namer.next("out_"+r.Name()), r.Width())
		out.MarkUnassignable()
		r.MarkUnassignable()
		out.Wire().OnGlitch(func(_, new_ logic.Value) { r.Put(new_) })
		p.receiver[r] = out
	}

	return p
}

func driveX(p *ports, receivers []*netlist.Signal) {
	for _, r := range receivers {
		p.receiver[r].Put(logic.Filled(r.Width(), logic.X))
	}
}
