package always

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rzsim/cond"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simerr"
)

type guardSub struct {
	wire *netlist.Wire
	id   int
}

// Combinational is the level-sensitive always block of spec §4.G: it
// re-executes its Node tree in order on any driver-port glitch, suppresses
// reentrant glitches raised from inside its own execution, drives any
// receiver that was never assigned during a run to all-x (the inferred
// latch case), and fatally errors if a conditional reads a driver and then,
// later in the same pass, a write reaches that same driver (write after
// read).
type Combinational struct {
	sim.HookableBase

	name string
	ast  cond.Node
	p    *ports

	drivers   []*netlist.Signal
	receivers []*netlist.Signal

	isExecuting bool
	driven      map[*netlist.Signal]bool
	guarded     map[*netlist.Signal]bool
	guardSubs   []guardSub
}

// NewCombinational registers root as a level-sensitive block named name and
// runs it once immediately, so its outputs settle from whatever the
// drivers currently hold before the caller observes them.
func NewCombinational(name string, root cond.Node) *Combinational {
	drivers := root.Drivers()
	receivers := root.Receivers()
	p := registerPorts(name, drivers, receivers)

	c := &Combinational{
		name:      name,
		ast:       root,
		p:         p,
		drivers:   drivers,
		receivers: receivers,
		driven:    make(map[*netlist.Signal]bool),
		guarded:   make(map[*netlist.Signal]bool),
	}

	for _, d := range drivers {
		p.driver[d].Wire().OnGlitch(func(_, _ logic.Value) { c.execute() })
	}

	c.execute()
	return c
}

// Name returns the block's registration name.
func (c *Combinational) Name() string { return c.name }

func (c *Combinational) execute() {
	if c.isExecuting {
		return
	}
	c.isExecuting = true

	for k := range c.driven {
		delete(c.driven, k)
	}
	for k := range c.guarded {
		delete(c.guarded, k)
	}

	ctx := &cond.ExecContext{
		ReadDriver:    c.readDriver,
		WriteReceiver: c.writeReceiver,
	}
	c.ast.Execute(ctx)

	for _, r := range c.receivers {
		if !c.driven[r] {
			c.p.receiver[r].Put(logic.Filled(r.Width(), logic.X))
			c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosDrivenX, Item: r.Name()})
		}
	}

	for _, gs := range c.guardSubs {
		gs.wire.RemoveGlitchSub(gs.id)
	}
	c.guardSubs = c.guardSubs[:0]

	c.isExecuting = false
	c.InvokeHook(sim.HookCtx{Domain: c, Pos: HookPosExecute, Item: c.name})
}

func (c *Combinational) readDriver(d *netlist.Signal) logic.Value {
	port := c.p.driver[d]
	if !c.guarded[d] {
		c.guarded[d] = true
		var id int
		id = port.Wire().OnGlitch(func(_, _ logic.Value) {
			if c.isExecuting {
				simerr.Fatalf("write after read: %q was read and then written within the same execution of combinational block %q", d.Name(), c.name)
			}
		})
		c.guardSubs = append(c.guardSubs, guardSub{wire: port.Wire(), id: id})
	}
	return port.Value()
}

func (c *Combinational) writeReceiver(r *netlist.Signal, v logic.Value) {
	c.driven[r] = true
	c.p.receiver[r].Put(v)
}
