package always

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rzsim/cond"
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simcore"
	"github.com/sarchlab/rzsim/simerr"
)

// Trigger is one edge-sensitivity list entry of a Sequential block.
type Trigger struct {
	Signal *netlist.Signal
	Edge   EdgeKind
}

// Sequential is the edge-triggered always block of spec §4.G. On a stable
// edge of any trigger it executes its body against the driver values
// sampled at the start of the tick (BeforeTick), deferring the write to
// receivers until the values it read cannot retroactively change out from
// under it. A glitch on a non-trigger driver in the same MainTick as a
// trigger's own glitch is a race: the block cannot order the two, and
// degrades its whole output to x for that tick (sequentialRaceTracker).
type Sequential struct {
	sim.HookableBase

	name    string
	sched   *simcore.Simulator
	wrapped cond.Node

	triggers  []Trigger
	allDriven []*netlist.Signal
	receivers []*netlist.Signal
	p         *ports

	preTick           map[*netlist.Signal]logic.Value
	triggerLastStable map[*netlist.Signal]logic.Value

	race sequentialRaceTracker

	allowMultiple bool
}

func isTrigger(triggers []Trigger, s *netlist.Signal) bool {
	for _, t := range triggers {
		if t.Signal == s {
			return true
		}
	}
	return false
}

func dedupSignals(signals []*netlist.Signal) []*netlist.Signal {
	seen := make(map[*netlist.Signal]bool, len(signals))
	out := make([]*netlist.Signal, 0, len(signals))
	for _, s := range signals {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func newSequential(sched *simcore.Simulator, name string, triggers []Trigger, wrapped cond.Node, allowMultiple bool) *Sequential {
	if len(triggers) == 0 {
		simerr.Configf("sequential block %q needs at least one trigger", name)
	}

	var triggerSignals []*netlist.Signal
	for _, t := range triggers {
		if t.Signal.Width() != 1 {
			simerr.Configf("sequential block %q: trigger %q must be 1 bit wide, got %d", name, t.Signal.Name(), t.Signal.Width())
		}
		triggerSignals = append(triggerSignals, t.Signal)
	}

	allDriven := dedupSignals(append(append([]*netlist.Signal{}, wrapped.Drivers()...), triggerSignals...))
	receivers := wrapped.Receivers()
	p := registerPorts(name, allDriven, receivers)

	s := &Sequential{
		name:              name,
		sched:             sched,
		wrapped:           wrapped,
		triggers:          triggers,
		allDriven:         allDriven,
		receivers:         receivers,
		p:                 p,
		preTick:           make(map[*netlist.Signal]logic.Value),
		triggerLastStable: make(map[*netlist.Signal]logic.Value),
		allowMultiple:     allowMultiple,
	}

	for _, t := range triggers {
		s.triggerLastStable[t.Signal] = p.driver[t.Signal].Value()
	}

	for _, d := range allDriven {
		d := d
		trig := isTrigger(triggers, d)
		port := p.driver[d]
		port.Wire().OnGlitch(func(_, _ logic.Value) {
			if sched.Phase() != simcore.PhaseMainTick {
				return
			}
			if trig {
				s.race.NoteTriggerGlitch()
			} else {
				s.race.NoteOtherGlitch()
			}
		})
	}

	sched.AcceptHook(simcore.FuncHook{F: func(ctx sim.HookCtx) {
		switch ctx.Pos {
		case simcore.HookPosPreTick:
			for _, d := range allDriven {
				s.preTick[d] = p.driver[d].Value()
			}
			s.race.ResetTick()
		case simcore.HookPosClkStable:
			s.evaluate()
		case simcore.HookPosPostTick:
			for _, t := range triggers {
				s.triggerLastStable[t.Signal] = p.driver[t.Signal].Value()
			}
			s.race.ResetViolation()
		}
	}})

	return s
}

// Name returns the block's registration name.
func (s *Sequential) Name() string { return s.name }

func (s *Sequential) evaluate() {
	if s.race.Violation() {
		s.driveAllX()
		return
	}

	for _, t := range s.triggers {
		cur := s.p.driver[t.Signal].Value()
		prev := s.triggerLastStable[t.Signal]
		if !cur.IsValid() || !prev.IsValid() {
			s.driveAllX()
			return
		}
	}

	fired := false
	for _, t := range s.triggers {
		cur := s.p.driver[t.Signal].Value()
		prev := s.triggerLastStable[t.Signal]
		switch t.Edge {
		case PosEdge:
			if logic.IsPosedge(prev, cur, true) {
				fired = true
			}
		case NegEdge:
			if logic.IsNegedge(prev, cur, true) {
				fired = true
			}
		}
	}
	if !fired {
		return
	}
	s.execute()
}

func (s *Sequential) driveAllX() {
	for _, r := range s.receivers {
		s.p.receiver[r].Put(logic.Filled(r.Width(), logic.X))
	}
	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosDrivenX, Item: s.name})
}

func (s *Sequential) execute() {
	driven := make(map[*netlist.Signal]bool)
	ctx := &cond.ExecContext{
		ReadDriver: func(d *netlist.Signal) logic.Value { return s.preTick[d] },
		WriteReceiver: func(r *netlist.Signal, v logic.Value) {
			if driven[r] && !s.allowMultiple {
				simerr.Fatalf("signal %q driven more than once in a single execution of sequential block %q", r.Name(), s.name)
			}
			driven[r] = true
			s.p.receiver[r].Put(v)
		},
	}
	s.wrapped.Execute(ctx)
	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosExecute, Item: s.name})
}

// SequentialBuilder is the fluent constructor for Sequential, matching the
// teacher's value-receiver builder style (api.DriverBuilder).
type SequentialBuilder struct {
	triggers      []Trigger
	body          cond.Node
	reset         *netlist.Signal
	resetValues   map[*netlist.Signal]*netlist.Signal
	asyncReset    bool
	allowMultiple bool
}

// NewSequentialBuilder returns an empty SequentialBuilder.
func NewSequentialBuilder() SequentialBuilder {
	return SequentialBuilder{resetValues: make(map[*netlist.Signal]*netlist.Signal)}
}

// WithTrigger appends a trigger to the edge-sensitivity list.
func (b SequentialBuilder) WithTrigger(signal *netlist.Signal, edge EdgeKind) SequentialBuilder {
	b.triggers = append(append([]Trigger{}, b.triggers...), Trigger{Signal: signal, Edge: edge})
	return b
}

// WithBody sets the block's conditional AST.
func (b SequentialBuilder) WithBody(n cond.Node) SequentialBuilder {
	b.body = n
	return b
}

// WithReset wraps the body in an If(reset){resetAssigns}else{body}, driving
// every receiver to 0 on reset unless WithResetValue overrides it.
func (b SequentialBuilder) WithReset(reset *netlist.Signal) SequentialBuilder {
	b.reset = reset
	return b
}

// WithResetValue sets the value receiver is driven to while reset is
// asserted, instead of the default all-zero.
func (b SequentialBuilder) WithResetValue(receiver, value *netlist.Signal) SequentialBuilder {
	rv := make(map[*netlist.Signal]*netlist.Signal, len(b.resetValues)+1)
	for k, v := range b.resetValues {
		rv[k] = v
	}
	rv[receiver] = value
	b.resetValues = rv
	return b
}

// WithAsyncReset additionally triggers the block on a posedge of the reset
// signal itself, instead of only sampling it synchronously in the body.
func (b SequentialBuilder) WithAsyncReset(async bool) SequentialBuilder {
	b.asyncReset = async
	return b
}

// WithAllowMultipleAssignments relaxes the single-assignment-per-execution
// rule: later writes to the same receiver in one pass simply overwrite
// earlier ones instead of raising a runtime-fatal error.
func (b SequentialBuilder) WithAllowMultipleAssignments(allow bool) SequentialBuilder {
	b.allowMultiple = allow
	return b
}

// Build constructs the Sequential block and registers it against sched.
func (b SequentialBuilder) Build(sched *simcore.Simulator, name string) *Sequential {
	if b.body == nil {
		simerr.Configf("sequential block %q has no body", name)
	}

	wrapped := b.body
	triggers := append([]Trigger{}, b.triggers...)

	if b.reset != nil {
		if b.reset.Width() != 1 {
			simerr.Configf("sequential block %q: reset %q must be 1 bit wide, got %d", name, b.reset.Name(), b.reset.Width())
		}

		receivers := b.body.Receivers()
		resetAssigns := make([]cond.Node, 0, len(receivers))
		for _, r := range receivers {
			if rv, ok := b.resetValues[r]; ok {
				resetAssigns = append(resetAssigns, cond.NewAssign(r, rv))
			} else {
				zero := netlist.Const(name+"_"+r.Name()+"_reset0", logic.Filled(r.Width(), logic.Zero))
				resetAssigns = append(resetAssigns, cond.NewAssign(r, zero))
			}
		}

		wrapped = cond.NewIf(
			cond.IfBranch{Cond: b.reset, Body: resetAssigns},
			cond.IfBranch{Cond: nil, Body: []cond.Node{b.body}},
		)

		if b.asyncReset {
			triggers = append(triggers, Trigger{Signal: b.reset, Edge: PosEdge})
		}
	}

	return newSequential(sched, name, triggers, wrapped, b.allowMultiple)
}
