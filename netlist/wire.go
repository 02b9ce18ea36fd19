// Package netlist implements the shared mutable propagation cells (Wire)
// and the named handles that reference them (Signal), including wire
// adoption for `gets` connections (spec §4.B, §4.C).
package netlist

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/simcore"
	"github.com/sarchlab/rzsim/simerr"
)

// Hook positions a Wire broadcasts on, following the same HookableBase
// pattern core/port.go uses for HookPosPortMsgSend et al.
var (
	HookPosGlitch       = &sim.HookPos{Name: "Wire Glitch"}
	HookPosStableChange = &sim.HookPos{Name: "Wire Stable Change"}
)

// GlitchEvent is the Item carried by a HookPosGlitch invocation.
type GlitchEvent struct {
	Prev, New logic.Value
}

// StableChangeEvent is the Item carried by a HookPosStableChange
// invocation, and the payload delivered to value-change subscribers
// (spec §6 item 4).
type StableChangeEvent struct {
	Prev, New logic.Value
	Time      uint64
}

type glitchSub struct {
	id int
	fn func(prev, new logic.Value)
}

type stableSub struct {
	id int
	fn func(prev, new logic.Value, time uint64)
}

// Wire is the shared mutable cell holding a logic.Value. It is the only
// mutable shared state in the simulation core (spec §5): exactly one put
// may be in flight on a wire at a time; a reentrant put is contention and
// forces the wire to all-x, per spec §4.B.
//
// Holding isPutting true means "this goroutine is on the synchronous call
// stack of a Put that has not finished notifying its subscribers yet" —
// there is never more than one logical executor, so a plain bool suffices.
type Wire struct {
	sim.HookableBase

	width   int
	current logic.Value

	isPutting bool

	nextSubID int
	glitch    []glitchSub

	watchStable bool
	stable      []stableSub
	preTick     *logic.Value
	simRef      *simcore.Simulator
}

// NewWire creates a width-wide wire, initialized to all-x (undriven).
func NewWire(width int) *Wire {
	return &Wire{width: width, current: logic.Filled(width, logic.X)}
}

// Width returns the fixed bit width of w.
func (w *Wire) Width() int { return w.width }

// Current returns the wire's present value.
func (w *Wire) Current() logic.Value { return w.current }

// Put updates the wire's value. If the new value differs from the old one,
// every glitch subscriber is notified synchronously, in subscription
// order, before Put returns. A width mismatch is a runtime fatal error. A
// reentrant Put — one that starts while this wire's own notification is
// still on the call stack — does not notify; it forces the wire to all-x,
// modelling unresolved contention.
func (w *Wire) Put(v logic.Value) {
	if v.Width() != w.width {
		simerr.Fatalf("width mismatch on wire put: wire is %d bits wide, value is %d", w.width, v.Width())
	}

	if w.isPutting {
		w.current = logic.Filled(w.width, logic.X)
		return
	}

	if v.Equal(w.current) {
		return
	}

	old := w.current
	w.isPutting = true
	w.current = v
	w.notifyGlitch(old, v)
	w.isPutting = false
}

// PutFill broadcasts a single logic digit across the whole width of w. The
// source must either already be exactly 1 bit wide, or be a wider value
// whose bits are uniformly x or uniformly z (the common "drive the whole
// bus to x/z" case coming out of a gate that does not track width);
// anything else is a contract violation.
func (w *Wire) PutFill(v logic.Value) {
	if v.Width() == 1 {
		w.Put(logic.Filled(w.width, v.Bit(0)))
		return
	}

	allX, allZ := true, v.Width() > 0
	for i := 0; i < v.Width(); i++ {
		b := v.Bit(i)
		if b != logic.X {
			allX = false
		}
		if b != logic.Z {
			allZ = false
		}
	}
	switch {
	case allX:
		w.Put(logic.Filled(w.width, logic.X))
	case allZ:
		w.Put(logic.Filled(w.width, logic.Z))
	default:
		simerr.Contractf("fill put requires a single bit or a uniform x/z value, got %s", v)
	}
}

func (w *Wire) notifyGlitch(old, new_ logic.Value) {
	for _, sub := range w.glitch {
		sub.fn(old, new_)
	}
	w.InvokeHook(sim.HookCtx{Domain: w, Pos: HookPosGlitch, Item: GlitchEvent{Prev: old, New: new_}})
}

// OnGlitch subscribes fn to every value change on w, returning an id usable
// with RemoveGlitchSub.
func (w *Wire) OnGlitch(fn func(prev, new_ logic.Value)) int {
	id := w.nextSubID
	w.nextSubID++
	w.glitch = append(w.glitch, glitchSub{id: id, fn: fn})
	return id
}

// RemoveGlitchSub removes a subscription previously returned by OnGlitch.
func (w *Wire) RemoveGlitchSub(id int) {
	for i, sub := range w.glitch {
		if sub.id == id {
			w.glitch = append(w.glitch[:i], w.glitch[i+1:]...)
			return
		}
	}
}

// EnableStableChange arms pre-tick capture on w against the given
// Simulator. It is idempotent and a no-op once already enabled: per spec
// §4.B, pre_tick is only captured "if any subscriber has ever asked for
// stable-change events" — an optimization against paying the capture cost
// on every wire, every tick, when nobody is watching.
func (w *Wire) EnableStableChange(s *simcore.Simulator) {
	if w.watchStable {
		return
	}
	w.watchStable = true
	w.simRef = s

	s.AcceptHook(simcore.FuncHook{F: func(ctx sim.HookCtx) {
		switch ctx.Pos {
		case simcore.HookPosPreTick:
			v := w.current
			w.preTick = &v
		case simcore.HookPosPostTick:
			if w.preTick != nil && !w.current.Equal(*w.preTick) {
				prev := *w.preTick
				cur := w.current
				w.notifyStable(prev, cur, s.Time())
			}
			w.preTick = nil
		}
	}})
}

func (w *Wire) notifyStable(prev, new_ logic.Value, t uint64) {
	for _, sub := range w.stable {
		sub.fn(prev, new_, t)
	}
	w.InvokeHook(sim.HookCtx{
		Domain: w,
		Pos:    HookPosStableChange,
		Item:   StableChangeEvent{Prev: prev, New: new_, Time: t},
	})
}

// OnStableChange subscribes fn to w's end-of-tick stable value changes.
// Calling this also enables stable-change tracking on w.
func (w *Wire) OnStableChange(s *simcore.Simulator, fn func(prev, new_ logic.Value, time uint64)) int {
	w.EnableStableChange(s)
	id := w.nextSubID
	w.nextSubID++
	w.stable = append(w.stable, stableSub{id: id, fn: fn})
	return id
}

// RemoveStableSub removes a subscription previously returned by
// OnStableChange.
func (w *Wire) RemoveStableSub(id int) {
	for i, sub := range w.stable {
		if sub.id == id {
			w.stable = append(w.stable[:i], w.stable[i+1:]...)
			return
		}
	}
}

// OnPosedge invokes fn at the time of every stable 0->1 transition on a
// 1-bit wire. ignoreInvalid is forwarded to logic.IsPosedge.
func (w *Wire) OnPosedge(s *simcore.Simulator, ignoreInvalid bool, fn func(time uint64)) int {
	if w.width != 1 {
		simerr.Configf("posedge is only defined on 1-bit wires, got width %d", w.width)
	}
	return w.OnStableChange(s, func(prev, new_ logic.Value, t uint64) {
		if logic.IsPosedge(prev, new_, ignoreInvalid) {
			fn(t)
		}
	})
}

// OnNegedge is the 1->0 analogue of OnPosedge.
func (w *Wire) OnNegedge(s *simcore.Simulator, ignoreInvalid bool, fn func(time uint64)) int {
	if w.width != 1 {
		simerr.Configf("negedge is only defined on 1-bit wires, got width %d", w.width)
	}
	return w.OnStableChange(s, func(prev, new_ logic.Value, t uint64) {
		if logic.IsNegedge(prev, new_, ignoreInvalid) {
			fn(t)
		}
	})
}

// adoptSubscribersFrom migrates every glitch and stable-change subscriber
// of old onto w, and arms stable-change capture on w if old had it armed.
// Used by Signal.adoptWire during `gets` wire adoption (spec §4.C).
func (w *Wire) adoptSubscribersFrom(old *Wire) {
	w.glitch = append(w.glitch, old.glitch...)
	if old.watchStable && old.simRef != nil {
		w.EnableStableChange(old.simRef)
		w.stable = append(w.stable, old.stable...)
	}
	old.glitch = nil
	old.stable = nil
}
