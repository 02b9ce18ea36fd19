// Package simcore implements the phased, virtual-time event scheduler that
// drives every rzsim simulation: a single explicit *Simulator* owned by the
// embedding program, replacing the process-global statics of the system
// this design is modelled on (see the simcore entry of DESIGN.md and the
// "Design Notes" section of the specification this package implements).
//
// Broadcast of the four tick phases (BeforeTick, MainTick, ClkStable,
// OutOfTick) follows the hook pattern used throughout
// github.com/sarchlab/akita/v4/sim (see core/port.go in the teacher
// codebase this project is derived from): every phase has a named
// sim.HookPos, and interested parties call Simulator.AcceptHook to be
// notified synchronously, in subscription order, whenever that phase
// begins.
package simcore

import (
	"container/list"
	"fmt"
	"sort"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rzsim/simerr"
)

// Phase names the stage of the tick the scheduler is currently executing.
type Phase int

// PhaseIdle (before the first tick), then the four tick phases, executed in
// this order on every tick.
const (
	PhaseIdle Phase = iota
	PhaseBeforeTick
	PhaseMainTick
	PhaseClkStable
	PhaseOutOfTick
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforeTick:
		return "BeforeTick"
	case PhaseMainTick:
		return "MainTick"
	case PhaseClkStable:
		return "ClkStable"
	case PhaseOutOfTick:
		return "OutOfTick"
	default:
		return "Idle"
	}
}

// Hook positions for the four broadcast points of a tick.
var (
	HookPosPreTick   = &sim.HookPos{Name: "Scheduler Pre Tick"}
	HookPosStartTick = &sim.HookPos{Name: "Scheduler Start Tick"}
	HookPosClkStable = &sim.HookPos{Name: "Scheduler Clk Stable"}
	HookPosPostTick  = &sim.HookPos{Name: "Scheduler Post Tick"}
)

// FuncHook adapts a plain function into a sim.Hook, the way ad-hoc
// subscribers in the teacher codebase wrap behavior into a Hook value
// before calling AcceptHook.
type FuncHook struct {
	F func(ctx sim.HookCtx)
}

// Func implements sim.Hook.
func (h FuncHook) Func(ctx sim.HookCtx) { h.F(ctx) }

// Action is a unit of scheduled work. It receives the Simulator so it can
// register further actions (including at the same virtual time, which
// forms a delta cycle) before returning.
type Action func(s *Simulator)

// ActionHandle identifies a previously registered action so it can be
// cancelled by identity.
type ActionHandle struct {
	time uint64
	elem *list.Element
}

type scheduledAction struct {
	fn      Action
	handle  *ActionHandle
	removed bool
}

// Simulator is the explicit, single-threaded event scheduler. The zero
// value is not usable; construct one with NewSimulator.
type Simulator struct {
	sim.HookableBase

	currentTime uint64
	phase       Phase

	pending    map[uint64]*list.List
	timeKeys   []uint64 // kept sorted ascending
	injected   *list.List
	endOfSim   *list.List
	pendingErr []error

	maxSimTime    uint64
	hasMaxSimTime bool
	endRequested  bool
	ended         bool

	// endedSubscribers are invoked once, when the simulation ends, to
	// implement the SimulationEnded() completion signal.
	endedSubscribers []func()
}

// NewSimulator creates a fresh Simulator at time 0, phase Idle.
func NewSimulator() *Simulator {
	return &Simulator{
		pending:  make(map[uint64]*list.List),
		injected: list.New(),
		endOfSim: list.New(),
	}
}

// Time returns the current virtual time, in scheduler ticks.
func (s *Simulator) Time() uint64 { return s.currentTime }

// Phase returns the phase of the tick currently executing.
func (s *Simulator) Phase() Phase { return s.phase }

// SetMaxSimTime installs a soft deadline: once current time reaches it the
// simulation ends gracefully, with a warning, the next time Run notices.
func (s *Simulator) SetMaxSimTime(t uint64) {
	s.maxSimTime = t
	s.hasMaxSimTime = true
}

// RegisterAction schedules fn to run during the MainTick phase of time t.
// t must be >= the current time; registering in the past is a runtime
// fatal error (spec §7).
func (s *Simulator) RegisterAction(t uint64, fn Action) *ActionHandle {
	if t < s.currentTime {
		simerr.Fatalf("cannot register action at time %d, current time is %d",
			t, s.currentTime)
	}

	l, ok := s.pending[t]
	if !ok {
		l = list.New()
		s.pending[t] = l
		s.insertTimeKey(t)
	}

	h := &ActionHandle{time: t}
	sa := &scheduledAction{fn: fn, handle: h}
	h.elem = l.PushBack(sa)
	return h
}

func (s *Simulator) insertTimeKey(t uint64) {
	i := sort.Search(len(s.timeKeys), func(i int) bool { return s.timeKeys[i] >= t })
	s.timeKeys = append(s.timeKeys, 0)
	copy(s.timeKeys[i+1:], s.timeKeys[i:])
	s.timeKeys[i] = t
}

// CancelAction removes a previously registered action by identity,
// reporting whether it was still pending.
func (s *Simulator) CancelAction(h *ActionHandle) bool {
	sa := h.elem.Value.(*scheduledAction)
	if sa.removed {
		return false
	}
	sa.removed = true
	if l, ok := s.pending[h.time]; ok {
		l.Remove(h.elem)
	}
	return true
}

// InjectAction appends fn to the injected-action queue, drained at the
// OutOfTick phase of the current tick (or, if called outside of a tick,
// the next tick run at the current time).
func (s *Simulator) InjectAction(fn Action) {
	s.injected.PushBack(fn)
}

// RegisterEndOfSimulationAction queues fn to run once, after Run's main
// loop exits.
func (s *Simulator) RegisterEndOfSimulationAction(fn Action) {
	s.endOfSim.PushBack(fn)
}

// EndSimulation requests a graceful stop: the scheduler finishes the
// current tick, then Run returns.
func (s *Simulator) EndSimulation() {
	s.endRequested = true
}

// SimulationEnded registers fn to be called exactly once, when the
// simulation finishes (normally, by request, or by timeout/error).
func (s *Simulator) SimulationEnded(fn func()) {
	if s.ended {
		fn()
		return
	}
	s.endedSubscribers = append(s.endedSubscribers, fn)
}

// ThrowException records an asynchronous error raised from within a
// scheduled action. It is surfaced synchronously by Tick/Run at the end of
// the tick in which it was thrown, per spec §4.E/§7.
func (s *Simulator) ThrowException(err error, trace string) {
	s.pendingErr = append(s.pendingErr, &simerr.AsyncError{Err: err, Trace: trace})
}

// Reset discards all pending and injected state, completes any pending
// SimulationEnded subscribers, and returns the Simulator to a fresh state
// at time 0 — the explicit-struct equivalent of the source's
// "reset() = drop and create a new instance".
func (s *Simulator) Reset() {
	s.finish()
	*s = *NewSimulator()
}

func (s *Simulator) finish() {
	if s.ended {
		return
	}
	s.ended = true
	for _, fn := range s.endedSubscribers {
		fn()
	}
	s.endedSubscribers = nil
}

// hasWork reports whether there is anything left for Tick to process.
func (s *Simulator) hasWork() bool {
	return len(s.timeKeys) > 0 || s.injected.Len() > 0
}

// Tick executes exactly one iteration of the four-phase event loop,
// advancing current time to the next pending slot (or, if only injected
// actions remain, to the current time). It returns false when there is no
// more work to do.
func (s *Simulator) Tick() (bool, error) {
	if !s.hasWork() {
		return false, nil
	}

	if s.injected.Len() > 0 && (len(s.timeKeys) == 0 || s.timeKeys[0] != s.currentTime) {
		// Force a delta cycle at the current time so injected actions are
		// drained without waiting for an unrelated future pending slot.
		if _, ok := s.pending[s.currentTime]; !ok {
			s.pending[s.currentTime] = list.New()
			s.insertTimeKey(s.currentTime)
		}
	}

	t := s.timeKeys[0]
	s.timeKeys = s.timeKeys[1:]
	pendingList := s.pending[t]
	delete(s.pending, t)
	s.currentTime = t

	s.phase = PhaseBeforeTick
	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosPreTick, Item: t})

	s.phase = PhaseMainTick
	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosStartTick, Item: t})
	for e := pendingList.Front(); e != nil; e = e.Next() {
		sa := e.Value.(*scheduledAction)
		if sa.removed {
			continue
		}
		// Once run, the action is no longer pending for CancelAction.
		sa.removed = true
		sa.fn(s)
	}

	s.phase = PhaseClkStable
	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosClkStable, Item: t})

	s.phase = PhaseOutOfTick
	injected := s.injected
	s.injected = list.New()
	for e := injected.Front(); e != nil; e = e.Next() {
		fn := e.Value.(Action)
		fn(s)
	}
	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosPostTick, Item: t})

	if s.hasMaxSimTime && s.currentTime >= s.maxSimTime {
		fmt.Printf("rzsim: warning: simulation reached max sim time %d, stopping\n", s.maxSimTime)
		s.endRequested = true
	}

	if len(s.pendingErr) > 0 {
		err := s.pendingErr[0]
		s.pendingErr = nil
		s.finish()
		return false, err
	}

	return true, nil
}

// Run drives Tick to completion: until there is no more work, the caller
// requested a graceful stop, or an asynchronous error is surfaced.
func (s *Simulator) Run() error {
	for {
		if s.endRequested {
			break
		}
		more, err := s.Tick()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	s.finish()
	for e := s.endOfSim.Front(); e != nil; e = e.Next() {
		fn := e.Value.(Action)
		fn(s)
	}
	return nil
}
