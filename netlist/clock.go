package netlist

import (
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/simcore"
)

// NewClockSignal builds a free-running 1-bit Signal that holds 0 until the
// simulation runs, rises at the time it was created (t=0 for a fresh
// Simulator), and then toggles every half of period (scheduler ticks), so
// its rising edges fall on multiples of period, per spec §6 item 1
// ("clock generators"). It is grounded on the teacher's clock-period
// idiom (`1 * sim.GHz` passed into TickingComponent builders), translated
// to rzsim's integer tick time base.
func NewClockSignal(s *simcore.Simulator, name string, period uint64) *Signal {
	clk := NewSignal(name, 1)
	clk.MarkUnassignable()
	clk.Put(logic.Filled(1, logic.Zero))

	simcore.NewClock(s, period, func(high bool) {
		if high {
			clk.Put(logic.FromUint(1, 1))
		} else {
			clk.Put(logic.FromUint(1, 0))
		}
	})

	return clk
}

// Changed subscribes fn to s's stable value-change events, returning an
// unsubscribe handle — the value-change subscription interface of spec §6
// item 4, for external waveform writers.
func (s *Signal) Changed(sim *simcore.Simulator, fn func(prev, new_ logic.Value, time uint64)) *ChangeSubscription {
	id := s.wire.OnStableChange(sim, fn)
	return &ChangeSubscription{wire: s.wire, id: id}
}

// ChangeSubscription is the unsubscribe handle returned by Signal.Changed.
type ChangeSubscription struct {
	wire *Wire
	id   int
}

// Unsubscribe detaches the subscription. Safe to call more than once.
func (c *ChangeSubscription) Unsubscribe() {
	if c == nil || c.wire == nil {
		return
	}
	c.wire.RemoveStableSub(c.id)
	c.wire = nil
}
