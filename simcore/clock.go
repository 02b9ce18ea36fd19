package simcore

// Clock is a free-running clock: it holds its current level and its half
// period, in scheduler ticks, and reports every edge through onEdge. It has
// no exported accessors. netlist.NewClockSignal (see netlist/clock.go) uses
// it to drive a Signal; it lives here, decoupled from netlist, because the scheduling
// policy (toggle every half period) is a Simulator concern, grounded on the
// teacher's `1 * sim.GHz` clock-period idiom (samples/passthrough/main.go)
// translated to rzsim's integer tick time base.
type Clock struct {
	sim        *Simulator
	halfPeriod uint64
	onEdge     func(high bool)
	high       bool
}

// NewClock starts a free-running clock with the given full period (in
// ticks, must be even). The clock starts low and its first edge is rising:
// onEdge(true) runs at the current time, then onEdge(false) and
// onEdge(true) alternate every half period, so rising edges fall at the
// current time plus multiples of period.
func NewClock(s *Simulator, period uint64, onEdge func(high bool)) *Clock {
	if period == 0 || period%2 != 0 {
		panic("rzsim: configuration error: clock period must be a positive even number of ticks")
	}

	c := &Clock{sim: s, halfPeriod: period / 2, onEdge: onEdge}
	s.RegisterAction(s.Time(), c.tick)
	return c
}

func (c *Clock) tick(s *Simulator) {
	c.high = !c.high
	c.onEdge(c.high)
	s.RegisterAction(s.Time()+c.halfPeriod, c.tick)
}
