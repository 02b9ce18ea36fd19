package always

import (
	"github.com/sarchlab/rzsim/cond"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simcore"
)

type flipFlopConfig struct {
	edge       EdgeKind
	enable     *netlist.Signal
	reset      *netlist.Signal
	resetValue *netlist.Signal
	asyncReset bool
}

// FlipFlopOption configures NewFlipFlop beyond its required clk/q/d triple.
type FlipFlopOption func(*flipFlopConfig)

// WithEnable gates the transfer behind en: the flop only samples d on a
// clock edge where en is 1; otherwise q holds.
func WithEnable(en *netlist.Signal) FlipFlopOption {
	return func(c *flipFlopConfig) { c.enable = en }
}

// WithFlipFlopReset wraps the flop in a synchronous reset to 0, or to
// resetValue if given.
func WithFlipFlopReset(reset *netlist.Signal, resetValue *netlist.Signal) FlipFlopOption {
	return func(c *flipFlopConfig) {
		c.reset = reset
		c.resetValue = resetValue
	}
}

// WithAsyncFlipFlopReset makes a reset installed by WithFlipFlopReset
// asynchronous: it also triggers the flop on its own posedge.
func WithAsyncFlipFlopReset() FlipFlopOption {
	return func(c *flipFlopConfig) { c.asyncReset = true }
}

// WithNegedge makes the flop trigger on the falling edge of clk instead of
// the rising edge.
func WithNegedge() FlipFlopOption {
	return func(c *flipFlopConfig) { c.edge = NegEdge }
}

// NewFlipFlop is the thin q <= d wrapper over Sequential spec §4.G
// describes: a single trigger, a single-assignment body, with enable and
// reset as the only elaborations.
func NewFlipFlop(sched *simcore.Simulator, name string, clk, q, d *netlist.Signal, opts ...FlipFlopOption) *Sequential {
	cfg := &flipFlopConfig{edge: PosEdge}
	for _, o := range opts {
		o(cfg)
	}

	transfer := cond.NewAssign(q, d)
	var body cond.Node = transfer
	if cfg.enable != nil {
		body = cond.NewIf(cond.IfBranch{Cond: cfg.enable, Body: []cond.Node{transfer}})
	}

	b := NewSequentialBuilder().WithTrigger(clk, cfg.edge).WithBody(body)
	if cfg.reset != nil {
		b = b.WithReset(cfg.reset)
		if cfg.resetValue != nil {
			b = b.WithResetValue(q, cfg.resetValue)
		}
		if cfg.asyncReset {
			b = b.WithAsyncReset(true)
		}
	}

	return b.Build(sched, name)
}
