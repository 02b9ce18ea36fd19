// Package cond is the data model of the conditional-execution AST: the
// behavioral-block building blocks (ConditionalAssign, If/ElseIf/Else,
// Case/CaseZ, Group) of spec §3/§4.F. A Node tree is built once, handed to
// an always.Combinational or always.Sequential for registration, and must
// not be reused across two always blocks (spec §5).
package cond

import (
	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simerr"
)

// ExecContext is how a Node reads drivers and writes receivers. The owning
// always block supplies the closures: ReadDriver resolves either a
// pre-tick override (sequential blocks) or the current input-port value,
// and may additionally run write-after-read guard bookkeeping
// (always.Combinational); WriteReceiver puts onto the corresponding
// output-port wire rather than the original signal directly, since a
// Node's Drivers/Receivers are the *external* signals the always block has
// since mapped onto its own input/output ports (spec §4.F).
type ExecContext struct {
	ReadDriver    func(s *netlist.Signal) logic.Value
	WriteReceiver func(s *netlist.Signal, v logic.Value)
}

// Node is one element of the conditional AST.
type Node interface {
	// Drivers returns the full recursive closure of signals this node (and
	// its children) read.
	Drivers() []*netlist.Signal
	// Receivers returns the full recursive closure of signals this node
	// (and its children) write.
	Receivers() []*netlist.Signal
	// Execute runs the node against ctx.
	Execute(ctx *ExecContext)
}

func dedup(signals []*netlist.Signal) []*netlist.Signal {
	seen := make(map[*netlist.Signal]bool, len(signals))
	out := signals[:0]
	for _, s := range signals {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func collect(nodes []Node, f func(Node) []*netlist.Signal) []*netlist.Signal {
	var out []*netlist.Signal
	for _, n := range nodes {
		out = append(out, f(n)...)
	}
	return dedup(out)
}

func driveAllX(n Node, ctx *ExecContext) {
	for _, r := range n.Receivers() {
		ctx.WriteReceiver(r, logic.Filled(r.Width(), logic.X))
	}
}

// Assign is a single conditional-assignment leaf: receiver <- driver.
type Assign struct {
	Receiver *netlist.Signal
	Driver   *netlist.Signal
}

// NewAssign builds receiver <- driver, checking the widths up front.
func NewAssign(receiver, driver *netlist.Signal) *Assign {
	if receiver.Width() != driver.Width() {
		simerr.Configf("assign width mismatch: %q (%d bits) <- %q (%d bits)",
			receiver.Name(), receiver.Width(), driver.Name(), driver.Width())
	}
	return &Assign{Receiver: receiver, Driver: driver}
}

// Drivers implements Node.
func (a *Assign) Drivers() []*netlist.Signal { return []*netlist.Signal{a.Driver} }

// Receivers implements Node.
func (a *Assign) Receivers() []*netlist.Signal { return []*netlist.Signal{a.Receiver} }

// Execute implements Node. A driver value containing x/z is self-ANDed,
// which (per the 4-valued AND truth table) promotes z to x while leaving
// valid bits untouched — spec §4.F Assign semantics.
func (a *Assign) Execute(ctx *ExecContext) {
	v := ctx.ReadDriver(a.Driver)
	ctx.WriteReceiver(a.Receiver, v.And(v))
}

// Group executes a sequence of children in order.
type Group struct {
	Children []Node
}

// NewGroup builds a Group of the given children, executed in order.
func NewGroup(children ...Node) *Group { return &Group{Children: children} }

// Drivers implements Node.
func (g *Group) Drivers() []*netlist.Signal {
	return collect(g.Children, Node.Drivers)
}

// Receivers implements Node.
func (g *Group) Receivers() []*netlist.Signal {
	return collect(g.Children, Node.Receivers)
}

// Execute implements Node.
func (g *Group) Execute(ctx *ExecContext) {
	for _, c := range g.Children {
		c.Execute(ctx)
	}
}

// IfBranch pairs a condition with a body. A nil Cond denotes an Else
// branch (an always-true condition); it must be the last branch, if
// present.
type IfBranch struct {
	Cond *netlist.Signal
	Body []Node
}

// If evaluates branch conditions in order, executing the first body whose
// condition is 1.
type If struct {
	Branches []IfBranch
}

// NewIf builds an If node, validating that at most one branch is an Else
// and that, if present, it is last.
func NewIf(branches ...IfBranch) *If {
	for i, b := range branches {
		if b.Cond == nil && i != len(branches)-1 {
			simerr.Configf("If: an Else branch must be last")
		}
		if b.Cond != nil && b.Cond.Width() != 1 {
			simerr.Configf("If: condition %q must be 1 bit wide, got %d", b.Cond.Name(), b.Cond.Width())
		}
	}
	return &If{Branches: branches}
}

// WithElse returns n unchanged if it already ends in an Else branch, or a
// copy with an empty Else branch appended. Used by the SSA phi-insertion
// rewrite (always package), which requires every If to be exhaustive.
func (n *If) WithElse() *If {
	if len(n.Branches) > 0 && n.Branches[len(n.Branches)-1].Cond == nil {
		return n
	}
	branches := append(append([]IfBranch{}, n.Branches...), IfBranch{Cond: nil, Body: nil})
	return &If{Branches: branches}
}

func bodiesOf(branches []IfBranch) []Node {
	var all []Node
	for _, b := range branches {
		all = append(all, b.Body...)
	}
	return all
}

// Drivers implements Node: every branch condition, plus every driver read
// by every branch body.
func (n *If) Drivers() []*netlist.Signal {
	var conds []*netlist.Signal
	for _, b := range n.Branches {
		if b.Cond != nil {
			conds = append(conds, b.Cond)
		}
	}
	return dedup(append(conds, collect(bodiesOf(n.Branches), Node.Drivers)...))
}

// Receivers implements Node.
func (n *If) Receivers() []*netlist.Signal {
	return collect(bodiesOf(n.Branches), Node.Receivers)
}

// Execute implements Node.
func (n *If) Execute(ctx *ExecContext) {
	for _, b := range n.Branches {
		if b.Cond == nil {
			for _, c := range b.Body {
				c.Execute(ctx)
			}
			return
		}

		v := ctx.ReadDriver(b.Cond)
		if !v.IsValid() {
			driveAllX(n, ctx)
			return
		}
		if v.Bit(0) == logic.One {
			for _, c := range b.Body {
				c.Execute(ctx)
			}
			return
		}
	}
}

// CaseKind selects the matching discipline of a Case node.
type CaseKind int

// The three case-matching disciplines of spec §4.F.
const (
	CaseNone CaseKind = iota
	CaseUnique
	CasePriority
)

// CaseItem is one `expr matches Value -> Body` arm of a Case.
type CaseItem struct {
	Match logic.Value
	Body  []Node
}

// Case evaluates Expr and dispatches to the first (or, for CaseUnique, the
// only) matching item, per Kind.
type Case struct {
	Expr       *netlist.Signal
	Items      []CaseItem
	Default    []Node
	HasDefault bool
	Kind       CaseKind
	// Wildcard, when true, makes this a CaseZ: a z bit in an item's Match
	// value is a don't-care wildcard instead of a literal bit to compare.
	Wildcard bool
}

// Drivers implements Node.
func (c *Case) Drivers() []*netlist.Signal {
	var bodies []Node
	for _, it := range c.Items {
		bodies = append(bodies, it.Body...)
	}
	bodies = append(bodies, c.Default...)
	return dedup(append([]*netlist.Signal{c.Expr}, collect(bodies, Node.Drivers)...))
}

// Receivers implements Node.
func (c *Case) Receivers() []*netlist.Signal {
	var bodies []Node
	for _, it := range c.Items {
		bodies = append(bodies, it.Body...)
	}
	bodies = append(bodies, c.Default...)
	return collect(bodies, Node.Receivers)
}

func (c *Case) matches(v logic.Value, item CaseItem) bool {
	if item.Match.Width() != v.Width() {
		return false
	}
	for i := 0; i < v.Width(); i++ {
		if c.Wildcard && item.Match.Bit(i) == logic.Z {
			continue
		}
		if item.Match.Bit(i) != v.Bit(i) {
			return false
		}
	}
	return true
}

func runBody(body []Node, ctx *ExecContext) {
	for _, n := range body {
		n.Execute(ctx)
	}
}

// Execute implements Node, per the Kind-specific rules of spec §4.F.
func (c *Case) Execute(ctx *ExecContext) {
	v := ctx.ReadDriver(c.Expr)
	if !v.IsValid() {
		driveAllX(c, ctx)
		return
	}

	var matchedIdx []int
	for i, item := range c.Items {
		if c.matches(v, item) {
			matchedIdx = append(matchedIdx, i)
		}
	}

	switch c.Kind {
	case CaseUnique:
		switch len(matchedIdx) {
		case 1:
			runBody(c.Items[matchedIdx[0]].Body, ctx)
		case 0:
			if c.HasDefault {
				runBody(c.Default, ctx)
			} else {
				driveAllX(c, ctx)
			}
		default:
			driveAllX(c, ctx)
		}
	case CasePriority:
		if len(matchedIdx) > 0 {
			runBody(c.Items[matchedIdx[0]].Body, ctx)
		} else if c.HasDefault {
			runBody(c.Default, ctx)
		} else {
			driveAllX(c, ctx)
		}
	default: // CaseNone
		if len(matchedIdx) > 0 {
			runBody(c.Items[matchedIdx[0]].Body, ctx)
		} else if c.HasDefault {
			runBody(c.Default, ctx)
		}
	}
}
