package always

import (
	"fmt"

	"github.com/sarchlab/rzsim/cond"
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simerr"
)

// SSA is the construction-time rewrite spec §4.G's SSA variant of
// Combinational describes: the caller builds a body by remapping every
// real signal through S before assigning to it, producing a fresh
// single-assignment node each call; Build then inserts a phi signal at the
// exit of every If/Case branch point so a value defined on every path
// reaches a single node the caller can finally assign back onto the real
// signal.
//
// This covers the common shape of one (possibly nested) conditional per
// tracked signal, checked for exhaustiveness at every branch point — not a
// general multi-definition dataflow solver. A real signal that is never
// routed through S is untouched by the rewrite.
type SSA struct {
	nextID    int
	ssaToReal map[*netlist.Signal]*netlist.Signal
}

// NewSSA returns an empty SSA rewrite context.
func NewSSA() *SSA {
	return &SSA{ssaToReal: make(map[*netlist.Signal]*netlist.Signal)}
}

// S mints a fresh SSA node for real: a new, uniquely named signal of the
// same width that the returned node's assignments are understood to refer
// to a single definition of real.
func (b *SSA) S(real *netlist.Signal) *netlist.Signal {
	name := fmt.Sprintf("%s__ssa%d", real.Name(), b.nextID)
	b.nextID++
	node := netlist.NewSignal(name, real.Width())
	b.ssaToReal[node] = real
	return node
}

// Build rewrites root, inserting phi signals at every branch point, and
// returns a node that additionally assigns each tracked real its
// phi-resolved final value. Build panics with a configuration error if any
// real an SSA node was minted for is left undefined on some path through a
// branch point that assigns it on another.
func (b *SSA) Build(root cond.Node) cond.Node {
	rewritten, exit, err := b.rewrite(root)
	if err != nil {
		simerr.Configf("%v", err)
	}

	finalAssigns := make([]cond.Node, 0, len(exit))
	for real, ssa := range exit {
		finalAssigns = append(finalAssigns, cond.NewAssign(real, ssa))
	}

	return cond.NewGroup(append([]cond.Node{rewritten}, finalAssigns...)...)
}

func (b *SSA) rewrite(n cond.Node) (cond.Node, map[*netlist.Signal]*netlist.Signal, error) {
	switch t := n.(type) {
	case *cond.Assign:
		if real, ok := b.ssaToReal[t.Receiver]; ok {
			return t, map[*netlist.Signal]*netlist.Signal{real: t.Receiver}, nil
		}
		return t, nil, nil

	case *cond.Group:
		defined := make(map[*netlist.Signal]*netlist.Signal)
		children := make([]cond.Node, len(t.Children))
		for i, c := range t.Children {
			rc, d, err := b.rewrite(c)
			if err != nil {
				return nil, nil, err
			}
			children[i] = rc
			for r, ssa := range d {
				defined[r] = ssa
			}
		}
		return cond.NewGroup(children...), defined, nil

	case *cond.If:
		exhaustive := t.WithElse()
		newBranches := make([]cond.IfBranch, len(exhaustive.Branches))
		branchDefs := make([]map[*netlist.Signal]*netlist.Signal, len(exhaustive.Branches))
		union := make(map[*netlist.Signal]bool)

		for i, br := range exhaustive.Branches {
			g, d, err := b.rewrite(cond.NewGroup(br.Body...))
			if err != nil {
				return nil, nil, err
			}
			branchDefs[i] = d
			newBranches[i] = cond.IfBranch{Cond: br.Cond, Body: []cond.Node{g}}
			for r := range d {
				union[r] = true
			}
		}

		exit := make(map[*netlist.Signal]*netlist.Signal)
		for r := range union {
			for _, d := range branchDefs {
				if _, ok := d[r]; !ok {
					return nil, nil, fmt.Errorf("uninitialized signal: %q is not assigned on every branch of an SSA-rewritten If", r.Name())
				}
			}
			phi := netlist.NewSignal(r.Name()+"__phi", r.Width())
			for i := range newBranches {
				ssa := branchDefs[i][r]
				newBranches[i].Body = append(newBranches[i].Body, cond.NewAssign(phi, ssa))
			}
			exit[r] = phi
		}

		return cond.NewIf(newBranches...), exit, nil

	case *cond.Case:
		items := make([]cond.CaseItem, len(t.Items))
		itemDefs := make([]map[*netlist.Signal]*netlist.Signal, len(t.Items))
		union := make(map[*netlist.Signal]bool)

		for i, it := range t.Items {
			g, d, err := b.rewrite(cond.NewGroup(it.Body...))
			if err != nil {
				return nil, nil, err
			}
			itemDefs[i] = d
			items[i] = cond.CaseItem{Match: it.Match, Body: []cond.Node{g}}
			for r := range d {
				union[r] = true
			}
		}

		defaultGroup, defaultDef, err := b.rewrite(cond.NewGroup(t.Default...))
		if err != nil {
			return nil, nil, err
		}
		for r := range defaultDef {
			union[r] = true
		}

		exit := make(map[*netlist.Signal]*netlist.Signal)
		for r := range union {
			if !t.HasDefault {
				return nil, nil, fmt.Errorf("uninitialized signal: %q is not assigned on every branch of an SSA-rewritten Case (no default)", r.Name())
			}
			if _, ok := defaultDef[r]; !ok {
				return nil, nil, fmt.Errorf("uninitialized signal: %q is not assigned in the default branch of an SSA-rewritten Case", r.Name())
			}
			for i, d := range itemDefs {
				if _, ok := d[r]; !ok {
					return nil, nil, fmt.Errorf("uninitialized signal: %q is not assigned in item %d of an SSA-rewritten Case", r.Name(), i)
				}
			}
			phi := netlist.NewSignal(r.Name()+"__phi", r.Width())
			for i := range items {
				items[i].Body = append(items[i].Body, cond.NewAssign(phi, itemDefs[i][r]))
			}
			defaultGroup = cond.NewGroup(defaultGroup, cond.NewAssign(phi, defaultDef[r]))
			exit[r] = phi
		}

		return &cond.Case{
			Expr:       t.Expr,
			Items:      items,
			Default:    []cond.Node{defaultGroup},
			HasDefault: t.HasDefault,
			Kind:       t.Kind,
			Wildcard:   t.Wildcard,
		}, exit, nil

	default:
		return n, nil, nil
	}
}

// NewCombinationalSSA builds a Combinational block whose body is produced
// by build, rewritten through an SSA context so every S(real) definition
// reaches a single phi-resolved assignment back onto real.
func NewCombinationalSSA(name string, build func(ssa *SSA) cond.Node) *Combinational {
	ssa := NewSSA()
	root := build(ssa)
	rewritten := ssa.Build(root)
	return NewCombinational(name, rewritten)
}
