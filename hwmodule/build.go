package hwmodule

import (
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simerr"
)

func (m *Module) portsOfKind(kinds ...PortKind) []*Port {
	want := make(map[PortKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []*Port
	for _, name := range m.portOrder {
		p := m.ports[name]
		if want[p.Kind] {
			out = append(out, p)
		}
	}
	return out
}

func (m *Module) ownInputPort(sig *netlist.Signal) *Port {
	for _, p := range m.portsOfKind(PortInput) {
		if p.Signal == sig {
			return p
		}
	}
	return nil
}

// Build runs the recursive connectivity traversal of spec §4.H: walking
// backward from m's outputs and in-outs along each signal's source
// connection, and forward from m's inputs and in-outs along each signal's
// destinations, adopting any not-yet-built module whose port is
// encountered along the way and claiming every other unowned signal as
// internal to m. Build is idempotent; calling it again on an
// already-built module is a no-op.
//
// The traversal is scoped to Signal connectivity (Gets' src/dst graph);
// Net, the lower-level multi-driver resolution primitive netlist.Net
// implements, sits beneath individual Wires and is not reachable through
// Signal.Destinations, so it never participates in module boundary
// discovery.
func (m *Module) Build() {
	if m.built {
		return
	}
	m.built = true

	visited := make(map[*netlist.Signal]bool)

	for _, p := range m.portsOfKind(PortOutput, PortInOut) {
		m.walkBackward(p.Signal, visited)
	}
	for _, p := range m.portsOfKind(PortInput, PortInOut) {
		m.walkForward(p.Signal, visited)
	}

	m.uniquifyChildren()
}

func (m *Module) adopt(child *Module) {
	if child == m {
		simerr.Configf("module %q cannot contain itself", m.name)
	}
	if child.parent != nil && child.parent != m {
		simerr.Configf("module %q is reachable via two hierarchies (already under %q, also reached from %q)",
			child.name, child.parent.name, m.name)
	}
	if child.parent == m {
		return
	}
	child.parent = m
	m.children = append(m.children, child)
	child.Build()
}

func (m *Module) walkBackward(sig *netlist.Signal, visited map[*netlist.Signal]bool) {
	if visited[sig] {
		return
	}
	visited[sig] = true

	if childMod := m.registry.portModule(sig); childMod != nil && childMod != m {
		m.adopt(childMod)
		for _, cp := range childMod.portsOfKind(PortInput, PortInOut) {
			m.walkBackward(cp.Signal, visited)
		}
		return
	}

	if m.registry.ownerOf(sig) == nil {
		m.internal = append(m.internal, sig)
		m.registry.claim(sig, m)
	}

	if src := sig.SourceConnection(); src != nil {
		m.walkBackward(src, visited)
	}
}

func (m *Module) walkForward(sig *netlist.Signal, visited map[*netlist.Signal]bool) {
	if visited[sig] {
		return
	}
	visited[sig] = true

	if childMod := m.registry.portModule(sig); childMod != nil && childMod != m {
		m.adopt(childMod)
		for _, cp := range childMod.portsOfKind(PortOutput, PortInOut) {
			m.walkForward(cp.Signal, visited)
		}
		return
	}

	if m.registry.ownerOf(sig) == nil {
		m.internal = append(m.internal, sig)
		m.registry.claim(sig, m)
	}

	for _, dst := range sig.Destinations() {
		if p := m.ownInputPort(dst); p != nil {
			simerr.Contractf("module %q: input %q cannot be fed by another input of the same module", m.name, p.Name)
		}
		m.walkForward(dst, visited)
	}
}

// reservedInstanceNames are kept verbatim by the uniquifier instead of
// being de-duplicated with a numeric suffix (spec §4.H "reserved names
// kept").
var reservedInstanceNames = map[string]bool{
	"clk": true,
	"rst": true,
}

func (m *Module) uniquifyChildren() {
	counts := make(map[string]int, len(m.children))
	for _, c := range m.children {
		counts[c.name]++
	}

	used := make(map[string]int, len(m.children))
	for _, c := range m.children {
		if reservedInstanceNames[c.name] || counts[c.name] <= 1 {
			c.instanceName = c.name
			continue
		}
		n := used[c.name]
		used[c.name] = n + 1
		if n == 0 {
			c.instanceName = c.name
		} else {
			c.instanceName = c.name + "_" + itoa(n)
		}
	}
}
