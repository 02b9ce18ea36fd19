// Package hwmodule implements the hierarchical module model of spec §4.H:
// named port maps, a recursive connectivity-driven Build algorithm that
// discovers and adopts child modules, and the emit hook a textual
// SystemVerilog-style backend would collaborate with.
package hwmodule

import (
	"github.com/sarchlab/rzsim/netlist"
	"github.com/sarchlab/rzsim/simerr"
)

// PortKind distinguishes the three port directions a Module can declare.
type PortKind int

// The three port directions spec §4.H's add_input/add_output/add_in_out
// construct.
const (
	PortInput PortKind = iota
	PortOutput
	PortInOut
)

func (k PortKind) String() string {
	switch k {
	case PortInput:
		return "input"
	case PortOutput:
		return "output"
	case PortInOut:
		return "in_out"
	default:
		return "unknown"
	}
}

// Port is one named port of a Module: Signal carries the inside-the-module
// view signal; for inputs and in-outs, External holds the
// outside-the-module signal the port was built from (spec §4.H: "add_input
// ... cache source separately ... while the returned port-signal is the
// inside-the-module view").
type Port struct {
	Name     string
	Kind     PortKind
	Signal   *netlist.Signal
	External *netlist.Signal
}

// EmitKind selects which of the two textual forms a module's Emit hook
// produces (spec §6 item 3).
type EmitKind int

// The two emission kinds a module may implement.
const (
	EmitInline EmitKind = iota
	EmitInstantiation
)

// Emitter is the optional interface a Module's owner attaches to make it
// collaborate with a textual backend (e.g. a SystemVerilog writer). The
// core does not interpret the returned string; it only routes it.
type Emitter interface {
	Emit(portMap map[string]*netlist.Signal, kind EmitKind) string
}

// Module is a named collection of ports plus the internal signals and
// child modules discovered during Build.
type Module struct {
	name         string
	instanceName string
	parent       *Module
	built        bool

	registry *Registry

	ports     map[string]*Port
	portOrder []string

	internal []*netlist.Signal
	children []*Module

	emitter Emitter
}

// newModule creates an empty, unbuilt module named name, registered with r.
// Modules are always created through Registry.NewModule so Build can
// discover them by the signals they declared as ports.
func newModule(r *Registry, name string) *Module {
	return &Module{
		name:     netlist.SanitizeName(name),
		registry: r,
		ports:    make(map[string]*Port),
	}
}

// Name returns the module's own (pre-uniquification) name.
func (m *Module) Name() string { return m.name }

// InstanceName returns the name Build's uniquifier assigned this module
// within its parent, or its declared name before Build runs (or at the
// root, which is never de-duplicated).
func (m *Module) InstanceName() string {
	if m.instanceName == "" {
		return m.name
	}
	return m.instanceName
}

// Parent returns the module this one was adopted into during Build, or nil
// at the root.
func (m *Module) Parent() *Module { return m.parent }

// SetEmitter attaches the textual-emission hook (spec §6 item 3).
func (m *Module) SetEmitter(e Emitter) { m.emitter = e }

// Emit calls the attached Emitter, or panics if none was set.
func (m *Module) Emit(portMap map[string]*netlist.Signal, kind EmitKind) string {
	if m.emitter == nil {
		simerr.Configf("module %q has no emitter attached", m.name)
	}
	return m.emitter.Emit(portMap, kind)
}

func (m *Module) addPort(name string, kind PortKind, width int, external *netlist.Signal) *Port {
	name = netlist.SanitizeName(name)
	if _, exists := m.ports[name]; exists {
		simerr.Configf("module %q: duplicate port name %q", m.name, name)
	}
	if external != nil && external.Width() != width {
		simerr.Configf("module %q: port %q width %d does not match source %q width %d",
			m.name, name, width, external.Name(), external.Width())
	}

	sig := netlist.NewSignal(m.name+"_"+name, width)
	p := &Port{Name: name, Kind: kind, Signal: sig, External: external}
	m.ports[name] = p
	m.portOrder = append(m.portOrder, name)
	m.registry.registerPort(sig, m)
	return p
}

// AddInput declares a driven-from-outside port: source is the
// outside-the-module signal; the returned signal is the inside view the
// module's own logic should read.
func (m *Module) AddInput(name string, source *netlist.Signal) *netlist.Signal {
	return m.addPort(name, PortInput, source.Width(), source).Signal
}

// AddOutput declares a width-wide port the module's own logic drives; it
// has no external source at declaration time (the caller wires a driver
// internally, via Gets, Combinational, or Sequential).
func (m *Module) AddOutput(name string, width int) *netlist.Signal {
	return m.addPort(name, PortOutput, width, nil).Signal
}

// AddInOut declares a bidirectional port wired to an external net.
func (m *Module) AddInOut(name string, source *netlist.Signal) *netlist.Signal {
	return m.addPort(name, PortInOut, source.Width(), source).Signal
}

// AddInputArray declares one input port per entry of sources, named
// name_0..name_N-1 (N = len(sources)) and as wide as its source, returning
// their inside-view signals in order.
func (m *Module) AddInputArray(name string, sources []*netlist.Signal) []*netlist.Signal {
	out := make([]*netlist.Signal, len(sources))
	for i, src := range sources {
		out[i] = m.AddInput(indexedName(name, i), src)
	}
	return out
}

// AddOutputArray declares count width-wide output ports name_0..name_N-1.
func (m *Module) AddOutputArray(name string, count, width int) []*netlist.Signal {
	out := make([]*netlist.Signal, count)
	for i := range out {
		out[i] = m.AddOutput(indexedName(name, i), width)
	}
	return out
}

// AddInOutArray declares one in-out port per entry of sources, named
// name_0..name_N-1 (N = len(sources)).
func (m *Module) AddInOutArray(name string, sources []*netlist.Signal) []*netlist.Signal {
	out := make([]*netlist.Signal, len(sources))
	for i, src := range sources {
		out[i] = m.AddInOut(indexedName(name, i), src)
	}
	return out
}

func indexedName(base string, i int) string {
	return base + "_" + itoa(i)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// Ports returns the module's own ports in declaration order.
func (m *Module) Ports() []*Port {
	out := make([]*Port, len(m.portOrder))
	for i, name := range m.portOrder {
		out[i] = m.ports[name]
	}
	return out
}

// InternalSignals returns the signals Build discovered as owned by m
// (neither a port of m nor of any other module reached from m).
func (m *Module) InternalSignals() []*netlist.Signal { return append([]*netlist.Signal{}, m.internal...) }

// Children returns the child modules Build adopted under m, in the order
// they were discovered.
func (m *Module) Children() []*Module { return append([]*Module{}, m.children...) }

// Hierarchy returns the path from the root module to m, root first.
func (m *Module) Hierarchy() []*Module {
	if m.parent == nil {
		return []*Module{m}
	}
	return append(m.parent.Hierarchy(), m)
}
