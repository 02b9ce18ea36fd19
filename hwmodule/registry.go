package hwmodule

import "github.com/sarchlab/rzsim/netlist"

// Registry is the explicit, caller-owned store of every module and port
// declared in one hierarchy — the structural counterpart of
// simcore.Simulator: state that used to live in process globals in the
// system this package's algorithm is modelled on now lives in one value
// the embedding program constructs and threads through.
type Registry struct {
	portOf map[*netlist.Signal]*Module
	owner  map[*netlist.Signal]*Module
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		portOf: make(map[*netlist.Signal]*Module),
		owner:  make(map[*netlist.Signal]*Module),
	}
}

// NewModule creates a fresh, unbuilt module tracked by r.
func (r *Registry) NewModule(name string) *Module {
	return newModule(r, name)
}

func (r *Registry) registerPort(sig *netlist.Signal, m *Module) {
	r.portOf[sig] = m
	r.owner[sig] = m
}

// portModule returns the module sig is a port of, or nil.
func (r *Registry) portModule(sig *netlist.Signal) *Module {
	return r.portOf[sig]
}

// ownerOf returns the module that has already claimed sig (as a port or an
// internal signal), or nil if unclaimed.
func (r *Registry) ownerOf(sig *netlist.Signal) *Module {
	return r.owner[sig]
}

func (r *Registry) claim(sig *netlist.Signal, m *Module) {
	r.owner[sig] = m
}
