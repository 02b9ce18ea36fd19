package netlist

import (
	"regexp"
	"strings"

	"github.com/sarchlab/rzsim/logic"
	"github.com/sarchlab/rzsim/simerr"
)

// forbiddenNamePattern rejects names that would collide with generated
// emission identifiers or are simply not legal identifiers once sanitized.
var forbiddenNamePattern = regexp.MustCompile(`^[0-9]|[^A-Za-z0-9_]`)

// SanitizeName replaces with '_' every character a downstream textual
// emitter could not use as an identifier, including a leading digit, and
// panics on an empty (or all-whitespace) name. It is the
// single sanitizer referenced by spec §4.H "forbidden names restricted by
// a sanitizer".
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		simerr.Configf("signal/module name must not be empty")
	}
	cleaned := forbiddenNamePattern.ReplaceAllString(name, "_")
	if cleaned != name && forbiddenNamePattern.MatchString(cleaned) {
		// A leading digit got replaced with '_' above; anything still
		// matching here is a character the replace pass can't fix alone.
		simerr.Configf("name %q cannot be sanitized into a legal identifier", name)
	}
	return cleaned
}

// Signal is a named 4-valued logic handle: ownership of (or a shared
// reference to) a Wire, plus the single-source/many-destination connection
// bookkeeping needed for `gets` and conditional assignment (spec §3, §4.C).
type Signal struct {
	name  string
	width int
	wire  *Wire

	assignable bool
	src        *Signal
	dst        map[*Signal]struct{}
}

// NewSignal creates a fresh, assignable, width-wide signal with its own
// wire, initialized to all-x.
func NewSignal(name string, width int) *Signal {
	return &Signal{
		name:       SanitizeName(name),
		width:      width,
		wire:       NewWire(width),
		assignable: true,
		dst:        make(map[*Signal]struct{}),
	}
}

// Const creates an unassignable signal permanently driven to v.
func Const(name string, v logic.Value) *Signal {
	s := NewSignal(name, v.Width())
	s.wire.Put(v)
	s.assignable = false
	return s
}

// Name returns the signal's sanitized name.
func (s *Signal) Name() string { return s.name }

// Width returns the signal's bit width.
func (s *Signal) Width() int { return s.width }

// Wire returns the wire currently backing s. After a `gets` connection or
// wire adoption this may be shared with other signals.
func (s *Signal) Wire() *Wire { return s.wire }

// Value returns the signal's current value.
func (s *Signal) Value() logic.Value { return s.wire.Current() }

// Assignable reports whether a `gets`/conditional assign may target s.
func (s *Signal) Assignable() bool { return s.assignable }

// MarkUnassignable fixes s's source (a constant or a gate/module output);
// Gets and conditional-assign writes to s thereafter are contract
// violations.
func (s *Signal) MarkUnassignable() { s.assignable = false }

// SourceConnection returns the signal currently driving s via Gets, or nil.
func (s *Signal) SourceConnection() *Signal { return s.src }

// Destinations returns every signal currently driven from s via Gets.
func (s *Signal) Destinations() []*Signal {
	out := make([]*Signal, 0, len(s.dst))
	for d := range s.dst {
		out = append(out, d)
	}
	return out
}

// Put writes v directly onto s's wire. It performs no assignability check;
// it is the primitive gates and always-block output ports use to drive
// their own (already-unassignable) outputs.
func (s *Signal) Put(v logic.Value) {
	s.wire.Put(v)
}

// Gets wires s directly to other: s becomes unassignable, and from this
// point on s and other (and everything already downstream of s) share one
// Wire, so a future Put on other's wire is visible to s without any
// listener indirection (spec §4.C connection mode 1).
func (s *Signal) Gets(other *Signal) {
	if s.src != nil {
		simerr.Contractf("signal %q already has a source connection (double gets)", s.name)
	}
	if !s.assignable {
		simerr.Contractf("signal %q is not assignable", s.name)
	}
	if s.width != other.width {
		simerr.Configf("width mismatch connecting %q (%d bits) to %q (%d bits)",
			s.name, s.width, other.name, other.width)
	}

	s.src = other
	other.dst[s] = struct{}{}
	s.assignable = false

	s.adoptWire(other.wire)
}

// adoptWire merges newWire into s and recursively into everything s
// already drives, per the four-step protocol of spec §4.C:
//  1. push newWire's current value onto s's old wire, so any subscriber
//     still attached to the old wire observes the change;
//  2. migrate the old wire's subscribers onto the new wire;
//  3. repoint s at the new wire;
//  4. recurse into every signal s itself drives.
func (s *Signal) adoptWire(newWire *Wire) {
	old := s.wire
	if old == newWire {
		return
	}

	old.Put(newWire.Current())
	newWire.adoptSubscribersFrom(old)
	s.wire = newWire

	for d := range s.dst {
		d.adoptWire(newWire)
	}
}
